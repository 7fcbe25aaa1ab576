package output

import (
	"fmt"
	"io"

	figure "github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner.
type BannerOptions struct {
	ShowBanner  bool
	ShowVersion bool
}

// DefaultBannerOptions enables the full ASCII-art banner.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{ShowBanner: true, ShowVersion: true}
}

// PrintBanner writes the "cpg" ASCII-art logo (or, with ShowBanner
// false, a one-line fallback) followed by the version.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}
	if !opts.ShowBanner {
		if opts.ShowVersion {
			fmt.Fprintf(w, "cpg v%s\n", version)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, asciiLogo())
	if opts.ShowVersion {
		fmt.Fprintf(w, "cpg v%s\n", version)
	}
	fmt.Fprintln(w)
}

func asciiLogo() string {
	return figure.NewFigure("cpg", "standard", true).String()
}

// ShouldShowBanner reports whether the full banner should render: never
// when --no-banner is set, otherwise only on a TTY.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	if noBannerFlag {
		return false
	}
	return isTTY
}
