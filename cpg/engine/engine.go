// Package engine is the project-level driver: given a directory, it
// discovers source files, runs the two-phase frontend over all of
// them, then runs the resolver pipeline over the resulting graph, and
// returns the finished Graph plus any Problems encountered along the
// way. File parsing runs sequentially rather than in a worker pool
// because a single Driver owns one shared scope.Manager and graph.Graph
// and is not safe for concurrent use.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/monoid-privacy/cpg/cpg/frontend"
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/resolver"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/monoid-privacy/cpg/internal/config"
	"github.com/monoid-privacy/cpg/internal/langgo"
	"github.com/monoid-privacy/cpg/internal/output"
	"github.com/monoid-privacy/cpg/internal/source"
)

// Result is the outcome of one project build: the assembled graph, the
// resolver's run order (for diagnostics), the number of files built, and
// the total time the build took.
type Result struct {
	Graph      *graph.Graph
	PassOrder  []string
	FileCount  int
	Elapsed    time.Duration
}

// Build discovers every Go source file under projectRoot, runs the
// frontend over them, then runs the resolver pipeline, and returns the
// assembled graph.
func Build(projectRoot string, cfg config.RunConfig, logger *output.Logger) (*Result, error) {
	start := time.Now()

	descriptor, err := config.ReadModuleDescriptor(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	files, err := discoverFiles(projectRoot, cfg.ExcludeDirs)
	if err != nil {
		return nil, fmt.Errorf("engine: discover files: %w", err)
	}

	registry := types.NewRegistry()
	oracle := langgo.NewTypeOracle()
	driver := frontend.NewDriver(projectRoot, descriptor.Path, registry, oracle)
	parser := langgo.NewParser()

	logger.StartProgress("parsing files", len(files))
	parsed := make([]*source.File, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warning("reading %s: %v", path, err)
			logger.UpdateProgress(1)
			continue
		}
		f, err := parser.ParseFile(path, content)
		if err != nil {
			logger.Warning("parsing %s: %v", path, err)
			logger.UpdateProgress(1)
			continue
		}
		driver.SetCommentMap(path, langgo.NewCommentMap(content))
		parsed = append(parsed, f)
		logger.UpdateProgress(1)
	}
	logger.FinishProgress()

	logger.Progress("building graph from %d files", len(parsed))
	g, err := driver.ProcessFiles(parsed)
	if err != nil {
		return nil, fmt.Errorf("engine: frontend: %w", err)
	}

	pipeline, err := resolver.NewPipeline(cfg.FunctionPointerAmbiguityCap, true)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	ctx := resolver.NewContext(g, driver.Scopes(), registry)
	ctx.AmbiguityCap = cfg.FunctionPointerAmbiguityCap

	logger.Progress("running resolver pipeline: %s", strings.Join(pipeline.Names(), " -> "))
	pipeline.Run(ctx)

	return &Result{
		Graph:     g,
		PassOrder: pipeline.Names(),
		FileCount: len(parsed),
		Elapsed:   time.Since(start),
	}, nil
}

// discoverFiles walks projectRoot for *.go files, skipping any directory
// whose base name appears in excludeDirs.
func discoverFiles(root string, excludeDirs []string) ([]string, error) {
	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && excluded[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
