// Package config loads the ambient configuration the engine needs
// before it can build a graph: the project's module descriptor (its
// module path, for FQN construction), an optional YAML run-configuration
// file, and environment variables for secrets/toggles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModuleDescriptor is the subset of a go.mod the engine needs: the
// module path every FQN in the graph is rooted under, and the
// declared Go version (informational only).
type ModuleDescriptor struct {
	Path      string
	GoVersion string
}

// ReadModuleDescriptor parses projectRoot/go.mod. When go.mod is
// missing, it falls back to naming the module after the root directory's
// base name, so a directory of loose files can still be analyzed.
func ReadModuleDescriptor(projectRoot string) (*ModuleDescriptor, error) {
	goModPath := filepath.Join(projectRoot, "go.mod")
	content, err := os.ReadFile(goModPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fallbackDescriptor(projectRoot), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", goModPath, err)
	}

	var path, goVersion string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "module "):
			if parts := strings.Fields(line); len(parts) >= 2 {
				path = parts[1]
			}
		case strings.HasPrefix(line, "go "):
			if parts := strings.Fields(line); len(parts) >= 2 {
				goVersion = parts[1]
			}
		}
	}

	if path == "" {
		return fallbackDescriptor(projectRoot), nil
	}
	return &ModuleDescriptor{Path: path, GoVersion: goVersion}, nil
}

func fallbackDescriptor(projectRoot string) *ModuleDescriptor {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	return &ModuleDescriptor{Path: filepath.Base(abs)}
}
