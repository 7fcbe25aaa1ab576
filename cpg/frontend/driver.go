// Package frontend implements the per-project driver: Phase A builds
// record skeletons from every parsed file, Phase B walks the remaining
// top-level declarations into statement and expression subtrees.
package frontend

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/monoid-privacy/cpg/internal/source"
)

// Driver is the per-project frontend. One Driver processes every file of
// a single project; it is not safe for concurrent use.
type Driver struct {
	projectRoot string
	modulePath  string

	registry *types.Registry
	oracle   source.TypeOracle
	comments map[string]source.CommentMap // file path -> comment map

	scopes *scope.Manager
	graph  *graph.Graph

	// packageNameByImportPath records each in-project package's
	// self-reported name (the identifier after `package`), keyed by its
	// import path, so an import's local name can be resolved precisely
	// (alias, then self-reported name, then last path segment).
	packageNameByImportPath map[string]string

	// fileUnits carries Phase A output forward to Phase B, keyed by
	// file path.
	fileUnits map[string]*fileUnit
}

// fileUnit is one file's Phase A output plus the bookkeeping Phase B
// needs to resume walking it.
type fileUnit struct {
	file      *source.File
	tu        *graph.TranslationUnit
	namespace *graph.Namespace
	importsByLocalName map[string]string // local name (alias or inferred) -> import path
	typeParser *types.Parser
}

// NewDriver creates a frontend driver for one project.
func NewDriver(projectRoot, modulePath string, registry *types.Registry, oracle source.TypeOracle) *Driver {
	return &Driver{
		projectRoot:             projectRoot,
		modulePath:              modulePath,
		registry:                registry,
		oracle:                  oracle,
		comments:                make(map[string]source.CommentMap),
		scopes:                  scope.NewManager(),
		graph:                   graph.NewGraph(),
		packageNameByImportPath: make(map[string]string),
		fileUnits:               make(map[string]*fileUnit),
	}
}

// SetCommentMap registers the comment map for one file; the frontend
// consults it while lowering each declaration.
func (d *Driver) SetCommentMap(path string, cm source.CommentMap) {
	d.comments[path] = cm
}

// Scopes returns the project's scope Manager. By the time ProcessFiles
// returns, every package NameScope it reactivated across files still
// holds the full set of that package's Function/Variable declarations,
// which callers that need to resolve cross-file references can reuse
// directly instead of rebuilding a scope manager from the graph.
func (d *Driver) Scopes() *scope.Manager {
	return d.scopes
}

// ProcessFiles runs Phase A over every file, then Phase B over every
// file, and returns the resulting graph. This mirrors the "first call
// ... Phase A ... subsequent per-file call ... Phase B" driver contract
// with both phases run eagerly for the whole project, since this engine
// has no incremental re-analysis requirement.
func (d *Driver) ProcessFiles(files []*source.File) (*graph.Graph, error) {
	for _, f := range files {
		if err := d.phaseA(f); err != nil {
			d.graph.AddProblem(&graph.Problem{Base: graph.NewBase(f.Path), Reason: err.Error()})
		}
	}
	for _, f := range files {
		if unit, ok := d.fileUnits[f.Path]; ok {
			d.phaseB(unit)
		}
	}
	return d.graph, nil
}

// importPathForDir derives an in-project import path from a file's
// directory: the module path joined with the directory's path relative
// to the project root.
func (d *Driver) importPathForDir(filePath string) string {
	dir := filepath.Dir(filePath)
	rel, err := filepath.Rel(d.projectRoot, dir)
	if err != nil || rel == "." {
		return d.modulePath
	}
	return d.modulePath + "/" + filepath.ToSlash(rel)
}

func lastSegment(importPath string) string {
	parts := strings.Split(importPath, "/")
	return parts[len(parts)-1]
}

func (d *Driver) commentFor(path string, n source.Node) string {
	cm, ok := d.comments[path]
	if !ok {
		return ""
	}
	text, ok := cm.CommentFor(n)
	if !ok {
		return ""
	}
	return text
}

func locationOf(n source.Node, file string) *graph.Location {
	start, end := n.Start(), n.End()
	return &graph.Location{
		File:        file,
		StartByte:   start.Byte,
		EndByte:     end.Byte,
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf("frontend: "+format, args...)
}
