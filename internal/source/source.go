// Package source defines the Parser oracle port the frontend depends on.
// The frontend never imports a concrete parser; it only sees this
// package's interfaces, so a language or parser swap never touches
// cpg/frontend.
//
// internal/langgo provides the one concrete adapter this repo ships,
// built on github.com/smacker/go-tree-sitter. A second, fully general
// parser-oracle implementation for a different source language is out
// of scope here; this package only fixes the contract such an
// implementation would satisfy.
package source

// Position is a zero-based byte offset paired with 1-based line/column,
// matching the fields cpg/graph.Location carries.
type Position struct {
	Byte   uint32
	Line   int
	Column int
}

// NodeKind is an oracle-defined syntax-node category (e.g.
// "function_declaration", "type_declaration"); the frontend switches on
// these string kinds directly.
type NodeKind string

// Node is one syntax node produced by a Parser. It carries no semantic
// meaning of its own — the frontend interprets Kind and walks Children
// to build the CPG.
type Node interface {
	Kind() NodeKind
	Text() string
	Start() Position
	End() Position
	Children() []Node
	// ChildByField returns the syntax node bound to a named field, when
	// the oracle's grammar exposes field names (tree-sitter's field
	// grammar); ok is false when the field is absent or the grammar has
	// no field names.
	ChildByField(name string) (Node, bool)
	// Named reports whether this node is a grammar-significant
	// production rather than anonymous punctuation/keyword trivia (e.g.
	// "{", "}", ","). Frontend tree walks skip unnamed children so
	// statement/declaration lists never pick up stray punctuation nodes.
	Named() bool
}

// File is one parsed source file: its root syntax Node plus the raw
// bytes the node offsets index into (needed to recover text between
// node boundaries, e.g. member-access receiver text).
type File struct {
	Path   string
	Source []byte
	Root   Node
}

// Parser parses one file into a File, or reports a parse failure; the
// engine logs that failure as a warning and skips the file rather than
// aborting the whole project.
type Parser interface {
	ParseFile(path string, content []byte) (*File, error)
}

// CommentMap associates a Node with the doc comment immediately
// preceding it, when the oracle's grammar surfaces comments as their own
// syntax nodes rather than trivia attached to the node they document.
type CommentMap interface {
	CommentFor(n Node) (string, bool)
}

// TypeOracle answers static-type questions about an expression node. It
// may legitimately answer "unknown": some expressions' static type
// cannot be determined without a full type-checker, and the frontend
// must tolerate an oracle that returns unknown.
type TypeOracle interface {
	// TypeOf returns the canonical type-expression text for n (the same
	// grammar cpg/types.Parser.ParseText accepts), or ok=false when the
	// oracle cannot determine one.
	TypeOf(n Node) (expr string, ok bool)
}
