// Package graph implements the code property graph's node/edge model:
// the closed set of declaration, statement, expression, and type node
// variants, and the AST/DFG/refers-to/implements/super-classes edges
// that connect them.
//
// Node kinds form a closed algebraic set and are represented as a
// common header struct (Base) embedded in each variant, rather than a
// deep class hierarchy, so each declaration/statement/expression kind
// stays an independently walkable struct instead of one
// struct-of-everything with unused fields per kind.
package graph

import "github.com/google/uuid"

// Location records a node's source position: file, byte range, and
// start/end line/column.
type Location struct {
	File        string
	StartByte   uint32
	EndByte     uint32
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Node is implemented by every declaration, statement, and expression
// variant. It exposes the identity/name/location/comment header every
// node carries.
type Node interface {
	ID() string
	GetName() string
	SetName(string)
	GetLocation() *Location
	SetLocation(*Location)
	GetComment() string
	SetComment(string)
	GetLanguage() string
}

// Base is the common header embedded by every concrete node variant.
type Base struct {
	id       string
	Name     string
	Location *Location
	Comment  string
	Language string
}

// NewBase creates a Base with a fresh stable identity.
func NewBase(name string) Base {
	return Base{id: uuid.NewString(), Name: name, Language: "go"}
}

func (b *Base) ID() string               { return b.id }
func (b *Base) GetName() string          { return b.Name }
func (b *Base) SetName(n string)         { b.Name = n }
func (b *Base) GetLocation() *Location   { return b.Location }
func (b *Base) SetLocation(l *Location)  { b.Location = l }
func (b *Base) GetComment() string       { return b.Comment }
func (b *Base) SetComment(c string)      { b.Comment = c }
func (b *Base) GetLanguage() string      { return b.Language }
