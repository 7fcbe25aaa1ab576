// Package types implements the CPG type system: parsing of source-language
// type expressions into a small closed set of type variants, and interning
// of those variants so that structurally equal types share one instance.
package types

import "strings"

// PointerOrigin distinguishes a pointer type introduced by `*T` from one
// introduced by an array/slice `[]T`, since both lower to PointerType.
type PointerOrigin int

const (
	PointerOriginPointer PointerOrigin = iota
	PointerOriginArray
)

// Type is the closed set of CPG type variants. Exactly one field set
// (recorded by Kind) is populated; Type values are produced only by a
// Registry and are safe to compare by pointer identity once interned.
type Type interface {
	// Kind identifies which variant this is.
	Kind() Kind
	// CanonicalName is the interning key: two types are equal iff their
	// CanonicalName values are equal. FunctionType's name encodes full
	// signature equality; every other variant follows the same
	// uniform-dedup-key rule.
	CanonicalName() string
}

type Kind int

const (
	KindObject Kind = iota
	KindPointer
	KindFunction
	KindTuple
	KindUnknown
	KindMissing
)

// ObjectType is a named type: a built-in (bool, int, string, ...), a
// fully-qualified record type, or a generic built-in shell such as "map"
// or "chan" carrying generic arguments.
type ObjectType struct {
	Name     string // FQN, or a built-in name
	Generics []Type // e.g. [K, V] for "map", [T] for "chan"
}

func (o *ObjectType) Kind() Kind { return KindObject }

func (o *ObjectType) CanonicalName() string {
	if len(o.Generics) == 0 {
		return o.Name
	}
	parts := make([]string, len(o.Generics))
	for i, g := range o.Generics {
		parts[i] = g.CanonicalName()
	}
	return o.Name + "<" + strings.Join(parts, ",") + ">"
}

// PointerType is `*T` (origin POINTER) or `[]T` (origin ARRAY).
type PointerType struct {
	ElementType Type
	Origin      PointerOrigin
}

func (p *PointerType) Kind() Kind { return KindPointer }

func (p *PointerType) CanonicalName() string {
	if p.Origin == PointerOriginArray {
		return "[]" + p.ElementType.CanonicalName()
	}
	return "*" + p.ElementType.CanonicalName()
}

// FunctionType represents `func(P1, ...) R` or `func(P1, ...) (R1, ...)`.
// Two FunctionTypes are equal iff their canonical names are equal.
type FunctionType struct {
	Parameters  []Type
	ReturnTypes []Type
}

func (f *FunctionType) Kind() Kind { return KindFunction }

// CanonicalName renders:
//
//	func(<comma-joined-parameter-type-names>) [ " " T | " (" T1, T2, ... ")" ]
//
// Parameter names are joined with "," and result names with ", ".
func (f *FunctionType) CanonicalName() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.CanonicalName()
	}
	name := "func(" + strings.Join(params, ",") + ")"
	switch len(f.ReturnTypes) {
	case 0:
		return name
	case 1:
		return name + " " + f.ReturnTypes[0].CanonicalName()
	default:
		rets := make([]string, len(f.ReturnTypes))
		for i, r := range f.ReturnTypes {
			rets[i] = r.CanonicalName()
		}
		return name + " (" + strings.Join(rets, ", ") + ")"
	}
}

// TupleType is the ordered element-type list of a multi-valued expression
// (e.g. the static type of a function call with N>1 results).
type TupleType struct {
	ElementTypes []Type
}

func (t *TupleType) Kind() Kind { return KindTuple }

func (t *TupleType) CanonicalName() string {
	parts := make([]string, len(t.ElementTypes))
	for i, e := range t.ElementTypes {
		parts[i] = e.CanonicalName()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// UnknownType marks a type the oracle could not determine; distinct from
// MissingType, which marks a type expression that was never supplied.
type UnknownType struct{}

func (UnknownType) Kind() Kind           { return KindUnknown }
func (UnknownType) CanonicalName() string { return "<unknown>" }

// MissingType marks the absence of a type expression entirely (e.g. an
// untyped Problem node).
type MissingType struct{}

func (MissingType) Kind() Kind           { return KindMissing }
func (MissingType) CanonicalName() string { return "<missing>" }

// BuiltinNames is the source language's predeclared type identifiers.
var BuiltinNames = map[string]bool{
	"bool": true, "byte": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "float32": true, "float64": true,
	"complex64": true, "complex128": true, "rune": true, "string": true,
	"uintptr": true, "error": true,
}
