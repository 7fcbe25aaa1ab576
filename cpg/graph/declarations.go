package graph

import "github.com/monoid-privacy/cpg/cpg/types"

// RecordKind distinguishes the three declared-type shapes the source
// language has: struct, interface, or type alias.
type RecordKind int

const (
	RecordStruct RecordKind = iota
	RecordInterface
	RecordTypeAlias
)

// TranslationUnit is the graph anchor for a single source file.
type TranslationUnit struct {
	Base
	File       string
	Namespaces []*Namespace
	Includes   []*Include
}

// Namespace corresponds to a package; its identity is a fully-qualified
// name and it is shared across files declaring the same package.
type Namespace struct {
	Base
	FQN       string
	Records   []*Record
	Functions []*Function
	Variables []*Variable
	Includes  []*Include
}

// Record is a struct, interface, or type-alias declaration. Two records
// with identical FQNs declared across files are merged into one
// declaration.
type Record struct {
	Base
	FQN    string // module-path/package.Name
	Kind   RecordKind
	Fields []*Field
	Methods []*Method

	// SuperTypes are the record's extends/implements/embeds list as
	// written in source: the interfaces an interface embeds. Fields a
	// struct embeds are kept in EmbeddedFields instead.
	SuperTypes []types.Type
	// SuperTypeDeclarations holds the declared Records that SuperTypes
	// name, filled by resolver Pass 1 (the embedded-interface case).
	SuperTypeDeclarations []*Record

	// ImplementedInterfaces is populated by resolver Pass 1
	// (ResolveInterfaceImplementations).
	ImplementedInterfaces []types.Type

	// AliasOf is set when Kind == RecordTypeAlias: the aliased type,
	// carried as an explicit field rather than synthesized as a fake
	// one-parameter function.
	AliasOf types.Type

	// EmbeddedFields lists the fields declared by type only (no name);
	// their members are promoted onto this record by resolver Pass 2.
	EmbeddedFields []*Field

	// RequiredMethods holds an interface's method-set, keyed by simple
	// name, as the signature each implementer must satisfy (resolver
	// Pass 1). Empty for struct and type-alias records.
	RequiredMethods map[string]*types.FunctionType
}

// Function is a top-level function declaration.
type Function struct {
	Base
	FQN        string
	Parameters []*ParamVariable
	ReturnTypes []types.Type
	Type       *types.FunctionType // interned function-pointer type of this function
	Body       *Compound
}

// Method is a Function with a Receiver variable.
//
// Invariant 2: a Method must be reachable both from its owning Record
// (via Methods) and from the Record's enclosing name scope's value
// declarations (as a function-typed value) — the frontend/scope-manager
// wiring that guarantees this lives in cpg/frontend and cpg/scope, not
// here; this type only carries the data.
type Method struct {
	Function
	Receiver *ParamVariable
	Owner    *Record
}

// ParamVariable is a function/method parameter.
type ParamVariable struct {
	Base
	Type             types.Type
	PossibleSubTypes []types.Type
}

// Variable is a local or package-level variable declaration.
type Variable struct {
	Base
	Type             types.Type
	Initializer      Expression
	PossibleSubTypes []types.Type
}

// Field is a struct/interface member declaration.
type Field struct {
	Base
	Type             types.Type
	Embedded         bool // true for a field declared by type only (no name)
	PossibleSubTypes []types.Type
}

// AddPossibleSubType is shared by the declaration kinds that carry a
// static Type and can be widened by the resolver's interface-subtyping
// step. Implemented per-type below since these structs do
// not share a common embed the way Expression variants share `typed`.
func (v *Variable) AddPossibleSubType(st types.Type) {
	v.PossibleSubTypes = addSubType(v.PossibleSubTypes, st)
}

func (p *ParamVariable) AddPossibleSubType(st types.Type) {
	p.PossibleSubTypes = addSubType(p.PossibleSubTypes, st)
}

func (f *Field) AddPossibleSubType(st types.Type) {
	f.PossibleSubTypes = addSubType(f.PossibleSubTypes, st)
}

func addSubType(existing []types.Type, st types.Type) []types.Type {
	for _, e := range existing {
		if e.CanonicalName() == st.CanonicalName() {
			return existing
		}
	}
	return append(existing, st)
}

// Include represents an import. Its Name is chosen from the import's
// local alias, the package's self-reported name, or the last path
// segment, in that priority.
type Include struct {
	Base
	ImportPath string
}

// Problem marks a subtree the frontend could not fully construct (e.g.
// when Phase A fails for the owning file); it never corrupts the rest
// of the graph.
type Problem struct {
	Base
	Reason string
}

// Declaration is implemented by every declaration-kind node.
type Declaration interface {
	Node
	declTag()
}

func (*TranslationUnit) declTag() {}
func (*Namespace) declTag()       {}
func (*Record) declTag()          {}
func (*Function) declTag()        {}
func (*Method) declTag()          {}
func (*ParamVariable) declTag()   {}
func (*Variable) declTag()        {}
func (*Field) declTag()           {}
func (*Include) declTag()         {}
func (*Problem) declTag()         {}
