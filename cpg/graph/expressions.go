package graph

import "github.com/monoid-privacy/cpg/cpg/types"

// Expression is implemented by every expression-kind node.
type Expression interface {
	Node
	exprTag()
	ExprType() types.Type
	SetExprType(types.Type)
}

// typed is embedded by every Expression variant to carry its static type
// alongside the shared Base header.
type typed struct {
	Type types.Type

	// PossibleSubTypes is populated by the resolver's interface-subtyping
	// widening step for any expression whose static type is an interface
	// that Pass 1 found struct implementers for. Empty when Type is not
	// such an interface.
	PossibleSubTypes []types.Type
}

func (t *typed) ExprType() types.Type      { return t.Type }
func (t *typed) SetExprType(ty types.Type) { t.Type = ty }

// AddPossibleSubType unions st into PossibleSubTypes, skipping duplicates
// by canonical name.
func (t *typed) AddPossibleSubType(st types.Type) {
	for _, existing := range t.PossibleSubTypes {
		if existing.CanonicalName() == st.CanonicalName() {
			return
		}
	}
	t.PossibleSubTypes = append(t.PossibleSubTypes, st)
}

// Literal is a literal value (string, number, bool, nil, ...).
type Literal struct {
	Base
	typed
	Value interface{}
}

// DeclaredReference is a name reference that may resolve to a
// declaration via RefersTo. RefersTo is nil until the resolver sets it
// (or permanently, if resolution never succeeds).
type DeclaredReference struct {
	Base
	typed
	FQN      string // fully-qualified name, when known (e.g. import selector)
	RefersTo Node
}

// Member is `base.Name` where base is not an imported package selector.
type Member struct {
	Base
	typed
	BaseExpr Expression
	MemberOf Node // resolved Field/Variable/enum-entry, once Pass 3 runs
}

// MemberCall is `base.m(args...)`.
type MemberCall struct {
	Base
	typed
	BaseExpr  Expression
	Arguments []Expression
	Invokes   []*Function // candidate callees once resolved
}

// Call is a plain `f(args...)` call.
type Call struct {
	Base
	typed
	Callee    Expression
	Arguments []Expression
	Invokes   []*Function
}

// Binary is a binary operator expression.
type Binary struct {
	Base
	typed
	Operator string
	LHS      Expression
	RHS      Expression
}

// Unary is a unary operator expression.
type Unary struct {
	Base
	typed
	Operator string
	Operand  Expression
}

// Cast is an explicit conversion or type assertion, carrying the target
// type.
type Cast struct {
	Base
	typed
	CastType types.Type
	Operand  Expression
}

// TypeAssert is retained as a distinct node for call sites that need to
// distinguish a true type assertion from an explicit conversion, even
// though both lower through Cast per the frontend contract; TypeAssert
// wraps a Cast so existing Cast-based traversals still see it.
type TypeAssert struct {
	Cast
	Ok bool // true for the two-result `v, ok := x.(T)` form
}

// New is `new T`; its Initializer is a Construct of type T.
type New struct {
	Base
	typed
	Initializer *Construct
}

// ArrayCreation is `make([]T, n)` / `make([]T, n, cap)`.
type ArrayCreation struct {
	Base
	typed
	Dimensions []Expression
}

// Construct is a composite-literal/make-style construction of a named
// type, taking an InitializerList argument for composite literals.
type Construct struct {
	Base
	typed
	Arguments []Expression
}

// InitializerList is the `{ ... }` element list of a composite literal.
type InitializerList struct {
	Base
	typed
	Elements []Expression // Expression or *KeyValue
}

// KeyValue is one `key: value` pair inside an InitializerList. Identifier
// keys are treated as string-literal field-name keys.
type KeyValue struct {
	Base
	typed
	Key   Expression
	Value Expression
}

// Tuple wraps N>1 expressions produced by a multi-valued return.
type Tuple struct {
	Base
	typed
	Elements []Expression
}

// DestructureTuple denotes projection of one element from a
// tuple-producing expression.
type DestructureTuple struct {
	Base
	typed
	Index     int
	RefersTo  Expression // the tuple-producing expression (e.g. a Call)
}

// Lambda wraps an anonymous Function literal: a function literal is
// lowered as an anonymous Function wrapped in a Lambda expression.
type Lambda struct {
	Base
	typed
	Function *Function
}

func (*Literal) exprTag()           {}
func (*DeclaredReference) exprTag() {}
func (*Member) exprTag()            {}
func (*MemberCall) exprTag()        {}
func (*Call) exprTag()              {}
func (*Binary) exprTag()            {}
func (*Unary) exprTag()             {}
func (*Cast) exprTag()              {}
func (*New) exprTag()               {}
func (*ArrayCreation) exprTag()     {}
func (*Construct) exprTag()         {}
func (*InitializerList) exprTag()   {}
func (*KeyValue) exprTag()          {}
func (*Tuple) exprTag()             {}
func (*DestructureTuple) exprTag()  {}
func (*Lambda) exprTag()            {}
