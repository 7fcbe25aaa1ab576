package frontend

import (
	"strings"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/monoid-privacy/cpg/internal/source"
)

// namedChildren filters out anonymous punctuation/keyword tokens (e.g.
// the commas in an argument_list or expression_list), leaving only the
// grammar-significant children.
func namedChildren(n source.Node) []source.Node {
	var out []source.Node
	for _, c := range n.Children() {
		if c.Named() {
			out = append(out, c)
		}
	}
	return out
}

// lowerExpression dispatches one expression subtree. Unrecognised kinds
// degrade to an untyped Literal of their raw text rather than aborting
// the surrounding statement.
func (d *Driver) lowerExpression(unit *fileUnit, n source.Node) graph.Expression {
	switch n.Kind() {
	case "identifier":
		return d.lowerIdentifier(unit, n)
	case "selector_expression":
		return d.lowerSelector(unit, n)
	case "call_expression":
		return d.lowerCall(unit, n)
	case "binary_expression":
		return d.lowerBinary(unit, n)
	case "unary_expression":
		return d.lowerUnary(unit, n)
	case "parenthesized_expression":
		for _, c := range namedChildren(n) {
			return d.lowerExpression(unit, c)
		}
		return d.literal(unit, n, n.Text())
	case "type_assertion_expression":
		return d.lowerTypeAssertion(unit, n)
	case "type_conversion_expression":
		return d.lowerConversion(unit, n)
	case "composite_literal":
		return d.lowerCompositeLiteral(unit, n)
	case "func_literal":
		return d.lowerFuncLiteral(unit, n)
	case "interpreted_string_literal", "raw_string_literal", "int_literal", "float_literal",
		"imaginary_literal", "rune_literal", "true", "false", "nil":
		return d.literal(unit, n, n.Text())
	default:
		return d.literal(unit, n, n.Text())
	}
}

func (d *Driver) literal(unit *fileUnit, n source.Node, text string) *graph.Literal {
	lit := &graph.Literal{Base: graph.NewBase(text), Value: text}
	lit.SetLocation(locationOf(n, unit.file.Path))
	lit.SetExprType(literalType(unit, n))
	return lit
}

func literalType(unit *fileUnit, n source.Node) types.Type {
	switch n.Kind() {
	case "interpreted_string_literal", "raw_string_literal":
		return unit.typeParser.ParseText("string")
	case "int_literal":
		return unit.typeParser.ParseText("int")
	case "float_literal":
		return unit.typeParser.ParseText("float64")
	case "rune_literal":
		return unit.typeParser.ParseText("rune")
	case "true", "false":
		return unit.typeParser.ParseText("bool")
	default:
		return unit.typeParser.ParseText("<unknown>")
	}
}

// lowerIdentifier resolves a bare name against the active scopes. Import
// local names are not checked here; lowerSelector and lowerCall handle
// the `pkg.Name` form before an operand identifier reaches this point.
func (d *Driver) lowerIdentifier(unit *fileUnit, n source.Node) *graph.DeclaredReference {
	ref := &graph.DeclaredReference{Base: graph.NewBase(n.Text())}
	ref.SetLocation(locationOf(n, unit.file.Path))

	if decl, ok := d.scopes.ResolveReference(n.Text()); ok {
		ref.RefersTo = decl
	}
	ref.SetExprType(d.typeOfDeclaredReference(ref))
	return ref
}

func (d *Driver) typeOfDeclaredReference(ref *graph.DeclaredReference) types.Type {
	switch decl := ref.RefersTo.(type) {
	case *graph.Variable:
		return decl.Type
	case *graph.ParamVariable:
		return decl.Type
	case *graph.Function:
		return decl.Type
	case *graph.Method:
		return decl.Type
	}
	return d.registry.Unknown()
}

// lowerSelector lowers `base.Name`. When base is an identifier matching a
// known import's local name, this is an import-selector reference (its
// FQN is recorded) rather than a Member access.
func (d *Driver) lowerSelector(unit *fileUnit, n source.Node) graph.Expression {
	operand, hasOperand := n.ChildByField("operand")
	field, hasField := n.ChildByField("field")
	if !hasOperand || !hasField {
		return d.literal(unit, n, n.Text())
	}

	if operand.Kind() == "identifier" {
		if importPath, ok := unit.importsByLocalName[operand.Text()]; ok {
			ref := &graph.DeclaredReference{Base: graph.NewBase(field.Text())}
			ref.SetLocation(locationOf(n, unit.file.Path))
			ref.FQN = importPath + "." + field.Text()
			ref.SetExprType(d.registry.Unknown())
			return ref
		}
	}

	m := &graph.Member{Base: graph.NewBase(field.Text())}
	m.SetLocation(locationOf(n, unit.file.Path))
	m.BaseExpr = d.lowerExpression(unit, operand)
	m.SetExprType(d.registry.Unknown())
	return m
}

// lowerCall lowers call_expression: a selector-function callee whose
// operand is an import's local name becomes a plain Call with an
// FQN-carrying callee reference, any other selector-function callee a
// MemberCall, and anything else a plain Call.
func (d *Driver) lowerCall(unit *fileUnit, n source.Node) graph.Expression {
	funcNode, ok := n.ChildByField("function")
	if !ok {
		return d.literal(unit, n, n.Text())
	}
	argsNode, _ := n.ChildByField("arguments")
	var args []graph.Expression
	if argsNode != nil {
		for _, a := range argsNode.Children() {
			if a.Named() {
				args = append(args, d.lowerExpression(unit, a))
			}
		}
	}

	switch funcNode.Text() {
	case "new":
		return d.lowerNew(unit, n, argsNode)
	case "make":
		return d.lowerMake(unit, n, argsNode)
	}

	if funcNode.Kind() == "selector_expression" {
		operand, hasOperand := funcNode.ChildByField("operand")
		field, hasField := funcNode.ChildByField("field")
		if hasOperand && hasField {
			if operand.Kind() == "identifier" {
				if importPath, ok := unit.importsByLocalName[operand.Text()]; ok {
					call := &graph.Call{Base: graph.NewBase(field.Text())}
					call.SetLocation(locationOf(n, unit.file.Path))
					callee := &graph.DeclaredReference{Base: graph.NewBase(field.Text())}
					callee.FQN = importPath + "." + field.Text()
					callee.SetExprType(d.registry.Unknown())
					call.Callee = callee
					call.Arguments = args
					call.SetExprType(d.registry.Unknown())
					return call
				}
			}
			mc := &graph.MemberCall{Base: graph.NewBase(field.Text())}
			mc.SetLocation(locationOf(n, unit.file.Path))
			mc.BaseExpr = d.lowerExpression(unit, operand)
			mc.Arguments = args
			mc.SetExprType(d.registry.Unknown())
			return mc
		}
	}

	call := &graph.Call{Base: graph.NewBase(funcNode.Text())}
	call.SetLocation(locationOf(n, unit.file.Path))
	call.Callee = d.lowerExpression(unit, funcNode)
	call.Arguments = args
	call.SetExprType(d.registry.Unknown())
	return call
}

// lowerNew lowers `new(T)` to a New expression wrapping a Construct of T.
func (d *Driver) lowerNew(unit *fileUnit, n source.Node, argsNode source.Node) *graph.New {
	newExpr := &graph.New{Base: graph.NewBase("new")}
	newExpr.SetLocation(locationOf(n, unit.file.Path))
	var typ types.Type = d.registry.Unknown()
	if argsNode != nil {
		children := namedChildren(argsNode)
		if len(children) > 0 {
			typ = unit.typeParser.ParseText(children[0].Text())
		}
	}
	construct := &graph.Construct{Base: graph.NewBase("")}
	construct.SetExprType(typ)
	newExpr.Initializer = construct
	newExpr.SetExprType(typ)
	return newExpr
}

// lowerMake lowers `make(...)`: a slice/array/channel/map type produces
// an ArrayCreation carrying the size/capacity dimensions; any other type
// degrades to a Construct.
func (d *Driver) lowerMake(unit *fileUnit, n source.Node, argsNode source.Node) graph.Expression {
	if argsNode == nil {
		return d.literal(unit, n, n.Text())
	}
	children := namedChildren(argsNode)
	if len(children) == 0 {
		return d.literal(unit, n, n.Text())
	}
	typeExpr := children[0].Text()
	typ := unit.typeParser.ParseText(typeExpr)

	if strings.HasPrefix(typeExpr, "[]") || strings.HasPrefix(typeExpr, "chan") || strings.HasPrefix(typeExpr, "map[") {
		arr := &graph.ArrayCreation{Base: graph.NewBase("make")}
		arr.SetLocation(locationOf(n, unit.file.Path))
		for _, dim := range children[1:] {
			arr.Dimensions = append(arr.Dimensions, d.lowerExpression(unit, dim))
		}
		arr.SetExprType(typ)
		return arr
	}

	construct := &graph.Construct{Base: graph.NewBase("make")}
	construct.SetLocation(locationOf(n, unit.file.Path))
	for _, dim := range children[1:] {
		construct.Arguments = append(construct.Arguments, d.lowerExpression(unit, dim))
	}
	construct.SetExprType(typ)
	return construct
}

// lowerBinary lowers binary_expression, reading its operator from the
// "operator" field the grammar tags it with.
func (d *Driver) lowerBinary(unit *fileUnit, n source.Node) *graph.Binary {
	b := &graph.Binary{Base: graph.NewBase("")}
	b.SetLocation(locationOf(n, unit.file.Path))
	if opNode, ok := n.ChildByField("operator"); ok {
		b.Operator = opNode.Text()
	}
	if left, ok := n.ChildByField("left"); ok {
		b.LHS = d.lowerExpression(unit, left)
	}
	if right, ok := n.ChildByField("right"); ok {
		b.RHS = d.lowerExpression(unit, right)
	}
	b.SetExprType(d.registry.Unknown())
	return b
}

func (d *Driver) lowerUnary(unit *fileUnit, n source.Node) *graph.Unary {
	u := &graph.Unary{Base: graph.NewBase("")}
	u.SetLocation(locationOf(n, unit.file.Path))
	if opNode, ok := n.ChildByField("operator"); ok {
		u.Operator = opNode.Text()
	}
	if operand, ok := n.ChildByField("operand"); ok {
		u.Operand = d.lowerExpression(unit, operand)
	}
	u.SetExprType(d.registry.Unknown())
	return u
}

// lowerTypeAssertion lowers `v.(T)` to a Cast expression carrying the
// target type. The enclosing short_var_declaration (the
// two-result `v, ok := x.(T)` form) is detected by the caller, which sets
// TypeAssert.Ok; here we only know the one-result shape.
func (d *Driver) lowerTypeAssertion(unit *fileUnit, n source.Node) *graph.TypeAssert {
	ta := &graph.TypeAssert{}
	ta.Base = graph.NewBase("")
	ta.SetLocation(locationOf(n, unit.file.Path))
	if operand, ok := n.ChildByField("operand"); ok {
		ta.Operand = d.lowerExpression(unit, operand)
	}
	var targetType types.Type = d.registry.Unknown()
	if typeNode, ok := n.ChildByField("type"); ok {
		targetType = unit.typeParser.ParseText(typeNode.Text())
	}
	ta.CastType = targetType
	ta.SetExprType(targetType)
	return ta
}

func (d *Driver) lowerConversion(unit *fileUnit, n source.Node) *graph.Cast {
	cast := &graph.Cast{Base: graph.NewBase("")}
	cast.SetLocation(locationOf(n, unit.file.Path))
	var targetType types.Type = d.registry.Unknown()
	if typeNode, ok := n.ChildByField("type"); ok {
		targetType = unit.typeParser.ParseText(typeNode.Text())
	}
	if operand, ok := n.ChildByField("operand"); ok {
		cast.Operand = d.lowerExpression(unit, operand)
	}
	cast.CastType = targetType
	cast.SetExprType(targetType)
	return cast
}

// lowerCompositeLiteral lowers `T{...}` to a Construct whose single
// argument is an InitializerList; identifier keys are treated as
// string-literal field-name keys.
func (d *Driver) lowerCompositeLiteral(unit *fileUnit, n source.Node) *graph.Construct {
	construct := &graph.Construct{Base: graph.NewBase("")}
	construct.SetLocation(locationOf(n, unit.file.Path))

	var typ types.Type = d.registry.Unknown()
	if typeNode, ok := n.ChildByField("type"); ok {
		typ = unit.typeParser.ParseText(typeNode.Text())
		construct.SetName(typeNode.Text())
	}
	construct.SetExprType(typ)

	if body, ok := n.ChildByField("body"); ok {
		il := d.lowerInitializerList(unit, body)
		construct.Arguments = []graph.Expression{il}
	}
	return construct
}

func (d *Driver) lowerInitializerList(unit *fileUnit, body source.Node) *graph.InitializerList {
	il := &graph.InitializerList{Base: graph.NewBase("")}
	il.SetLocation(locationOf(body, unit.file.Path))
	il.SetExprType(d.registry.Unknown())
	for _, el := range namedChildren(body) {
		if el.Kind() == "literal_element" {
			if inner := namedChildren(el); len(inner) == 1 {
				el = inner[0]
			}
		}
		if el.Kind() == "keyed_element" {
			il.Elements = append(il.Elements, d.lowerKeyedElement(unit, el))
			continue
		}
		il.Elements = append(il.Elements, d.lowerExpression(unit, el))
	}
	return il
}

func (d *Driver) lowerKeyedElement(unit *fileUnit, n source.Node) *graph.KeyValue {
	kv := &graph.KeyValue{Base: graph.NewBase("")}
	kv.SetLocation(locationOf(n, unit.file.Path))
	keyNode, hasKey := n.ChildByField("key")
	valueNode, hasValue := n.ChildByField("value")
	if !hasKey || !hasValue {
		children := namedChildren(n)
		if len(children) < 2 {
			kv.SetExprType(d.registry.Unknown())
			return kv
		}
		keyNode, valueNode = children[0], children[len(children)-1]
	}
	if keyNode.Kind() == "literal_element" {
		if inner := namedChildren(keyNode); len(inner) == 1 {
			keyNode = inner[0]
		}
	}
	if valueNode.Kind() == "literal_element" {
		if inner := namedChildren(valueNode); len(inner) == 1 {
			valueNode = inner[0]
		}
	}
	if keyNode.Kind() == "identifier" || keyNode.Kind() == "field_identifier" {
		// Identifier keys in a struct literal name a field; treat the
		// key as a string-literal key rather than a resolvable
		// reference.
		kv.Key = d.literal(unit, keyNode, keyNode.Text())
	} else {
		kv.Key = d.lowerExpression(unit, keyNode)
	}
	kv.Value = d.lowerExpression(unit, valueNode)
	kv.SetExprType(d.registry.Unknown())
	return kv
}

// lowerFuncLiteral lowers an anonymous function to a Lambda wrapping a
// Function with no FQN.
func (d *Driver) lowerFuncLiteral(unit *fileUnit, n source.Node) *graph.Lambda {
	paramsNode, _ := n.ChildByField("parameters")
	resultNode, hasResult := n.ChildByField("result")

	fn := &graph.Function{Base: graph.NewBase("")}
	fn.SetLocation(locationOf(n, unit.file.Path))
	fn.Type = d.buildFunctionType(unit, paramsNode, resultNode, hasResult)
	fn.ReturnTypes = fn.Type.ReturnTypes
	fn.Parameters = d.paramVariables(unit, paramsNode)

	d.scopes.EnterScope(scope.KindFunction, "")
	for _, p := range fn.Parameters {
		d.scopes.AddDeclaration(p.GetName(), p, false)
	}
	if body, ok := n.ChildByField("body"); ok {
		fn.Body = d.lowerCompound(unit, body)
	}
	_ = d.scopes.LeaveScope()

	lambda := &graph.Lambda{Base: graph.NewBase("")}
	lambda.SetLocation(locationOf(n, unit.file.Path))
	lambda.Function = fn
	lambda.SetExprType(fn.Type)
	return lambda
}
