package frontend

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/internal/source"
)

// phaseB walks every non-type top-level declaration of one file into
// statement/expression subtrees, re-entering the package's NameScope
// first.
func (d *Driver) phaseB(unit *fileUnit) {
	d.scopes.ResetToGlobal()
	d.scopes.EnterScope(scope.KindNameScope, unit.namespace.FQN)

	for _, child := range unit.file.Root.Children() {
		switch child.Kind() {
		case "function_declaration":
			d.phaseBFunction(unit, child)
		case "method_declaration":
			d.phaseBMethod(unit, child)
		case "var_declaration", "const_declaration":
			d.phaseBVars(unit, child)
		}
	}

	_ = d.scopes.LeaveScope()
}

func (d *Driver) phaseBFunction(unit *fileUnit, decl source.Node) {
	nameNode, ok := decl.ChildByField("name")
	if !ok {
		return
	}
	name := nameNode.Text()
	paramsNode, _ := decl.ChildByField("parameters")
	resultNode, hasResult := decl.ChildByField("result")

	fn := &graph.Function{Base: graph.NewBase(name), FQN: unit.namespace.FQN + "." + name}
	fn.SetComment(d.commentFor(unit.file.Path, decl))
	fn.SetLocation(locationOf(decl, unit.file.Path))
	fn.Type = d.buildFunctionType(unit, paramsNode, resultNode, hasResult)
	fn.ReturnTypes = fn.Type.ReturnTypes
	fn.Parameters = d.paramVariables(unit, paramsNode)

	d.scopes.EnterScope(scope.KindFunction, "")
	for _, p := range fn.Parameters {
		d.scopes.AddDeclaration(p.GetName(), p, false)
	}
	if body, ok := decl.ChildByField("body"); ok {
		fn.Body = d.lowerCompound(unit, body)
	}
	_ = d.scopes.LeaveScope()

	d.scopes.AddDeclaration(name, fn, false)
	unit.namespace.Functions = append(unit.namespace.Functions, fn)
}

func (d *Driver) phaseBMethod(unit *fileUnit, decl source.Node) {
	nameNode, ok := decl.ChildByField("name")
	if !ok {
		return
	}
	name := nameNode.Text()
	paramsNode, _ := decl.ChildByField("parameters")
	resultNode, hasResult := decl.ChildByField("result")
	receiverNode, hasReceiver := decl.ChildByField("receiver")

	var receiverVar *graph.ParamVariable
	var receiverTypeName string
	if hasReceiver {
		receivers := d.paramVariables(unit, receiverNode)
		if len(receivers) > 0 {
			receiverVar = receivers[0]
		}
		receiverTypeName = receiverBaseTypeName(receiverNode)
	}

	m := &graph.Method{}
	m.Base = graph.NewBase(name)
	m.FQN = unit.namespace.FQN + "." + receiverTypeName + "." + name
	m.SetComment(d.commentFor(unit.file.Path, decl))
	m.SetLocation(locationOf(decl, unit.file.Path))
	m.Type = d.buildFunctionType(unit, paramsNode, resultNode, hasResult)
	m.ReturnTypes = m.Type.ReturnTypes
	m.Parameters = d.paramVariables(unit, paramsNode)
	m.Receiver = receiverVar

	owner, found := d.scopes.GetRecordForName(receiverTypeName)
	var ownerRecord *graph.Record
	if found {
		ownerRecord, _ = owner.(*graph.Record)
	}
	m.Owner = ownerRecord

	enteredRecordScope := false
	if ownerRecord != nil {
		d.scopes.EnterScope(scope.KindRecord, "")
		enteredRecordScope = true
	}
	d.scopes.EnterScope(scope.KindFunction, "")
	if receiverVar != nil {
		d.scopes.AddDeclaration(receiverVar.GetName(), receiverVar, false)
	}
	for _, p := range m.Parameters {
		d.scopes.AddDeclaration(p.GetName(), p, false)
	}
	if body, ok := decl.ChildByField("body"); ok {
		m.Body = d.lowerCompound(unit, body)
	}
	_ = d.scopes.LeaveScope()
	if enteredRecordScope {
		_ = d.scopes.LeaveScope()
	}

	if ownerRecord != nil {
		ownerRecord.Methods = append(ownerRecord.Methods, m)
	}
	// Invariant 2: the method must also be reachable as a value
	// declaration in the package's name scope under its simple name.
	d.scopes.AddDeclaration(name, m, false)
}

func receiverBaseTypeName(receiver source.Node) string {
	for _, p := range receiver.Children() {
		if p.Kind() != "parameter_declaration" {
			continue
		}
		typeNode, ok := p.ChildByField("type")
		if !ok {
			continue
		}
		if typeNode.Kind() == "pointer_type" {
			for _, c := range typeNode.Children() {
				if c.Kind() == "type_identifier" {
					return c.Text()
				}
			}
		}
		if typeNode.Kind() == "type_identifier" {
			return typeNode.Text()
		}
	}
	return ""
}

func (d *Driver) phaseBVars(unit *fileUnit, decl source.Node) {
	for _, child := range decl.Children() {
		switch child.Kind() {
		case "var_spec", "const_spec":
			d.phaseBVarSpec(unit, child)
		case "var_spec_list", "const_spec_list":
			for _, spec := range child.Children() {
				if spec.Kind() == "var_spec" || spec.Kind() == "const_spec" {
					d.phaseBVarSpec(unit, spec)
				}
			}
		}
	}
}

func (d *Driver) phaseBVarSpec(unit *fileUnit, spec source.Node) {
	var names []source.Node
	for _, c := range spec.Children() {
		if c.Kind() == "identifier" {
			names = append(names, c)
		}
	}

	typeNode, hasType := spec.ChildByField("type")

	var initializers []source.Node
	if valueNode, ok := spec.ChildByField("value"); ok {
		initializers = d.flattenExpressionList(valueNode)
	}

	for i, nameNode := range names {
		v := &graph.Variable{Base: graph.NewBase(nameNode.Text())}
		v.SetLocation(locationOf(spec, unit.file.Path))
		if hasType {
			v.Type = unit.typeParser.ParseText(typeNode.Text())
		}
		if i < len(initializers) {
			v.Initializer = d.lowerExpression(unit, initializers[i])
			if !hasType {
				v.Type = v.Initializer.ExprType()
			}
		}
		if v.Type == nil {
			v.Type = d.registry.Unknown()
		}
		d.scopes.AddDeclaration(v.GetName(), v, false)
		unit.namespace.Variables = append(unit.namespace.Variables, v)
	}
}

// flattenExpressionList returns the comma-separated sub-expressions of
// an expression_list node, or a single-element slice when n is already
// one expression.
func (d *Driver) flattenExpressionList(n source.Node) []source.Node {
	if n.Kind() != "expression_list" {
		return []source.Node{n}
	}
	return namedChildren(n)
}
