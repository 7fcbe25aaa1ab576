package frontend

import (
	"strings"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/internal/source"
)

func (d *Driver) lowerCompound(unit *fileUnit, block source.Node) *graph.Compound {
	c := &graph.Compound{Base: graph.NewBase("")}
	c.SetLocation(locationOf(block, unit.file.Path))
	d.scopes.EnterScope(scope.KindBlock, "")
	for _, child := range block.Children() {
		if !child.Named() {
			continue
		}
		if s := d.lowerStatement(unit, child); s != nil {
			c.Statements = append(c.Statements, s)
		}
	}
	_ = d.scopes.LeaveScope()
	return c
}

func (d *Driver) lowerStatement(unit *fileUnit, n source.Node) graph.Statement {
	switch n.Kind() {
	case "block":
		return d.lowerCompound(unit, n)
	case "if_statement":
		return d.lowerIf(unit, n)
	case "for_statement":
		return d.lowerFor(unit, n)
	case "return_statement":
		return d.lowerReturn(unit, n)
	case "short_var_declaration":
		return d.lowerShortVarDecl(unit, n)
	case "assignment_statement":
		return d.lowerAssignment(unit, n)
	case "expression_statement":
		return d.lowerExpressionStatement(unit, n)
	case "go_statement":
		return d.lowerGoStatement(unit, n)
	case "break_statement":
		return &graph.Break{Base: graph.NewBase(""), LabelName: labelText(n)}
	case "continue_statement":
		return &graph.Continue{Base: graph.NewBase(""), LabelName: labelText(n)}
	case "var_declaration", "const_declaration":
		return d.lowerLocalVarDecl(unit, n)
	case "labeled_statement":
		return d.lowerLabeled(unit, n)
	case "expression_switch_statement", "type_switch_statement":
		return d.lowerSwitch(unit, n)
	case "comment", ";":
		return nil
	default:
		// Unhandled statement kinds degrade to an expression statement
		// over their raw text rather than aborting the walk, so a
		// partially built subtree never corrupts the rest of the
		// graph.
		return wrapExpressionStatement(d.literal(unit, n, n.Text()))
	}
}

func labelText(n source.Node) string {
	for _, c := range n.Children() {
		if c.Kind() == "identifier" || c.Kind() == "label_name" {
			return c.Text()
		}
	}
	return ""
}

func (d *Driver) lowerIf(unit *fileUnit, n source.Node) *graph.If {
	stmt := &graph.If{Base: graph.NewBase("")}
	stmt.SetLocation(locationOf(n, unit.file.Path))
	if cond, ok := n.ChildByField("condition"); ok {
		stmt.Condition = d.lowerExpression(unit, cond)
	}
	if cons, ok := n.ChildByField("consequence"); ok {
		stmt.Then = d.lowerStatement(unit, cons)
	}
	if alt, ok := n.ChildByField("alternative"); ok {
		stmt.Else = d.lowerStatement(unit, alt)
	}
	return stmt
}

func (d *Driver) lowerFor(unit *fileUnit, n source.Node) graph.Statement {
	loc := locationOf(n, unit.file.Path)
	var clause source.Node
	var body source.Node
	var bareCondition source.Node
	for _, c := range n.Children() {
		switch c.Kind() {
		case "for_clause", "range_clause":
			clause = c
		case "block":
			body = c
		default:
			if c.Named() {
				bareCondition = c
			}
		}
	}

	if clause != nil && clause.Kind() == "range_clause" {
		fe := &graph.ForEach{Base: graph.NewBase("")}
		fe.SetLocation(loc)
		isDefine := strings.Contains(clause.Text()[:minInt(len(clause.Text()), 200)], ":=")
		if right, ok := clause.ChildByField("right"); ok {
			fe.Iterable = d.lowerExpression(unit, right)
		}
		d.scopes.EnterScope(scope.KindLoop, "")
		if left, ok := clause.ChildByField("left"); ok {
			names := d.flattenExpressionList(left)
			if isDefine {
				if len(names) > 0 {
					v := &graph.Variable{Base: graph.NewBase(names[0].Text()), Type: d.registry.Unknown()}
					d.scopes.AddDeclaration(v.GetName(), v, false)
					fe.Key = v
				}
				if len(names) > 1 {
					v := &graph.Variable{Base: graph.NewBase(names[1].Text()), Type: d.registry.Unknown()}
					d.scopes.AddDeclaration(v.GetName(), v, false)
					fe.Value = v
				}
			} else {
				if len(names) > 0 {
					fe.Key = d.lowerExpression(unit, names[0])
				}
				if len(names) > 1 {
					fe.Value = d.lowerExpression(unit, names[1])
				}
			}
		}
		if body != nil {
			fe.Body = d.lowerCompound(unit, body)
		}
		_ = d.scopes.LeaveScope()
		return fe
	}

	f := &graph.For{Base: graph.NewBase("")}
	f.SetLocation(loc)
	d.scopes.EnterScope(scope.KindLoop, "")
	if clause != nil {
		if cond, ok := clause.ChildByField("condition"); ok {
			f.Condition = d.lowerExpression(unit, cond)
		}
		if upd, ok := clause.ChildByField("update"); ok {
			f.Update = d.lowerStatement(unit, upd)
		}
		if init, ok := clause.ChildByField("initializer"); ok {
			f.Init = d.lowerStatement(unit, init)
		}
	} else if bareCondition != nil {
		// While-style `for cond { }` has no for_clause wrapper; the
		// condition is a direct expression child of for_statement.
		f.Condition = d.lowerExpression(unit, bareCondition)
	}
	if body != nil {
		f.Body = d.lowerCompound(unit, body)
	}
	_ = d.scopes.LeaveScope()
	return f
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (d *Driver) lowerReturn(unit *fileUnit, n source.Node) *graph.Return {
	ret := &graph.Return{Base: graph.NewBase("")}
	ret.SetLocation(locationOf(n, unit.file.Path))
	for _, c := range n.Children() {
		if c.Kind() == "expression_list" {
			for _, e := range namedChildren(c) {
				ret.Values = append(ret.Values, d.lowerExpression(unit, e))
			}
			if len(ret.Values) > 1 {
				tuple := &graph.Tuple{Base: graph.NewBase(""), Elements: ret.Values}
				tuple.SetLocation(locationOf(c, unit.file.Path))
				tuple.SetExprType(d.registry.Unknown())
				ret.Values = []graph.Expression{tuple}
			}
			return ret
		}
	}
	for _, c := range namedChildren(n) {
		ret.Values = append(ret.Values, d.lowerExpression(unit, c))
	}
	return ret
}

// lowerShortVarDecl lowers `a, b := f()`: single-valued
// RHS produces one Variable per name; an N>1-valued call RHS produces a
// DeclarationStatement of N variables, each initialised with
// DestructureTuple(index=i, refersTo=rhs).
func (d *Driver) lowerShortVarDecl(unit *fileUnit, n source.Node) *graph.DeclarationStatement {
	stmt := &graph.DeclarationStatement{Base: graph.NewBase("")}
	stmt.SetLocation(locationOf(n, unit.file.Path))

	var left, right []source.Node
	if leftNode, ok := n.ChildByField("left"); ok {
		left = d.flattenExpressionList(leftNode)
	}
	if rightNode, ok := n.ChildByField("right"); ok {
		right = d.flattenExpressionList(rightNode)
	}

	if len(left) > 1 && len(right) == 1 {
		rhs := d.lowerExpression(unit, right[0])
		if ta, ok := rhs.(*graph.TypeAssert); ok && len(left) == 2 {
			ta.Ok = true
		}
		for i, nameNode := range left {
			v := &graph.Variable{Base: graph.NewBase(nameNode.Text())}
			dt := &graph.DestructureTuple{Base: graph.NewBase(""), Index: i, RefersTo: rhs}
			dt.SetExprType(d.registry.Unknown())
			v.Initializer = dt
			v.Type = d.registry.Unknown()
			d.scopes.AddDeclaration(v.GetName(), v, false)
			stmt.Declarations = append(stmt.Declarations, v)
		}
		return stmt
	}

	for i, nameNode := range left {
		v := &graph.Variable{Base: graph.NewBase(nameNode.Text())}
		if i < len(right) {
			v.Initializer = d.lowerExpression(unit, right[i])
			v.Type = v.Initializer.ExprType()
		} else {
			v.Type = d.registry.Unknown()
		}
		d.scopes.AddDeclaration(v.GetName(), v, false)
		stmt.Declarations = append(stmt.Declarations, v)
	}
	return stmt
}

func (d *Driver) lowerLocalVarDecl(unit *fileUnit, n source.Node) *graph.DeclarationStatement {
	stmt := &graph.DeclarationStatement{Base: graph.NewBase("")}
	for _, child := range n.Children() {
		switch child.Kind() {
		case "var_spec", "const_spec":
			stmt.Declarations = append(stmt.Declarations, d.lowerVarSpecLocal(unit, child)...)
		case "var_spec_list", "const_spec_list":
			for _, spec := range child.Children() {
				stmt.Declarations = append(stmt.Declarations, d.lowerVarSpecLocal(unit, spec)...)
			}
		}
	}
	return stmt
}

func (d *Driver) lowerVarSpecLocal(unit *fileUnit, spec source.Node) []*graph.Variable {
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

	var out []*graph.Variable
	for i, nameNode := range names {
		v := &graph.Variable{Base: graph.NewBase(nameNode.Text())}
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
		out = append(out, v)
	}
	return out
}

// lowerAssignment lowers a plain `=` assignment. A multi-valued ASSIGN
// with N>1 LHS targets and a single call RHS lowers to a Compound of N
// binary assignments, each RHS a DestructureTuple.
func (d *Driver) lowerAssignment(unit *fileUnit, n source.Node) graph.Statement {
	var left, right []source.Node
	if leftNode, ok := n.ChildByField("left"); ok {
		left = d.flattenExpressionList(leftNode)
	}
	if rightNode, ok := n.ChildByField("right"); ok {
		right = d.flattenExpressionList(rightNode)
	}
	op := "="
	if opNode, ok := n.ChildByField("operator"); ok {
		op = opNode.Text()
	}

	if len(left) > 1 && len(right) == 1 {
		rhs := d.lowerExpression(unit, right[0])
		compound := &graph.Compound{Base: graph.NewBase("")}
		for i, target := range left {
			dt := &graph.DestructureTuple{Base: graph.NewBase(""), Index: i, RefersTo: rhs}
			dt.SetExprType(d.registry.Unknown())
			assign := &graph.Binary{Base: graph.NewBase(""), Operator: op, LHS: d.lowerExpression(unit, target), RHS: dt}
			stmt := wrapExpressionStatement(assign)
			compound.Statements = append(compound.Statements, stmt)
		}
		return compound
	}

	compound := &graph.Compound{Base: graph.NewBase("")}
	for i, target := range left {
		if i >= len(right) {
			break
		}
		assign := &graph.Binary{Base: graph.NewBase(""), Operator: op, LHS: d.lowerExpression(unit, target), RHS: d.lowerExpression(unit, right[i])}
		compound.Statements = append(compound.Statements, wrapExpressionStatement(assign))
	}
	if len(compound.Statements) == 1 {
		return compound.Statements[0]
	}
	return compound
}

// wrapExpressionStatement lifts an Expression into the statement tree
// (e.g. an assignment or bare call used as a statement) via
// graph.ExpressionStatement, the plumbing node between the
// two trees.
func wrapExpressionStatement(e graph.Expression) graph.Statement {
	return &graph.ExpressionStatement{Base: graph.NewBase(""), Expr: e}
}

func (d *Driver) lowerExpressionStatement(unit *fileUnit, n source.Node) graph.Statement {
	for _, c := range n.Children() {
		return wrapExpressionStatement(d.lowerExpression(unit, c))
	}
	return wrapExpressionStatement(d.lowerExpression(unit, n))
}

// lowerGoStatement lowers to the bare call expression, preserving
// goroutine semantics structurally only.
func (d *Driver) lowerGoStatement(unit *fileUnit, n source.Node) graph.Statement {
	for _, c := range n.Children() {
		if c.Kind() == "call_expression" {
			return wrapExpressionStatement(d.lowerExpression(unit, c))
		}
	}
	return &graph.Compound{Base: graph.NewBase("")}
}

func (d *Driver) lowerLabeled(unit *fileUnit, n source.Node) *graph.Label {
	label := &graph.Label{Base: graph.NewBase("")}
	label.LabelName = labelText(n)
	for _, c := range n.Children() {
		if c.Kind() != "label_name" && c.Kind() != "identifier" {
			label.Target = d.lowerStatement(unit, c)
		}
	}
	return label
}

func (d *Driver) lowerSwitch(unit *fileUnit, n source.Node) *graph.Switch {
	sw := &graph.Switch{Base: graph.NewBase("")}
	sw.SetLocation(locationOf(n, unit.file.Path))
	if cond, ok := n.ChildByField("value"); ok {
		sw.Selector = d.lowerExpression(unit, cond)
	}
	for _, c := range n.Children() {
		switch c.Kind() {
		case "expression_case", "default_case", "type_case":
			sw.Cases = append(sw.Cases, d.lowerCaseClause(unit, c))
		}
	}
	return sw
}

func (d *Driver) lowerCaseClause(unit *fileUnit, n source.Node) graph.Statement {
	isDefault := n.Kind() == "default_case"
	var body []graph.Statement
	var caseExpr graph.Expression
	for _, c := range n.Children() {
		switch {
		case !c.Named():
			continue
		case c.Kind() == "identifier" || c.Kind() == "default":
			continue
		case isStatementKind(c.Kind()):
			body = append(body, d.lowerStatement(unit, c))
		default:
			if caseExpr == nil && !isDefault {
				caseExpr = d.lowerExpression(unit, c)
			}
		}
	}
	if isDefault {
		return &graph.Default{Base: graph.NewBase(""), Body: body}
	}
	return &graph.Case{Base: graph.NewBase(""), CaseExpr: caseExpr, Body: body}
}

func isStatementKind(kind source.NodeKind) bool {
	switch kind {
	case "block", "if_statement", "for_statement", "return_statement", "short_var_declaration",
		"assignment_statement", "expression_statement", "go_statement", "break_statement",
		"continue_statement", "var_declaration", "const_declaration", "labeled_statement",
		"expression_switch_statement", "type_switch_statement":
		return true
	default:
		return false
	}
}
