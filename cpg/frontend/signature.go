package frontend

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/monoid-privacy/cpg/internal/source"
)

// paramInfo is one parsed parameter_declaration: a name (possibly
// blank, for an unnamed parameter) and its parsed type.
type paramInfo struct {
	name string
	typ  types.Type
}

// extractParams expands each parameter_declaration into one entry per
// name: a parameter_declaration may name more than
// one parameter before its shared type ("a, b int"), or name none at
// all ("func(int, string)").
func (d *Driver) extractParams(unit *fileUnit, paramList source.Node) []paramInfo {
	if paramList == nil {
		return nil
	}
	var out []paramInfo
	for _, param := range paramList.Children() {
		if param.Kind() != "parameter_declaration" && param.Kind() != "variadic_parameter_declaration" {
			continue
		}
		typeNode, hasType := param.ChildByField("type")
		var typ types.Type
		if hasType {
			typ = unit.typeParser.ParseText(typeNode.Text())
		} else {
			typ = d.registry.Unknown()
		}

		var names []string
		for _, child := range param.Children() {
			if child.Kind() == "identifier" {
				names = append(names, child.Text())
			}
		}
		if len(names) == 0 {
			out = append(out, paramInfo{typ: typ})
			continue
		}
		for _, n := range names {
			out = append(out, paramInfo{name: n, typ: typ})
		}
	}
	return out
}

// extractReturnTypes parses a function's result field, which may be
// absent (no return values), a single type expression, or a
// parameter_list of (possibly named) return types.
func (d *Driver) extractReturnTypes(unit *fileUnit, result source.Node, hasResult bool) []types.Type {
	if !hasResult {
		return nil
	}
	if result.Kind() == "parameter_list" {
		var out []types.Type
		for _, p := range d.extractParams(unit, result) {
			out = append(out, p.typ)
		}
		return out
	}
	return []types.Type{unit.typeParser.ParseText(result.Text())}
}

// buildFunctionType constructs the interned FunctionType for a
// signature.
func (d *Driver) buildFunctionType(unit *fileUnit, paramList source.Node, result source.Node, hasResult bool) *types.FunctionType {
	params := d.extractParams(unit, paramList)
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		paramTypes[i] = p.typ
	}
	returnTypes := d.extractReturnTypes(unit, result, hasResult)

	ft := &types.FunctionType{Parameters: paramTypes, ReturnTypes: returnTypes}
	interned := d.registry.Intern(ft)
	return interned.(*types.FunctionType)
}

func (d *Driver) paramVariables(unit *fileUnit, paramList source.Node) []*graph.ParamVariable {
	var out []*graph.ParamVariable
	for _, p := range d.extractParams(unit, paramList) {
		pv := &graph.ParamVariable{Base: graph.NewBase(p.name), Type: p.typ}
		out = append(out, pv)
	}
	return out
}
