package frontend

import (
	"strings"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/monoid-privacy/cpg/internal/source"
)

// phaseA builds the record skeleton for one file: a TranslationUnit,
// Include declarations for its imports, the package NameScope, and a
// Record for every top-level struct/interface/type-alias.
func (d *Driver) phaseA(f *source.File) error {
	d.scopes.ResetToGlobal()

	tu := &graph.TranslationUnit{Base: graph.NewBase(f.Path), File: f.Path}

	pkgName := findPackageName(f.Root)
	importPath := d.importPathForDir(f.Path)
	d.packageNameByImportPath[importPath] = pkgName

	d.scopes.EnterScope(scope.KindNameScope, importPath)
	ns := &graph.Namespace{Base: graph.NewBase(pkgName), FQN: importPath}
	tu.Namespaces = []*graph.Namespace{ns}

	unit := &fileUnit{
		file:               f,
		tu:                 tu,
		namespace:          ns,
		importsByLocalName: make(map[string]string),
	}
	unit.typeParser = types.NewParser(d.registry, func(name string) string {
		return importPath + "." + name
	})

	for _, child := range f.Root.Children() {
		switch child.Kind() {
		case "import_declaration":
			d.phaseAImport(unit, child)
		case "type_declaration":
			d.phaseAType(unit, child)
		}
	}

	d.fileUnits[f.Path] = unit
	d.graph.AddTranslationUnit(tu)
	return nil
}

func findPackageName(root source.Node) string {
	for _, child := range root.Children() {
		if child.Kind() != "package_clause" {
			continue
		}
		for _, c := range child.Children() {
			if c.Kind() == "package_identifier" {
				return c.Text()
			}
		}
	}
	return ""
}

func (d *Driver) phaseAImport(unit *fileUnit, decl source.Node) {
	for _, child := range decl.Children() {
		switch child.Kind() {
		case "import_spec":
			d.phaseAImportSpec(unit, child)
		case "import_spec_list":
			for _, spec := range child.Children() {
				if spec.Kind() == "import_spec" {
					d.phaseAImportSpec(unit, spec)
				}
			}
		}
	}
}

// phaseAImportSpec emits one Include, choosing its name from the local
// alias, the imported package's self-reported name (when the import
// resolves to a package in this project), or the import path's last
// segment, in that priority.
func (d *Driver) phaseAImportSpec(unit *fileUnit, spec source.Node) {
	pathNode, ok := spec.ChildByField("path")
	if !ok {
		return
	}
	importPath := strings.Trim(pathNode.Text(), `"`)

	var localName string
	if aliasNode, ok := spec.ChildByField("name"); ok {
		localName = aliasNode.Text()
	} else if known, ok := d.packageNameByImportPath[importPath]; ok && known != "" {
		localName = known
	} else {
		localName = lastSegment(importPath)
	}

	inc := &graph.Include{Base: graph.NewBase(localName), ImportPath: importPath}
	inc.SetComment(d.commentFor(unit.file.Path, spec))
	d.scopes.AddDeclaration(localName, inc, true)
	unit.tu.Includes = append(unit.tu.Includes, inc)
	unit.namespace.Includes = append(unit.namespace.Includes, inc)
	unit.importsByLocalName[localName] = importPath
}

func (d *Driver) phaseAType(unit *fileUnit, decl source.Node) {
	for _, child := range decl.Children() {
		switch child.Kind() {
		case "type_spec":
			d.phaseATypeSpec(unit, child)
		case "type_spec_list":
			for _, spec := range child.Children() {
				if spec.Kind() == "type_spec" {
					d.phaseATypeSpec(unit, spec)
				}
			}
		}
	}
}

func (d *Driver) phaseATypeSpec(unit *fileUnit, spec source.Node) {
	nameNode, ok := spec.ChildByField("name")
	if !ok {
		return
	}
	name := nameNode.Text()
	fqn := unit.namespace.FQN + "." + name

	typeNode, ok := spec.ChildByField("type")
	if !ok {
		return
	}

	rec := &graph.Record{Base: graph.NewBase(name), FQN: fqn}
	rec.SetComment(d.commentFor(unit.file.Path, spec))
	rec.SetLocation(locationOf(spec, unit.file.Path))

	switch typeNode.Kind() {
	case "struct_type":
		rec.Kind = graph.RecordStruct
		rec.Fields, rec.EmbeddedFields = d.phaseAStructFields(unit, typeNode)
	case "interface_type":
		rec.Kind = graph.RecordInterface
		rec.RequiredMethods, rec.SuperTypes = d.phaseAInterfaceMembers(unit, typeNode)
	default:
		rec.Kind = graph.RecordTypeAlias
		rec.AliasOf = unit.typeParser.ParseText(typeNode.Text())
	}

	d.scopes.AddStructure(name, rec)
	unit.namespace.Records = append(unit.namespace.Records, rec)
}

// phaseAStructFields extracts named fields and embedded (type-only)
// fields from a struct_type node's field_declaration_list.
func (d *Driver) phaseAStructFields(unit *fileUnit, structType source.Node) (fields, embedded []*graph.Field) {
	for _, body := range structType.Children() {
		if body.Kind() != "field_declaration_list" {
			continue
		}
		for _, fd := range body.Children() {
			if fd.Kind() != "field_declaration" {
				continue
			}
			typeNode, ok := fd.ChildByField("type")
			if !ok {
				continue
			}
			fieldType := unit.typeParser.ParseText(typeNode.Text())

			named := false
			for _, nameNode := range fd.Children() {
				if nameNode.Kind() != "field_identifier" {
					continue
				}
				named = true
				f := &graph.Field{Base: graph.NewBase(nameNode.Text()), Type: fieldType}
				f.SetComment(d.commentFor(unit.file.Path, fd))
				fields = append(fields, f)
			}
			if !named {
				// Embedded field: the type expression itself supplies the
				// name (its last identifier segment), per Go embedding
				// rules.
				f := &graph.Field{Base: graph.NewBase(embeddedFieldName(typeNode.Text())), Type: fieldType, Embedded: true}
				embedded = append(embedded, f)
			}
		}
	}
	return fields, embedded
}

func embeddedFieldName(typeExpr string) string {
	typeExpr = strings.TrimPrefix(typeExpr, "*")
	if idx := strings.LastIndex(typeExpr, "."); idx >= 0 {
		return typeExpr[idx+1:]
	}
	return typeExpr
}

// phaseAInterfaceMembers splits an interface_type's body into embedded
// interface super-types and its own required method signatures.
func (d *Driver) phaseAInterfaceMembers(unit *fileUnit, ifaceType source.Node) (map[string]*types.FunctionType, []types.Type) {
	required := make(map[string]*types.FunctionType)
	var superTypes []types.Type

	for _, member := range ifaceType.Children() {
		switch member.Kind() {
		case "method_elem":
			nameNode, ok := member.ChildByField("name")
			if !ok {
				continue
			}
			params, _ := member.ChildByField("parameters")
			result, hasResult := member.ChildByField("result")
			ft := d.buildFunctionType(unit, params, result, hasResult)
			required[nameNode.Text()] = ft
		case "type_identifier", "qualified_type":
			st := unit.typeParser.ParseText(member.Text())
			superTypes = append(superTypes, st)
		}
	}
	return required, superTypes
}
