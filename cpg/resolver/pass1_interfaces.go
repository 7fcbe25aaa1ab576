package resolver

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/types"
)

// ResolveInterfaceImplementations is Pass 1. It first resolves every
// record's SuperTypes to the declared Records they name, filling
// SuperTypeDeclarations. Then, for every struct record, it counts how
// many of each candidate interface's required method signatures the
// struct's own methods satisfy; when every required signature is
// matched, it records the struct as implementing that interface and
// indexes the struct under the interface's subtypes for the widening
// step that follows Pass 3.
func ResolveInterfaceImplementations(ctx *Context) {
	for _, rec := range ctx.everyRecord() {
		for _, st := range rec.SuperTypes {
			super, ok := recordForType(ctx, st)
			if !ok {
				continue
			}
			known := false
			for _, existing := range rec.SuperTypeDeclarations {
				known = known || existing == super
			}
			if !known {
				rec.SuperTypeDeclarations = append(rec.SuperTypeDeclarations, super)
			}
		}
	}

	interfaces := interfaceRecords(ctx)
	if len(interfaces) == 0 {
		return
	}

	for _, rec := range ctx.everyRecord() {
		if rec.Kind != graph.RecordStruct {
			continue
		}
		structType := ctx.Registry.Intern(&types.ObjectType{Name: rec.FQN})

		for _, iface := range interfaces {
			if len(iface.RequiredMethods) == 0 {
				continue
			}
			matched := 0
			for name, sig := range iface.RequiredMethods {
				if structHasMatchingMethod(rec, name, sig) {
					matched++
				}
			}
			if matched != len(iface.RequiredMethods) {
				continue
			}
			ifaceType := ctx.Registry.Intern(&types.ObjectType{Name: iface.FQN})
			if !hasType(rec.ImplementedInterfaces, ifaceType) {
				rec.ImplementedInterfaces = append(rec.ImplementedInterfaces, ifaceType)
			}
			key := ifaceType.CanonicalName()
			if !hasType(ctx.subtypes[key], structType) {
				ctx.subtypes[key] = append(ctx.subtypes[key], structType)
			}
		}
	}
}

func interfaceRecords(ctx *Context) []*graph.Record {
	var out []*graph.Record
	for _, rec := range ctx.everyRecord() {
		if rec.Kind == graph.RecordInterface {
			out = append(out, rec)
		}
	}
	return out
}

func structHasMatchingMethod(rec *graph.Record, name string, sig *types.FunctionType) bool {
	for _, m := range rec.Methods {
		if m.GetName() == name && m.Type != nil && m.Type.CanonicalName() == sig.CanonicalName() {
			return true
		}
	}
	return false
}

func hasType(list []types.Type, t types.Type) bool {
	for _, existing := range list {
		if existing.CanonicalName() == t.CanonicalName() {
			return true
		}
	}
	return false
}
