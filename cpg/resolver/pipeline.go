// Package resolver implements the dependency-ordered pass pipeline that
// runs over an assembled graph after the frontend has finished both
// phases for every file: symbol resolution, interface-implementation
// inference, embedded-member promotion, and function-pointer call
// binding. Passes self-describe their dependencies and a topological
// sort at startup produces the run order, rather than a hardcoded call
// sequence.
package resolver

import "fmt"

// Pass is one resolver pass. Name and DependsOn are used only to build
// the run order; Run performs the pass's actual work against the shared
// Context.
type Pass struct {
	Name      string
	DependsOn []string
	Run       func(ctx *Context)
}

// Pipeline is an ordered, dependency-sorted sequence of passes.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds the fixed five-pass pipeline, declared as a small
// self-describing DAG. ambiguityCap is threaded into Pass 5 as a
// configuration knob (default 3).
func NewPipeline(ambiguityCap int, inferMissingDeclarations bool) (*Pipeline, error) {
	passes := []Pass{
		{Name: "ResolveInterfaceImplementations", Run: ResolveInterfaceImplementations},
		{Name: "ResolveEmbeddedMembers", DependsOn: []string{"ResolveInterfaceImplementations"}, Run: ResolveEmbeddedMembers},
		{Name: "ResolveVariablesAndFields", DependsOn: []string{"ResolveEmbeddedMembers"}, Run: func(ctx *Context) {
			ctx.InferMissingDeclarations = inferMissingDeclarations
			ResolveVariablesAndFields(ctx)
			widenInterfaceSubtypes(ctx)
		}},
		{Name: "InitializerListDFG", DependsOn: []string{"ResolveVariablesAndFields"}, Run: ResolveInitializerListDFG},
		{Name: "FunctionPointerCalls", DependsOn: []string{"ResolveVariablesAndFields", "InitializerListDFG"}, Run: func(ctx *Context) {
			ctx.AmbiguityCap = ambiguityCap
			ResolveFunctionPointerCalls(ctx)
		}},
	}
	ordered, err := topoSort(passes)
	if err != nil {
		return nil, err
	}
	return &Pipeline{passes: ordered}, nil
}

// Run executes every pass, in dependency order, over ctx.
func (p *Pipeline) Run(ctx *Context) {
	for _, pass := range p.passes {
		pass.Run(ctx)
	}
}

// Names returns the pass run order, mainly for diagnostics/tests.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.passes))
	for i, pass := range p.passes {
		out[i] = pass.Name
	}
	return out
}

// topoSort orders passes so that every pass runs after all of its
// DependsOn entries, detecting cycles.
func topoSort(passes []Pass) ([]Pass, error) {
	byName := make(map[string]Pass, len(passes))
	for _, p := range passes {
		byName[p.Name] = p
	}

	var ordered []Pass
	state := make(map[string]int) // 0=unvisited, 1=visiting, 2=done

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("resolver: dependency cycle detected at pass %q", name)
		}
		state[name] = 1
		p, ok := byName[name]
		if !ok {
			return fmt.Errorf("resolver: pass %q depends on unknown pass %q", "?", name)
		}
		for _, dep := range p.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = 2
		ordered = append(ordered, p)
		return nil
	}

	for _, p := range passes {
		if err := visit(p.Name); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
