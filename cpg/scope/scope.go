// Package scope implements the scope manager the frontend drives while
// walking source files: a stack of nested scopes that owns declaration
// lookup and reference resolution.
package scope

import "fmt"

// Kind distinguishes the nesting contexts a scope can represent.
type Kind int

const (
	KindGlobal Kind = iota
	KindNameScope
	KindFunction
	KindBlock
	KindLoop
	KindSwitch
	KindTry
	KindTemplate
	KindRecord
)

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindNameScope:
		return "name"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	case KindLoop:
		return "loop"
	case KindSwitch:
		return "switch"
	case KindTry:
		return "try"
	case KindTemplate:
		return "template"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ValueDeclaration is anything the scope manager can bind a name to and
// later hand back from a reference lookup: variables, parameters,
// functions, and records all satisfy it via their Name/FQN.
type ValueDeclaration interface {
	GetName() string
}

// StructureDeclaration is a Record-like declaration that introduces its
// own nested Record scope.
type StructureDeclaration interface {
	GetName() string
}

// Scope is one entry of the scope stack: a kind, an optional FQN (for
// NameScope), a parent link, and the declarations bound directly in it.
type Scope struct {
	Kind   Kind
	FQN    string // non-empty only for KindNameScope
	Parent *Scope

	// values maps a simple name to every ValueDeclaration bound under it
	// in this scope, in bind order. Go doesn't allow overloading by
	// simple name within one scope, so in practice this slice holds one
	// entry per name; a later AddDeclaration call for the same name
	// appends rather than overwriting, so an existing binding is never
	// silently discarded.
	values     map[string][]ValueDeclaration
	structures map[string]StructureDeclaration
}

func newScope(kind Kind, fqn string, parent *Scope) *Scope {
	return &Scope{
		Kind:       kind,
		FQN:        fqn,
		Parent:     parent,
		values:     make(map[string][]ValueDeclaration),
		structures: make(map[string]StructureDeclaration),
	}
}

// Manager owns the live scope stack while the frontend walks one
// project. It is not safe for concurrent use; one frontend Driver owns
// one Manager and walks the project's files through it one at a time.
type Manager struct {
	current *Scope
	global  *Scope

	// byFQN lets cross-file reactivation find an existing NameScope
	// instead of creating a duplicate for the same package.
	byFQN map[string]*Scope
}

// NewManager creates a Manager with its global scope active.
func NewManager() *Manager {
	g := newScope(KindGlobal, "", nil)
	return &Manager{current: g, global: g, byFQN: make(map[string]*Scope)}
}

// Current returns the innermost active scope.
func (m *Manager) Current() *Scope { return m.current }

// EnterScope pushes a new scope of kind onto the stack and makes it
// current. fqn is only meaningful for KindNameScope; it is ignored
// otherwise.
//
// If a KindNameScope with the same fqn was entered before and then left,
// EnterScope reactivates the existing Scope instead of creating a new
// one, so declarations added across files of the same package accumulate
// in one place: one NameScope per FQN, reused across files.
func (m *Manager) EnterScope(kind Kind, fqn string) *Scope {
	if kind == KindNameScope {
		if existing, ok := m.byFQN[fqn]; ok {
			existing.Parent = m.current
			m.current = existing
			return existing
		}
		s := newScope(kind, fqn, m.current)
		m.byFQN[fqn] = s
		m.current = s
		return s
	}
	s := newScope(kind, fqn, m.current)
	m.current = s
	return s
}

// LeaveScope pops the current scope, making its parent current. Leaving
// the global scope is a soft failure: it is logged by the caller (via
// the returned error) and the global scope stays current, since a
// malformed frontend walk must never leave the Manager without any
// active scope.
func (m *Manager) LeaveScope() error {
	if m.current.Parent == nil {
		return fmt.Errorf("scope: cannot leave the global scope")
	}
	m.current = m.current.Parent
	return nil
}

// ResetToGlobal discards the entire scope stack and reactivates the
// global scope. The frontend calls this between translation units.
func (m *Manager) ResetToGlobal() {
	m.current = m.global
}

// AddDeclaration binds name to decl in the current scope, or in the
// global scope when global is true (the frontend passes true for Include
// declarations). The declaration's kind does not select the scope. A
// prior binding under the same name in that scope is kept, not
// replaced: decl is appended to the slot, and ResolveReference returns
// the most recently added entry.
func (m *Manager) AddDeclaration(name string, decl ValueDeclaration, global bool) {
	target := m.current
	if global {
		target = m.global
	}
	target.values[name] = append(target.values[name], decl)
}

// AddStructure binds a Record-like declaration by name into the nearest
// NameScope or Record scope ancestor (falling back to global), so later
// get_record_for_name lookups find it regardless of how deep the walk
// currently is.
func (m *Manager) AddStructure(name string, decl StructureDeclaration) {
	for s := m.current; s != nil; s = s.Parent {
		if s.Kind == KindNameScope || s.Kind == KindRecord || s.Kind == KindGlobal {
			s.structures[name] = decl
			return
		}
	}
	m.global.structures[name] = decl
}

// ResolveReference walks outward from the current scope looking for a
// ValueDeclaration bound to name, innermost-first, stopping at the
// first enclosing scope that defines the name. When that scope bound
// more than one declaration under name, the most recently added one
// wins.
func (m *Manager) ResolveReference(name string) (ValueDeclaration, bool) {
	for s := m.current; s != nil; s = s.Parent {
		if decls, ok := s.values[name]; ok && len(decls) > 0 {
			return decls[len(decls)-1], true
		}
	}
	return nil, false
}

// GetRecordForName walks outward from the current scope looking for a
// StructureDeclaration bound to name.
func (m *Manager) GetRecordForName(name string) (StructureDeclaration, bool) {
	for s := m.current; s != nil; s = s.Parent {
		if r, ok := s.structures[name]; ok {
			return r, true
		}
	}
	return nil, false
}

// NameScopeByFQN looks up a previously entered NameScope by its FQN
// without changing the current scope, so the resolver can reopen a
// package's scope for a later pass.
func (m *Manager) NameScopeByFQN(fqn string) (*Scope, bool) {
	s, ok := m.byFQN[fqn]
	return s, ok
}
