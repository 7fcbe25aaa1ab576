package types

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// registryCacheSize bounds the LRU front of the registry. Only that cache
// is bounded: the authoritative map below never evicts and holds every
// interned type, so entries evicted from the cache are not lost; the LRU
// only accelerates the common-case lookup.
const registryCacheSize = 4096

// Registry interns Type values by canonical name so that equal types are
// identical instances within one project run. One Registry is owned per
// project run.
type Registry struct {
	mu    sync.Mutex
	byName map[string]Type
	cache  *lru.Cache[string, Type]
}

// NewRegistry creates an empty, process-local type registry.
func NewRegistry() *Registry {
	cache, _ := lru.New[string, Type](registryCacheSize)
	return &Registry{
		byName: make(map[string]Type),
		cache:  cache,
	}
}

// Intern returns the registry's canonical instance for t, registering t as
// that instance if this is the first time its canonical name has been
// seen. Callers must finish mutating t (e.g. appending generics) before
// calling Intern, or intern a local copy instead.
func (r *Registry) Intern(t Type) Type {
	name := t.CanonicalName()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.cache.Get(name); ok {
		return existing
	}
	if existing, ok := r.byName[name]; ok {
		r.cache.Add(name, existing)
		return existing
	}
	r.byName[name] = t
	r.cache.Add(name, t)
	return t
}

// Lookup returns the interned type for a canonical name, if any has been
// interned yet.
func (r *Registry) Lookup(canonicalName string) (Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache.Get(canonicalName); ok {
		return t, true
	}
	t, ok := r.byName[canonicalName]
	if ok {
		r.cache.Add(canonicalName, t)
	}
	return t, ok
}

// Size returns the number of distinct interned types (for diagnostics).
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

// Unknown and Missing are process-wide singletons: every UnknownType (or
// MissingType) canonicalizes to the same name, so every Unknown() (or
// Missing()) call interns through the normal path and gets back the one
// instance the registry recorded first.
var (
	unknownSingleton Type = UnknownType{}
	missingSingleton Type = MissingType{}
)

// Unknown returns the registry's singleton UnknownType instance.
func (r *Registry) Unknown() Type { return r.Intern(unknownSingleton) }

// Missing returns the registry's singleton MissingType instance.
func (r *Registry) Missing() Type { return r.Intern(missingSingleton) }
