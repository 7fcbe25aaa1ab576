package types

import (
	"strings"
)

// Qualifier resolves a bare type identifier to a fully-qualified name
// against the current module/package. Built-ins and generic shells
// ("map", "chan") are never passed to Qualifier.
type Qualifier func(name string) string

// Parser parses source-language type expressions (grammar:
// T ::= id | *T | []T | map[T]T | chan T | func(T,...) |
// func(T,...) T | func(T,...) (T,...)) into interned Type instances.
type Parser struct {
	registry  *Registry
	qualifier Qualifier
}

// NewParser creates a type-expression parser backed by registry, using
// qualifier to resolve bare identifiers.
func NewParser(registry *Registry, qualifier Qualifier) *Parser {
	return &Parser{registry: registry, qualifier: qualifier}
}

// ParseText parses a textual type expression. Unresolvable input yields
// UnknownType rather than an error.
func (p *Parser) ParseText(expr string) Type {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return p.registry.Missing()
	}
	t, rest, ok := p.parse(expr)
	if !ok || strings.TrimSpace(rest) != "" {
		return p.registry.Unknown()
	}
	return t
}

// parse consumes a type expression from the front of s, returning the
// parsed Type, the unconsumed remainder, and whether parsing succeeded.
func (p *Parser) parse(s string) (Type, string, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "*"):
		elem, rest, ok := p.parse(s[1:])
		if !ok {
			return nil, s, false
		}
		return p.registry.Intern(&PointerType{ElementType: elem, Origin: PointerOriginPointer}), rest, true

	case strings.HasPrefix(s, "[]"):
		elem, rest, ok := p.parse(s[2:])
		if !ok {
			return nil, s, false
		}
		return p.registry.Intern(&PointerType{ElementType: elem, Origin: PointerOriginArray}), rest, true

	case strings.HasPrefix(s, "map["):
		inner := s[len("map["):]
		key, rest, ok := p.parse(inner)
		if !ok || !strings.HasPrefix(strings.TrimSpace(rest), "]") {
			return nil, s, false
		}
		rest = strings.TrimSpace(rest)[1:]
		val, rest2, ok := p.parse(rest)
		if !ok {
			return nil, s, false
		}
		m := &ObjectType{Name: "map", Generics: []Type{key, val}}
		return p.registry.Intern(m), rest2, true

	case strings.HasPrefix(s, "chan"):
		after := strings.TrimSpace(s[len("chan"):])
		elem, rest, ok := p.parse(after)
		if !ok {
			return nil, s, false
		}
		c := &ObjectType{Name: "chan", Generics: []Type{elem}}
		return p.registry.Intern(c), rest, true

	case strings.HasPrefix(s, "func("):
		return p.parseFunc(s)

	default:
		return p.parseIdentifier(s)
	}
}

// parseFunc parses `func(P1, ...) R`, `func(P1, ...) (R1, ...)`, or
// `func(P1, ...)` (no results).
func (p *Parser) parseFunc(s string) (Type, string, bool) {
	s = s[len("func"):]
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return nil, s, false
	}
	params, rest, ok := p.parseParenList(s)
	if !ok {
		return nil, s, false
	}

	rest = strings.TrimSpace(rest)
	var rets []Type
	switch {
	case strings.HasPrefix(rest, "("):
		rets, rest, ok = p.parseParenList(rest)
		if !ok {
			return nil, s, false
		}
	case rest == "" || strings.HasPrefix(rest, ")") || strings.HasPrefix(rest, ","):
		// no return type
	default:
		var r Type
		r, rest, ok = p.parse(rest)
		if !ok {
			return nil, s, false
		}
		rets = []Type{r}
	}

	ft := &FunctionType{Parameters: params, ReturnTypes: rets}
	return p.registry.Intern(ft), rest, true
}

// parseParenList parses a `(T, T, ...)` comma-separated type list.
func (p *Parser) parseParenList(s string) ([]Type, string, bool) {
	if !strings.HasPrefix(s, "(") {
		return nil, s, false
	}
	s = s[1:]
	var items []Type
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ")") {
		return items, s[1:], true
	}
	for {
		t, rest, ok := p.parse(s)
		if !ok {
			return nil, s, false
		}
		items = append(items, t)
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, ",") {
			s = rest[1:]
			continue
		}
		if strings.HasPrefix(rest, ")") {
			return items, rest[1:], true
		}
		return nil, s, false
	}
}

// parseIdentifier parses a bare identifier (built-in or qualifiable name),
// stopping at the first delimiter of the grammar.
func (p *Parser) parseIdentifier(s string) (Type, string, bool) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '(' || c == ')' || c == ',' || c == '[' || c == ']' || c == ' ' || c == '*' {
			break
		}
		i++
	}
	if i == 0 {
		return nil, s, false
	}
	name := s[:i]
	rest := s[i:]

	if BuiltinNames[name] || name == "map" {
		return p.registry.Intern(&ObjectType{Name: name}), rest, true
	}
	fqn := name
	if p.qualifier != nil {
		fqn = p.qualifier(name)
	}
	return p.registry.Intern(&ObjectType{Name: fqn}), rest, true
}

// Render produces a textual type expression for t such that
// ParseText(Render(t)) reproduces an equal type. Render always emits
// already-qualified names, so a Parser with a no-op qualifier
// round-trips correctly.
func Render(t Type) string {
	switch v := t.(type) {
	case *PointerType:
		if v.Origin == PointerOriginArray {
			return "[]" + Render(v.ElementType)
		}
		return "*" + Render(v.ElementType)
	case *ObjectType:
		switch v.Name {
		case "map":
			return "map[" + Render(v.Generics[0]) + "]" + Render(v.Generics[1])
		case "chan":
			return "chan " + Render(v.Generics[0])
		default:
			return v.Name
		}
	case *FunctionType:
		params := make([]string, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = Render(p)
		}
		name := "func(" + strings.Join(params, ", ") + ")"
		switch len(v.ReturnTypes) {
		case 0:
			return name
		case 1:
			return name + " " + Render(v.ReturnTypes[0])
		default:
			rets := make([]string, len(v.ReturnTypes))
			for i, r := range v.ReturnTypes {
				rets[i] = Render(r)
			}
			return name + " (" + strings.Join(rets, ", ") + ")"
		}
	case *TupleType:
		parts := make([]string, len(v.ElementTypes))
		for i, e := range v.ElementTypes {
			parts[i] = Render(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case UnknownType:
		return "<unknown>"
	case MissingType:
		return "<missing>"
	default:
		return "<unknown>"
	}
}
