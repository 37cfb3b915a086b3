package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/strict-lang/strict/pkg/ast"
)

// Instantiator creates concrete types by substituting implementation types
// into a generic template, caching by (generic, implementationTypes) so
// `T(I)` instantiated twice returns the same object -- grounded on the
// teacher's substituteFunctionType/substituteType clone-with-substitution
// pair and its (generic, args) -> instance caching idiom.
type Instantiator struct {
	mu    sync.Mutex
	cache map[string]*ast.Type
}

func NewInstantiator() *Instantiator {
	return &Instantiator{cache: make(map[string]*ast.Type)}
}

// Instantiate returns the cached instantiation of generic with args,
// creating it on first request.
func (in *Instantiator) Instantiate(generic *ast.Type, args []*ast.Type) (*ast.Type, error) {
	if generic == nil {
		return nil, fmt.Errorf("generics: nil template")
	}
	if !generic.IsGeneric() {
		return nil, fmt.Errorf("generics: %q is not a generic template", generic.Name)
	}
	key := cacheKey(generic, args)

	in.mu.Lock()
	if cached, ok := in.cache[key]; ok {
		in.mu.Unlock()
		return cached, nil
	}
	in.mu.Unlock()

	inst, err := in.clone(generic, args)
	if err != nil {
		return nil, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if cached, ok := in.cache[key]; ok {
		return cached, nil
	}
	in.cache[key] = inst
	return inst, nil
}

func cacheKey(generic *ast.Type, args []*ast.Type) string {
	names := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			names[i] = "?"
			continue
		}
		names[i] = a.Name
	}
	return generic.Name + "(" + strings.Join(names, ",") + ")"
}

func (in *Instantiator) clone(generic *ast.Type, args []*ast.Type) (*ast.Type, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("generics: %q requires at least one implementation type", generic.Name)
	}

	inst := &ast.Type{
		Name:               instantiationName(generic, args),
		Package:            generic.Package,
		Implements:         generic.Implements,
		BaseGeneric:        generic,
		ImplementationArgs: args,
	}
	if generic.Name == "Mutable" {
		inst.WrappedType = args[0]
	}

	subst := map[string]*ast.Type{generic.GenericParam: args[0]}

	for _, member := range generic.Members {
		inst.AddMember(&ast.Member{
			Owner:        inst,
			Name:         member.Name,
			DeclaredType: substitute(member.DeclaredType, subst),
			IsMutable:    member.IsMutable,
			Line:         member.Line,
		})
	}
	for _, method := range generic.Methods {
		inst.AddMethod(cloneMethod(method, inst, subst))
	}
	return inst, nil
}

func substitute(t *ast.Type, subst map[string]*ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	if replacement, ok := subst[t.Name]; ok {
		return replacement
	}
	return t
}

func cloneMethod(m *ast.Method, owner *ast.Type, subst map[string]*ast.Type) *ast.Method {
	params := make([]*ast.Parameter, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = &ast.Parameter{
			Name:         p.Name,
			DeclaredType: substitute(p.DeclaredType, subst),
			IsMutable:    p.IsMutable,
			DefaultValue: p.DefaultValue,
		}
	}
	clone := &ast.Method{
		OwningType: owner,
		Name:       m.Name,
		Parameters: params,
		ReturnType: substitute(m.ReturnType, subst),
		Line:       m.Line,
	}
	if lines := m.BodyLines(); len(lines) > 0 {
		clone.SetBodyLines(lines, func(method *ast.Method) (*ast.Body, error) {
			original, err := m.GetBody()
			return original, err
		})
	}
	return clone
}

// instantiationName applies the data model's naming rule: for List, the
// plural of the (single) element type's name; otherwise Generic(T1,T2,...).
func instantiationName(generic *ast.Type, args []*ast.Type) string {
	if generic.Name == "List" && len(args) == 1 && args[0] != nil {
		return pluralize(args[0].Name)
	}
	names := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			names[i] = "?"
			continue
		}
		names[i] = a.Name
	}
	return generic.Name + "(" + strings.Join(names, ",") + ")"
}

func pluralize(name string) string {
	if name == "" {
		return name
	}
	switch {
	case strings.HasSuffix(name, "y") && !strings.HasSuffix(name, "ay") && !strings.HasSuffix(name, "ey"):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(name, "s"), strings.HasSuffix(name, "x"), strings.HasSuffix(name, "ch"):
		return name + "es"
	default:
		return name + "s"
	}
}
