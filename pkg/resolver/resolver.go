package resolver

import (
	"fmt"

	"github.com/strict-lang/strict/pkg/ast"
)

// Resolver bundles the generic-instantiation cache with convenience
// lookups the parser needs while building expressions. One Resolver is
// shared by every file in a LoadPackage call so the instantiation cache is
// package-wide, matching "instantiating T(I) twice returns the same
// object" regardless of which file triggered each request.
type Resolver struct {
	Instantiator *Instantiator
}

func New() *Resolver {
	return &Resolver{Instantiator: NewInstantiator()}
}

// Wire installs this resolver's AvailableMethods computation on t, the
// closure-based indirection that lets ast.Type expose AvailableMethods()
// without pkg/ast importing pkg/resolver.
func (r *Resolver) Wire(t *ast.Type) {
	t.SetAvailableMethodsSource(func() map[string][]*ast.Method {
		return ComputeAvailableMethods(t)
	})
}

// ResolveConstructorCall resolves `TypeName(args)`: a generic template gets
// instantiated with the argument types, Character(7)-style builtin
// constructors dispatch to `from`, and a user type either matches `from` or
// auto-initializes by positional member order.
func (r *Resolver) ResolveConstructorCall(target *ast.Type, argTypes []*ast.Type) (*ast.Method, *ast.Type, error) {
	if target == nil {
		return nil, nil, fmt.Errorf("generics: nil constructor target")
	}
	if target.IsGeneric() {
		inst, err := r.Instantiator.Instantiate(target, argTypes)
		if err != nil {
			return nil, nil, err
		}
		return nil, inst, nil
	}
	if method, err := FindMethod(target, "from", argTypes); err == nil {
		return method, target, nil
	}
	if len(target.Members) == len(argTypes) {
		ok := true
		for i, m := range target.Members {
			if !Compatible(argTypes[i], m.DeclaredType) {
				ok = false
				break
			}
		}
		if ok {
			return nil, target, nil
		}
	}
	return nil, nil, fmt.Errorf("no constructor of %q matches %d argument(s)", target.Name, len(argTypes))
}

// IterableElementType returns the element type produced by iterating over
// t, when t is known to be iterable: a generic List(T)/Mutable(T)
// instantiation yields T, and Range always yields Number.
func IterableElementType(t *ast.Type) (*ast.Type, bool) {
	if t == nil {
		return nil, false
	}
	if t.Name == "Range" {
		if t.Package != nil && t.Package.Root() != nil && t.Package.Root().Base != nil {
			if number, ok := t.Package.Root().Base.GetType("Number"); ok {
				return number, true
			}
		}
	}
	if t.IsGenericInstantiation() && len(t.ImplementationArgs) > 0 {
		return t.ImplementationArgs[0], true
	}
	return nil, false
}
