package resolver

import (
	"fmt"

	"github.com/strict-lang/strict/pkg/ast"
)

// ComputeAvailableMethods builds the transitive name -> []*Method table for
// t: its own methods, plus every implemented trait's methods (transitively),
// plus Any's, when Any is reachable from the same Root's Base package.
// Type.AvailableMethods() calls this once (via the closure wired by the
// driver) and caches the result for the type's lifetime.
func ComputeAvailableMethods(t *ast.Type) map[string][]*ast.Method {
	table := make(map[string][]*ast.Method)
	visited := make(map[*ast.Type]bool)

	var walk func(typ *ast.Type)
	walk = func(typ *ast.Type) {
		if typ == nil || visited[typ] {
			return
		}
		visited[typ] = true
		for _, m := range typ.Methods {
			table[m.Name] = append(table[m.Name], m)
		}
		for _, impl := range typ.Implements {
			walk(impl)
		}
	}
	walk(t)

	if t.Package != nil && t.Package.Root() != nil && t.Package.Root().Base != nil {
		if any_, ok := t.Package.Root().Base.GetType("Any"); ok && any_ != t {
			walk(any_)
		}
	}
	return table
}

// FindMethod returns the first exact-arity, all-types-compatible overload
// of name visible on t. When no overload has a matching arity, it returns
// an error naming the best (last same-name) candidate for diagnostics, per
// spec.md's "last same-name candidate becomes the best match" rule. When
// arity matches but types do not, it returns ArgumentsDoNotMatch.
func FindMethod(t *ast.Type, name string, argTypes []*ast.Type) (*ast.Method, error) {
	candidates := t.AvailableMethods()[name]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("method %q not found on type %q", name, t.Name)
	}

	var bestArity *ast.Method
	arityMatched := false
	for _, cand := range candidates {
		if len(cand.Parameters) != len(argTypes) {
			continue
		}
		arityMatched = true
		if ArgumentsCompatible(cand.Parameters, argTypes) {
			return cand, nil
		}
		bestArity = cand
	}
	if arityMatched {
		return nil, fmt.Errorf("ArgumentsDoNotMatchMethodParameters: %q on %q", name, t.Name)
	}
	bestArity = candidates[len(candidates)-1]
	return nil, fmt.Errorf("no overload of %q on %q matches %d argument(s); best match has %d parameter(s)",
		name, t.Name, len(argTypes), len(bestArity.Parameters))
}

// FindBinaryMethod resolves an operator first as a method on left's own
// type, then falls back to the Base package's BinaryOperator type.
func FindBinaryMethod(left *ast.Type, operator string, argTypes []*ast.Type) (*ast.Method, error) {
	if m, err := FindMethod(left, operator, argTypes); err == nil {
		return m, nil
	}
	if left.Package == nil || left.Package.Root() == nil || left.Package.Root().Base == nil {
		return nil, fmt.Errorf("operator %q not found on %q", operator, left.Name)
	}
	base := left.Package.Root().Base
	binOp, ok := base.GetType(ast.BinaryOperatorTypeName)
	if !ok {
		return nil, fmt.Errorf("operator %q not found on %q", operator, left.Name)
	}
	return FindMethod(binOp, operator, argTypes)
}
