// Package resolver implements the type resolver: method/member lookup,
// generic instantiation, and type-compatibility/upcast rules. It depends on
// pkg/ast (the object model) but pkg/ast never imports it back — Type's
// AvailableMethods() is wired to this package's logic through a closure set
// by the driver, the same lazy-body-parsing trick used for Method.GetBody,
// so there is no import cycle.
package resolver

import "github.com/strict-lang/strict/pkg/ast"

// upcasts lists the allowed implicit widenings beyond identity/Any/
// transitive-implements. The exact promotion rules for Number are left
// undecided by the source material (spec.md's open question); this module
// only allows the three upcasts listed here: Number to Text, Number to List,
// and Text to List.
var upcasts = map[string][]string{
	"Number": {"Text", "List"},
	"Text":   {"List"},
}

// Compatible reports whether a value of type `from` can be used where `to`
// is expected: identity, `to` is Any, `to` is a transitive implements of
// `from`, or an allowed upcast holds.
func Compatible(from, to *ast.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from == to {
		return true
	}
	if to.Name == "Any" {
		return true
	}
	if implementsTransitively(from, to) {
		return true
	}
	for _, target := range upcasts[from.Name] {
		if target == to.Name {
			return true
		}
	}
	return false
}

// implementsTransitively reports whether to appears anywhere in from's
// implements closure.
func implementsTransitively(from, to *ast.Type) bool {
	visited := make(map[*ast.Type]bool)
	var walk func(t *ast.Type) bool
	walk = func(t *ast.Type) bool {
		if t == nil || visited[t] {
			return false
		}
		visited[t] = true
		for _, impl := range t.Implements {
			if impl == to || impl.Name == to.Name {
				return true
			}
			if walk(impl) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// ArgumentsCompatible reports whether every argument type is pairwise
// compatible with the corresponding parameter type.
func ArgumentsCompatible(params []*ast.Parameter, args []*ast.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i, p := range params {
		if !Compatible(args[i], p.DeclaredType) {
			return false
		}
	}
	return true
}
