package resolver

import (
	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
)

// ValidateImplementations enforces the trait contract: every method a
// trait in t.Implements declares (other than `from`) must be present on t
// itself with the same name and parameter count; parameter and return types
// are not compared -- grounded on the teacher's
// validateImplementations, which performs the equivalent check for Able's
// interface/impl pairs.
func ValidateImplementations(t *ast.Type) []*errs.ParseError {
	if t == nil || len(t.Implements) == 0 {
		return nil
	}
	var out []*errs.ParseError
	seen := make(map[*ast.Type]bool)
	var walk func(trait *ast.Type)
	walk = func(trait *ast.Type) {
		if trait == nil || seen[trait] {
			return
		}
		seen[trait] = true
		for _, required := range trait.Methods {
			if required.Name == "from" {
				continue
			}
			if !hasMatchingMethod(t, required) {
				out = append(out, errs.TraitContract(t.Name,
					"missing implementation of %q (required by trait %q)", required.Name, trait.Name))
			}
		}
		for _, parent := range trait.Implements {
			walk(parent)
		}
	}
	for _, trait := range t.Implements {
		walk(trait)
	}
	return out
}

// ValidateBodyPresence enforces the other half of the trait contract: a
// trait type declares method signatures only, while a concrete type must
// supply a body for every method it declares.
func ValidateBodyPresence(t *ast.Type) []*errs.ParseError {
	if t == nil {
		return nil
	}
	var out []*errs.ParseError
	isTrait := t.IsTrait()
	for _, m := range t.Methods {
		hasBody := len(m.BodyLines()) > 0
		switch {
		case isTrait && hasBody:
			out = append(out, errs.TraitContract(t.Name,
				"trait method %q must not supply a body", m.Name))
		case !isTrait && !hasBody:
			out = append(out, errs.TraitContract(t.Name,
				"method %q must supply a body", m.Name))
		}
	}
	return out
}

func hasMatchingMethod(t *ast.Type, required *ast.Method) bool {
	for _, m := range t.Methods {
		if m.Name != required.Name {
			continue
		}
		if len(m.Parameters) != len(required.Parameters) {
			continue
		}
		return true
	}
	return false
}
