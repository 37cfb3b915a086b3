package parser

import (
	"strings"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/resolver"
)

// resolveTypeName looks up name against owner's own type, then owner's
// package chain (which itself falls through to Base), then owner's
// explicit imports -- the searched-packages fallback spec.md's FindType
// describes.
func resolveTypeName(owner *ast.Type, name string) (*ast.Type, bool) {
	if owner != nil && owner.Package != nil {
		if t, ok := owner.Package.FindType(name); ok {
			return t, true
		}
		for _, imp := range owner.Imports {
			if t, ok := imp.GetType(name); ok {
				return t, true
			}
		}
	}
	return nil, false
}

// parseTypeExpr parses a (possibly generic) type reference such as
// "Number", "List(Number)" or "Mutable(List(Number))", instantiating
// generics through res as needed and enforcing the nesting limit on
// parenthesized generic arguments.
func parseTypeExpr(owner *ast.Type, res *resolver.Resolver, typeName, token string, line int, depth int) (*ast.Type, *errs.ParseError) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.Syntax(typeName, line, token, "empty type reference")
	}
	if depth > MaxNesting {
		return nil, errs.LimitExceeded(typeName, "", line, "type expression nesting exceeds %d levels", MaxNesting)
	}

	open := strings.IndexByte(token, '(')
	if open < 0 {
		return lookupSimpleType(owner, typeName, token, line)
	}
	if !strings.HasSuffix(token, ")") {
		return nil, errs.Syntax(typeName, line, token, "unbalanced parentheses in type expression %q", token)
	}
	base := strings.TrimSpace(token[:open])
	inner := token[open+1 : len(token)-1]

	baseType, berr := lookupSimpleType(owner, typeName, base, line)
	if berr != nil {
		return nil, berr
	}
	if !baseType.IsGeneric() {
		return nil, errs.Generic(typeName, "", "%q is not a generic type and cannot take arguments", base)
	}

	argTokens := splitTopLevelCommas(inner)
	if len(argTokens) == 0 {
		return nil, errs.Generic(typeName, "", "generic type %q requires at least one argument", base)
	}
	args := make([]*ast.Type, 0, len(argTokens))
	for _, argTok := range argTokens {
		argType, aerr := parseTypeExpr(owner, res, typeName, argTok, line, depth+1)
		if aerr != nil {
			return nil, aerr
		}
		args = append(args, argType)
	}
	inst, err := res.Instantiator.Instantiate(baseType, args)
	if err != nil {
		return nil, errs.Generic(typeName, "", "%s", err.Error())
	}
	res.Wire(inst)
	return inst, nil
}

func lookupSimpleType(owner *ast.Type, typeName, name string, line int) (*ast.Type, *errs.ParseError) {
	if t, ok := resolveTypeName(owner, name); ok {
		return t, nil
	}
	return nil, errs.NameResolution(typeName, "", line, "type %q not found", name)
}

// splitTopLevelCommas splits s on commas that are not nested inside
// parentheses.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}
	return out
}

// containsAny reports whether a (possibly generic) type reference mentions
// Any anywhere, bare or as a generic argument -- used to reject parameter
// and return types naming Any (spec.md §4.3).
func containsAny(token string) bool {
	token = strings.TrimSpace(token)
	if token == "Any" {
		return true
	}
	open := strings.IndexByte(token, '(')
	if open < 0 {
		return false
	}
	base := strings.TrimSpace(token[:open])
	if base == "Any" {
		return true
	}
	if !strings.HasSuffix(token, ")") {
		return false
	}
	inner := token[open+1 : len(token)-1]
	for _, arg := range splitTopLevelCommas(inner) {
		if containsAny(arg) {
			return true
		}
	}
	return false
}
