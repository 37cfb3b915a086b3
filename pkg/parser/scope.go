package parser

import (
	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/resolver"
)

// Scope carries everything the expression parser needs to resolve an
// identifier: the enclosing body (nil outside a method, e.g. a member
// initializer), the enclosing method (nil for the same reason), the owning
// type, and the shared resolver.
type Scope struct {
	Owner    *ast.Type
	Method   *ast.Method
	Body     *ast.Body
	Resolver *resolver.Resolver
}

func (s *Scope) child(body *ast.Body) *Scope {
	return &Scope{Owner: s.Owner, Method: s.Method, Body: body, Resolver: s.Resolver}
}

// resolveIdentifier resolves a plain identifier as a body variable, then a
// parameter, then a member. Type names and method calls are not handled
// here: parseIdentAtom resolves those before falling back to this lookup.
func (s *Scope) resolveIdentifier(name string) (ast.Expression, bool) {
	if s.Body != nil {
		if v, ok := s.Body.FindVariable(name); ok {
			return ast.NewVariableCall(0, name, v, v.Value.ReturnType()), true
		}
	}
	if s.Method != nil {
		for _, p := range s.Method.Parameters {
			if p.Name == name {
				v := &ast.Variable{Name: name, IsMutable: p.IsMutable}
				return ast.NewVariableCall(0, name, v, p.DeclaredType), true
			}
		}
	}
	if s.Owner != nil {
		for _, m := range s.Owner.Members {
			if m.Name == name {
				v := &ast.Variable{Name: name, Value: m.Initializer, IsMutable: m.IsMutable}
				return ast.NewVariableCall(0, name, v, m.DeclaredType), true
			}
		}
	}
	return nil, false
}

// resolveMutableTarget reports whether name is currently bound to a mutable
// variable, parameter, or member, and a setter to record the reassignment.
// A mutable parameter's reassignment is recorded as a same-named shadow
// binding in the current body, since a Parameter has nowhere else to hold
// an updated value; resolveIdentifier checks the body before the parameter
// list, so the shadow takes over for the rest of that body's lexical scope.
func (s *Scope) resolveMutableTarget(name string) (isMutable bool, found bool, reassign func(ast.Expression)) {
	if s.Body != nil {
		if v, ok := s.Body.FindVariable(name); ok {
			body := s.Body
			return v.IsMutable, true, func(e ast.Expression) { body.Reassign(name, e) }
		}
	}
	if s.Method != nil {
		for _, p := range s.Method.Parameters {
			if p.Name == name {
				body := s.Body
				isMutableParam := p.IsMutable
				return isMutableParam, true, func(e ast.Expression) {
					if body != nil {
						body.Define(name, e, true)
					}
				}
			}
		}
	}
	if s.Owner != nil {
		for _, m := range s.Owner.Members {
			if m.Name == name {
				member := m
				return member.IsMutable, true, func(e ast.Expression) { member.Initializer = e }
			}
		}
	}
	return false, false, nil
}

func resolveMember(t *ast.Type, name string) (*ast.Member, bool) {
	if t == nil {
		return nil, false
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
