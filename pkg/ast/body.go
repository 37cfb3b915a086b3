package ast

// Variable is a name bound within a Body: a body-local `let`/`constant`, a
// `mutable` declaration, a parameter, or (found via the member fallback) a
// type's own member reinterpreted as an implicit `self` variable.
type Variable struct {
	Name      string
	Value     Expression
	IsMutable bool
}

// Body is a scope node: an indentation-delimited block of ordered
// expressions with its own mutable variable bindings, created during
// pre-parse and populated during expression parsing.
type Body struct {
	Tabs      int
	LineStart int
	LineEnd   int
	Parent    *Body
	Method    *Method

	variables map[string]*Variable
	Children  []Expression

	// RawChildBodies holds the pre-parsed, not-yet-expression-parsed nested
	// blocks discovered by the body pre-parser (e.g. an `if`'s then/else
	// block, a `for`'s loop body) before the expression parser descends
	// into them. Once parsed, the owning If/For expression holds its own
	// *Body and this slice is no longer consulted.
	RawChildBodies []*Body
}

// NewBody constructs an (initially empty) scope at the given depth.
func NewBody(method *Method, parent *Body, tabs, lineStart, lineEnd int) *Body {
	return &Body{
		Tabs:      tabs,
		LineStart: lineStart,
		LineEnd:   lineEnd,
		Parent:    parent,
		Method:    method,
		variables: make(map[string]*Variable),
	}
}

// Define binds name in this body's scope. Callers are expected to have
// already checked for duplicate-in-same-body via FindLocal.
func (b *Body) Define(name string, value Expression, mutable bool) {
	b.variables[name] = &Variable{Name: name, Value: value, IsMutable: mutable}
}

// FindLocal looks up name only within this body's own scope (used to detect
// "duplicate name in the same body").
func (b *Body) FindLocal(name string) (*Variable, bool) {
	v, ok := b.variables[name]
	return v, ok
}

// FindVariable returns the nearest lexically enclosing binding for name,
// walking outward through parent bodies.
func (b *Body) FindVariable(name string) (*Variable, bool) {
	for scope := b; scope != nil; scope = scope.Parent {
		if v, ok := scope.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Reassign updates the bound expression of an existing mutable variable.
// Callers must have already verified the variable exists and is mutable.
func (b *Body) Reassign(name string, value Expression) {
	for scope := b; scope != nil; scope = scope.Parent {
		if v, ok := scope.variables[name]; ok {
			v.Value = value
			return
		}
	}
}

// Append adds a parsed top-level expression to this body's ordered child
// list.
func (b *Body) Append(expr Expression) {
	b.Children = append(b.Children, expr)
}

// ReturnType is the return type of a body: the declared type of a terminal
// `return`, if the last child expression is one, otherwise the return type
// of the last child expression (implicit trailing-expression return), or
// nil for a body with no expressions.
func (b *Body) ReturnType() *Type {
	if len(b.Children) == 0 {
		return nil
	}
	last := b.Children[len(b.Children)-1]
	if ret, ok := last.(*ReturnExpr); ok {
		return ret.ReturnType()
	}
	return last.ReturnType()
}
