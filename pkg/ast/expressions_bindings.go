package ast

// BinaryExpr is a binary operator application, resolved to a method found
// either on the left operand's type or on BinaryOperator.
type BinaryExpr struct {
	exprBase
	Operator string
	Left     Expression
	Right    Expression
	Method   *Method
}

func NewBinaryExpr(line int, operator string, left, right Expression, method *Method, rtype *Type) *BinaryExpr {
	return &BinaryExpr{exprBase: newExprBase(KindBinary, line, rtype), Operator: operator, Left: left, Right: right, Method: method}
}

func (b *BinaryExpr) ToString() string {
	return b.Left.ToString() + " " + b.Operator + " " + b.Right.ToString()
}

// NotExpr is the single unary expression `not x`, resolved to `x.not()`.
type NotExpr struct {
	exprBase
	Operand Expression
	Method  *Method
}

func NewNotExpr(line int, operand Expression, method *Method, rtype *Type) *NotExpr {
	return &NotExpr{exprBase: newExprBase(KindNot, line, rtype), Operand: operand, Method: method}
}

func (n *NotExpr) ToString() string { return "not " + n.Operand.ToString() }

// AssignmentExpr covers both fresh immutable bindings (`let`/`constant`,
// Keyword non-empty) and reassignment of an existing mutable variable or
// member (Keyword empty) -- the data model's sum type has no separate
// Reassignment kind, so both forms share this node.
type AssignmentExpr struct {
	exprBase
	Keyword string // "let", "constant", or "" for a bare reassignment
	Name    string
	Value   Expression
}

func NewAssignmentExpr(line int, keyword, name string, value Expression) *AssignmentExpr {
	return &AssignmentExpr{exprBase: newExprBase(KindAssignment, line, value.ReturnType()), Keyword: keyword, Name: name, Value: value}
}

func (a *AssignmentExpr) ToString() string {
	if a.Keyword == "" {
		return a.Name + " = " + a.Value.ToString()
	}
	return a.Keyword + " " + a.Name + " = " + a.Value.ToString()
}

// IsReassignment reports whether this node targets an existing mutable
// binding rather than declaring a fresh immutable one.
func (a *AssignmentExpr) IsReassignment() bool { return a.Keyword == "" }

// MutableDeclarationExpr is `mutable name = value`: like AssignmentExpr but
// always declares a fresh, reassignable variable.
type MutableDeclarationExpr struct {
	exprBase
	Name  string
	Value Expression
}

func NewMutableDeclarationExpr(line int, name string, value Expression) *MutableDeclarationExpr {
	return &MutableDeclarationExpr{exprBase: newExprBase(KindMutableDeclaration, line, value.ReturnType()), Name: name, Value: value}
}

func (m *MutableDeclarationExpr) ToString() string {
	return "mutable " + m.Name + " = " + m.Value.ToString()
}

// MutableExpr is the bare `Mutable(expr)` call form: it wraps a value as a
// Mutable(T) instance without binding a name.
type MutableExpr struct {
	exprBase
	Inner Expression
}

func NewMutableExpr(line int, inner Expression, rtype *Type) *MutableExpr {
	return &MutableExpr{exprBase: newExprBase(KindMutable, line, rtype), Inner: inner}
}

func (m *MutableExpr) ToString() string { return "Mutable(" + m.Inner.ToString() + ")" }
