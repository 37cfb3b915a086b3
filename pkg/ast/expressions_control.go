package ast

// IfExpr covers both forms the grammar allows: the statement form (`if
// cond` followed by an indented then-body and an optional else-body at the
// same depth) and the inline conditional-expression form (`cond ? a else
// b`), which cannot itself be nested. Exactly one of {ThenBody, ThenExpr}
// and, if present, one of {ElseBody, ElseExpr} is set, selected by Inline.
type IfExpr struct {
	exprBase
	Condition Expression
	Inline    bool

	ThenBody *Body
	ElseBody *Body

	ThenExpr Expression
	ElseExpr Expression
}

// NewIfStatement builds the statement form: `if cond` with a then-body and
// an optional else-body.
func NewIfStatement(line int, condition Expression, thenBody, elseBody *Body) *IfExpr {
	return &IfExpr{
		exprBase:  newExprBase(KindIf, line, thenBody.ReturnType()),
		Condition: condition,
		ThenBody:  thenBody,
		ElseBody:  elseBody,
	}
}

// NewIfExpression builds the inline ternary form: `cond ? then else else`.
func NewIfExpression(line int, condition, then, elseExpr Expression) *IfExpr {
	return &IfExpr{
		exprBase:  newExprBase(KindIf, line, then.ReturnType()),
		Condition: condition,
		Inline:    true,
		ThenExpr:  then,
		ElseExpr:  elseExpr,
	}
}

func (i *IfExpr) ToString() string {
	if i.Inline {
		s := i.Condition.ToString() + " ? " + i.ThenExpr.ToString()
		if i.ElseExpr != nil {
			s += " else " + i.ElseExpr.ToString()
		}
		return s
	}
	return "if " + i.Condition.ToString()
}

// ForExpr is a for-loop. Plain `for <iterable>` introduces the implicit
// `index`/`value` variables; `for var in <iterable>` introduces an explicit
// loop variable bound to each element of the iterable.
type ForExpr struct {
	exprBase
	Iterable    Expression
	LoopVar     string // "" when using the implicit index/value variables
	ElementType *Type
	Body        *Body
}

func NewForExpr(line int, iterable Expression, loopVar string, elementType *Type, body *Body) *ForExpr {
	return &ForExpr{
		exprBase:    newExprBase(KindFor, line, body.ReturnType()),
		Iterable:    iterable,
		LoopVar:     loopVar,
		ElementType: elementType,
		Body:        body,
	}
}

func (f *ForExpr) ToString() string {
	if f.LoopVar == "" {
		return "for " + f.Iterable.ToString()
	}
	return "for " + f.LoopVar + " in " + f.Iterable.ToString()
}

// ReturnExpr is an explicit `return value`.
type ReturnExpr struct {
	exprBase
	Value Expression
}

func NewReturnExpr(line int, value Expression) *ReturnExpr {
	var rtype *Type
	if value != nil {
		rtype = value.ReturnType()
	}
	return &ReturnExpr{exprBase: newExprBase(KindReturn, line, rtype), Value: value}
}

func (r *ReturnExpr) ToString() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.ToString()
}
