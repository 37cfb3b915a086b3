package ast

import "strings"

// NumberLiteral is a Number value. Raw preserves the exact source text so
// ToString() round-trips without reformatting numeric literals.
type NumberLiteral struct {
	exprBase
	Raw string
}

func NewNumberLiteral(line int, raw string, numberType *Type) *NumberLiteral {
	return &NumberLiteral{exprBase: newExprBase(KindNumber, line, numberType), Raw: raw}
}

func (n *NumberLiteral) ToString() string { return n.Raw }

// TextLiteral is a quoted Text value.
type TextLiteral struct {
	exprBase
	Value string
}

func NewTextLiteral(line int, value string, textType *Type) *TextLiteral {
	return &TextLiteral{exprBase: newExprBase(KindText, line, textType), Value: value}
}

func (t *TextLiteral) ToString() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range t.Value {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// BooleanLiteral is a Boolean value.
type BooleanLiteral struct {
	exprBase
	Value bool
}

func NewBooleanLiteral(line int, value bool, boolType *Type) *BooleanLiteral {
	return &BooleanLiteral{exprBase: newExprBase(KindBoolean, line, boolType), Value: value}
}

func (b *BooleanLiteral) ToString() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// ListLiteral is a non-empty `(a, b, c)` list; elements must share a
// compatible return type, enforced by the parser/resolver, not here.
type ListLiteral struct {
	exprBase
	Elements []Expression
}

func NewListLiteral(line int, elements []Expression, listType *Type) *ListLiteral {
	return &ListLiteral{exprBase: newExprBase(KindList, line, listType), Elements: elements}
}

func (l *ListLiteral) ToString() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, el := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(el.ToString())
	}
	b.WriteByte(')')
	return b.String()
}
