package ast

import "strings"

// VariableCall is an identifier reference resolved (in order) to a body
// variable, a parameter, or a member (the implicit self fallback).
type VariableCall struct {
	exprBase
	Name     string
	Variable *Variable
}

func NewVariableCall(line int, name string, variable *Variable, rtype *Type) *VariableCall {
	return &VariableCall{exprBase: newExprBase(KindVariableCall, line, rtype), Name: name, Variable: variable}
}

func (v *VariableCall) ToString() string { return v.Name }

// MemberCall is dotted navigation into a member of the target's return
// type: `target.memberName`.
type MemberCall struct {
	exprBase
	Target     Expression
	MemberName string
	Member     *Member
}

func NewMemberCall(line int, target Expression, memberName string, member *Member, rtype *Type) *MemberCall {
	return &MemberCall{exprBase: newExprBase(KindMemberCall, line, rtype), Target: target, MemberName: memberName, Member: member}
}

func (m *MemberCall) ToString() string {
	return m.Target.ToString() + "." + m.MemberName
}

// MethodCall is a (possibly dotted) call to a resolved Method: `target.
// name(args)`, or a bare `name(args)` when Target is nil.
type MethodCall struct {
	exprBase
	Target     Expression
	MethodName string
	Method     *Method
	Arguments  []Expression
}

func NewMethodCall(line int, target Expression, name string, method *Method, args []Expression, rtype *Type) *MethodCall {
	return &MethodCall{exprBase: newExprBase(KindMethodCall, line, rtype), Target: target, MethodName: name, Method: method, Arguments: args}
}

func (m *MethodCall) ToString() string {
	var b strings.Builder
	if m.Target != nil {
		b.WriteString(m.Target.ToString())
		b.WriteByte('.')
	}
	b.WriteString(m.MethodName)
	b.WriteByte('(')
	for i, arg := range m.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.ToString())
	}
	b.WriteByte(')')
	return b.String()
}

// FromExpr constructs a value of Type via its `from` method, or by
// auto-initialization when the argument list matches the member sequence.
type FromExpr struct {
	exprBase
	TypeName  string
	Arguments []Expression
	Target    *Type
	Method    *Method // nil when auto-initialized from member order
}

func NewFromExpr(line int, typeName string, args []Expression, target *Type, method *Method) *FromExpr {
	return &FromExpr{exprBase: newExprBase(KindFrom, line, target), TypeName: typeName, Arguments: args, Target: target, Method: method}
}

func (f *FromExpr) ToString() string {
	var b strings.Builder
	b.WriteString(f.TypeName)
	b.WriteByte('(')
	for i, arg := range f.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.ToString())
	}
	b.WriteByte(')')
	return b.String()
}
