package ast

// Kind tags the concrete shape of an Expression node, the way the data
// model's sum type names it: Number | Text | Boolean | List | MemberCall |
// VariableCall | MethodCall | Binary | Not | Assignment |
// MutableDeclaration | Mutable | If | For | Return | From.
type Kind string

const (
	KindNumber              Kind = "Number"
	KindText                Kind = "Text"
	KindBoolean             Kind = "Boolean"
	KindList                Kind = "List"
	KindMemberCall          Kind = "MemberCall"
	KindVariableCall        Kind = "VariableCall"
	KindMethodCall          Kind = "MethodCall"
	KindBinary              Kind = "Binary"
	KindNot                 Kind = "Not"
	KindAssignment          Kind = "Assignment"
	KindMutableDeclaration  Kind = "MutableDeclaration"
	KindMutable             Kind = "Mutable"
	KindIf                  Kind = "If"
	KindFor                 Kind = "For"
	KindReturn              Kind = "Return"
	KindFrom                Kind = "From"
)

// Expression is the closed sum type every parsed line reduces to. Every
// expression carries a return type and can render its own canonical textual
// form; re-parsing that text is expected to yield an equal expression
// (spec.md's round-trip invariant).
type Expression interface {
	Kind() Kind
	ReturnType() *Type
	ToString() string
	SourceLine() int
}

// exprBase is embedded by every concrete expression kind so the common
// (kind, line, returnType) triple is implemented once.
type exprBase struct {
	kind   Kind
	line   int
	rtype  *Type
}

func newExprBase(kind Kind, line int, rtype *Type) exprBase {
	return exprBase{kind: kind, line: line, rtype: rtype}
}

func (e exprBase) Kind() Kind        { return e.kind }
func (e exprBase) ReturnType() *Type { return e.rtype }
func (e exprBase) SourceLine() int   { return e.line }
