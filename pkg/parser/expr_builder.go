package parser

import (
	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/resolver"
)

// ParseStandaloneExpression parses a value expression that stands on its
// own outside a method body: a parameter default value or a member
// initializer, both of which have no enclosing Body to resolve variables
// against.
func ParseStandaloneExpression(owner *ast.Type, res *resolver.Resolver, exprText string, line int) (ast.Expression, *errs.ParseError) {
	scope := &Scope{Owner: owner, Resolver: res}
	return parseValueExpression(scope, exprText, line)
}

// parseValueExpression tokenizes and parses one complete value expression
// within scope.
func parseValueExpression(scope *Scope, text string, line int) (ast.Expression, *errs.ParseError) {
	typeName := scopeTypeName(scope)
	toks, terr := tokenize(text, typeName, line)
	if terr != nil {
		return nil, terr
	}
	if len(toks) == 0 {
		return nil, errs.Syntax(typeName, line, text, "empty expression")
	}
	p := &exprParser{scope: scope, toks: toks, line: line, typeName: typeName}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errs.Syntax(typeName, line, text, "unexpected trailing tokens in expression")
	}
	return expr, nil
}

func scopeTypeName(scope *Scope) string {
	if scope == nil || scope.Owner == nil {
		return ""
	}
	return scope.Owner.Name
}

// exprParser holds the Shunting-Yard state for one expression: a token
// cursor and, while parseExpression runs, the operand/operator stacks.
type exprParser struct {
	scope    *Scope
	toks     []token
	pos      int
	line     int
	typeName string
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// parseExpression runs the Shunting-Yard algorithm: atoms (including any
// dotted/call postfix chain, resolved eagerly by parseAtom) are pushed as
// operands, binary operators are shunted against the precedence table in
// pkg/parser/operators.go, and a leading "not" is applied to the atom that
// immediately follows it. It stops, without consuming, at a token that
// closes an enclosing construct (a bare comma or ")"), so it composes as a
// sub-parser for argument lists and list literals.
func (p *exprParser) parseExpression() (ast.Expression, *errs.ParseError) {
	var operands []ast.Expression
	var operators []string

	apply := func() *errs.ParseError {
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if len(operands) < 2 {
			return errs.Syntax(p.typeName, p.line, "", "malformed expression around operator %q", op)
		}
		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = operands[:len(operands)-2]
		method, merr := resolver.FindBinaryMethod(left.ReturnType(), op, []*ast.Type{right.ReturnType()})
		if merr != nil {
			return errs.TypeMismatch(p.typeName, "", p.line, "%s", merr.Error())
		}
		operands = append(operands, ast.NewBinaryExpr(p.line, op, left, right, method, method.ReturnType))
		return nil
	}

	for {
		t, ok := p.peek()
		if !ok || t.kind == tokComma || t.kind == tokRParen {
			break
		}
		if t.kind == tokNot {
			p.pos++
			operand, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			method, merr := resolver.FindMethod(operand.ReturnType(), "not", nil)
			if merr != nil {
				return nil, errs.TypeMismatch(p.typeName, "", p.line, "%s", merr.Error())
			}
			operands = append(operands, ast.NewNotExpr(p.line, operand, method, method.ReturnType))
			continue
		}
		if t.kind == tokOp {
			p.pos++
			for len(operators) > 0 && shouldPop(operators[len(operators)-1], t.text) {
				if err := apply(); err != nil {
					return nil, err
				}
			}
			operators = append(operators, t.text)
			continue
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		operands = append(operands, atom)
	}

	for len(operators) > 0 {
		if err := apply(); err != nil {
			return nil, err
		}
	}
	if len(operands) != 1 {
		return nil, errs.Syntax(p.typeName, p.line, "", "malformed expression")
	}
	return operands[0], nil
}

func shouldPop(top, incoming string) bool {
	if rightAssociative[incoming] {
		return precedenceOf(top) > precedenceOf(incoming)
	}
	return precedenceOf(top) >= precedenceOf(incoming)
}

// parseAtom parses one primary expression (a literal, an identifier, a
// constructor call, or a parenthesized group/list) followed by any chain
// of ".member" / ".method(args)" postfix navigation.
func (p *exprParser) parseAtom() (ast.Expression, *errs.ParseError) {
	t, ok := p.next()
	if !ok {
		return nil, errs.Syntax(p.typeName, p.line, "", "unexpected end of expression")
	}

	var expr ast.Expression
	var err *errs.ParseError
	switch t.kind {
	case tokNumber:
		numberType, _ := resolveBaseType(p.scope, "Number")
		expr = ast.NewNumberLiteral(p.line, t.text, numberType)
	case tokText:
		textType, _ := resolveBaseType(p.scope, "Text")
		expr = ast.NewTextLiteral(p.line, t.text, textType)
	case tokIdent:
		expr, err = p.parseIdentAtom(t.text)
	case tokLParen:
		expr, err = p.parseParenOrList()
	default:
		return nil, errs.Syntax(p.typeName, p.line, t.text, "unexpected token %q in expression", t.text)
	}
	if err != nil {
		return nil, err
	}

	for {
		dt, ok := p.peek()
		if !ok || dt.kind != tokDot {
			break
		}
		p.pos++
		nameTok, ok := p.next()
		if !ok || nameTok.kind != tokIdent {
			return nil, errs.Syntax(p.typeName, p.line, "", "expected a member or method name after '.'")
		}
		if lp, ok := p.peek(); ok && lp.kind == tokLParen {
			p.pos++
			args, aerr := p.parseArgList()
			if aerr != nil {
				return nil, aerr
			}
			method, merr := resolver.FindMethod(expr.ReturnType(), nameTok.text, argTypesOf(args))
			if merr != nil {
				return nil, errs.NameResolution(p.typeName, nameTok.text, p.line, "%s", merr.Error())
			}
			expr = ast.NewMethodCall(p.line, expr, nameTok.text, method, args, method.ReturnType)
			continue
		}
		member, ok := resolveMember(expr.ReturnType(), nameTok.text)
		if !ok {
			return nil, errs.NameResolution(p.typeName, "", p.line, "type %q has no member %q", expr.ReturnType().Name, nameTok.text)
		}
		expr = ast.NewMemberCall(p.line, expr, nameTok.text, member, member.DeclaredType)
	}
	return expr, nil
}

func (p *exprParser) parseIdentAtom(name string) (ast.Expression, *errs.ParseError) {
	if name == "true" || name == "false" {
		boolType, _ := resolveBaseType(p.scope, "Boolean")
		return ast.NewBooleanLiteral(p.line, name == "true", boolType), nil
	}
	if startsUpperRune(name) {
		return p.parseConstructorCall(name)
	}
	if lp, ok := p.peek(); ok && lp.kind == tokLParen {
		p.pos++
		args, aerr := p.parseArgList()
		if aerr != nil {
			return nil, aerr
		}
		if p.scope.Owner == nil {
			return nil, errs.NameResolution(p.typeName, name, p.line, "method %q called with no owning type in scope", name)
		}
		method, merr := resolver.FindMethod(p.scope.Owner, name, argTypesOf(args))
		if merr != nil {
			return nil, errs.NameResolution(p.typeName, name, p.line, "%s", merr.Error())
		}
		return ast.NewMethodCall(p.line, nil, name, method, args, method.ReturnType), nil
	}
	expr, found := p.scope.resolveIdentifier(name)
	if !found {
		return nil, errs.NameResolution(p.typeName, "", p.line, "unresolved identifier %q", name)
	}
	return expr, nil
}

func (p *exprParser) parseConstructorCall(name string) (ast.Expression, *errs.ParseError) {
	target, ok := resolveTypeName(p.scope.Owner, name)
	if !ok {
		return nil, errs.NameResolution(p.typeName, "", p.line, "type %q not found", name)
	}
	lp, ok := p.peek()
	if !ok || lp.kind != tokLParen {
		return nil, errs.Syntax(p.typeName, p.line, name, "type %q used as a value must be called", name)
	}
	p.pos++
	args, aerr := p.parseArgList()
	if aerr != nil {
		return nil, aerr
	}
	method, resolved, cerr := p.scope.Resolver.ResolveConstructorCall(target, argTypesOf(args))
	if cerr != nil {
		return nil, errs.NameResolution(p.typeName, "", p.line, "%s", cerr.Error())
	}
	if name == "Mutable" {
		if len(args) != 1 {
			return nil, errs.Syntax(p.typeName, p.line, name, "Mutable(value) takes exactly one argument")
		}
		return ast.NewMutableExpr(p.line, args[0], resolved), nil
	}
	return ast.NewFromExpr(p.line, name, args, resolved, method), nil
}

// parseArgList parses the comma-separated argument list of a call whose
// opening "(" has already been consumed, up to and including the closing
// ")".
func (p *exprParser) parseArgList() ([]ast.Expression, *errs.ParseError) {
	var args []ast.Expression
	if t, ok := p.peek(); ok && t.kind == tokRParen {
		p.pos++
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t, ok := p.next()
		if !ok {
			return nil, errs.Syntax(p.typeName, p.line, "", "unterminated argument list")
		}
		if t.kind == tokComma {
			continue
		}
		if t.kind == tokRParen {
			break
		}
		return nil, errs.Syntax(p.typeName, p.line, t.text, "expected ',' or ')' in argument list")
	}
	return args, nil
}

// parseParenOrList parses either a parenthesized grouping (a single
// element) or a non-empty list literal (two or more comma-separated
// elements), with the opening "(" already consumed.
func (p *exprParser) parseParenOrList() (ast.Expression, *errs.ParseError) {
	if t, ok := p.peek(); ok && t.kind == tokRParen {
		return nil, errs.Syntax(p.typeName, p.line, "", "empty lists are forbidden")
	}
	var elements []ast.Expression
	for {
		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		t, ok := p.next()
		if !ok {
			return nil, errs.Syntax(p.typeName, p.line, "", "unterminated parenthesized expression")
		}
		if t.kind == tokComma {
			continue
		}
		if t.kind == tokRParen {
			break
		}
		return nil, errs.Syntax(p.typeName, p.line, t.text, "expected ',' or ')'")
	}
	if len(elements) == 1 {
		return elements[0], nil
	}
	first := elements[0].ReturnType()
	for _, el := range elements[1:] {
		if !resolver.Compatible(el.ReturnType(), first) {
			return nil, errs.TypeMismatch(p.typeName, "", p.line, "list elements must share a compatible type")
		}
	}
	listTemplate, ok := resolveBaseType(p.scope, "List")
	if !ok {
		return nil, errs.NameResolution(p.typeName, "", p.line, "builtin type List not found")
	}
	inst, ierr := p.scope.Resolver.Instantiator.Instantiate(listTemplate, []*ast.Type{first})
	if ierr != nil {
		return nil, errs.Generic(p.typeName, "", "%s", ierr.Error())
	}
	p.scope.Resolver.Wire(inst)
	return ast.NewListLiteral(p.line, elements, inst), nil
}

func resolveBaseType(scope *Scope, name string) (*ast.Type, bool) {
	if scope == nil || scope.Owner == nil || scope.Owner.Package == nil {
		return nil, false
	}
	root := scope.Owner.Package.Root()
	if root == nil || root.Base == nil {
		return nil, false
	}
	return root.Base.GetType(name)
}

func argTypesOf(args []ast.Expression) []*ast.Type {
	types := make([]*ast.Type, len(args))
	for i, a := range args {
		types[i] = a.ReturnType()
	}
	return types
}

func startsUpperRune(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return r >= 'A' && r <= 'Z'
}
