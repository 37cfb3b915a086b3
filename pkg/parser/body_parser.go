package parser

import (
	"strings"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/resolver"
)

// rawLine is one physical body line together with its file line number and
// its tab-indentation depth relative to the method's own declaration.
type rawLine struct {
	tabs int
	text string // with the leading tabs already stripped
	line int
}

// splitIndentedLines groups a method's raw body lines (as captured by the
// type parser, already stripped of the method-signature line itself) into
// rawLine records, rejecting any line not indented purely with tabs or
// outside the valid 1..3 tab indentation range (spec.md §4.2).
func splitIndentedLines(typeName string, lines []string, startLine int) ([]rawLine, *errs.ParseError) {
	out := make([]rawLine, 0, len(lines))
	for i, raw := range lines {
		tabs := 0
		for tabs < len(raw) && raw[tabs] == '\t' {
			tabs++
		}
		rest := raw[tabs:]
		if strings.ContainsAny(rest, " \t") && strings.HasPrefix(rest, " ") {
			return nil, errs.Syntax(typeName, startLine+i, raw, "indentation must use tabs, not spaces")
		}
		if tabs < MinBodyIndent || tabs > MaxBodyIndent {
			return nil, errs.Syntax(typeName, startLine+i, raw, "body indentation must be between %d and %d tabs, got %d", MinBodyIndent, MaxBodyIndent, tabs)
		}
		out = append(out, rawLine{tabs: tabs, text: rest, line: startLine + i})
	}
	return out, nil
}

// buildBodyTree groups rawLine records at depth baseTabs+1 (and deeper, as
// RawChildBodies) into a single *ast.Body, the way the pre-parse stage
// separates structural grouping from expression parsing.
func buildBodyTree(method *ast.Method, parent *ast.Body, lines []rawLine, baseTabs int) *ast.Body {
	if len(lines) == 0 {
		return ast.NewBody(method, parent, baseTabs+1, 0, 0)
	}
	childTabs := baseTabs + 1
	body := ast.NewBody(method, parent, childTabs, lines[0].line, lines[len(lines)-1].line)

	i := 0
	for i < len(lines) {
		if lines[i].tabs != childTabs {
			i++
			continue
		}
		j := i + 1
		for j < len(lines) && lines[j].tabs > childTabs {
			j++
		}
		nested := lines[i+1 : j]
		if len(nested) > 0 {
			body.RawChildBodies = append(body.RawChildBodies, buildBodyTree(method, body, nested, childTabs))
		}
		i = j
	}
	return body
}

// parseBody parses a fully pre-parsed *ast.Body (built by buildBodyTree) by
// walking its own direct lines (paired with already-grouped RawChildBodies
// for nested blocks) through the per-line statement dispatcher.
func parseBody(scope *Scope, body *ast.Body, lines []rawLine) *errs.ParseError {
	childTabs := body.Tabs
	childIdx := 0
	i := 0
	for i < len(lines) {
		if lines[i].tabs != childTabs {
			i++
			continue
		}
		line := lines[i]
		j := i + 1
		for j < len(lines) && lines[j].tabs > childTabs {
			j++
		}
		nested := lines[i+1 : j]

		if strings.HasPrefix(line.text, "else") {
			if len(body.Children) == 0 {
				return errs.Syntax(scope.Owner.Name, line.line, line.text, "'else' with no preceding 'if'")
			}
			prevIf, ok := body.Children[len(body.Children)-1].(*ast.IfExpr)
			if !ok {
				return errs.Syntax(scope.Owner.Name, line.line, line.text, "'else' with no preceding 'if'")
			}
			var elseBody *ast.Body
			if childIdx < len(body.RawChildBodies) {
				elseBody = body.RawChildBodies[childIdx]
				childIdx++
			} else {
				elseBody = ast.NewBody(body.Method, body, childTabs+1, line.line, line.line)
			}
			if err := parseBody(scope.child(elseBody), elseBody, nested); err != nil {
				return err
			}
			prevIf.ElseBody = elseBody
			i = j
			continue
		}

		expr, nestedBody, err := parseStatementLine(scope, body, line, func() *ast.Body {
			var b *ast.Body
			if childIdx < len(body.RawChildBodies) {
				b = body.RawChildBodies[childIdx]
				childIdx++
			} else {
				b = ast.NewBody(body.Method, body, childTabs+1, line.line, line.line)
			}
			return b
		})
		if err != nil {
			return err
		}
		if nestedBody != nil {
			if perr := parseBody(scope.child(nestedBody), nestedBody, nested); perr != nil {
				return perr
			}
		}
		body.Append(expr)
		i = j
	}
	return nil
}

// parseStatementLine dispatches one top-level body line to the matching
// statement form. takeChildBody lazily claims the next pre-parsed nested
// block (an if/for's own body) the first time it's needed.
func parseStatementLine(scope *Scope, body *ast.Body, line rawLine, takeChildBody func() *ast.Body) (ast.Expression, *ast.Body, *errs.ParseError) {
	text := line.text

	switch {
	case strings.HasPrefix(text, "let "):
		return parseDeclaration(scope, body, "let", text[len("let "):], line)
	case strings.HasPrefix(text, "constant "):
		return parseDeclaration(scope, body, "constant", text[len("constant "):], line)
	case strings.HasPrefix(text, "mutable "):
		return parseMutableDeclaration(scope, body, text[len("mutable "):], line)
	case strings.HasPrefix(text, "if "):
		cond, cerr := parseValueExpression(scope, text[len("if "):], line.line)
		if cerr != nil {
			return nil, nil, cerr
		}
		if cerr := requireBoolean(scope, cond, line.line); cerr != nil {
			return nil, nil, cerr
		}
		thenBody := takeChildBody()
		ifExpr := ast.NewIfStatement(line.line, cond, thenBody, nil)
		return ifExpr, thenBody, nil
	case text == "for" || strings.HasPrefix(text, "for "):
		return parseFor(scope, text, line, takeChildBody)
	case text == "return":
		return ast.NewReturnExpr(line.line, nil), nil, nil
	case strings.HasPrefix(text, "return "):
		val, verr := parseValueOrTernary(scope, text[len("return "):], line.line)
		if verr != nil {
			return nil, nil, verr
		}
		return ast.NewReturnExpr(line.line, val), nil, nil
	default:
		if name, rhs, ok := splitAssignment(text); ok {
			return parseReassignment(scope, body, name, rhs, line)
		}
		expr, err := parseValueOrTernary(scope, text, line.line)
		if err != nil {
			return nil, nil, err
		}
		return expr, nil, nil
	}
}

// parseValueOrTernary recognizes the inline "cond ? then else elseValue"
// conditional-expression form before falling back to the ordinary
// Shunting-Yard value-expression parser; per spec.md §4.6 the inline form
// cannot itself be nested, so its three parts are each parsed as plain
// value expressions, never recursively as another ternary.
func parseValueOrTernary(scope *Scope, text string, line int) (ast.Expression, *errs.ParseError) {
	condTok, thenTok, elseTok, ok := splitTernary(text)
	if !ok {
		return parseValueExpression(scope, text, line)
	}
	cond, err := parseValueExpression(scope, condTok, line)
	if err != nil {
		return nil, err
	}
	if err := requireBoolean(scope, cond, line); err != nil {
		return nil, err
	}
	then, err := parseValueExpression(scope, thenTok, line)
	if err != nil {
		return nil, err
	}
	var elseExpr ast.Expression
	if elseTok != "" {
		elseExpr, err = parseValueExpression(scope, elseTok, line)
		if err != nil {
			return nil, err
		}
		// then.ReturnType() becomes the IfExpr's own return type below, so
		// else must be usable wherever then's type is expected -- checked in
		// that one direction, not the reverse (a one-way Number->Text upcast
		// would otherwise let "1 else \"x\"" slip through as compatible).
		if !resolver.Compatible(elseExpr.ReturnType(), then.ReturnType()) {
			return nil, errs.TypeMismatch(scopeTypeName(scope), "", line, "ternary branches have incompatible types %q and %q", then.ReturnType().Name, elseExpr.ReturnType().Name)
		}
	}
	return ast.NewIfExpression(line, cond, then, elseExpr), nil
}

// requireBoolean enforces that cond's return type is the Base Boolean type,
// the condition type every "if" (statement or inline) requires.
func requireBoolean(scope *Scope, cond ast.Expression, line int) *errs.ParseError {
	boolType, ok := resolveBaseType(scope, "Boolean")
	if !ok || !resolver.Compatible(cond.ReturnType(), boolType) {
		got := ""
		if cond.ReturnType() != nil {
			got = cond.ReturnType().Name
		}
		return errs.TypeMismatch(scopeTypeName(scope), "", line, "'if' condition must be Boolean, got %q", got)
	}
	return nil
}

// splitTernary finds a top-level '?' and the top-level " else " that
// follows it, both outside parentheses and text literals.
func splitTernary(text string) (cond, then, els string, ok bool) {
	depth := 0
	inText := false
	qIdx := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '"' && (i == 0 || text[i-1] != '\\') {
			inText = !inText
			continue
		}
		if inText {
			continue
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case '?':
			if depth == 0 {
				qIdx = i
			}
		}
		if qIdx >= 0 {
			break
		}
	}
	if qIdx < 0 {
		return "", "", "", false
	}
	cond = strings.TrimSpace(text[:qIdx])
	rest := text[qIdx+1:]

	depth = 0
	inText = false
	elseIdx := -1
	for i := 0; i+len(" else ") <= len(rest)+1 && i < len(rest); i++ {
		c := rest[i]
		if c == '"' && (i == 0 || rest[i-1] != '\\') {
			inText = !inText
			continue
		}
		if inText {
			continue
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(rest[i:], " else ") {
			elseIdx = i
			break
		}
	}
	if elseIdx < 0 {
		return cond, strings.TrimSpace(rest), "", true
	}
	then = strings.TrimSpace(rest[:elseIdx])
	els = strings.TrimSpace(rest[elseIdx+len(" else "):])
	return cond, then, els, true
}

func parseDeclaration(scope *Scope, body *ast.Body, keyword, rest string, line rawLine) (ast.Expression, *ast.Body, *errs.ParseError) {
	name, rhs, ok := splitAssignment(rest)
	if !ok {
		return nil, nil, errs.Syntax(scope.Owner.Name, line.line, line.text, "expected 'name = expression' after %q", keyword)
	}
	if _, dup := body.FindLocal(name); dup {
		return nil, nil, errs.Syntax(scope.Owner.Name, line.line, line.text, "%q is already declared in this body", name)
	}
	value, err := parseValueOrTernary(scope, rhs, line.line)
	if err != nil {
		return nil, nil, err
	}
	body.Define(name, value, false)
	return ast.NewAssignmentExpr(line.line, keyword, name, value), nil, nil
}

func parseMutableDeclaration(scope *Scope, body *ast.Body, rest string, line rawLine) (ast.Expression, *ast.Body, *errs.ParseError) {
	name, rhs, ok := splitAssignment(rest)
	if !ok {
		return nil, nil, errs.Syntax(scope.Owner.Name, line.line, line.text, "expected 'name = expression' after 'mutable'")
	}
	if _, dup := body.FindLocal(name); dup {
		return nil, nil, errs.Syntax(scope.Owner.Name, line.line, line.text, "%q is already declared in this body", name)
	}
	value, err := parseValueOrTernary(scope, rhs, line.line)
	if err != nil {
		return nil, nil, err
	}
	body.Define(name, value, true)
	return ast.NewMutableDeclarationExpr(line.line, name, value), nil, nil
}

func parseReassignment(scope *Scope, body *ast.Body, name, rhs string, line rawLine) (ast.Expression, *ast.Body, *errs.ParseError) {
	isMutable, found, reassign := scope.resolveMutableTarget(name)
	if !found {
		return nil, nil, errs.NameResolution(scope.Owner.Name, "", line.line, "%q is not declared", name)
	}
	if !isMutable {
		return nil, nil, errs.ImmutableViolation(scope.Owner.Name, "", line.line, "%q is not mutable", name)
	}
	value, err := parseValueOrTernary(scope, rhs, line.line)
	if err != nil {
		return nil, nil, err
	}
	if current, ok := scope.resolveIdentifier(name); ok {
		if !resolver.Compatible(value.ReturnType(), current.ReturnType()) {
			return nil, nil, errs.TypeMismatch(scope.Owner.Name, "", line.line, "cannot reassign %q of type %q with a value of incompatible type %q", name, current.ReturnType().Name, value.ReturnType().Name)
		}
	}
	reassign(value)
	return ast.NewAssignmentExpr(line.line, "", name, value), nil, nil
}

func parseFor(scope *Scope, text string, line rawLine, takeChildBody func() *ast.Body) (ast.Expression, *ast.Body, *errs.ParseError) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "for"))
	var loopVar, iterableTok string
	if idx := strings.Index(rest, " in "); idx >= 0 {
		loopVar = strings.TrimSpace(rest[:idx])
		iterableTok = strings.TrimSpace(rest[idx+len(" in "):])
	} else {
		iterableTok = rest
	}
	iterable, err := parseValueExpression(scope, iterableTok, line.line)
	if err != nil {
		return nil, nil, err
	}
	elemType, ok := resolver.IterableElementType(iterable.ReturnType())
	if !ok {
		return nil, nil, errs.TypeMismatch(scope.Owner.Name, "", line.line, "%q is not iterable", iterableTok)
	}
	forBody := takeChildBody()
	if loopVar != "" {
		// The "in" form's loop variable must be mutable: each iteration
		// rebinds it to the next element.
		forBody.Define(loopVar, ast.NewVariableCall(line.line, loopVar, nil, elemType), true)
	} else {
		if _, shadowed := scope.Body.FindVariable("index"); shadowed {
			return nil, nil, errs.Syntax(scope.Owner.Name, line.line, line.text, "'index' may not be shadowed by a nested 'for'")
		}
		number, _ := numberType(scope.Owner)
		forBody.Define("index", ast.NewVariableCall(line.line, "index", nil, number), false)
		forBody.Define("value", ast.NewVariableCall(line.line, "value", nil, elemType), false)
	}
	forExpr := ast.NewForExpr(line.line, iterable, loopVar, elemType, forBody)
	return forExpr, forBody, nil
}

func numberType(owner *ast.Type) (*ast.Type, bool) {
	if owner == nil || owner.Package == nil || owner.Package.Root() == nil || owner.Package.Root().Base == nil {
		return nil, false
	}
	return owner.Package.Root().Base.GetType("Number")
}

// splitAssignment splits "name = expr" at the first top-level "=" (not
// part of "==", which this language spells "is", so a bare "=" is
// unambiguous), returning false when no "=" is present.
func splitAssignment(text string) (name, rhs string, ok bool) {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '=':
			if depth == 0 {
				name = strings.TrimSpace(text[:i])
				rhs = strings.TrimSpace(text[i+1:])
				if name == "" || rhs == "" || !isSimpleName(name) {
					return "", "", false
				}
				return name, rhs, true
			}
		}
	}
	return "", "", false
}

func isSimpleName(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentStart(byte(r)) {
			return false
		}
		if i > 0 && !isIdentPart(byte(r)) {
			return false
		}
	}
	return true
}
