package parser

import (
	"strings"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/resolver"
)

// parseMethodName extracts the leading method name from a signature line:
// a word (letters only), a recognized symbol operator, the word operators
// "and"/"or"/"not", or the composite "is not". Returns the name and the
// rest of the line after it (not yet trimmed of the parameter list).
func parseMethodName(line string) (name string, rest string, ok bool) {
	if line == "" {
		return "", "", false
	}
	r := rune(line[0])
	switch {
	case isLetter(r):
		i := 0
		for i < len(line) && isLetter(rune(line[i])) {
			i++
		}
		word := line[:i]
		if word == "is" {
			after := line[i:]
			trimmedAfter := strings.TrimLeft(after, " ")
			if strings.HasPrefix(trimmedAfter, "not") {
				afterNot := trimmedAfter[len("not"):]
				if afterNot == "" || afterNot[0] == '(' || afterNot[0] == ' ' {
					return "is not", afterNot, true
				}
			}
		}
		return word, line[i:], true
	case strings.ContainsRune(symbolOperatorRunes, r):
		if len(line) >= 2 && isTwoCharOperator(line[:2]) {
			return line[:2], line[2:], true
		}
		return line[:1], line[1:], true
	default:
		return "", "", false
	}
}

func isTwoCharOperator(s string) bool {
	switch s {
	case "<=", ">=":
		return true
	default:
		return false
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ParseMethodSignature parses the first line of a method: name, parameters,
// return type, without consuming or parsing the body.
func ParseMethodSignature(owner *ast.Type, res *resolver.Resolver, line string, lineNo int) (*ast.Method, []*errs.ParseError) {
	typeName := owner.Name
	name, rest, ok := parseMethodName(line)
	if !ok {
		return nil, []*errs.ParseError{errs.Signature(typeName, "", lineNo, line, "unrecognized method name in %q", line)}
	}

	rest = strings.TrimLeft(rest, " ")
	var params []*ast.Parameter
	var errsOut []*errs.ParseError

	if strings.HasPrefix(rest, "(") {
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return nil, []*errs.ParseError{errs.Signature(typeName, name, lineNo, line, "unterminated parameter list")}
		}
		inner := strings.TrimSpace(rest[1:close])
		rest = strings.TrimLeft(rest[close+1:], " ")
		if inner == "" {
			errsOut = append(errsOut, errs.Signature(typeName, name, lineNo, line, "empty parentheses are not allowed; omit them for a zero-parameter method"))
		} else {
			paramToks := splitTopLevelCommas(inner)
			if len(paramToks) > MaxParameters {
				errsOut = append(errsOut, errs.LimitExceeded(typeName, name, lineNo, "method has %d parameters, limit is %d", len(paramToks), MaxParameters))
			}
			for _, pt := range paramToks {
				p, perrs := parseParameter(owner, res, typeName, name, pt, lineNo)
				errsOut = append(errsOut, perrs...)
				if p != nil {
					params = append(params, p)
				}
			}
		}
	}

	returnTok := strings.TrimSpace(rest)
	var returnType *ast.Type
	switch {
	case returnTok == "":
		if name == "from" {
			returnType = owner
		} else {
			returnType, _ = resolveTypeName(owner, "None")
		}
	case returnTok == "Any" || containsAny(returnTok):
		errsOut = append(errsOut, errs.Signature(typeName, name, lineNo, line, "return type may not be Any"))
	default:
		rt, rerr := parseTypeExpr(owner, res, typeName, returnTok, lineNo, 0)
		if rerr != nil {
			errsOut = append(errsOut, rerr)
		} else {
			returnType = rt
		}
	}

	m := &ast.Method{
		OwningType: owner,
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Line:       lineNo,
	}
	return m, errsOut
}

func parseParameter(owner *ast.Type, res *resolver.Resolver, typeName, methodName, tok string, lineNo int) (*ast.Parameter, []*errs.ParseError) {
	var errsOut []*errs.ParseError
	fields := strings.Fields(tok)
	if len(fields) == 0 {
		return nil, []*errs.ParseError{errs.Signature(typeName, methodName, lineNo, tok, "empty parameter")}
	}
	paramName := fields[0]
	if !startsLowerRune(paramName) {
		errsOut = append(errsOut, errs.Signature(typeName, methodName, lineNo, tok, "parameter %q must start lowercase", paramName))
	}

	remainder := strings.TrimSpace(tok[len(paramName):])
	var defaultExprTok string
	if eq := strings.Index(remainder, "="); eq >= 0 {
		defaultExprTok = strings.TrimSpace(remainder[eq+1:])
		remainder = strings.TrimSpace(remainder[:eq])
	}

	if remainder == "" {
		errsOut = append(errsOut, errs.Signature(typeName, methodName, lineNo, tok, "parameter %q is missing a type", paramName))
		return nil, errsOut
	}
	if containsAny(remainder) {
		errsOut = append(errsOut, errs.Signature(typeName, methodName, lineNo, tok, "parameter type may not be Any"))
		return nil, errsOut
	}

	declaredType, terr := parseTypeExpr(owner, res, typeName, remainder, lineNo, 0)
	if terr != nil {
		errsOut = append(errsOut, terr)
		return nil, errsOut
	}

	p := &ast.Parameter{Name: paramName, DeclaredType: declaredType}
	if defaultExprTok != "" {
		expr, derr := ParseStandaloneExpression(owner, res, defaultExprTok, lineNo)
		if derr != nil {
			errsOut = append(errsOut, derr)
		} else {
			p.DefaultValue = expr
		}
	}
	return p, errsOut
}

func startsLowerRune(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return r >= 'a' && r <= 'z'
}
