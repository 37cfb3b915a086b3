package parser

import (
	"strings"

	"github.com/strict-lang/strict/pkg/errs"
)

type tokKind int

const (
	tokNumber tokKind = iota
	tokText
	tokIdent
	tokOp
	tokNot
	tokLParen
	tokRParen
	tokComma
	tokDot
)

type token struct {
	kind tokKind
	text string
}

// tokenize turns the text of a value expression into a flat token stream.
// Dotted navigation and call parentheses are tokenized as plain tokDot/
// tokLParen/tokRParen; the expression builder, not the tokenizer, decides
// whether a "(" opens a call, a grouping, or a list literal.
func tokenize(s string, typeName string, line int) ([]token, *errs.ParseError) {
	var toks []token
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '"':
			j := i + 1
			var b strings.Builder
			closed := false
			for j < n {
				if s[j] == '\\' && j+1 < n && (s[j+1] == '"' || s[j+1] == '\\') {
					b.WriteByte(s[j+1])
					j += 2
					continue
				}
				if s[j] == '"' {
					closed = true
					j++
					break
				}
				b.WriteByte(s[j])
				j++
			}
			if !closed {
				return nil, errs.Syntax(typeName, line, s, "unterminated text literal")
			}
			toks = append(toks, token{tokText, b.String()})
			i = j
		case isDigit(c):
			j := i + 1
			for j < n && isDigit(s[j]) {
				j++
			}
			if j < n && s[j] == '.' && j+1 < n && isDigit(s[j+1]) {
				j++
				for j < n && isDigit(s[j]) {
					j++
				}
			}
			toks = append(toks, token{tokNumber, s[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			i = j
			switch word {
			case "is":
				k := i
				for k < n && (s[k] == ' ' || s[k] == '\t') {
					k++
				}
				if strings.HasPrefix(s[k:], "not") && (k+3 == n || !isIdentPart(s[k+3])) {
					toks = append(toks, token{tokOp, "is not"})
					i = k + 3
				} else {
					toks = append(toks, token{tokOp, "is"})
				}
			case "and", "or":
				toks = append(toks, token{tokOp, word})
			case "not":
				toks = append(toks, token{tokNot, word})
			default:
				toks = append(toks, token{tokIdent, word})
			}
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case strings.ContainsRune(symbolOperatorRunes, rune(c)):
			if i+1 < n && isTwoCharOperator(s[i:i+2]) {
				toks = append(toks, token{tokOp, s[i : i+2]})
				i += 2
			} else {
				toks = append(toks, token{tokOp, s[i : i+1]})
				i++
			}
		default:
			return nil, errs.Syntax(typeName, line, s, "unrecognized character %q in expression", c)
		}
	}
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
