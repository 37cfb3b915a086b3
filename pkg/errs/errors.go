// Package errs defines the tagged error taxonomy shared by every parsing and
// resolution stage: a single enum of error kinds plus one context-carrying
// error type, rather than a hierarchy of error structs per stage.
package errs

import "fmt"

// Kind tags a ParseError with the category of failure that produced it.
type Kind string

const (
	KindSyntax           Kind = "SyntaxError"
	KindSignature        Kind = "SignatureError"
	KindNameResolution   Kind = "NameResolution"
	KindType             Kind = "TypeError"
	KindLimitExceeded    Kind = "LimitExceeded"
	KindTraitContract    Kind = "TraitContract"
	KindGeneric          Kind = "GenericError"
	KindImmutableViolate Kind = "ImmutableViolation"
)

// ParseError is the single error shape used across the loader, parser and
// resolver. Every parse failure is fatal for its enclosing file; nothing in
// this module catches or retries a ParseError.
type ParseError struct {
	Kind     Kind
	Type     string
	Line     int
	LineText string
	Method   string
	Message  string
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	loc := e.Type
	if e.Method != "" {
		loc = fmt.Sprintf("%s.%s", e.Type, e.Method)
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s in %s:%d: %s", e.Kind, loc, e.Line, e.Message)
	}
	return fmt.Sprintf("%s in %s: %s", e.Kind, loc, e.Message)
}

// New builds a ParseError with the given kind and message, annotated with
// the type/method/line context it occurred in.
func New(kind Kind, typeName, method string, line int, lineText, message string) *ParseError {
	return &ParseError{
		Kind:     kind,
		Type:     typeName,
		Method:   method,
		Line:     line,
		LineText: lineText,
		Message:  message,
	}
}

func Syntax(typeName string, line int, lineText, format string, args ...any) *ParseError {
	return New(KindSyntax, typeName, "", line, lineText, fmt.Sprintf(format, args...))
}

func Signature(typeName, method string, line int, lineText, format string, args ...any) *ParseError {
	return New(KindSignature, typeName, method, line, lineText, fmt.Sprintf(format, args...))
}

func NameResolution(typeName, method string, line int, format string, args ...any) *ParseError {
	return New(KindNameResolution, typeName, method, line, "", fmt.Sprintf(format, args...))
}

func TypeMismatch(typeName, method string, line int, format string, args ...any) *ParseError {
	return New(KindType, typeName, method, line, "", fmt.Sprintf(format, args...))
}

func LimitExceeded(typeName, method string, line int, format string, args ...any) *ParseError {
	return New(KindLimitExceeded, typeName, method, line, "", fmt.Sprintf(format, args...))
}

func TraitContract(typeName string, format string, args ...any) *ParseError {
	return New(KindTraitContract, typeName, "", 0, "", fmt.Sprintf(format, args...))
}

func Generic(typeName, method string, format string, args ...any) *ParseError {
	return New(KindGeneric, typeName, method, 0, "", fmt.Sprintf(format, args...))
}

func ImmutableViolation(typeName, method string, line int, format string, args ...any) *ParseError {
	return New(KindImmutableViolate, typeName, method, line, "", fmt.Sprintf(format, args...))
}

// List aggregates every ParseError collected while loading a package tree,
// so that one malformed file does not stop the rest of the tree from being
// reported in the same pass.
type List struct {
	Errors []*ParseError
}

func (l *List) Add(err *ParseError) {
	if err == nil {
		return
	}
	l.Errors = append(l.Errors, err)
}

func (l *List) AddAll(errs []*ParseError) {
	for _, e := range errs {
		l.Add(e)
	}
}

func (l *List) HasErrors() bool {
	return l != nil && len(l.Errors) > 0
}

func (l *List) Error() string {
	if l == nil || len(l.Errors) == 0 {
		return ""
	}
	msg := fmt.Sprintf("%d error(s) while loading package:", len(l.Errors))
	for _, e := range l.Errors {
		msg += "\n  " + e.Error()
	}
	return msg
}
