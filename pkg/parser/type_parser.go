package parser

import (
	"strings"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/resolver"
)

// stage tracks where in a type file's declaration ordering (spec.md §4.1:
// import*, implement*, has*, method*) the cursor currently is; a later
// stage's keyword may not be followed by an earlier one.
type stage int

const (
	stageImport stage = iota
	stageImplement
	stageHas
	stageMethod
)

// ParseTypeFile fills in a previously stub-registered Type from its source
// lines: import/implement/has declarations, then method signatures with
// their raw (not yet expression-parsed) bodies, then whole-type invariants
// (member/method/line-count limits, trait contract satisfaction).
func ParseTypeFile(owner *ast.Type, res *resolver.Resolver, lines []string) []*errs.ParseError {
	var errsOut []*errs.ParseError
	owner.LineCount = len(lines)
	if len(lines) > MaxTypeLines {
		errsOut = append(errsOut, errs.LimitExceeded(owner.Name, "", 0, "type has %d lines, limit is %d", len(lines), MaxTypeLines))
	}

	cur := stageImport
	methodCount := 0
	methodBodyStarts := make(map[*ast.Method]int)
	i := 0
	for i < len(lines) {
		lineNo := i + 1
		raw := lines[i]

		if verr := validateTopLine(owner.Name, raw, lineNo); verr != nil {
			errsOut = append(errsOut, verr)
			i++
			continue
		}
		text := raw

		switch {
		case strings.HasPrefix(text, "import "):
			if cur > stageImport {
				errsOut = append(errsOut, errs.Syntax(owner.Name, lineNo, raw, "'import' must precede 'implement', 'has', and methods"))
			}
			if perr := parseImportLine(owner, text[len("import "):], lineNo); perr != nil {
				errsOut = append(errsOut, perr)
			}
			i++

		case strings.HasPrefix(text, "implement "):
			if cur > stageImplement {
				errsOut = append(errsOut, errs.Syntax(owner.Name, lineNo, raw, "'implement' must precede 'has' and methods"))
			}
			cur = stageImplement
			if perr := parseImplementLine(owner, text[len("implement "):], lineNo); perr != nil {
				errsOut = append(errsOut, perr)
			}
			i++

		case strings.HasPrefix(text, "has "):
			if cur > stageHas {
				errsOut = append(errsOut, errs.Syntax(owner.Name, lineNo, raw, "'has' must precede methods"))
			}
			cur = stageHas
			if len(owner.Members) >= MaxMembers {
				errsOut = append(errsOut, errs.LimitExceeded(owner.Name, "", lineNo, "type has more than %d members", MaxMembers))
			} else if perr := parseHasLine(owner, res, text[len("has "):], lineNo); perr != nil {
				errsOut = append(errsOut, perr)
			}
			i++

		default:
			cur = stageMethod
			methodCount++
			if methodCount > MaxMethods {
				errsOut = append(errsOut, errs.LimitExceeded(owner.Name, "", lineNo, "type has more than %d methods", MaxMethods))
			}
			method, merrs := ParseMethodSignature(owner, res, text, lineNo)
			errsOut = append(errsOut, merrs...)

			bodyStart := i + 1
			j := bodyStart
			for j < len(lines) && startsWithTab(lines[j]) {
				j++
			}
			bodyLines := lines[bodyStart:j]
			if len(bodyLines) > MaxMethodBodyLines {
				errsOut = append(errsOut, errs.LimitExceeded(owner.Name, method.Name, bodyStart+1, "method body has %d lines, limit is %d", len(bodyLines), MaxMethodBodyLines))
			}
			if method != nil {
				method.SetBodyLines(bodyLines, makeBodyParser(owner, res, bodyStart+1))
				owner.AddMethod(method)
				methodBodyStarts[method] = bodyStart + 1
			}
			i = j
		}
	}

	res.Wire(owner)
	for _, m := range owner.Methods {
		bodyStart, ok := methodBodyStarts[m]
		if !ok {
			continue
		}
		if perr := checkBodyReturnType(m, bodyStart); perr != nil {
			errsOut = append(errsOut, perr)
		}
	}
	errsOut = append(errsOut, resolver.ValidateImplementations(owner)...)
	errsOut = append(errsOut, resolver.ValidateBodyPresence(owner)...)
	return errsOut
}

// checkBodyReturnType forces the method's otherwise-lazily-parsed body (now
// that the owning type is fully wired, so self-referential member/method
// lookups inside the body resolve correctly) and confirms its inferred
// return type is assignable to the method's declared return type. A method
// with no declared return type is checked against None, its default return
// type; an empty body (trait stubs) has no return type and is not compared.
func checkBodyReturnType(m *ast.Method, bodyStart int) *errs.ParseError {
	body, err := m.GetBody()
	if err != nil {
		if pe, ok := err.(*errs.ParseError); ok {
			return pe
		}
		return errs.Syntax(m.OwningType.Name, bodyStart, "", "%v", err)
	}
	if body == nil || m.ReturnType == nil {
		return nil
	}
	actual := body.ReturnType()
	if actual == nil {
		return nil
	}
	if !resolver.Compatible(actual, m.ReturnType) {
		return errs.TypeMismatch(m.OwningType.Name, m.Name, bodyStart,
			"method %q returns %q, declared return type is %q", m.Name, actual.Name, m.ReturnType.Name)
	}
	return nil
}

// validateTopLine enforces the whitespace rules shared by every line:
// reject trailing whitespace, blank lines, and line-length overruns.
func validateTopLine(typeName, raw string, lineNo int) *errs.ParseError {
	if raw == "" {
		return errs.Syntax(typeName, lineNo, raw, "blank lines are not allowed")
	}
	if strings.TrimRight(raw, " \t") != raw {
		return errs.Syntax(typeName, lineNo, raw, "trailing whitespace is not allowed")
	}
	if len(raw) > MaxLineChars {
		return errs.LimitExceeded(typeName, "", lineNo, "line has %d characters, limit is %d", len(raw), MaxLineChars)
	}
	if strings.HasPrefix(raw, "\t") || strings.HasPrefix(raw, " ") {
		return errs.Syntax(typeName, lineNo, raw, "top-level declarations must not be indented")
	}
	return nil
}

func startsWithTab(s string) bool {
	return strings.HasPrefix(s, "\t")
}

func parseImportLine(owner *ast.Type, name string, lineNo int) *errs.ParseError {
	name = strings.TrimSpace(name)
	if owner.Package == nil || owner.Package.Root() == nil {
		return errs.NameResolution(owner.Name, "", lineNo, "package %q not found", name)
	}
	root := owner.Package.Root()
	pkg, ok := findImportedPackage(root, name)
	if !ok {
		return errs.NameResolution(owner.Name, "", lineNo, "package %q not found", name)
	}
	owner.Imports = append(owner.Imports, pkg)
	return nil
}

func findImportedPackage(root *ast.Root, path string) (*ast.Package, bool) {
	segments := splitDotsLocal(path)
	for _, start := range []*ast.Package{root.User, root.Base} {
		pkg := start
		ok := true
		for i, seg := range segments {
			if pkg == nil {
				ok = false
				break
			}
			if i == 0 && pkg.Name() == seg {
				continue
			}
			var next *ast.Package
			found := false
			for _, child := range pkg.Children() {
				if child.Name() == seg {
					next, found = child, true
					break
				}
			}
			if !found {
				ok = false
				break
			}
			pkg = next
		}
		if ok && pkg != nil {
			return pkg, true
		}
	}
	return nil, false
}

func splitDotsLocal(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func parseImplementLine(owner *ast.Type, name string, lineNo int) *errs.ParseError {
	name = strings.TrimSpace(name)
	if name == "Any" {
		return errs.Syntax(owner.Name, lineNo, name, "a type may not implement 'Any' explicitly")
	}
	t, ok := resolveTypeName(owner, name)
	if !ok {
		return errs.NameResolution(owner.Name, "", lineNo, "trait %q not found", name)
	}
	owner.Implements = append(owner.Implements, t)
	return nil
}

// parseHasLine parses "has [mutable] name [Type] [= expression]". When the
// type is omitted, the member name (or its capitalized form) is looked up
// directly as a type name -- the auto-alias convention spec.md's member
// naming note describes ("starts lowercase or names another type").
func parseHasLine(owner *ast.Type, res *resolver.Resolver, rest string, lineNo int) *errs.ParseError {
	mutable := false
	if strings.HasPrefix(rest, "mutable ") {
		mutable = true
		rest = rest[len("mutable "):]
	}

	var typeTok, defaultTok string
	name := rest
	if eq := topLevelIndex(rest, '='); eq >= 0 {
		name = strings.TrimSpace(rest[:eq])
		defaultTok = strings.TrimSpace(rest[eq+1:])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return errs.Syntax(owner.Name, lineNo, rest, "empty member declaration")
	}
	memberName := fields[0]
	if len(fields) > 1 {
		typeTok = strings.Join(fields[1:], " ")
	}

	var declaredType *ast.Type
	if typeTok != "" {
		t, terr := parseTypeExpr(owner, res, owner.Name, typeTok, lineNo, 0)
		if terr != nil {
			return terr
		}
		declaredType = t
	} else {
		t, ok := resolveTypeName(owner, memberName)
		if !ok {
			capitalized := strings.ToUpper(memberName[:1]) + memberName[1:]
			t, ok = resolveTypeName(owner, capitalized)
		}
		if !ok {
			return errs.NameResolution(owner.Name, "", lineNo, "member %q has no explicit type and no type named after it was found", memberName)
		}
		declaredType = t
	}

	member := &ast.Member{Owner: owner, Name: memberName, DeclaredType: declaredType, IsMutable: mutable, Line: lineNo}
	if defaultTok != "" {
		expr, derr := ParseStandaloneExpression(owner, res, defaultTok, lineNo)
		if derr != nil {
			return derr
		}
		member.Initializer = expr
	}
	owner.AddMember(member)
	return nil
}

func topLevelIndex(s string, target byte) int {
	depth := 0
	inText := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
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
		default:
			if c == target && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// makeBodyParser builds the lazy body-parse closure wired onto a Method via
// SetBodyLines: pre-parse (tab grouping) followed by the per-line statement
// dispatcher, run once on first GetBody call.
func makeBodyParser(owner *ast.Type, res *resolver.Resolver, startLine int) func(*ast.Method) (*ast.Body, error) {
	return func(m *ast.Method) (*ast.Body, error) {
		lines, err := splitIndentedLines(owner.Name, m.BodyLines(), startLine)
		if err != nil {
			return nil, err
		}
		top := buildBodyTree(m, nil, lines, 0)

		scope := &Scope{Owner: owner, Method: m, Resolver: res}
		if perr := parseBody(scope.child(top), top, lines); perr != nil {
			return nil, perr
		}
		return top, nil
	}
}
