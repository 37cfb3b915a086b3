package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/resolver"
)

func newTypeParserEnv(t *testing.T) (*ast.Root, *resolver.Resolver) {
	t.Helper()
	root := ast.NewRoot()
	root.User = ast.NewPackage(root, root, "sample", "sample")
	res := resolver.New()
	for _, bt := range root.Base.Types() {
		res.Wire(bt)
	}
	return root, res
}

func registerWithBase(t *testing.T, root *ast.Root, name string) *ast.Type {
	t.Helper()
	typ, err := root.User.RegisterStub(name)
	if err != nil {
		t.Fatalf("RegisterStub(%q): %v", name, err)
	}
	return typ
}

func TestParseTypeFileImportImplementHasMethod(t *testing.T) {
	root, res := newTypeParserEnv(t)
	shape := registerWithBase(t, root, "Shape")
	circle := registerWithBase(t, root, "Circle")

	lines := []string{
		"import Base",
		"implement Shape",
		"has radius Number",
		"area Number",
		"\treturn radius * radius",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) != 0 {
		t.Fatalf("unexpected errors: %v", errsOut)
	}
	if len(circle.Implements) != 1 || circle.Implements[0] != shape {
		t.Fatalf("expected Circle to implement Shape, got %+v", circle.Implements)
	}
	if len(circle.Members) != 1 || circle.Members[0].Name != "radius" {
		t.Fatalf("expected a 'radius' member, got %+v", circle.Members)
	}
	if len(circle.Methods) != 1 || circle.Methods[0].Name != "area" {
		t.Fatalf("expected an 'area' method, got %+v", circle.Methods)
	}
}

func TestParseTypeFileRejectsHasAfterMethod(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	lines := []string{
		"area Number",
		"\treturn 1",
		"has radius Number",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected an ordering violation for 'has' following a method")
	}
}

func TestParseTypeFileRejectsImplementAfterHas(t *testing.T) {
	root, res := newTypeParserEnv(t)
	_ = registerWithBase(t, root, "Shape")
	circle := registerWithBase(t, root, "Circle")
	lines := []string{
		"has radius Number",
		"implement Shape",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected an ordering violation for 'implement' following 'has'")
	}
}

func TestParseTypeFileLineCountLimit(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	lines := make([]string, 0, MaxTypeLines+5)
	for i := 0; i < MaxTypeLines+5; i++ {
		lines = append(lines, fmt.Sprintf("has field%d Number", i))
	}
	errsOut := ParseTypeFile(circle, res, lines)
	found := false
	for _, e := range errsOut {
		if strings.Contains(e.Error(), "lines") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a line-count limit error among: %v", errsOut)
	}
}

func TestParseTypeFileMemberLimitExceeded(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	var lines []string
	for i := 0; i < MaxMembers+3; i++ {
		lines = append(lines, fmt.Sprintf("has field%d Number", i))
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected a member-count limit error")
	}
	if len(circle.Members) != MaxMembers {
		t.Fatalf("expected members to stop being added past the limit, got %d", len(circle.Members))
	}
}

func TestParseTypeFileMethodLimitExceeded(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	var lines []string
	for i := 0; i < MaxMethods+2; i++ {
		lines = append(lines, fmt.Sprintf("method%d", i))
		lines = append(lines, "\treturn 1")
	}
	errsOut := ParseTypeFile(circle, res, lines)
	found := false
	for _, e := range errsOut {
		if strings.Contains(e.Error(), "methods") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a method-count limit error among: %v", errsOut)
	}
}

func TestParseTypeFileTraitNotSatisfied(t *testing.T) {
	root, res := newTypeParserEnv(t)
	shape := registerWithBase(t, root, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "area"})
	circle := registerWithBase(t, root, "Circle")

	lines := []string{"implement Shape"}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected implementing Shape without an 'area' method to fail trait validation")
	}
}

func TestParseTypeFileTraitSatisfied(t *testing.T) {
	root, res := newTypeParserEnv(t)
	shape := registerWithBase(t, root, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "area"})
	circle := registerWithBase(t, root, "Circle")

	lines := []string{
		"implement Shape",
		"area Number",
		"\treturn 1",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) != 0 {
		t.Fatalf("unexpected errors: %v", errsOut)
	}
}

func TestValidateTopLineRejectsBlankAndTrailingWhitespaceAndIndentation(t *testing.T) {
	if err := validateTopLine("Widget", "", 1); err == nil {
		t.Fatalf("expected a blank line to be rejected")
	}
	if err := validateTopLine("Widget", "has x Number ", 1); err == nil {
		t.Fatalf("expected trailing whitespace to be rejected")
	}
	if err := validateTopLine("Widget", "\thas x Number", 1); err == nil {
		t.Fatalf("expected an indented top-level declaration to be rejected")
	}
	if err := validateTopLine("Widget", strings.Repeat("a", MaxLineChars+1), 1); err == nil {
		t.Fatalf("expected an over-long line to be rejected")
	}
	if err := validateTopLine("Widget", "has x Number", 1); err != nil {
		t.Fatalf("unexpected error for a well-formed line: %v", err)
	}
}

func TestParseHasLineAutoAliasesMemberType(t *testing.T) {
	root, res := newTypeParserEnv(t)
	_ = registerWithBase(t, root, "Shape")
	circle := registerWithBase(t, root, "Circle")
	if perr := parseHasLine(circle, res, "shape", 1); perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	if len(circle.Members) != 1 || circle.Members[0].DeclaredType.Name != "Shape" {
		t.Fatalf("expected 'shape' to auto-alias to the 'Shape' type, got %+v", circle.Members)
	}
}

func TestParseTypeFileRejectsBodyReturnTypeMismatch(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	lines := []string{
		"area Text",
		"\treturn 1",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected a body returning Number against a declared Text return type to be rejected")
	}
}

func TestParseTypeFileAcceptsMatchingBodyReturnType(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	lines := []string{
		"has radius Number",
		"area Number",
		"\treturn radius * radius",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) != 0 {
		t.Fatalf("unexpected errors: %v", errsOut)
	}
}

func TestParseTypeFileRejectsTraitMethodWithBody(t *testing.T) {
	root, res := newTypeParserEnv(t)
	shape := registerWithBase(t, root, "Shape")
	lines := []string{
		"area Number",
		"\treturn 1",
	}
	errsOut := ParseTypeFile(shape, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected a trait type supplying a method body to be rejected")
	}
}

func TestParseTypeFileRejectsNonTraitMethodWithoutBody(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	lines := []string{
		"has radius Number",
		"area Number",
	}
	errsOut := ParseTypeFile(circle, res, lines)
	if len(errsOut) == 0 {
		t.Fatalf("expected a non-trait type's bodyless method to be rejected")
	}
}

func TestParseImplementLineRejectsExplicitAny(t *testing.T) {
	root, res := newTypeParserEnv(t)
	circle := registerWithBase(t, root, "Circle")
	errsOut := ParseTypeFile(circle, res, []string{"implement Any"})
	if len(errsOut) == 0 {
		t.Fatalf("expected 'implement Any' to be rejected")
	}
}
