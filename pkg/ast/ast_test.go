package ast

import (
	"fmt"
	"testing"
)

func TestRegisterStubRejectsDuplicateName(t *testing.T) {
	root := NewRoot()
	pkg := NewPackage(root, root, "sample", "sample")
	if _, err := pkg.RegisterStub("Widget"); err != nil {
		t.Fatalf("unexpected error registering Widget: %v", err)
	}
	if _, err := pkg.RegisterStub("Widget"); err == nil {
		t.Fatalf("expected error registering duplicate type name")
	}
}

func TestPackageFindTypeFallsBackToParentThenBase(t *testing.T) {
	root := NewRoot()
	root.User = NewPackage(root, root, "sample", "sample")
	child := root.User.Child("shapes")

	if _, ok := child.FindType("Number"); !ok {
		t.Fatalf("expected Number to resolve through Base fallback")
	}

	widget, err := root.User.RegisterStub("Widget")
	if err != nil {
		t.Fatalf("RegisterStub: %v", err)
	}
	found, ok := child.FindType("Widget")
	if !ok || found != widget {
		t.Fatalf("expected child package to resolve Widget from its parent")
	}
}

func TestTypesPreservesRegistrationOrder(t *testing.T) {
	root := NewRoot()
	pkg := NewPackage(root, root, "sample", "sample")
	names := []string{"Zebra", "Apple", "Mango"}
	for _, n := range names {
		if _, err := pkg.RegisterStub(n); err != nil {
			t.Fatalf("RegisterStub(%q): %v", n, err)
		}
	}
	types := pkg.Types()
	if len(types) != len(names) {
		t.Fatalf("expected %d types, got %d", len(names), len(types))
	}
	for i, want := range names {
		if types[i].Name != want {
			t.Fatalf("Types()[%d] = %q, want %q", i, types[i].Name, want)
		}
	}
}

func TestIsTraitRequiresEmptyMembersAndImplements(t *testing.T) {
	root := NewRoot()
	pkg := NewPackage(root, root, "sample", "sample")
	trait, _ := pkg.RegisterStub("Shape")
	if !trait.IsTrait() {
		t.Fatalf("expected empty type with no implements to be a trait")
	}
	trait.AddMember(&Member{Owner: trait, Name: "sides"})
	if trait.IsTrait() {
		t.Fatalf("expected type with a member to not be a trait")
	}
}

func TestAvailableMethodsIsComputedOnceAndCached(t *testing.T) {
	root := NewRoot()
	pkg := NewPackage(root, root, "sample", "sample")
	typ, _ := pkg.RegisterStub("Widget")

	calls := 0
	typ.SetAvailableMethodsSource(func() map[string][]*Method {
		calls++
		return map[string][]*Method{"area": {{Name: "area", OwningType: typ}}}
	})

	first := typ.AvailableMethods()
	second := typ.AvailableMethods()
	if calls != 1 {
		t.Fatalf("expected source to be called exactly once, got %d calls", calls)
	}
	if len(first["area"]) != 1 || len(second["area"]) != 1 {
		t.Fatalf("expected area method to be present in both calls")
	}
}

func TestGetBodyParsesOnceAndCachesError(t *testing.T) {
	m := &Method{Name: "area"}
	calls := 0
	wantErr := fmt.Errorf("boom")
	m.SetBodyLines([]string{"\treturn 1"}, func(method *Method) (*Body, error) {
		calls++
		return nil, wantErr
	})

	_, err1 := m.GetBody()
	_, err2 := m.GetBody()
	if calls != 1 {
		t.Fatalf("expected parseFn to run exactly once, got %d calls", calls)
	}
	if err1 != wantErr || err2 != wantErr {
		t.Fatalf("expected both calls to return the cached error")
	}
}

func TestBodyDefineFindVariableAndReassign(t *testing.T) {
	outer := NewBody(nil, nil, 1, 1, 3)
	outer.Define("total", NewNumberLiteral(1, "0", nil), true)

	inner := NewBody(nil, outer, 2, 2, 2)
	if _, ok := inner.FindVariable("total"); !ok {
		t.Fatalf("expected inner body to see outer body's variable")
	}
	if _, ok := inner.FindLocal("total"); ok {
		t.Fatalf("FindLocal must not see a parent body's variable")
	}

	updated := NewNumberLiteral(2, "5", nil)
	inner.Reassign("total", updated)
	v, ok := outer.FindVariable("total")
	if !ok || v.Value != updated {
		t.Fatalf("expected Reassign through a child body to update the parent's binding")
	}
}

func TestBodyReturnTypeUsesTerminalReturn(t *testing.T) {
	body := NewBody(nil, nil, 1, 1, 2)
	numberLiteral := NewNumberLiteral(1, "1", nil)
	body.Append(NewReturnExpr(2, numberLiteral))
	if body.ReturnType() != numberLiteral.ReturnType() {
		t.Fatalf("expected body's return type to come from its terminal return")
	}
}

func TestBodyReturnTypeFallsBackToTrailingExpression(t *testing.T) {
	body := NewBody(nil, nil, 1, 1, 1)
	numberLiteral := NewNumberLiteral(1, "1", nil)
	body.Append(numberLiteral)
	if body.ReturnType() != numberLiteral.ReturnType() {
		t.Fatalf("expected body's return type to fall back to its last expression")
	}
}

func TestIfExprInlineVsStatementForm(t *testing.T) {
	cond := NewBooleanLiteral(1, true, nil)
	thenBody := NewBody(nil, nil, 1, 1, 1)
	stmt := NewIfStatement(1, cond, thenBody, nil)
	if stmt.Inline {
		t.Fatalf("NewIfStatement must produce the non-inline form")
	}

	thenExpr := NewNumberLiteral(1, "1", nil)
	elseExpr := NewNumberLiteral(1, "2", nil)
	inline := NewIfExpression(1, cond, thenExpr, elseExpr)
	if !inline.Inline {
		t.Fatalf("NewIfExpression must produce the inline form")
	}
	if inline.ToString() != "true ? 1 else 2" {
		t.Fatalf("unexpected ToString(): %q", inline.ToString())
	}
}

func TestAssignmentExprIsReassignment(t *testing.T) {
	declared := NewAssignmentExpr(1, "let", "x", NewNumberLiteral(1, "1", nil))
	if declared.IsReassignment() {
		t.Fatalf("a fresh 'let' declaration must not be a reassignment")
	}
	reassigned := NewAssignmentExpr(2, "", "x", NewNumberLiteral(2, "2", nil))
	if !reassigned.IsReassignment() {
		t.Fatalf("an empty keyword must mark the node as a reassignment")
	}
}
