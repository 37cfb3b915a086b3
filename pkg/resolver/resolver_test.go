package resolver

import (
	"strings"
	"testing"

	"github.com/strict-lang/strict/pkg/ast"
)

func newTestPackage(t *testing.T) (*ast.Root, *ast.Package) {
	t.Helper()
	root := ast.NewRoot()
	root.User = ast.NewPackage(root, root, "sample", "sample")
	return root, root.User
}

// wireBase wires every Base type's AvailableMethods source, mirroring the
// step pkg/driver's LoadPackage performs once per load before any file is
// parsed.
func wireBase(res *Resolver, root *ast.Root) {
	for _, t := range root.Base.Types() {
		res.Wire(t)
	}
}

func mustType(t *testing.T, pkg *ast.Package, name string) *ast.Type {
	t.Helper()
	typ, err := pkg.RegisterStub(name)
	if err != nil {
		t.Fatalf("RegisterStub(%q): %v", name, err)
	}
	return typ
}

func TestCompatibleIdentityAnyAndImplements(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	any_, _ := root.Base.GetType("Any")

	if !Compatible(number, number) {
		t.Fatalf("a type must be compatible with itself")
	}
	if !Compatible(number, any_) {
		t.Fatalf("every type must be compatible with Any")
	}

	shape := mustType(t, pkg, "Shape")
	circle := mustType(t, pkg, "Circle")
	circle.Implements = append(circle.Implements, shape)
	if !Compatible(circle, shape) {
		t.Fatalf("expected Circle to be compatible with its implemented trait Shape")
	}
	if Compatible(shape, circle) {
		t.Fatalf("implements compatibility must not be symmetric")
	}
}

func TestCompatibleTransitiveImplements(t *testing.T) {
	_, pkg := newTestPackage(t)
	named := mustType(t, pkg, "Named")
	shape := mustType(t, pkg, "Shape")
	circle := mustType(t, pkg, "Circle")
	shape.Implements = append(shape.Implements, named)
	circle.Implements = append(circle.Implements, shape)

	if !Compatible(circle, named) {
		t.Fatalf("expected Circle to be compatible with Named through the transitive implements chain")
	}
}

func TestCompatibleNumberUpcasts(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	text, _ := root.Base.GetType("Text")
	boolean, _ := root.Base.GetType("Boolean")

	if !Compatible(number, text) {
		t.Fatalf("expected the Number -> Text upcast to hold")
	}
	if Compatible(boolean, text) {
		t.Fatalf("Boolean -> Text must not be an allowed upcast")
	}
}

func TestFindMethodExactArityMatch(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	res := New()

	widget := mustType(t, pkg, "Widget")
	widget.AddMethod(&ast.Method{OwningType: widget, Name: "scaledBy", Parameters: []*ast.Parameter{{Name: "factor", DeclaredType: number}}, ReturnType: widget})
	res.Wire(widget)

	m, err := FindMethod(widget, "scaledBy", []*ast.Type{number})
	if err != nil {
		t.Fatalf("FindMethod: %v", err)
	}
	if m.Name != "scaledBy" {
		t.Fatalf("expected scaledBy, got %q", m.Name)
	}
}

func TestFindMethodArityMismatchIsDistinctError(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	res := New()

	widget := mustType(t, pkg, "Widget")
	widget.AddMethod(&ast.Method{OwningType: widget, Name: "scaledBy", Parameters: []*ast.Parameter{{Name: "factor", DeclaredType: number}}, ReturnType: widget})
	res.Wire(widget)

	_, err := FindMethod(widget, "scaledBy", nil)
	if err == nil {
		t.Fatalf("expected an error when no overload matches arity")
	}
	if strings.Contains(err.Error(), "ArgumentsDoNotMatchMethodParameters") {
		t.Fatalf("expected an arity mismatch to be reported apart from an argument type mismatch, got %v", err)
	}
}

func TestFindMethodArgumentTypeMismatch(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	text, _ := root.Base.GetType("Text")
	res := New()

	widget := mustType(t, pkg, "Widget")
	widget.AddMethod(&ast.Method{OwningType: widget, Name: "scaledBy", Parameters: []*ast.Parameter{{Name: "factor", DeclaredType: number}}, ReturnType: widget})
	res.Wire(widget)

	_, err := FindMethod(widget, "scaledBy", []*ast.Type{text})
	if err == nil {
		t.Fatalf("expected ArgumentsDoNotMatchMethodParameters error")
	}
}

func TestFindBinaryMethodFallsBackToBinaryOperator(t *testing.T) {
	root, pkg := newTestPackage(t)
	res := New()

	widget := mustType(t, pkg, "Widget")
	res.Wire(widget)
	wireBase(res, root)

	m, err := FindBinaryMethod(widget, "+", []*ast.Type{widget})
	if err != nil {
		t.Fatalf("expected the BinaryOperator fallback to satisfy '+': %v", err)
	}
	if m.OwningType.Name != ast.BinaryOperatorTypeName {
		t.Fatalf("expected method to come from %q, got %q", ast.BinaryOperatorTypeName, m.OwningType.Name)
	}
}

func TestFindBinaryMethodPrefersLeftOperandType(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	res := New()
	res.Wire(number)

	m, err := FindBinaryMethod(number, "+", []*ast.Type{number})
	if err != nil {
		t.Fatalf("FindBinaryMethod: %v", err)
	}
	if m.OwningType != number {
		t.Fatalf("expected Number's own '+' method to be used, not the BinaryOperator fallback")
	}
}

func TestComputeAvailableMethodsIncludesImplementedTraits(t *testing.T) {
	root, pkg := newTestPackage(t)
	any_, _ := root.Base.GetType("Any")
	_ = any_

	shape := mustType(t, pkg, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "area"})
	circle := mustType(t, pkg, "Circle")
	circle.Implements = append(circle.Implements, shape)

	table := ComputeAvailableMethods(circle)
	if _, ok := table["area"]; !ok {
		t.Fatalf("expected Circle's available methods to include Shape's area")
	}
}

func TestValidateImplementationsReportsMissingMethod(t *testing.T) {
	_, pkg := newTestPackage(t)
	shape := mustType(t, pkg, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "area"})
	circle := mustType(t, pkg, "Circle")
	circle.Implements = append(circle.Implements, shape)

	errsOut := ValidateImplementations(circle)
	if len(errsOut) != 1 {
		t.Fatalf("expected exactly one trait contract violation, got %d", len(errsOut))
	}
}

func TestValidateImplementationsAcceptsSatisfiedTrait(t *testing.T) {
	_, pkg := newTestPackage(t)
	shape := mustType(t, pkg, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "area"})
	circle := mustType(t, pkg, "Circle")
	circle.Implements = append(circle.Implements, shape)
	circle.AddMethod(&ast.Method{OwningType: circle, Name: "area"})

	if errsOut := ValidateImplementations(circle); len(errsOut) != 0 {
		t.Fatalf("expected no violations, got %v", errsOut)
	}
}

func TestValidateImplementationsIgnoresFromConstructor(t *testing.T) {
	_, pkg := newTestPackage(t)
	shape := mustType(t, pkg, "Shape")
	shape.AddMethod(&ast.Method{OwningType: shape, Name: "from"})
	circle := mustType(t, pkg, "Circle")
	circle.Implements = append(circle.Implements, shape)

	if errsOut := ValidateImplementations(circle); len(errsOut) != 0 {
		t.Fatalf("a trait's 'from' must never be required on the implementer, got %v", errsOut)
	}
}

func TestInstantiateListNamesPluralOfElement(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	list, _ := root.Base.GetType("List")

	in := NewInstantiator()
	inst, err := in.Instantiate(list, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if inst.Name != "Numbers" {
		t.Fatalf("expected instantiation name Numbers, got %q", inst.Name)
	}
}

func TestInstantiateCachesByGenericAndArgs(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	list, _ := root.Base.GetType("List")

	in := NewInstantiator()
	first, err := in.Instantiate(list, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	second, err := in.Instantiate(list, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if first != second {
		t.Fatalf("expected repeated instantiation with the same arguments to return the cached instance")
	}
}

func TestInstantiateMutableRecordsWrappedType(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	mutable, _ := root.Base.GetType("Mutable")

	in := NewInstantiator()
	inst, err := in.Instantiate(mutable, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if inst.WrappedType != number {
		t.Fatalf("expected Mutable(Number)'s WrappedType to be Number")
	}
}

func TestInstantiateSubstitutesGenericMembersAndMethods(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	text, _ := root.Base.GetType("Text")

	box := mustType(t, pkg, "Box")
	box.GenericParam = "T"
	param := mustType(t, pkg, "T")
	box.AddMember(&ast.Member{Owner: box, Name: "value", DeclaredType: param})
	box.AddMethod(&ast.Method{OwningType: box, Name: "replace", Parameters: []*ast.Parameter{{Name: "v", DeclaredType: param}}, ReturnType: param})

	in := NewInstantiator()
	inst, err := in.Instantiate(box, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if inst.Members[0].DeclaredType != number {
		t.Fatalf("expected the generic member's declared type to be substituted with Number")
	}
	if inst.Methods[0].Parameters[0].DeclaredType != number || inst.Methods[0].ReturnType != number {
		t.Fatalf("expected the generic method's parameter and return types to be substituted")
	}

	otherInst, err := in.Instantiate(box, []*ast.Type{text})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if otherInst == inst {
		t.Fatalf("expected Box(Text) and Box(Number) to be distinct instantiations")
	}
}

func TestResolveConstructorCallAutoInitializesByMemberOrder(t *testing.T) {
	root, pkg := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	text, _ := root.Base.GetType("Text")
	res := New()

	point := mustType(t, pkg, "Point")
	point.AddMember(&ast.Member{Owner: point, Name: "label", DeclaredType: text})
	point.AddMember(&ast.Member{Owner: point, Name: "value", DeclaredType: number})

	method, resolved, err := res.ResolveConstructorCall(point, []*ast.Type{text, number})
	if err != nil {
		t.Fatalf("ResolveConstructorCall: %v", err)
	}
	if method != nil {
		t.Fatalf("expected auto-initialization to report no explicit 'from' method")
	}
	if resolved != point {
		t.Fatalf("expected the resolved type to be Point itself")
	}
}

func TestIterableElementTypeForRangeAndList(t *testing.T) {
	root, _ := newTestPackage(t)
	number, _ := root.Base.GetType("Number")
	rangeType, _ := root.Base.GetType("Range")

	elem, ok := IterableElementType(rangeType)
	if !ok || elem != number {
		t.Fatalf("expected Range to iterate as Number")
	}

	list, _ := root.Base.GetType("List")
	in := NewInstantiator()
	numbers, err := in.Instantiate(list, []*ast.Type{number})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	elem, ok = IterableElementType(numbers)
	if !ok || elem != number {
		t.Fatalf("expected List(Number) to iterate as Number")
	}
}
