package ast

import (
	"sync"
	"unicode"
)

// Type is a user-defined data or trait unit; one per source file (or, for a
// generic instantiation, one per (generic, arguments) pair created on
// demand by the resolver).
type Type struct {
	Name       string
	Package    *Package
	Imports    []*Package
	Implements []*Type
	Members    []*Member
	Methods    []*Method
	LineCount  int

	// GenericParam is non-empty when this Type is itself a generic template
	// (e.g. "List" with GenericParam "T"); Type.Name for such a template
	// still names the template ("List"), the free parameter is tracked
	// separately so instantiation can find it without parsing the name.
	GenericParam string

	// BaseGeneric/ImplementationArgs are set on a Type produced by
	// substituting concrete arguments into a generic template; nil/empty on
	// an ordinary or generic-template type.
	BaseGeneric        *Type
	ImplementationArgs []*Type

	// WrappedType additionally records the underlying data type for a
	// Mutable(T) instantiation, so callers don't need to know Mutable's
	// ImplementationArgs convention to unwrap it.
	WrappedType *Type

	mu             sync.Mutex
	availableFn    func() map[string][]*Method
	availableOnce  sync.Once
	availableCache map[string][]*Method
}

func newType(pkg *Package, name string) *Type {
	return &Type{Name: name, Package: pkg}
}

func (t *Type) ContextName() string { return t.Name }
func (t *Type) Parent() Context     { return t.Package }

// IsTrait mirrors the derived flag from the data model: a type with no
// members and no implements list is a trait, unless it is Number (Number
// has neither but is a concrete builtin).
func (t *Type) IsTrait() bool {
	return len(t.Implements) == 0 && len(t.Members) == 0 && t.Name != "Number"
}

// IsGeneric reports whether this Type is an uninstantiated generic
// template.
func (t *Type) IsGeneric() bool {
	return t.GenericParam != ""
}

// IsGenericInstantiation reports whether this Type was produced by
// substituting arguments into a generic template.
func (t *Type) IsGenericInstantiation() bool {
	return t.BaseGeneric != nil
}

// SetAvailableMethodsSource wires the closure the resolver package uses to
// compute the transitive method table. This indirection lets Type.
// AvailableMethods() exist as a method here (as the external API demands)
// without pkg/ast importing pkg/resolver, which would create a cycle since
// the resolver needs to read Type/Method fields.
func (t *Type) SetAvailableMethodsSource(fn func() map[string][]*Method) {
	t.availableFn = fn
}

// AvailableMethods returns the lazily built, cached-after-first-call table
// of every method visible on this type: its own methods plus every
// implemented trait's methods, transitively, plus Any's.
func (t *Type) AvailableMethods() map[string][]*Method {
	t.availableOnce.Do(func() {
		if t.availableFn != nil {
			t.availableCache = t.availableFn()
		} else {
			t.availableCache = map[string][]*Method{}
		}
	})
	return t.availableCache
}

// AddMethod appends a method under the type's own lock, used both by
// the ordinary type parser and by generic instantiation cloning.
func (t *Type) AddMethod(m *Method) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Methods = append(t.Methods, m)
}

// AddMember appends a member under the type's own lock.
func (t *Type) AddMember(m *Member) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Members = append(t.Members, m)
}

// Member is (type, name, declaredType, initializer?, isMutable).
type Member struct {
	Owner        *Type
	Name         string
	DeclaredType *Type
	Initializer  Expression
	IsMutable    bool
	Line         int
}

// Parameter is (name, type, isMutable, defaultValue?).
type Parameter struct {
	Name         string
	DeclaredType *Type
	IsMutable    bool
	DefaultValue Expression
}

// Method is (owningType, name, parameters, returnType, bodyLines). from is
// the constructor name; isPublic is derived from capitalization.
type Method struct {
	OwningType *Type
	Name       string
	Parameters []*Parameter
	ReturnType *Type
	Line       int

	bodyLines []string

	bodyOnce sync.Once
	body     *Body
	bodyErr  error
	parseFn  func(m *Method) (*Body, error)
}

func (m *Method) ContextName() string { return m.Name }
func (m *Method) Parent() Context     { return m.OwningType }

// IsPublic reports whether the method's name starts with an uppercase
// letter.
func (m *Method) IsPublic() bool {
	return startsUpper(m.Name)
}

// IsConstructor reports whether this method is the "from" constructor.
func (m *Method) IsConstructor() bool {
	return m.Name == "from"
}

// SetBodyLines stores the raw, unparsed body lines captured during type
// parsing, along with the closure the parser package uses to lazily parse
// them on first GetBody call.
func (m *Method) SetBodyLines(lines []string, parseFn func(m *Method) (*Body, error)) {
	m.bodyLines = lines
	m.parseFn = parseFn
}

func (m *Method) BodyLines() []string {
	return m.bodyLines
}

// GetBody triggers (once) the lazy pre-parse + expression parse of this
// method's body, guarded by a one-shot initializer so concurrent callers
// never race the parse.
func (m *Method) GetBody() (*Body, error) {
	m.bodyOnce.Do(func() {
		if m.parseFn == nil {
			return
		}
		m.body, m.bodyErr = m.parseFn(m)
	})
	return m.body, m.bodyErr
}

func startsUpper(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}

func startsLower(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsLower(r)
}
