package ast

// newBasePackage builds the Base package: the built-in types every user
// package implicitly imports operator and constructor methods from (Number,
// Text, Boolean, List, Mutable, Any, Range, Character, Log, None, and the
// BinaryOperator fallback type consulted when an operator isn't found as a
// method on the left operand's type).
func newBasePackage(root *Root) *Package {
	base := NewPackage(root, root, "Base", "Base")

	any_ := registerBuiltin(base, "Any")
	number := registerBuiltin(base, "Number")
	text := registerBuiltin(base, "Text")
	boolean := registerBuiltin(base, "Boolean")
	character := registerBuiltin(base, "Character")
	none := registerBuiltin(base, "None")
	binaryOperator := registerBuiltin(base, "BinaryOperator")
	rangeType := registerBuiltin(base, "Range")
	logType := registerBuiltin(base, "Log")

	list := registerBuiltinGeneric(base, "List", "T")
	mutable := registerBuiltinGeneric(base, "Mutable", "T")

	_ = any_

	builtinMethod(number, "+", []*Parameter{{Name: "other", DeclaredType: number}}, number)
	builtinMethod(number, "-", []*Parameter{{Name: "other", DeclaredType: number}}, number)
	builtinMethod(number, "*", []*Parameter{{Name: "other", DeclaredType: number}}, number)
	builtinMethod(number, "/", []*Parameter{{Name: "other", DeclaredType: number}}, number)
	builtinMethod(number, "%", []*Parameter{{Name: "other", DeclaredType: number}}, number)
	builtinMethod(number, "is", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, "is not", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, "<", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, ">", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, "<=", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, ">=", []*Parameter{{Name: "other", DeclaredType: number}}, boolean)
	builtinMethod(number, "from", []*Parameter{{Name: "value", DeclaredType: number}}, number)

	builtinMethod(boolean, "not", nil, boolean)
	builtinMethod(boolean, "and", []*Parameter{{Name: "other", DeclaredType: boolean}}, boolean)
	builtinMethod(boolean, "or", []*Parameter{{Name: "other", DeclaredType: boolean}}, boolean)
	builtinMethod(boolean, "is", []*Parameter{{Name: "other", DeclaredType: boolean}}, boolean)
	builtinMethod(boolean, "is not", []*Parameter{{Name: "other", DeclaredType: boolean}}, boolean)

	builtinMethod(text, "+", []*Parameter{{Name: "other", DeclaredType: text}}, text)
	builtinMethod(text, "is", []*Parameter{{Name: "other", DeclaredType: text}}, boolean)
	builtinMethod(text, "is not", []*Parameter{{Name: "other", DeclaredType: text}}, boolean)

	builtinMethod(character, "from", []*Parameter{{Name: "code", DeclaredType: number}}, character)

	builtinMethod(rangeType, "from", []*Parameter{{Name: "start", DeclaredType: number}, {Name: "end", DeclaredType: number}}, rangeType)

	builtinMethod(logType, "Line", []*Parameter{{Name: "message", DeclaredType: text}}, none)

	// One parameter ("other"), matching every other operator method's own
	// shape (`left.ReturnType()` owns the call, `other` is the sole
	// argument) -- FindBinaryMethod falls back to this type with exactly
	// that argument list, so its arity must agree.
	for _, op := range []string{"+", "-", "*", "/", "%", "is", "is not", "<", ">", "<=", ">=", "and", "or"} {
		ret := boolean
		switch op {
		case "+", "-", "*", "/", "%":
			ret = any_
		}
		builtinMethod(binaryOperator, op, []*Parameter{{Name: "other", DeclaredType: any_}}, ret)
	}

	_ = list
	_ = mutable

	return base
}

func registerBuiltin(pkg *Package, name string) *Type {
	t, err := pkg.RegisterStub(name)
	if err != nil {
		panic(err)
	}
	return t
}

func registerBuiltinGeneric(pkg *Package, name, genericParam string) *Type {
	t := registerBuiltin(pkg, name)
	t.GenericParam = genericParam
	return t
}

func builtinMethod(owner *Type, name string, params []*Parameter, ret *Type) *Method {
	m := &Method{OwningType: owner, Name: name, Parameters: params, ReturnType: ret}
	owner.AddMethod(m)
	return m
}

// BinaryOperatorTypeName is the well-known name of the Base fallback type
// consulted for an operator not found on the left operand's own type.
const BinaryOperatorTypeName = "BinaryOperator"
