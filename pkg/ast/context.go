// Package ast holds the strict-lang object model: the Context tree (Root,
// Package, Type, Method), the declaration-level entities admitted into it
// (Type, Member, Method, Parameter), and the Body/Expression tree produced by
// lazily parsing a method's body. It mirrors a single AST package the way a
// compiler front-end keeps every node kind together, because here the
// "nodes" (types, members, methods) and the expression tree they eventually
// own are tightly coupled: an Expression constantly needs to walk back into
// the Type/Method graph to resolve a call.
package ast

import "strings"

// Context is a node in the name tree. Every concrete kind (Root, Package,
// Type, Method) can report its own name and its parent; unresolved lookups
// bubble up this chain.
type Context interface {
	ContextName() string
	Parent() Context
}

// QualifiedName joins a Context's name with every ancestor's name, root
// first, using "." as the separator. The Root's own (empty) name is skipped.
func QualifiedName(ctx Context) string {
	var parts []string
	for c := ctx; c != nil; c = c.Parent() {
		if c.ContextName() == "" {
			continue
		}
		parts = append([]string{c.ContextName()}, parts...)
	}
	return strings.Join(parts, ".")
}

// Root is the top of every context tree produced by a single LoadPackage
// call. It has exactly two children in the sense described by the package
// loader contract: Base (builtin types) and the user package rooted at the
// directory passed to LoadPackage.
type Root struct {
	Base *Package
	User *Package
}

func (r *Root) ContextName() string { return "" }
func (r *Root) Parent() Context     { return nil }

// NewRoot creates an empty context tree with the Base package installed.
func NewRoot() *Root {
	root := &Root{}
	root.Base = newBasePackage(root)
	return root
}
