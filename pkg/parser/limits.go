// Package parser implements the type parser, method signature parser, body
// pre-parser, and Shunting-Yard expression parser described by the data
// model in pkg/ast. It is organized the way the teacher repo splits its own
// parser by concern (declarations/statements/expressions in separate
// files of one package) rather than by introducing sub-packages for each
// stage, since every stage shares the same line-cursor state.
package parser

// The hard structural limits enforced during parsing (spec.md §4.2).
const (
	MaxMembers         = 50
	MaxTypeLines       = 256
	MaxMethods         = 15
	MaxLineChars       = 120
	MaxNesting         = 5 // generic type-expression nesting, e.g. List(List(T))
	MaxMethodBodyLines = 12
	MaxParameters      = 3

	MinBodyIndent = 1 // valid method-body indentation is 1..3 tabs
	MaxBodyIndent = 3
)
