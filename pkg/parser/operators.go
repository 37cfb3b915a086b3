package parser

// operatorPrecedence is the Shunting-Yard precedence table (spec.md §9):
// higher binds tighter. "is"/"is not" sit with equality; "and"/"or" are the
// loosest, matching how most strict, expression-oriented little languages
// order logical connectives below comparisons below arithmetic.
var operatorPrecedence = map[string]int{
	"or":     1,
	"and":    2,
	"is":     3,
	"is not": 3,
	"<":      4,
	">":      4,
	"<=":     4,
	">=":     4,
	"+":      5,
	"-":      5,
	"*":      6,
	"/":      6,
	"%":      6,
}

// rightAssociative lists operators that associate right-to-left. The
// comparison-chain negation composite "is not" is the one operator spec.md
// calls out explicitly as right-associative.
var rightAssociative = map[string]bool{
	"is not": true,
}

func precedenceOf(op string) int {
	return operatorPrecedence[op]
}

// symbolOperatorRunes lists the non-letter characters that can start a
// symbol operator token.
var symbolOperatorRunes = "+-*/%<>"
