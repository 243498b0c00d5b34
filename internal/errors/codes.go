package errors

// Error codes for grammar construction and parsing.
// These codes are used in error messages and LSP diagnostics
// to identify each kind of problem consistently.
//
// Error code ranges:
// E0001-E0099: Symbol declaration errors
// E0100-E0199: Rule declaration errors
// E0200-E0299: Grammar analysis errors
// E0300-E0399: Parser construction and invocation errors
// E0400-E0499: Notation syntax errors

const (
	// E0001: Reference to a symbol that was never declared
	ErrorUndefinedSymbol = "E0001"

	// E0002: Two symbols declared with the same name
	ErrorDuplicateSymbol = "E0002"

	// E0003: Anonymous keyword named by a reserved delimiter
	ErrorIllegalKeyword = "E0003"

	// E0004: Regular expression that does not compile
	ErrorInvalidRegexp = "E0004"

	// E0100: Rule whose left side is not a nonterminal
	ErrorInvalidRuleLeft = "E0100"

	// E0101: Operator without operands
	ErrorEmptyOperator = "E0101"

	// E0200: Nonterminal that can derive itself at a leftmost position
	ErrorLeftRecursion = "E0200"

	// E0201: Two rules of one nonterminal with the same flattened body
	ErrorDuplicateRule = "E0201"

	// E0300: Parser built from a grammar that still has EBNF operators
	ErrorNotNormalized = "E0300"

	// E0301: Start symbol missing or not a nonterminal
	ErrorUnknownStart = "E0301"

	// E0400: Grammar notation that does not parse
	ErrorNotationSyntax = "E0400"

	// Warning codes

	// W0001: Nonterminal declared but without any rule
	WarningNoRules = "W0001"

	// W0002: Nonterminal never referenced from any rule
	WarningUnreachable = "W0002"
)
