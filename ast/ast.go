// Package ast defines the TinyBF source-language AST: a flat statement
// list with typed expression nodes, produced by package lexer and
// consumed by package codegen. There is no inheritance hierarchy here —
// Expr and Statement are tagged structs switched on their Kind field,
// which keeps the tree allocation-light and the lowering code a flat
// switch instead of a visitor.
package ast

// VarType is the declared type of a TinyBF variable. Both types are
// 8-bit values at runtime. Package codegen rejects redeclaring a
// variable with a different VarType; it does not check operand types, so
// print_char, print_num, print_dec and div accept a variable of either
// type.
type VarType int

const (
	Num VarType = iota
	Char
)

func (t VarType) String() string {
	if t == Char {
		return "char"
	}
	return "num"
}

// ExprKind tags the variant held by an Expr.
type ExprKind int

const (
	NumberLiteral ExprKind = iota
	CharLiteral
	Identifier
)

// Expr is a tagged union of {NumberLiteral(u8), CharLiteral(u8),
// Identifier(name)}. Number and CharLiteral share the Value field since
// both are bytes 0-255; Name is only meaningful for Identifier.
type Expr struct {
	Kind  ExprKind
	Value byte
	Name  string
	Line  int
}

// StatementKind tags the variant held by a Statement.
type StatementKind int

const (
	Let StatementKind = iota
	Set
	Add
	Sub
	Mul
	Div
	PrintChar
	PrintNum
	PrintDec
	InputChar
	InputNum
	If
	For
)

// Statement is a tagged union covering every TinyBF statement shape. Not
// every field is populated by every Kind — see the comment on each field
// for which statements use it.
type Statement struct {
	Kind StatementKind

	Name     string  // Let, Set, Add, Sub, Mul, Div, Print*, Input*, If (condition), For (loop var)
	DeclType VarType // Let only
	Expr     Expr    // Set, Add, Sub, Mul, Div (operand)

	Then []Statement // If
	Else []Statement // If, nil when no else block

	Start Expr        // For
	End   Expr        // For
	Body  []Statement // For

	Line int
}

// String renders the StatementKind for diagnostics.
func (k StatementKind) String() string {
	switch k {
	case Let:
		return "let"
	case Set:
		return "set"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case PrintChar:
		return "print_char"
	case PrintNum:
		return "print_num"
	case PrintDec:
		return "print_dec"
	case InputChar:
		return "input_char"
	case InputNum:
		return "input_num"
	case If:
		return "if"
	case For:
		return "for"
	default:
		return "unknown"
	}
}
