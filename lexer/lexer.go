// Package lexer turns TinyBF source text into a flat statement list with
// typed AST nodes. It is line-oriented: after comment-stripping and
// whitespace-trimming, each non-empty line is exactly one statement,
// except for block openers (`if cond {`, `else {`, `for v from a to b {`)
// whose bodies span the following lines up to a line that is just `}`
// (or `} else {`, which closes an if-block and opens its else-block).
//
// Tokenization within a line is a plain whitespace split — there is no
// sub-line grammar beyond the fixed token shapes each parse* function
// below checks.
package lexer

import (
	"strconv"
	"strings"

	"github.com/tinybflang/tinybf/ast"
	"github.com/tinybflang/tinybf/tinybferr"
)

// sourceLine is one non-empty, comment-stripped, trimmed line, tagged
// with its 1-based position in the original source for error reporting.
type sourceLine struct {
	text string
	num  int
}

// Parse lexes and parses TinyBF source into a statement list. It fails
// fast with *tinybferr.ParseError on the first malformed line.
func Parse(source string) ([]ast.Statement, error) {
	lines := preprocess(source)
	idx := 0
	stmts, err := parseStatements(lines, &idx)
	if err != nil {
		return nil, err
	}
	if idx < len(lines) {
		return nil, &tinybferr.ParseError{Msg: "unexpected '}'", Line: lines[idx].num}
	}
	return stmts, nil
}

func preprocess(source string) []sourceLine {
	raw := strings.Split(source, "\n")
	lines := make([]sourceLine, 0, len(raw))
	for i, text := range raw {
		if hash := strings.IndexByte(text, '#'); hash != -1 {
			text = text[:hash]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		// "} else {" closes the then-block and opens the else-block on
		// one line; split it so the block parser sees "}" then "else {".
		if f := strings.Fields(text); len(f) == 3 && f[0] == "}" && f[1] == "else" && f[2] == "{" {
			lines = append(lines, sourceLine{text: "}", num: i + 1}, sourceLine{text: "else {", num: i + 1})
			continue
		}
		lines = append(lines, sourceLine{text: text, num: i + 1})
	}
	return lines
}

// parseStatements consumes statements until it hits a line that is just
// "}" (left unconsumed for the caller) or runs out of input.
func parseStatements(lines []sourceLine, idx *int) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for *idx < len(lines) {
		if lines[*idx].text == "}" {
			return stmts, nil
		}
		stmt, err := parseStatement(lines, idx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// expectClosingBrace consumes a "}" line, failing if one isn't there.
func expectClosingBrace(lines []sourceLine, idx *int, openLine int) error {
	if *idx >= len(lines) || lines[*idx].text != "}" {
		return &tinybferr.ParseError{Msg: "missing closing '}'", Line: openLine}
	}
	*idx++
	return nil
}

func parseStatement(lines []sourceLine, idx *int) (ast.Statement, error) {
	ln := lines[*idx]
	tokens := strings.Fields(ln.text)
	keyword := tokens[0]

	switch keyword {
	case "let":
		return parseLet(ln, tokens, idx)
	case "set":
		return parseSet(ln, tokens, idx)
	case "add", "sub", "mul", "div":
		return parseArith(ln, tokens, idx)
	case "print_char", "print_num", "print_dec", "input_char", "input_num":
		return parseUnary(ln, tokens, idx)
	case "if":
		return parseIf(lines, idx)
	case "for":
		return parseFor(lines, idx)
	case "else":
		return ast.Statement{}, &tinybferr.ParseError{Msg: "else without matching if", Line: ln.num}
	default:
		return ast.Statement{}, &tinybferr.ParseError{Msg: "unknown statement keyword '" + keyword + "'", Line: ln.num}
	}
}

func parseLet(ln sourceLine, tokens []string, idx *int) (ast.Statement, error) {
	if len(tokens) != 5 || tokens[3] != "=" {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed 'let' statement", Line: ln.num}
	}
	var declType ast.VarType
	switch tokens[1] {
	case "num":
		declType = ast.Num
	case "char":
		declType = ast.Char
	default:
		return ast.Statement{}, &tinybferr.ParseError{Msg: "'let' type must be 'num' or 'char'", Line: ln.num}
	}
	expr, err := parseExpr(tokens[4], ln.num)
	if err != nil {
		return ast.Statement{}, err
	}
	*idx++
	return ast.Statement{Kind: ast.Let, Name: tokens[2], DeclType: declType, Expr: expr, Line: ln.num}, nil
}

func parseSet(ln sourceLine, tokens []string, idx *int) (ast.Statement, error) {
	if len(tokens) != 4 || tokens[2] != "=" {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed 'set' statement", Line: ln.num}
	}
	expr, err := parseExpr(tokens[3], ln.num)
	if err != nil {
		return ast.Statement{}, err
	}
	*idx++
	return ast.Statement{Kind: ast.Set, Name: tokens[1], Expr: expr, Line: ln.num}, nil
}

var arithKinds = map[string]ast.StatementKind{
	"add": ast.Add,
	"sub": ast.Sub,
	"mul": ast.Mul,
	"div": ast.Div,
}

func parseArith(ln sourceLine, tokens []string, idx *int) (ast.Statement, error) {
	if len(tokens) != 3 {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed '" + tokens[0] + "' statement", Line: ln.num}
	}
	expr, err := parseExpr(tokens[2], ln.num)
	if err != nil {
		return ast.Statement{}, err
	}
	*idx++
	return ast.Statement{Kind: arithKinds[tokens[0]], Name: tokens[1], Expr: expr, Line: ln.num}, nil
}

var unaryKinds = map[string]ast.StatementKind{
	"print_char": ast.PrintChar,
	"print_num":  ast.PrintNum,
	"print_dec":  ast.PrintDec,
	"input_char": ast.InputChar,
	"input_num":  ast.InputNum,
}

func parseUnary(ln sourceLine, tokens []string, idx *int) (ast.Statement, error) {
	if len(tokens) != 2 {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed '" + tokens[0] + "' statement", Line: ln.num}
	}
	*idx++
	return ast.Statement{Kind: unaryKinds[tokens[0]], Name: tokens[1], Line: ln.num}, nil
}

func parseIf(lines []sourceLine, idx *int) (ast.Statement, error) {
	ln := lines[*idx]
	tokens := strings.Fields(ln.text)
	if len(tokens) != 3 || tokens[2] != "{" {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed 'if' statement", Line: ln.num}
	}
	*idx++

	then, err := parseStatements(lines, idx)
	if err != nil {
		return ast.Statement{}, err
	}
	if err := expectClosingBrace(lines, idx, ln.num); err != nil {
		return ast.Statement{}, err
	}

	var elseBody []ast.Statement
	if *idx < len(lines) {
		next := strings.Fields(lines[*idx].text)
		if len(next) > 0 && next[0] == "else" {
			if len(next) != 2 || next[1] != "{" {
				return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed 'else' statement", Line: lines[*idx].num}
			}
			elseLine := lines[*idx].num
			*idx++
			elseBody, err = parseStatements(lines, idx)
			if err != nil {
				return ast.Statement{}, err
			}
			if err := expectClosingBrace(lines, idx, elseLine); err != nil {
				return ast.Statement{}, err
			}
		}
	}

	return ast.Statement{Kind: ast.If, Name: tokens[1], Then: then, Else: elseBody, Line: ln.num}, nil
}

func parseFor(lines []sourceLine, idx *int) (ast.Statement, error) {
	ln := lines[*idx]
	tokens := strings.Fields(ln.text)
	if len(tokens) != 7 || tokens[2] != "from" || tokens[4] != "to" || tokens[6] != "{" {
		return ast.Statement{}, &tinybferr.ParseError{Msg: "malformed 'for' statement", Line: ln.num}
	}
	start, err := parseExpr(tokens[3], ln.num)
	if err != nil {
		return ast.Statement{}, err
	}
	end, err := parseExpr(tokens[5], ln.num)
	if err != nil {
		return ast.Statement{}, err
	}
	*idx++

	body, err := parseStatements(lines, idx)
	if err != nil {
		return ast.Statement{}, err
	}
	if err := expectClosingBrace(lines, idx, ln.num); err != nil {
		return ast.Statement{}, err
	}

	return ast.Statement{Kind: ast.For, Name: tokens[1], Start: start, End: end, Body: body, Line: ln.num}, nil
}

// escapes maps the fixed escape set accepted inside a character literal.
var escapes = map[byte]byte{
	'n':  10,
	't':  9,
	'r':  13,
	'0':  0,
	'\\': 92,
	'\'': 39,
	'"':  34,
}

// parseExpr parses a single expression token: a decimal literal in
// 0..255, a character literal ('x' or '\e'), or a bare identifier.
func parseExpr(tok string, line int) (ast.Expr, error) {
	if strings.HasPrefix(tok, "'") {
		return parseCharLiteral(tok, line)
	}
	if isDigits(tok) {
		return parseNumberLiteral(tok, line)
	}
	return ast.Expr{Kind: ast.Identifier, Name: tok, Line: line}, nil
}

func isDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseNumberLiteral(tok string, line int) (ast.Expr, error) {
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 || v > 255 {
		return ast.Expr{}, &tinybferr.ParseError{Msg: "numeric literal '" + tok + "' out of range 0..255", Line: line}
	}
	return ast.Expr{Kind: ast.NumberLiteral, Value: byte(v), Line: line}, nil
}

func parseCharLiteral(tok string, line int) (ast.Expr, error) {
	if len(tok) < 2 || tok[len(tok)-1] != '\'' {
		return ast.Expr{}, &tinybferr.ParseError{Msg: "malformed character literal '" + tok + "'", Line: line}
	}
	inner := tok[1 : len(tok)-1]
	switch {
	case len(inner) == 0:
		return ast.Expr{}, &tinybferr.ParseError{Msg: "empty character literal", Line: line}
	case inner[0] == '\\':
		if len(inner) != 2 {
			return ast.Expr{}, &tinybferr.ParseError{Msg: "malformed escape in character literal", Line: line}
		}
		value, ok := escapes[inner[1]]
		if !ok {
			return ast.Expr{}, &tinybferr.ParseError{Msg: "unknown escape '\\" + string(inner[1]) + "'", Line: line}
		}
		return ast.Expr{Kind: ast.CharLiteral, Value: value, Line: line}, nil
	case len(inner) == 1:
		return ast.Expr{Kind: ast.CharLiteral, Value: inner[0], Line: line}, nil
	default:
		return ast.Expr{}, &tinybferr.ParseError{Msg: "character literal must hold exactly one character", Line: line}
	}
}
