package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybflang/tinybf/ast"
	"github.com/tinybflang/tinybf/tinybferr"
)

func TestParse_LetAndSet(t *testing.T) {
	stmts, err := Parse(`
		let num x = 5
		set x = 10
	`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t, ast.Let, stmts[0].Kind)
	assert.Equal(t, "x", stmts[0].Name)
	assert.Equal(t, ast.Num, stmts[0].DeclType)
	assert.Equal(t, ast.NumberLiteral, stmts[0].Expr.Kind)
	assert.Equal(t, byte(5), stmts[0].Expr.Value)

	assert.Equal(t, ast.Set, stmts[1].Kind)
	assert.Equal(t, byte(10), stmts[1].Expr.Value)
}

func TestParse_CharLiteralsAndEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want byte
	}{
		{"plain char", `let char c = 'a'`, 'a'},
		{"newline escape", `let char c = '\n'`, 10},
		{"tab escape", `let char c = '\t'`, 9},
		{"nul escape", `let char c = '\0'`, 0},
		{"backslash escape", `let char c = '\\'`, 92},
		{"quote escape", `let char c = '\''`, 39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Parse(tt.src)
			require.NoError(t, err)
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.want, stmts[0].Expr.Value)
		})
	}
}

func TestParse_IfElse(t *testing.T) {
	stmts, err := Parse(`
		let num flag = 1
		if flag {
			add flag 1
		} else {
			sub flag 1
		}
	`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	ifStmt := stmts[1]
	assert.Equal(t, ast.If, ifStmt.Kind)
	assert.Equal(t, "flag", ifStmt.Name)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
	assert.Equal(t, ast.Add, ifStmt.Then[0].Kind)
	assert.Equal(t, ast.Sub, ifStmt.Else[0].Kind)
}

func TestParse_For(t *testing.T) {
	stmts, err := Parse(`
		let num i = 0
		for i from 0 to 5 {
			print_num i
		}
	`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	forStmt := stmts[1]
	assert.Equal(t, ast.For, forStmt.Kind)
	assert.Equal(t, "i", forStmt.Name)
	assert.Equal(t, byte(0), forStmt.Start.Value)
	assert.Equal(t, byte(5), forStmt.End.Value)
	require.Len(t, forStmt.Body, 1)
}

func TestParse_CommentsAndBlankLinesIgnored(t *testing.T) {
	stmts, err := Parse(`
		# a comment
		let num x = 1 # trailing comment

	`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed let", `let num x 5`},
		{"unknown keyword", `frobnicate x`},
		{"else without if", `else { add x 1 }`},
		{"missing closing brace", "if x {\nadd x 1"},
		{"literal out of range", `let num x = 999`},
		{"empty char literal", `let char c = ''`},
		{"unknown escape", `let char c = '\q'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			var parseErr *tinybferr.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
