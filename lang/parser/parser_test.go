package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/syphon/lang/ast"
	"github.com/mna/syphon/lang/parser"
	"github.com/mna/syphon/lang/token"
)

func TestParseVariableDecl(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`let x = 1;`))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)
	decl, ok := mod.Body[0].(*ast.VariableDecl)
	require.True(t, ok)
	assert.True(t, decl.Mutable)
	assert.Equal(t, "x", decl.Name)
	lit, ok := decl.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.EqualValues(t, 1, lit.Value)
}

func TestParseConstDecl(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`const x = 1;`))
	require.NoError(t, err)
	decl := mod.Body[0].(*ast.VariableDecl)
	assert.False(t, decl.Mutable)
}

func TestParsePrecedenceAddMul(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	mod, err := parser.ParseModule([]byte(`1 + 2 * 3;`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	bin := stmt.X.(*ast.BinaryExpr)
	assert.Equal(t, token.Plus, bin.Op)
	_, leftIsInt := bin.Left.(*ast.IntLit)
	assert.True(t, leftIsInt)
	rightBin, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Star, rightBin.Op)
}

func TestParseExponentBindsTighterThanProduct(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`2 * 3 ** 2;`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	bin := stmt.X.(*ast.BinaryExpr)
	assert.Equal(t, token.Star, bin.Op)
	rightBin, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.StarStar, rightBin.Op)
}

func TestParseExponentIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 should parse as 2 ** (3 ** 2), not (2 ** 3) ** 2.
	mod, err := parser.ParseModule([]byte(`2 ** 3 ** 2;`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	bin := stmt.X.(*ast.BinaryExpr)
	assert.Equal(t, token.StarStar, bin.Op)
	_, leftIsInt := bin.Left.(*ast.IntLit)
	assert.True(t, leftIsInt)
	rightBin, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.StarStar, rightBin.Op)
}

func TestParseArraySubscript(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`a[0];`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	sub, ok := stmt.X.(*ast.SubscriptExpr)
	require.True(t, ok)
	ident, ok := sub.Array.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "a", ident.Name)
}

func TestParseCallOnSubscriptResult(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`fns[0]();`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok)
	_, ok = call.Callee.(*ast.SubscriptExpr)
	assert.True(t, ok)
}

func TestParseAssignExpr(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`x = 1;`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	assign, ok := stmt.X.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
}

func TestParseAssignSubscriptExpr(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`a[0] = 1;`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	assign, ok := stmt.X.(*ast.AssignSubscriptExpr)
	require.True(t, ok)
	_, ok = assign.Array.(*ast.Identifier)
	assert.True(t, ok)
}

func TestParseIfElseIfElse(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`
		if a {
			return 1;
		} else if b {
			return 2;
		} else {
			return 3;
		}
	`))
	require.NoError(t, err)
	top := mod.Body[0].(*ast.IfStmt)
	require.Len(t, top.Else, 1)
	_, ok := top.Else[0].(*ast.IfStmt)
	assert.True(t, ok)
}

func TestParseWhileBreakContinue(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`
		while true {
			break;
			continue;
		}
	`))
	require.NoError(t, err)
	w := mod.Body[0].(*ast.WhileStmt)
	require.Len(t, w.Body, 2)
	_, ok := w.Body[0].(*ast.BreakStmt)
	assert.True(t, ok)
	_, ok = w.Body[1].(*ast.ContinueStmt)
	assert.True(t, ok)
}

func TestParseFunctionDecl(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`
		fn add(a, b) {
			return a + b;
		}
	`))
	require.NoError(t, err)
	fn := mod.Body[0].(*ast.FunctionDecl)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Parameters)
}

func TestParseArrayLiteral(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`[1, 2, 3];`))
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	arr, ok := stmt.X.(*ast.ArrayLit)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)
}

func TestParseErrorOnMissingSemicolon(t *testing.T) {
	_, err := parser.ParseModule([]byte(`let x = 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestParseErrorAbortsOnFirstFailure(t *testing.T) {
	_, err := parser.ParseModule([]byte(`let = 1;`))
	require.Error(t, err)
}

func TestParseAssignToNonTargetIsError(t *testing.T) {
	_, err := parser.ParseModule([]byte(`1 = 2;`))
	require.Error(t, err)
}
