package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/syphon/lang/compiler"
	"github.com/mna/syphon/lang/parser"
)

func compile(t *testing.T, src string, mode compiler.Mode) *compiler.Chunk {
	t.Helper()
	mod, err := parser.ParseModule([]byte(src))
	require.NoError(t, err)
	chunk, err := compiler.CompileModule(mod, mode)
	require.NoError(t, err)
	return chunk
}

func TestConstantFoldingIntAddition(t *testing.T) {
	chunk := compile(t, `1 + 2;`, compiler.Script)
	// the folded result, then the None pushed by Finish's terminator
	require.Len(t, chunk.Constants, 2)
	assert.Equal(t, compiler.ConstInt, chunk.Constants[0].Kind)
	assert.EqualValues(t, 3, chunk.Constants[0].Int)
}

func TestConstantFoldingDivisionAlwaysFloat(t *testing.T) {
	chunk := compile(t, `4 / 2;`, compiler.Script)
	// the folded result, then the None pushed by Finish's terminator
	require.Len(t, chunk.Constants, 2)
	assert.Equal(t, compiler.ConstFloat, chunk.Constants[0].Kind)
	assert.InDelta(t, 2.0, chunk.Constants[0].Float, 0.0001)
}

func TestConstantDeduplication(t *testing.T) {
	chunk := compile(t, `let a = "x"; let b = "x";`, compiler.Script)
	var stringConsts int
	for _, c := range chunk.Constants {
		if c.Kind == compiler.ConstString && c.Str == "x" {
			stringConsts++
		}
	}
	assert.Equal(t, 1, stringConsts)
}

func TestScriptModeDeclarationNetZero(t *testing.T) {
	chunk := compile(t, `let a = 1;`, compiler.Script)
	depth := 0
	for _, instr := range chunk.Code {
		depth += stackEffect(instr.Op)
	}
	assert.Equal(t, 0, depth)
}

func TestScriptModeExprStmtNetZero(t *testing.T) {
	chunk := compile(t, `1 + 2;`, compiler.Script)
	depth := 0
	for _, instr := range chunk.Code {
		depth += stackEffect(instr.Op)
	}
	assert.Equal(t, 0, depth)
}

func TestREPLModeLeavesFinalExprUnpopped(t *testing.T) {
	chunk := compile(t, `1 + 2;`, compiler.REPL)
	// In REPL mode, no trailing LoadConstant(None) is emitted before Return,
	// and the expression's value is never popped.
	var pops int
	for _, instr := range chunk.Code {
		if instr.Op == compiler.Pop {
			pops++
		}
	}
	assert.Equal(t, 0, pops)
	assert.Equal(t, compiler.Return, chunk.Code[len(chunk.Code)-1].Op)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`return 1;`))
	require.NoError(t, err)
	_, err = compiler.CompileModule(mod, compiler.Script)
	assert.Error(t, err)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	mod, err := parser.ParseModule([]byte(`break;`))
	require.NoError(t, err)
	_, err = compiler.CompileModule(mod, compiler.Script)
	assert.Error(t, err)
}

func TestFunctionDeclCompilesNestedChunk(t *testing.T) {
	chunk := compile(t, `fn add(a, b) { return a + b; }`, compiler.Script)
	var found bool
	for _, c := range chunk.Constants {
		if c.Kind == compiler.ConstFunction {
			found = true
			assert.Equal(t, "add", c.FuncName)
			assert.Equal(t, []string{"a", "b"}, c.FuncParams)
			assert.Equal(t, compiler.Return, c.FuncBody.Code[len(c.FuncBody.Code)-1].Op)
		}
	}
	assert.True(t, found)
}

func TestWhileLoopBackJumpOffset(t *testing.T) {
	chunk := compile(t, `while true { 1; }`, compiler.Script)
	var sawBack bool
	for i, instr := range chunk.Code {
		if instr.Op == compiler.Back {
			sawBack = true
			target := i - instr.Offset
			assert.GreaterOrEqual(t, target, 0)
			assert.Less(t, target, i)
		}
	}
	assert.True(t, sawBack)
}

// stackEffect is a test-only mirror of each opcode's net effect on the
// operand stack, used to check the compiler's documented invariant that
// every statement is net-zero. MakeArray and Call are counted as if they
// had no operands (their real effect depends on Length/Argc); the
// programs these tests compile use neither.
func stackEffect(op compiler.Opcode) int {
	switch op {
	case compiler.LoadConstant, compiler.LoadName, compiler.MakeArray:
		return 1
	case compiler.Pop, compiler.StoreName:
		return -1
	case compiler.Add, compiler.Sub, compiler.Mult, compiler.Div, compiler.Exponent,
		compiler.Modulo, compiler.Equals, compiler.NotEquals, compiler.LessThan, compiler.GreaterThan:
		return -1
	case compiler.Neg, compiler.LogicalNot:
		return 0
	case compiler.Assign:
		return -1
	case compiler.LoadSubscript:
		return -1
	case compiler.StoreSubscript:
		return -3
	case compiler.Jump, compiler.Back:
		return 0
	case compiler.Return, compiler.JumpIfFalse:
		return -1
	}
	return 0
}
