package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/syphon/lang/compiler"
)

func TestAddConstantDedupesScalars(t *testing.T) {
	c := &compiler.Chunk{}
	i1 := c.AddConstant(compiler.Constant{Kind: compiler.ConstInt, Int: 7})
	i2 := c.AddConstant(compiler.Constant{Kind: compiler.ConstInt, Int: 7})
	assert.Equal(t, i1, i2)
	assert.Len(t, c.Constants, 1)
}

func TestAddConstantNeverDedupesFunctions(t *testing.T) {
	c := &compiler.Chunk{}
	fn := compiler.Constant{Kind: compiler.ConstFunction, FuncName: "f", FuncBody: &compiler.Chunk{}}
	i1 := c.AddConstant(fn)
	i2 := c.AddConstant(fn)
	assert.NotEqual(t, i1, i2)
	assert.Len(t, c.Constants, 2)
}

func TestAddConstantDistinguishesKinds(t *testing.T) {
	c := &compiler.Chunk{}
	i1 := c.AddConstant(compiler.Constant{Kind: compiler.ConstInt, Int: 0})
	i2 := c.AddConstant(compiler.Constant{Kind: compiler.ConstBool, Bool: false})
	assert.NotEqual(t, i1, i2)
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "add", compiler.Add.String())
}
