package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/syphon/lang/atom"
	"github.com/mna/syphon/lang/compiler"
	"github.com/mna/syphon/lang/gc"
	"github.com/mna/syphon/lang/value"
)

func TestTruthiness(t *testing.T) {
	h := gc.New(0, 0)
	assert.False(t, value.NoneValue().Truthy(h))
	assert.False(t, value.IntValue(0).Truthy(h))
	assert.True(t, value.IntValue(1).Truthy(h))
	assert.False(t, value.BoolValue(false).Truthy(h))

	empty := gc.Alloc[*value.StringObject](h, &value.StringObject{S: ""})
	assert.False(t, value.StringValue(empty).Truthy(h))

	nonEmpty := gc.Alloc[*value.StringObject](h, &value.StringObject{S: "x"})
	assert.True(t, value.StringValue(nonEmpty).Truthy(h))

	emptyArr := gc.Alloc[*value.ArrayObject](h, &value.ArrayObject{})
	assert.False(t, value.ArrayValue(emptyArr).Truthy(h))
}

func TestEqualityNoneOnlyEqualsNone(t *testing.T) {
	h := gc.New(0, 0)
	assert.True(t, value.NoneValue().Equal(h, value.NoneValue()))
	assert.False(t, value.NoneValue().Equal(h, value.IntValue(0)))
	assert.False(t, value.IntValue(0).Equal(h, value.NoneValue()))
}

func TestEqualityMismatchedKindsNeverEqual(t *testing.T) {
	h := gc.New(0, 0)
	assert.False(t, value.IntValue(1).Equal(h, value.FloatValue(1)))
	assert.False(t, value.BoolValue(true).Equal(h, value.IntValue(1)))
}

func TestEqualityStringsByValue(t *testing.T) {
	h := gc.New(0, 0)
	a := gc.Alloc[*value.StringObject](h, &value.StringObject{S: "hi"})
	b := gc.Alloc[*value.StringObject](h, &value.StringObject{S: "hi"})
	assert.True(t, value.StringValue(a).Equal(h, value.StringValue(b)))
}

func TestEqualityArraysByHandleIdentity(t *testing.T) {
	h := gc.New(0, 0)
	a := gc.Alloc[*value.ArrayObject](h, &value.ArrayObject{})
	b := gc.Alloc[*value.ArrayObject](h, &value.ArrayObject{})
	assert.False(t, value.ArrayValue(a).Equal(h, value.ArrayValue(b)))
	assert.True(t, value.ArrayValue(a).Equal(h, value.ArrayValue(a)))
}

func TestDisplayPrimitives(t *testing.T) {
	h := gc.New(0, 0)
	assert.Equal(t, "none", value.NoneValue().Display(h))
	assert.Equal(t, "42", value.IntValue(42).Display(h))
	assert.Equal(t, "true", value.BoolValue(true).Display(h))
}

func TestDisplayArrayCycleGuard(t *testing.T) {
	h := gc.New(0, 0)
	han := gc.Alloc[*value.ArrayObject](h, &value.ArrayObject{})
	arr := gc.Deref[*value.ArrayObject](h, han)
	arr.Elems = []value.Value{value.ArrayValue(han)}

	out := value.ArrayValue(han).Display(h)
	assert.Equal(t, "[[...]]", out)
}

func TestLoadChunkMaterializesConstants(t *testing.T) {
	h := gc.New(0, 0)
	cc := &compiler.Chunk{}
	cc.AddConstant(compiler.Constant{Kind: compiler.ConstInt, Int: 5})
	cc.AddConstant(compiler.Constant{Kind: compiler.ConstString, Str: "hi"})

	rc, err := value.LoadChunk(h, cc)
	require.NoError(t, err)
	require.Len(t, rc.Constants, 2)
	assert.Equal(t, value.Int, rc.Constants[0].Kind)
	assert.EqualValues(t, 5, rc.Constants[0].I)
	assert.Equal(t, value.String, rc.Constants[1].Kind)
	assert.Equal(t, "hi", gc.Deref[*value.StringObject](h, rc.Constants[1].H).S)
}

func TestLoadChunkMaterializesNestedFunction(t *testing.T) {
	h := gc.New(0, 0)
	body := &compiler.Chunk{}
	body.AddConstant(compiler.Constant{Kind: compiler.ConstNone})
	cc := &compiler.Chunk{}
	cc.AddConstant(compiler.Constant{
		Kind: compiler.ConstFunction, FuncName: "f", FuncParams: []string{"a"}, FuncBody: body,
	})

	rc, err := value.LoadChunk(h, cc)
	require.NoError(t, err)
	require.Len(t, rc.Constants, 1)
	assert.Equal(t, value.Function, rc.Constants[0].Kind)
	fn := gc.Deref[*value.FunctionObject](h, rc.Constants[0].H)
	assert.Equal(t, atom.Intern("f"), fn.Name)
	assert.Equal(t, []atom.Atom{atom.Intern("a")}, fn.Params)
}
