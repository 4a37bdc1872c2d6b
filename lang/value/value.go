// Package value defines the runtime Value representation, grounded on
// original_source/crates/bytecode/src/value.rs's Value enum: a tagged
// union copied by value (None/Int/Float/Bool are inline; String/Array/
// Function are gc.Handles to heap objects). This is deliberately not the
// teacher's interface-based machine.Value (see
// _examples/mna-nenuphar/lang/machine/value.go): spec.md's Value is a
// closed tagged union with no per-kind method dispatch, which a Go
// interface-with-many-implementations model does not represent as
// directly as a single struct with a Kind discriminant does.
package value

import (
	"fmt"
	"strings"

	"github.com/mna/syphon/lang/atom"
	"github.com/mna/syphon/lang/compiler"
	"github.com/mna/syphon/lang/gc"
)

// Kind is the discriminant of a Value.
type Kind uint8

const (
	None Kind = iota
	Int
	Float
	Bool
	String
	Array
	Function
	Native
)

// Value is copied by value throughout the VM; String/Array/Function hold
// a gc.Handle rather than the object itself.
type Value struct {
	Kind Kind

	I  int64
	F  float64
	B  bool
	H  gc.Handle // String, Array, Function
	N  *NativeFunction
}

// NoneValue, IntValue, ... construct Values of each kind.
func NoneValue() Value                { return Value{Kind: None} }
func IntValue(i int64) Value          { return Value{Kind: Int, I: i} }
func FloatValue(f float64) Value      { return Value{Kind: Float, F: f} }
func BoolValue(b bool) Value          { return Value{Kind: Bool, B: b} }
func StringValue(h gc.Handle) Value   { return Value{Kind: String, H: h} }
func ArrayValue(h gc.Handle) Value    { return Value{Kind: Array, H: h} }
func FunctionValue(h gc.Handle) Value { return Value{Kind: Function, H: h} }
func NativeValue(n *NativeFunction) Value { return Value{Kind: Native, N: n} }

// StringObject, ArrayObject and FunctionObject are the heap-allocated
// object kinds a Value's Handle can point to, grounded on value.rs's
// String/Array/Function payloads.
type StringObject struct{ S string }

func (o *StringObject) Trace(*gc.Heap) {}

type ArrayObject struct{ Elems []Value }

func (o *ArrayObject) Trace(h *gc.Heap) {
	for _, v := range o.Elems {
		v.Trace(h)
	}
}

// FunctionObject is a user-defined function: its Body is a runtime Chunk
// whose constants are already heap-materialized (see LoadChunk).
type FunctionObject struct {
	Name   atom.Atom
	Params []atom.Atom
	Body   *Chunk
}

func (o *FunctionObject) Trace(h *gc.Heap) {
	for _, c := range o.Body.Constants {
		c.Trace(h)
	}
}

// NativeFunction is a builtin such as print/println, grounded on
// original_source/crates/bytecode/src/value.rs's NativeFunction
// (name, optional fixed arity, the Go closure to call).
type NativeFunction struct {
	Name  atom.Atom
	Arity int // -1 means variadic
	Call  func(h *gc.Heap, args []Value) (Value, error)
}

// Chunk is the runtime counterpart of compiler.Chunk: its Code is the
// same compile-time Instruction stream (instructions reference constants
// purely by index, so they need no translation), but its Constants are
// already-materialized runtime Values instead of compiler.Constants.
type Chunk struct {
	Code      []compiler.Instruction
	Constants []Value
}

// LoadChunk materializes a compiler.Chunk's constant pool into Values,
// heap-allocating String/Array/Function payloads exactly once, grounded
// on _examples/mna-nenuphar's machine.makeToplevelFunction, which performs
// this same raw-constant -> runtime-value conversion at load time so the
// compiler package never needs to know about the heap.
func LoadChunk(h *gc.Heap, cc *compiler.Chunk) (*Chunk, error) {
	rc := &Chunk{Code: cc.Code, Constants: make([]Value, len(cc.Constants))}
	for i, c := range cc.Constants {
		v, err := loadConstant(h, c)
		if err != nil {
			return nil, err
		}
		rc.Constants[i] = v
	}
	return rc, nil
}

func loadConstant(h *gc.Heap, c compiler.Constant) (Value, error) {
	switch c.Kind {
	case compiler.ConstNone:
		return NoneValue(), nil
	case compiler.ConstInt:
		return IntValue(c.Int), nil
	case compiler.ConstFloat:
		return FloatValue(c.Float), nil
	case compiler.ConstBool:
		return BoolValue(c.Bool), nil
	case compiler.ConstString:
		han := gc.Alloc[*StringObject](h, &StringObject{S: c.Str})
		return StringValue(han), nil
	case compiler.ConstFunction:
		body, err := LoadChunk(h, c.FuncBody)
		if err != nil {
			return Value{}, err
		}
		params := make([]atom.Atom, len(c.FuncParams))
		for i, p := range c.FuncParams {
			params[i] = atom.Intern(p)
		}
		han := gc.Alloc[*FunctionObject](h, &FunctionObject{
			Name: atom.Intern(c.FuncName), Params: params, Body: body,
		})
		return FunctionValue(han), nil
	default:
		return Value{}, fmt.Errorf("value: unknown constant kind %d", c.Kind)
	}
}

// Trace marks whatever heap object v references, as part of the gc.Object
// interface contract: ArrayObject/FunctionObject call this on every Value
// they hold.
func (v Value) Trace(h *gc.Heap) {
	switch v.Kind {
	case String, Array, Function:
		h.Mark(v.H)
	}
}

// Truthy implements spec.md's truthiness rule: None and zero-valued
// scalars are false; empty strings/arrays are false; everything else,
// including every function value, is true. Grounded on
// original_source/crates/bytecode/src/value.rs's is_truthy.
func (v Value) Truthy(h *gc.Heap) bool {
	switch v.Kind {
	case None:
		return false
	case Int:
		return v.I != 0
	case Float:
		return v.F != 0
	case Bool:
		return v.B
	case String:
		return gc.Deref[*StringObject](h, v.H).S != ""
	case Array:
		return len(gc.Deref[*ArrayObject](h, v.H).Elems) != 0
	default:
		return true
	}
}

// Equal implements spec.md's equality rule: None only equals None;
// mismatched non-None kinds are never equal; otherwise values compare by
// their kind's natural equality (arrays/functions by handle identity).
func (v Value) Equal(h *gc.Heap, o Value) bool {
	if v.Kind == None || o.Kind == None {
		return v.Kind == None && o.Kind == None
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.I == o.I
	case Float:
		return v.F == o.F
	case Bool:
		return v.B == o.B
	case String:
		return gc.Deref[*StringObject](h, v.H).S == gc.Deref[*StringObject](h, o.H).S
	case Array, Function:
		return v.H == o.H
	case Native:
		return v.N == o.N
	}
	return false
}

// Display renders v the way println/print do, grounded on
// original_source/crates/bytecode/src/value.rs's Trace::format, including
// its one-level self-reference guard for arrays containing themselves.
func (v Value) Display(h *gc.Heap) string {
	var sb strings.Builder
	v.display(h, &sb, Value{})
	return sb.String()
}

func (v Value) display(h *gc.Heap, sb *strings.Builder, parentArray Value) {
	switch v.Kind {
	case None:
		sb.WriteString("none")
	case Int:
		fmt.Fprintf(sb, "%d", v.I)
	case Float:
		fmt.Fprintf(sb, "%g", v.F)
	case Bool:
		fmt.Fprintf(sb, "%t", v.B)
	case String:
		sb.WriteString(gc.Deref[*StringObject](h, v.H).S)
	case Array:
		arr := gc.Deref[*ArrayObject](h, v.H)
		sb.WriteByte('[')
		for i, e := range arr.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			if e.Kind == Array && e.H == v.H {
				sb.WriteString("[...]")
			} else {
				e.display(h, sb, v)
			}
		}
		sb.WriteByte(']')
	case Function:
		fn := gc.Deref[*FunctionObject](h, v.H)
		fmt.Fprintf(sb, "<function '%s'>", fn.Name)
	case Native:
		fmt.Fprintf(sb, "<native function '%s'>", v.N.Name)
	}
}
