package compiler

import (
	"github.com/mna/syphon/lang/atom"
	"github.com/mna/syphon/lang/token"
)

// Instruction is a single bytecode instruction. Following the teacher's
// opcode.go convention of one flat struct whose fields are only
// meaningful for certain Opcodes (rather than a Go sum type, which the
// language has no compact syntax for), every Instruction has a Loc field.
// The compiler sets it on the instructions that can report a run-time
// error (name, arithmetic, comparison, subscript and call instructions);
// LoadConstant, MakeArray, Pop, Return, Jump, JumpIfFalse and Back are
// emitted with a zero Loc.
type Instruction struct {
	Op Opcode

	Name    atom.Atom // StoreName, Assign, LoadName
	Mutable bool      // StoreName

	ConstIndex int // LoadConstant
	Argc       int // Call
	Length     int // MakeArray
	Offset     int // Jump, JumpIfFalse, Back

	Loc token.Location
}

// ConstKind is the discriminant of a Constant.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstString
	ConstInt
	ConstFloat
	ConstBool
	ConstFunction
)

// Constant is a compile-time constant-pool entry. Function constants
// carry a nested Chunk for their body, grounded on
// original_source/crates/bytecode/src/value.rs's Value::Function variant
// (name, parameters, body: Chunk).
type Constant struct {
	Kind ConstKind

	Str   string
	Int   int64
	Float float64
	Bool  bool

	FuncName   string
	FuncParams []string
	FuncBody   *Chunk
}

func (c Constant) equal(o Constant) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstNone:
		return true
	case ConstString:
		return c.Str == o.Str
	case ConstInt:
		return c.Int == o.Int
	case ConstFloat:
		return c.Float == o.Float
	case ConstBool:
		return c.Bool == o.Bool
	case ConstFunction:
		// Function constants are never deduplicated: each `fn` declaration
		// compiles a fresh body chunk, and two syntactically identical
		// functions are still distinct closures-to-be once loaded.
		return false
	}
	return false
}

// Chunk is a compile-time unit of code: a flat instruction stream plus its
// deduplicated constant pool, grounded on
// original_source/crates/bytecode/src/chunk.rs.
type Chunk struct {
	Code      []Instruction
	Constants []Constant
}

// AddConstant returns the index of c in the pool, appending it if no
// structurally equal constant exists yet (spec.md invariant: "only one
// entry exists and both insertions return the same index"), matching
// Chunk::add_constant's linear-scan dedup.
func (c *Chunk) AddConstant(cst Constant) int {
	for i, existing := range c.Constants {
		if existing.equal(cst) {
			return i
		}
	}
	c.Constants = append(c.Constants, cst)
	return len(c.Constants) - 1
}

func (c *Chunk) emit(i Instruction) int {
	c.Code = append(c.Code, i)
	return len(c.Code) - 1
}

// Len returns the number of instructions currently in the chunk, used by
// the compiler to compute jump offsets.
func (c *Chunk) Len() int { return len(c.Code) }
