// Package compiler turns an *ast.Module into a compile-time Chunk of
// Instructions, grounded on original_source/crates/bytecode/src/
// {chunk,compiler/{mod,expr,stmt}}.rs for emission order and constant
// folding/dedup, and on _examples/mna-nenuphar/lang/compiler/opcode.go for
// the Opcode naming/String() table convention. Unlike the teacher's
// compiler, this package never references a runtime Value type: its
// Chunk/Constant types are entirely self-contained so that lang/value (the
// package that DOES know about the heap) can depend on lang/compiler
// without a cycle. lang/value.LoadChunk materializes a compiler.Chunk's
// constants into heap-allocated runtime values exactly once, the way the
// teacher's machine.makeToplevelFunction turns raw compiler.Program
// constants into machine.Value at load time.
package compiler

// Opcode is the discriminant of an Instruction.
type Opcode uint8

const (
	Neg Opcode = iota
	LogicalNot
	Add
	Sub
	Div
	Mult
	Exponent
	Modulo
	Equals
	NotEquals
	LessThan
	GreaterThan
	StoreName
	Assign
	LoadName
	LoadConstant
	Call
	Return
	Pop
	Jump
	JumpIfFalse
	Back
	MakeArray
	LoadSubscript
	StoreSubscript
)

var opcodeNames = [...]string{
	Neg: "neg", LogicalNot: "logical_not", Add: "add", Sub: "sub", Div: "div",
	Mult: "mult", Exponent: "exponent", Modulo: "modulo", Equals: "equals",
	NotEquals: "not_equals", LessThan: "less_than", GreaterThan: "greater_than",
	StoreName: "store_name", Assign: "assign", LoadName: "load_name",
	LoadConstant: "load_constant", Call: "call", Return: "return", Pop: "pop",
	Jump: "jump", JumpIfFalse: "jump_if_false", Back: "back",
	MakeArray: "make_array", LoadSubscript: "load_subscript",
	StoreSubscript: "store_subscript",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "unknown"
}
