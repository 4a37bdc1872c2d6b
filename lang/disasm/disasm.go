// Package disasm renders a compiler.Chunk as human-readable text, purely
// for the CLI's disasm command and for tests pinning bytecode shape. It is a boundary example (spec.md §1 puts the disassembler out
// of core scope) kept small, grounded on
// _examples/mna-nenuphar/lang/compiler/opcode.go's String()/naming
// conventions reused for Opcode.
package disasm

import (
	"fmt"
	"strings"

	"github.com/mna/syphon/lang/compiler"
)

// Chunk renders c and every nested function chunk it references,
// depth-first, one instruction per line.
func Chunk(c *compiler.Chunk) string {
	var sb strings.Builder
	writeChunk(&sb, c, "")
	return sb.String()
}

func writeChunk(sb *strings.Builder, c *compiler.Chunk, indent string) {
	for i, instr := range c.Code {
		fmt.Fprintf(sb, "%s%04d %s", indent, i, instr.Op)
		switch instr.Op {
		case compiler.StoreName, compiler.Assign, compiler.LoadName:
			fmt.Fprintf(sb, " %s", instr.Name)
		case compiler.LoadConstant:
			fmt.Fprintf(sb, " #%d", instr.ConstIndex)
		case compiler.Call:
			fmt.Fprintf(sb, " argc=%d", instr.Argc)
		case compiler.MakeArray:
			fmt.Fprintf(sb, " len=%d", instr.Length)
		case compiler.Jump, compiler.JumpIfFalse, compiler.Back:
			fmt.Fprintf(sb, " offset=%d", instr.Offset)
		}
		sb.WriteByte('\n')
	}

	for i, cst := range c.Constants {
		if cst.Kind != compiler.ConstFunction {
			continue
		}
		fmt.Fprintf(sb, "%sfunction #%d %s(%s):\n", indent, i, cst.FuncName, strings.Join(cst.FuncParams, ", "))
		writeChunk(sb, cst.FuncBody, indent+"  ")
	}
}
