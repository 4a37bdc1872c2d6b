// Package syphon wires together every compilation phase - lexing,
// parsing, compiling and running - into the small surface an embedder
// or the reference CLI needs, grounded on
// _examples/mna-nenuphar/internal/maincmd's phase-by-phase command
// functions (Tokenize/Parse/Resolve), collapsed here into plain
// functions rather than mainer.Cmd methods since embedding a scripting
// language has no flags or subcommands of its own to parse.
package syphon

import (
	"github.com/mna/syphon/lang/ast"
	"github.com/mna/syphon/lang/compiler"
	"github.com/mna/syphon/lang/parser"
	"github.com/mna/syphon/lang/token"
	"github.com/mna/syphon/lang/value"
	"github.com/mna/syphon/lang/vm"
)

// Config is re-exported so callers never need to import lang/vm
// themselves for the common case of running a program.
type Config = vm.Config

// Parse parses src as a module, returning the first syntax error
// encountered (spec.md's first-error-abort parsing).
func Parse(src []byte) (*ast.Module, error) {
	return parser.ParseModule(src)
}

// Compile parses and compiles src in the given mode, returning a
// compile-time Chunk (see lang/compiler for Mode's meaning).
func Compile(src []byte, mode compiler.Mode) (*compiler.Chunk, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return compiler.CompileModule(mod, mode)
}

// NewVM returns a ready-to-use VM, print/println already registered.
func NewVM(cfg Config) *vm.VM {
	return vm.New(cfg)
}

// Run compiles src in Script mode and runs it to completion on v,
// returning its result value (always None, unless src's last top-level
// node left something else via a REPL-mode compile - see RunREPLLine).
func Run(v *vm.VM, src []byte) (value.Value, error) {
	return run(v, src, compiler.Script)
}

// RunREPLLine compiles src in REPL mode and runs it on v, returning the
// value of src's trailing expression-statement if it has one (spec.md
// §6's "Driver glue" REPL entry point).
func RunREPLLine(v *vm.VM, src []byte) (value.Value, error) {
	return run(v, src, compiler.REPL)
}

func run(v *vm.VM, src []byte, mode compiler.Mode) (value.Value, error) {
	cc, err := Compile(src, mode)
	if err != nil {
		return value.Value{}, err
	}
	chunk, err := value.LoadChunk(v.Heap, cc)
	if err != nil {
		return value.Value{}, err
	}
	return v.Run(chunk)
}

// IsSyntaxOrRuntimeError reports whether err originates from this
// module's own phases (as opposed to, say, an I/O error reading a
// source file), letting a caller decide whether to print it as a plain
// diagnostic line rather than a Go error wrapper chain.
func IsSyntaxOrRuntimeError(err error) bool {
	_, ok := err.(*token.Error)
	return ok
}
