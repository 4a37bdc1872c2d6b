package compiler

import (
	"github.com/mna/syphon/lang/ast"
	"github.com/mna/syphon/lang/atom"
	"github.com/mna/syphon/lang/token"
)

// Mode selects how a Chunk's tail is compiled, grounded on
// original_source/crates/bytecode/src/compiler/mod.rs's CompilerMode.
type Mode int

const (
	// Script mode pops every statement's value, including the synthetic
	// None a declaration yields, keeping the stack net-zero per statement.
	Script Mode = iota
	// REPL mode is like Script, except the final node, if it is an
	// expression statement, is not popped: its value is left for the
	// driver to display.
	REPL
	// Function mode compiles a function body; an explicit `return` inside
	// it ends execution immediately, and falling off the end implicitly
	// returns None.
	Function
)

// loopContext tracks the jump-patching state of one enclosing while loop.
type loopContext struct {
	top         int   // index of the condition re-check instruction
	breakJumps  []int // indices of Jump instructions to patch to the loop's end
}

// Compiler compiles a single chunk of statements (a module, or one
// function body) into a Chunk.
type Compiler struct {
	mode  Mode
	chunk *Chunk
	loops []*loopContext

	// lastWasExprStmt is used only in REPL mode, to decide whether the
	// final node already left its value on the stack (so no synthetic
	// None/Return pair is needed - see Finish).
	lastWasExprStmt bool

	// tail is the last statement passed to CompileBody; in REPL mode it is
	// the one expression statement whose value is not popped.
	tail ast.Stmt
}

// New returns a Compiler ready to compile a single chunk body in mode.
func New(mode Mode) *Compiler {
	return &Compiler{mode: mode, chunk: &Chunk{}}
}

// CompileBody compiles every statement of body in order.
func (c *Compiler) CompileBody(body []ast.Stmt) error {
	if len(body) > 0 {
		c.tail = body[len(body)-1]
	}
	for _, stmt := range body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Finish appends the chunk's terminator and returns the finished Chunk.
// Every chunk (module or function body) is terminated this way, grounded
// on original_source/crates/bytecode/src/compiler/mod.rs's unconditional
// trailing `LoadConstant(None); Return` (its `manual_return` flag is never
// actually set, so the original always appends this terminator too;
// anything after an explicit Return is simply unreachable). REPL mode is
// the one case that must NOT blindly push a fresh None first: doing so
// would bury the last expression-statement's already-pushed value, which
// is exactly the value the REPL needs to display.
func (c *Compiler) Finish() *Chunk {
	if !(c.mode == REPL && c.lastWasExprStmt) {
		idx := c.chunk.AddConstant(Constant{Kind: ConstNone})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
	}
	c.chunk.emit(Instruction{Op: Return})
	return c.chunk
}

// CompileModule compiles an *ast.Module in the given mode, in one call.
func CompileModule(mod *ast.Module, mode Mode) (*Chunk, error) {
	c := New(mode)
	if err := c.CompileBody(mod.Body); err != nil {
		return nil, err
	}
	return c.Finish(), nil
}

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	wasExprStmt := false
	defer func() { c.lastWasExprStmt = wasExprStmt }()

	switch s := stmt.(type) {
	case *ast.VariableDecl:
		return c.compileVariableDecl(s)
	case *ast.FunctionDecl:
		return c.compileFunctionDecl(s)
	case *ast.ReturnStmt:
		return c.compileReturn(s)
	case *ast.IfStmt:
		return c.compileIf(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.BreakStmt:
		return c.compileBreak(s)
	case *ast.ContinueStmt:
		return c.compileContinue(s)
	case *ast.ExprStmt:
		wasExprStmt = true
		return c.compileExprStmt(s)
	default:
		return token.Invalid(stmt.Location(), "statement")
	}
}

func (c *Compiler) compileExprStmt(s *ast.ExprStmt) error {
	if err := c.compileExpr(s.X); err != nil {
		return err
	}
	if c.mode != REPL || ast.Stmt(s) != c.tail {
		c.chunk.emit(Instruction{Op: Pop})
	}
	return nil
}

// declTail emits the Script-mode-only synthetic "statement value", which
// is immediately popped to keep the net-zero-per-statement invariant:
// spec.md directs that a LoadConstant(None) be emitted after a
// declaration in Script mode "so the statement yields a value (drivers
// can discard)" - discarding it is this Pop.
func (c *Compiler) declTail() {
	if c.mode == Script {
		idx := c.chunk.AddConstant(Constant{Kind: ConstNone})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		c.chunk.emit(Instruction{Op: Pop})
	}
}

func (c *Compiler) compileVariableDecl(s *ast.VariableDecl) error {
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		idx := c.chunk.AddConstant(Constant{Kind: ConstNone})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
	}
	c.chunk.emit(Instruction{
		Op: StoreName, Name: atom.Intern(s.Name), Mutable: s.Mutable, Loc: s.Loc,
	})
	c.declTail()
	return nil
}

func (c *Compiler) compileFunctionDecl(s *ast.FunctionDecl) error {
	fc := New(Function)
	if err := fc.CompileBody(s.Body); err != nil {
		return err
	}
	body := fc.Finish()

	idx := c.chunk.AddConstant(Constant{
		Kind: ConstFunction, FuncName: s.Name, FuncParams: append([]string(nil), s.Parameters...), FuncBody: body,
	})
	c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
	c.chunk.emit(Instruction{Op: StoreName, Name: atom.Intern(s.Name), Mutable: false, Loc: s.Loc})
	c.declTail()
	return nil
}

func (c *Compiler) compileReturn(s *ast.ReturnStmt) error {
	if c.mode != Function {
		return token.UnableTo(s.Loc, "return outside a function")
	}
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		idx := c.chunk.AddConstant(Constant{Kind: ConstNone})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
	}
	c.chunk.emit(Instruction{Op: Return})
	return nil
}

func (c *Compiler) compileIf(s *ast.IfStmt) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	jumpToElse := c.chunk.emit(Instruction{Op: JumpIfFalse})

	for _, st := range s.Then {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	jumpToEnd := c.chunk.emit(Instruction{Op: Jump})

	c.patchForward(jumpToElse)
	for _, st := range s.Else {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	c.patchForward(jumpToEnd)
	return nil
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) error {
	top := c.chunk.Len()
	lp := &loopContext{top: top}
	c.loops = append(c.loops, lp)
	defer func() { c.loops = c.loops[:len(c.loops)-1] }()

	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	jumpToEnd := c.chunk.emit(Instruction{Op: JumpIfFalse})

	for _, st := range s.Body {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	c.emitBack(top)

	c.patchForward(jumpToEnd)
	for _, idx := range lp.breakJumps {
		c.patchForward(idx)
	}
	return nil
}

func (c *Compiler) compileBreak(s *ast.BreakStmt) error {
	if len(c.loops) == 0 {
		return token.UnableTo(s.Loc, "break outside a loop")
	}
	lp := c.loops[len(c.loops)-1]
	idx := c.chunk.emit(Instruction{Op: Jump})
	lp.breakJumps = append(lp.breakJumps, idx)
	return nil
}

func (c *Compiler) compileContinue(s *ast.ContinueStmt) error {
	if len(c.loops) == 0 {
		return token.UnableTo(s.Loc, "continue outside a loop")
	}
	lp := c.loops[len(c.loops)-1]
	c.emitBack(lp.top)
	return nil
}

// patchForward sets the Offset of the Jump/JumpIfFalse instruction at idx
// so that, once executed (after the VM's pre-increment fetch advances ip
// past idx), control lands on the instruction about to be emitted next.
func (c *Compiler) patchForward(idx int) {
	target := c.chunk.Len()
	c.chunk.Code[idx].Offset = target - (idx + 1)
}

// emitBack emits a Back instruction jumping to top, grounded on
// original_source/crates/vm/src/lib.rs's `frame.ip -= offset + 1`.
func (c *Compiler) emitBack(top int) {
	idx := c.chunk.Len()
	c.chunk.emit(Instruction{Op: Back, Offset: idx - top})
}
