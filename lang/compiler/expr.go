package compiler

import (
	"github.com/mna/syphon/lang/ast"
	"github.com/mna/syphon/lang/atom"
	"github.com/mna/syphon/lang/token"
)

func (c *Compiler) compileExpr(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.Identifier:
		c.chunk.emit(Instruction{Op: LoadName, Name: atom.Intern(x.Name), Loc: x.Loc})
		return nil

	case *ast.IntLit:
		idx := c.chunk.AddConstant(Constant{Kind: ConstInt, Int: x.Value})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil

	case *ast.FloatLit:
		idx := c.chunk.AddConstant(Constant{Kind: ConstFloat, Float: x.Value})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil

	case *ast.StringLit:
		idx := c.chunk.AddConstant(Constant{Kind: ConstString, Str: x.Value})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil

	case *ast.BoolLit:
		idx := c.chunk.AddConstant(Constant{Kind: ConstBool, Bool: x.Value})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil

	case *ast.NoneLit:
		idx := c.chunk.AddConstant(Constant{Kind: ConstNone})
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil

	case *ast.ArrayLit:
		for _, el := range x.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.chunk.emit(Instruction{Op: MakeArray, Length: len(x.Elements)})
		return nil

	case *ast.UnaryExpr:
		return c.compileUnary(x)

	case *ast.BinaryExpr:
		return c.compileBinary(x)

	case *ast.AssignExpr:
		return c.compileAssign(x)

	case *ast.SubscriptExpr:
		if err := c.compileExpr(x.Array); err != nil {
			return err
		}
		if err := c.compileExpr(x.Index); err != nil {
			return err
		}
		c.chunk.emit(Instruction{Op: LoadSubscript, Loc: x.Loc})
		return nil

	case *ast.AssignSubscriptExpr:
		return c.compileAssignSubscript(x)

	case *ast.CallExpr:
		return c.compileCall(x)

	default:
		return token.Invalid(e.Location(), "expression")
	}
}

func (c *Compiler) compileUnary(x *ast.UnaryExpr) error {
	// Constant-fold a literal negative int/float, grounded on
	// original_source/crates/bytecode/src/compiler/expr.rs's folding macro
	// applied to unary minus.
	if x.Op == token.Minus {
		switch lit := x.Right.(type) {
		case *ast.IntLit:
			idx := c.chunk.AddConstant(Constant{Kind: ConstInt, Int: -lit.Value})
			c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
			return nil
		case *ast.FloatLit:
			idx := c.chunk.AddConstant(Constant{Kind: ConstFloat, Float: -lit.Value})
			c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
			return nil
		}
	}
	if err := c.compileExpr(x.Right); err != nil {
		return err
	}
	if x.Op == token.Minus {
		c.chunk.emit(Instruction{Op: Neg, Loc: x.Loc})
	} else {
		c.chunk.emit(Instruction{Op: LogicalNot, Loc: x.Loc})
	}
	return nil
}

// foldBinary attempts to fold a binary expression between two literal
// int/float operands at compile time, grounded on
// original_source/crates/bytecode/src/compiler/expr.rs's constant-folding
// macro: only Plus/Minus/Star/ForwardSlash are folded there, and division
// always yields a Float result even when both operands are Int.
func (c *Compiler) foldBinary(x *ast.BinaryExpr) (Constant, bool) {
	li, lIsInt := x.Left.(*ast.IntLit)
	lf, lIsFloat := x.Left.(*ast.FloatLit)
	ri, rIsInt := x.Right.(*ast.IntLit)
	rf, rIsFloat := x.Right.(*ast.FloatLit)

	if !(lIsInt || lIsFloat) || !(rIsInt || rIsFloat) {
		return Constant{}, false
	}

	switch x.Op {
	case token.Plus, token.Minus, token.Star, token.Slash:
	default:
		return Constant{}, false
	}

	if x.Op == token.Slash {
		l := intOrFloat(li, lf, lIsInt)
		r := intOrFloat(ri, rf, rIsInt)
		return Constant{Kind: ConstFloat, Float: l / r}, true
	}

	if lIsInt && rIsInt {
		switch x.Op {
		case token.Plus:
			return Constant{Kind: ConstInt, Int: li.Value + ri.Value}, true
		case token.Minus:
			return Constant{Kind: ConstInt, Int: li.Value - ri.Value}, true
		case token.Star:
			return Constant{Kind: ConstInt, Int: li.Value * ri.Value}, true
		}
	}

	l := intOrFloat(li, lf, lIsInt)
	r := intOrFloat(ri, rf, rIsInt)
	switch x.Op {
	case token.Plus:
		return Constant{Kind: ConstFloat, Float: l + r}, true
	case token.Minus:
		return Constant{Kind: ConstFloat, Float: l - r}, true
	case token.Star:
		return Constant{Kind: ConstFloat, Float: l * r}, true
	}
	return Constant{}, false
}

func intOrFloat(i *ast.IntLit, f *ast.FloatLit, isInt bool) float64 {
	if isInt {
		return float64(i.Value)
	}
	return f.Value
}

func (c *Compiler) compileBinary(x *ast.BinaryExpr) error {
	if cst, ok := c.foldBinary(x); ok {
		idx := c.chunk.AddConstant(cst)
		c.chunk.emit(Instruction{Op: LoadConstant, ConstIndex: idx})
		return nil
	}

	if err := c.compileExpr(x.Left); err != nil {
		return err
	}
	if err := c.compileExpr(x.Right); err != nil {
		return err
	}

	var op Opcode
	switch x.Op {
	case token.Plus:
		op = Add
	case token.Minus:
		op = Sub
	case token.Star:
		op = Mult
	case token.Slash:
		op = Div
	case token.StarStar:
		op = Exponent
	case token.Percent:
		op = Modulo
	case token.Eq:
		op = Equals
	case token.NotEq:
		op = NotEquals
	case token.Lt:
		op = LessThan
	case token.Gt:
		op = GreaterThan
	default:
		return token.Unsupported(x.Loc, "binary operator")
	}
	c.chunk.emit(Instruction{Op: op, Loc: x.Loc})
	return nil
}

// compileAssign compiles `name = value`, grounded on
// original_source/crates/bytecode/src/compiler/expr.rs's compile_assign.
// Assign pops the pushed value and writes it into the name's slot; a
// LoadName is then emitted to read it back, yielding the assignment's
// result for the enclosing expression (spec.md's "every expression is
// net +1" invariant). This differs deliberately from
// original_source/crates/vm/src/lib.rs::assign, whose Assign only peeks
// the stack and leaves a duplicate value behind; that reading would break
// the stack-depth invariant the compiler is required to predict exactly,
// so Assign here pops instead.
func (c *Compiler) compileAssign(x *ast.AssignExpr) error {
	if err := c.compileExpr(x.Value); err != nil {
		return err
	}
	name := atom.Intern(x.Name)
	c.chunk.emit(Instruction{Op: Assign, Name: name, Loc: x.Loc})
	c.chunk.emit(Instruction{Op: LoadName, Name: name, Loc: x.Loc})
	return nil
}

// compileAssignSubscript compiles `array[index] = value`. StoreSubscript
// itself leaves nothing on the stack (it pops all three operands); the
// array/index are then recompiled and re-read via LoadSubscript so the
// whole expression still yields the assigned value, the same
// recompute-after-write idiom compileAssign uses for plain names.
//
// This means x.Array and x.Index are each evaluated twice, so
// `f()[g()] = v` calls f() and g() twice. There's no Dup opcode to stash
// the already-computed array/index handles across the StoreSubscript, and
// original_source never implements subscript assignment at all, so there's
// no ground truth for a single-evaluation sequence; see DESIGN.md.
func (c *Compiler) compileAssignSubscript(x *ast.AssignSubscriptExpr) error {
	if err := c.compileExpr(x.Array); err != nil {
		return err
	}
	if err := c.compileExpr(x.Index); err != nil {
		return err
	}
	if err := c.compileExpr(x.Value); err != nil {
		return err
	}
	c.chunk.emit(Instruction{Op: StoreSubscript, Loc: x.Loc})

	if err := c.compileExpr(x.Array); err != nil {
		return err
	}
	if err := c.compileExpr(x.Index); err != nil {
		return err
	}
	c.chunk.emit(Instruction{Op: LoadSubscript, Loc: x.Loc})
	return nil
}

// compileCall compiles arguments left-to-right, then the callee, then a
// Call instruction - the push order the VM's call dispatch relies on to
// bind parameters left-to-right without reversal (spec.md §5; see
// lang/vm's doc comment for why this deliberately does not replicate
// original_source/crates/vm/src/lib.rs::call_function's apparent
// reversed-binding behavior).
func (c *Compiler) compileCall(x *ast.CallExpr) error {
	for _, a := range x.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	if err := c.compileExpr(x.Callee); err != nil {
		return err
	}
	c.chunk.emit(Instruction{Op: Call, Argc: len(x.Args), Loc: x.Loc})
	return nil
}
