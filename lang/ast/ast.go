// Package ast defines the syntax tree produced by lang/parser.
//
// The shape (one interface per node category, each concrete type holding a
// token.Location) is grounded on original_source/crates/ast/src/lib.rs's
// Node/StmtKind/ExprKind enums, adapted to Go the way the teacher's
// lang/ast/ast.go adapts a similar tagged structure: each variant becomes
// its own struct implementing a small common interface instead of a Rust
// enum. If/While/Break/Continue/array literals/subscripting are not in
// either original draft (both are incomplete on control flow) and are
// added here per spec.md §3, in the same struct-with-Location idiom as the
// rest of the tree.
package ast

import "github.com/mna/syphon/lang/token"

// Node is implemented by every statement and expression node.
type Node interface {
	Location() token.Location
}

// Module is the root of a parsed chunk: a flat list of statements.
type Module struct {
	Body []Stmt
}

func (m *Module) Location() token.Location {
	if len(m.Body) == 0 {
		return token.DefaultLocation
	}
	return m.Body[0].Location()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// VariableDecl is a `let` or `const` declaration.
type VariableDecl struct {
	Mutable bool
	Name    string
	Value   Expr // nil if no initializer was given
	Loc     token.Location
}

// FunctionDecl declares a named function.
type FunctionDecl struct {
	Name       string
	Parameters []string
	Body       []Stmt
	Loc        token.Location
}

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	Value Expr // nil for a bare `return;`
	Loc   token.Location
}

// IfStmt is an if/else-if/else chain: Else may itself hold a single
// IfStmt (for `else if`) or any other statement list (for a plain
// `else`), matching how the parser threads the chain (§4.2/§4.3).
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if there is no else clause
	Loc  token.Location
}

// WhileStmt is a condition-checked-first loop.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Loc  token.Location
}

// BreakStmt exits the nearest enclosing WhileStmt.
type BreakStmt struct{ Loc token.Location }

// ContinueStmt jumps to the condition re-check of the nearest enclosing
// WhileStmt.
type ContinueStmt struct{ Loc token.Location }

// ExprStmt is an expression evaluated for its side effects; its value is
// discarded (spec.md §4.3: "Pop is inserted by the compiler after
// expression-statements").
type ExprStmt struct {
	X   Expr
	Loc token.Location
}

func (n *VariableDecl) Location() token.Location { return n.Loc }
func (n *FunctionDecl) Location() token.Location { return n.Loc }
func (n *ReturnStmt) Location() token.Location   { return n.Loc }
func (n *IfStmt) Location() token.Location       { return n.Loc }
func (n *WhileStmt) Location() token.Location     { return n.Loc }
func (n *BreakStmt) Location() token.Location     { return n.Loc }
func (n *ContinueStmt) Location() token.Location  { return n.Loc }
func (n *ExprStmt) Location() token.Location      { return n.Loc }

func (*VariableDecl) stmtNode() {}
func (*FunctionDecl) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ExprStmt) stmtNode()     {}

// Identifier references a name, resolved dynamically at run time against
// the current frame's locals and then the VM's globals (spec.md §4.4).
type Identifier struct {
	Name string
	Loc  token.Location
}

// IntLit, FloatLit, StringLit, BoolLit, NoneLit are literal expressions.
type IntLit struct {
	Value int64
	Loc   token.Location
}
type FloatLit struct {
	Value float64
	Loc   token.Location
}
type StringLit struct {
	Value string
	Loc   token.Location
}
type BoolLit struct {
	Value bool
	Loc   token.Location
}
type NoneLit struct{ Loc token.Location }

// ArrayLit is an array literal: `[a, b, c]`.
type ArrayLit struct {
	Elements []Expr
	Loc      token.Location
}

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Op    token.Operator // Minus or Bang
	Right Expr
	Loc   token.Location
}

// BinaryExpr is any of the binary arithmetic/comparison operators.
type BinaryExpr struct {
	Left  Expr
	Op    token.Operator
	Right Expr
	Loc   token.Location
}

// AssignExpr is `name = value`, itself an expression yielding the
// assigned value (spec.md §4.3).
type AssignExpr struct {
	Name  string
	Value Expr
	Loc   token.Location
}

// SubscriptExpr reads `array[index]`.
type SubscriptExpr struct {
	Array Expr
	Index Expr
	Loc   token.Location
}

// AssignSubscriptExpr is `array[index] = value`, also an expression.
type AssignSubscriptExpr struct {
	Array Expr
	Index Expr
	Value Expr
	Loc   token.Location
}

// CallExpr invokes Callee with Args, evaluated left-to-right.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Loc    token.Location
}

func (n *Identifier) Location() token.Location          { return n.Loc }
func (n *IntLit) Location() token.Location               { return n.Loc }
func (n *FloatLit) Location() token.Location             { return n.Loc }
func (n *StringLit) Location() token.Location            { return n.Loc }
func (n *BoolLit) Location() token.Location               { return n.Loc }
func (n *NoneLit) Location() token.Location               { return n.Loc }
func (n *ArrayLit) Location() token.Location               { return n.Loc }
func (n *UnaryExpr) Location() token.Location              { return n.Loc }
func (n *BinaryExpr) Location() token.Location             { return n.Loc }
func (n *AssignExpr) Location() token.Location             { return n.Loc }
func (n *SubscriptExpr) Location() token.Location          { return n.Loc }
func (n *AssignSubscriptExpr) Location() token.Location    { return n.Loc }
func (n *CallExpr) Location() token.Location               { return n.Loc }

func (*Identifier) exprNode()          {}
func (*IntLit) exprNode()              {}
func (*FloatLit) exprNode()            {}
func (*StringLit) exprNode()           {}
func (*BoolLit) exprNode()             {}
func (*NoneLit) exprNode()             {}
func (*ArrayLit) exprNode()            {}
func (*UnaryExpr) exprNode()           {}
func (*BinaryExpr) exprNode()          {}
func (*AssignExpr) exprNode()          {}
func (*SubscriptExpr) exprNode()       {}
func (*AssignSubscriptExpr) exprNode() {}
func (*CallExpr) exprNode()            {}
