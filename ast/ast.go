// Package ast defines the syntax tree produced by the parser.
//
// Nodes are always handled through pointers. The resolver keys its
// scope-depth table on node identity, so a node must never be copied once
// the parser has produced it.
package ast

import (
	"github.com/rubiojr/lox/token"
)

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Literal is a number, string, boolean, or nil constant.
type Literal struct {
	Value any
}

// Variable is a reference to a named binding.
type Variable struct {
	Name token.Token
}

// Assign writes to a named binding.
type Assign struct {
	Name  token.Token
	Value Expr
}

// Unary is !expr or -expr.
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Binary is an arithmetic, comparison, or equality expression.
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Logical is a short-circuiting and/or expression.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expression Expr
}

// Call invokes a callee with arguments. Paren is the closing parenthesis,
// kept for error reporting.
type Call struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

// Get reads a property from an object.
type Get struct {
	Object Expr
	Name   token.Token
}

// Set writes a property on an object.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// This is the receiver reference inside a method body.
type This struct {
	Keyword token.Token
}

// Super is a superclass method access inside a subclass method body.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

// FunctionExpr is a function body with parameters: the anonymous form in
// expression position, and the shared body of named declarations.
type FunctionExpr struct {
	Params []token.Token
	Body   []Stmt
}

func (*Literal) node()      {}
func (*Variable) node()     {}
func (*Assign) node()       {}
func (*Unary) node()        {}
func (*Binary) node()       {}
func (*Logical) node()      {}
func (*Grouping) node()     {}
func (*Call) node()         {}
func (*Get) node()          {}
func (*Set) node()          {}
func (*This) node()         {}
func (*Super) node()        {}
func (*FunctionExpr) node() {}

func (*Literal) expr()      {}
func (*Variable) expr()     {}
func (*Assign) expr()       {}
func (*Unary) expr()        {}
func (*Binary) expr()       {}
func (*Logical) expr()      {}
func (*Grouping) expr()     {}
func (*Call) expr()         {}
func (*Get) expr()          {}
func (*Set) expr()          {}
func (*This) expr()         {}
func (*Super) expr()        {}
func (*FunctionExpr) expr() {}

// ExprStmt evaluates an expression and discards the result.
type ExprStmt struct {
	Expression Expr
}

// PrintStmt writes the stringified value and a newline to stdout.
type PrintStmt struct {
	Expression Expr
}

// VarDecl declares a variable. Initializer is nil when omitted.
type VarDecl struct {
	Name        token.Token
	Initializer Expr
}

// Block executes statements in a fresh scope.
type Block struct {
	Statements []Stmt
}

// IfStmt branches on the condition's truthiness. ElseBranch may be nil.
type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

// WhileStmt re-evaluates the condition before each iteration.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// ReturnStmt unwinds to the nearest function call. Value is nil for a
// bare return.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr
}

// FuncDecl binds a name to a function.
type FuncDecl struct {
	Name token.Token
	Fn   *FunctionExpr
}

// ClassDecl declares a class. Superclass is nil when the class does not
// inherit. ClassMethods are declared with a leading 'class' keyword and
// are looked up on the class object itself.
type ClassDecl struct {
	Name         token.Token
	Superclass   *Variable
	Methods      []*FuncDecl
	ClassMethods []*FuncDecl
}

func (*ExprStmt) node()   {}
func (*PrintStmt) node()  {}
func (*VarDecl) node()    {}
func (*Block) node()      {}
func (*IfStmt) node()     {}
func (*WhileStmt) node()  {}
func (*ReturnStmt) node() {}
func (*FuncDecl) node()   {}
func (*ClassDecl) node()  {}

func (*ExprStmt) stmt()   {}
func (*PrintStmt) stmt()  {}
func (*VarDecl) stmt()    {}
func (*Block) stmt()      {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*FuncDecl) stmt()   {}
func (*ClassDecl) stmt()  {}
