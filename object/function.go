package object

import (
	"github.com/rubiojr/lox/ast"
)

// Callable is anything invocable by a call expression: user functions,
// natives, and classes. Invocation itself lives in the interpreter; this
// interface only exposes what the call site checks up front.
type Callable interface {
	Arity() int
}

// Function is a user-defined function value: the shared declaration plus
// the environment captured where its fun expression was evaluated.
type Function struct {
	Name          string // empty for anonymous functions
	Decl          *ast.FunctionExpr
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int {
	return len(f.Decl.Params)
}

// Bind produces a copy of the function whose closure is a fresh frame
// binding 'this' to the receiver. Property access on instances and
// classes goes through here.
func (f *Function) Bind(this any) *Function {
	env := NewEnclosed(f.Closure)
	env.Define("this", this)
	return &Function{
		Name:          f.Name,
		Decl:          f.Decl,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

// Native is a host-implemented function installed in globals.
type Native struct {
	Name string
	N    int
	Fn   func(args []any) any
}

func (n *Native) Arity() int {
	return n.N
}

func (n *Native) String() string {
	return "<fn " + n.Name + ">"
}
