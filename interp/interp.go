// Package interp evaluates a resolved program by walking the tree.
//
// Runtime errors and return statements both unwind the evaluator with
// panics: runtime errors are recovered at Interpret and reported with
// their source line; return signals are recovered at the enclosing
// function call site and never reach the error path. Block scopes are
// restored by defers, so both unwinds leave the environment exactly as a
// normal exit would.
package interp

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rubiojr/lox/ast"
	"github.com/rubiojr/lox/object"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/token"
)

// runtimeError unwinds evaluation up to Interpret.
type runtimeError struct {
	tok     token.Token
	message string
}

// returnSignal unwinds a function body up to its call site.
type returnSignal struct {
	value any
}

// Interpreter holds the global frame, the current frame, and the
// resolver's side table. It survives across REPL lines.
type Interpreter struct {
	// Stdout receives print output. Swappable for tests.
	Stdout io.Writer

	rep     *report.Reporter
	globals *object.Environment
	env     *object.Environment
	locals  map[ast.Expr]int
}

// New creates an interpreter with `clock` installed in globals.
func New(rep *report.Reporter) *Interpreter {
	globals := object.NewEnvironment()
	globals.Define("clock", &object.Native{
		Name: "clock",
		Fn: func([]any) any {
			return float64(time.Now().UnixMilli()) / 1000.0
		},
	})

	return &Interpreter{
		Stdout:  os.Stdout,
		rep:     rep,
		globals: globals,
		env:     globals,
		locals:  map[ast.Expr]int{},
	}
}

// Resolve merges a side table produced by the resolver. The REPL calls
// this once per line; file mode once per program.
func (i *Interpreter) Resolve(locals map[ast.Expr]int) {
	for e, d := range locals {
		i.locals[e] = d
	}
}

// Interpret executes statements to completion. A runtime error aborts at
// the error point, is reported with its source line, and leaves the
// interpreter usable for the next REPL line.
func (i *Interpreter) Interpret(stmts []ast.Stmt) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case runtimeError:
			// Evaluation may have died inside any number of frames.
			i.env = i.globals
			i.rep.Runtime(r.tok.Line, r.message)
		default:
			panic(r)
		}
	}()

	for _, s := range stmts {
		i.execute(s)
	}
}

// Statements
// --------------------------------------------------------

func (i *Interpreter) execute(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		i.evaluate(s.Expression)

	case *ast.PrintStmt:
		fmt.Fprintln(i.Stdout, object.Stringify(i.evaluate(s.Expression)))

	case *ast.VarDecl:
		var value any
		if s.Initializer != nil {
			value = i.evaluate(s.Initializer)
		}
		i.env.Define(s.Name.Lexeme, value)

	case *ast.Block:
		i.executeBlock(s.Statements, object.NewEnclosed(i.env))

	case *ast.IfStmt:
		if object.Truthy(i.evaluate(s.Condition)) {
			i.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			i.execute(s.ElseBranch)
		}

	case *ast.WhileStmt:
		for object.Truthy(i.evaluate(s.Condition)) {
			i.execute(s.Body)
		}

	case *ast.ReturnStmt:
		var value any
		if s.Value != nil {
			value = i.evaluate(s.Value)
		}
		panic(returnSignal{value: value})

	case *ast.FuncDecl:
		fn := &object.Function{Name: s.Name.Lexeme, Decl: s.Fn, Closure: i.env}
		i.env.Define(s.Name.Lexeme, fn)

	case *ast.ClassDecl:
		i.executeClassDecl(s)
	}
}

// executeBlock runs statements in the given frame, restoring the previous
// frame on every exit path, error and return unwinds included.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *object.Environment) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, s := range stmts {
		i.execute(s)
	}
}

func (i *Interpreter) executeClassDecl(s *ast.ClassDecl) {
	var superclass *object.Class
	if s.Superclass != nil {
		v := i.evaluate(s.Superclass)
		sc, ok := v.(*object.Class)
		if !ok {
			panic(i.errorAt(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	i.env.Define(s.Name.Lexeme, nil)

	// Methods close over a frame that binds 'super' when there is a
	// superclass; the frame is shared by every method of the class.
	env := i.env
	if superclass != nil {
		env = object.NewEnclosed(env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &object.Function{
			Name:          m.Name.Lexeme,
			Decl:          m.Fn,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	classMethods := make(map[string]*object.Function, len(s.ClassMethods))
	for _, m := range s.ClassMethods {
		classMethods[m.Name.Lexeme] = &object.Function{
			Name:    m.Name.Lexeme,
			Decl:    m.Fn,
			Closure: env,
		}
	}

	// The metaclass carries the class methods; chaining it to the
	// superclass's metaclass makes class methods inheritable.
	var metaSuper *object.Class
	if superclass != nil {
		metaSuper = superclass.Meta
	}
	meta := object.NewClass(nil, s.Name.Lexeme+" metaclass", metaSuper, classMethods)
	class := object.NewClass(meta, s.Name.Lexeme, superclass, methods)

	i.env.Assign(s.Name.Lexeme, class)
}

// Expressions
// --------------------------------------------------------

func (i *Interpreter) evaluate(e ast.Expr) any {
	switch e := e.(type) {
	case *ast.Literal:
		return e.Value

	case *ast.Grouping:
		return i.evaluate(e.Expression)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)

	case *ast.Assign:
		value := i.evaluate(e.Value)
		if distance, ok := i.locals[e]; ok {
			i.env.AssignAt(distance, e.Name.Lexeme, value)
		} else if !i.globals.Assign(e.Name.Lexeme, value) {
			panic(i.errorAt(e.Name, "Undefined variable '"+e.Name.Lexeme+"'."))
		}
		return value

	case *ast.Unary:
		return i.evalUnary(e)

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Logical:
		left := i.evaluate(e.Left)
		if e.Operator.Kind == token.OR {
			if object.Truthy(left) {
				return left
			}
		} else if !object.Truthy(left) {
			return left
		}
		return i.evaluate(e.Right)

	case *ast.Call:
		return i.evalCall(e)

	case *ast.Get:
		return i.evalGet(e)

	case *ast.Set:
		return i.evalSet(e)

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)

	case *ast.Super:
		return i.evalSuper(e)

	case *ast.FunctionExpr:
		return &object.Function{Decl: e, Closure: i.env}
	}

	panic(fmt.Sprintf("unhandled expression type %T", e))
}

func (i *Interpreter) evalUnary(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return !object.Truthy(right)
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			panic(i.errorAt(e.Operator, "Operand must be a number."))
		}
		return -n
	}

	panic(fmt.Sprintf("unhandled unary operator %v", e.Operator.Kind))
}

func (i *Interpreter) evalBinary(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.EQUAL_EQUAL:
		return object.Equal(left, right)
	case token.BANG_EQUAL:
		return !object.Equal(left, right)

	case token.PLUS:
		if ln, lok := left.(float64); lok {
			if rn, rok := right.(float64); rok {
				return ln + rn
			}
		}
		if ls, lok := left.(string); lok {
			if rs, rok := right.(string); rok {
				return ls + rs
			}
		}
		panic(i.errorAt(e.Operator, "Operands must be two numbers or two strings."))
	}

	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		panic(i.errorAt(e.Operator, "Operands must be numbers."))
	}

	switch e.Operator.Kind {
	case token.MINUS:
		return ln - rn
	case token.STAR:
		return ln * rn
	case token.SLASH:
		// IEEE division: dividing by zero yields inf or NaN.
		return ln / rn
	case token.GREATER:
		return ln > rn
	case token.GREATER_EQUAL:
		return ln >= rn
	case token.LESS:
		return ln < rn
	case token.LESS_EQUAL:
		return ln <= rn
	}

	panic(fmt.Sprintf("unhandled binary operator %v", e.Operator.Kind))
}

func (i *Interpreter) evalCall(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	args := make([]any, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		args = append(args, i.evaluate(a))
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		panic(i.errorAt(e.Paren, "Can only call functions and classes."))
	}
	if callable.Arity() != len(args) {
		panic(i.errorAt(e.Paren, fmt.Sprintf(
			"Expected %d arguments but got %d.", callable.Arity(), len(args))))
	}

	switch f := callee.(type) {
	case *object.Function:
		return i.callFunction(f, args)
	case *object.Native:
		return f.Fn(args)
	case *object.Class:
		return i.construct(f, args)
	}

	panic(i.errorAt(e.Paren, "Can only call functions and classes."))
}

// callFunction invokes a user function: a fresh frame chained to the
// closure, parameters bound positionally, then the body. A return signal
// is caught here; initializers always yield their 'this'.
func (i *Interpreter) callFunction(f *object.Function, args []any) (result any) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case returnSignal:
			if f.IsInitializer {
				result = f.Closure.GetAt(0, "this")
			} else {
				result = r.value
			}
		default:
			panic(r)
		}
	}()

	env := object.NewEnclosed(f.Closure)
	for idx, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[idx])
	}

	i.executeBlock(f.Decl.Body, env)

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	return nil
}

// construct creates an instance and runs init on it when present. The
// result is always the instance.
func (i *Interpreter) construct(c *object.Class, args []any) any {
	instance := object.NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		i.callFunction(init.Bind(instance), args)
	}
	return instance
}

func (i *Interpreter) evalGet(e *ast.Get) any {
	obj := i.evaluate(e.Object)

	switch obj := obj.(type) {
	case *object.Instance:
		if v, ok := obj.Get(e.Name.Lexeme); ok {
			return v
		}
	case *object.Class:
		// Class objects answer for their metaclass: class methods and
		// class-level fields.
		if v, ok := obj.Get(e.Name.Lexeme); ok {
			return v
		}
	default:
		panic(i.errorAt(e.Name, "Only instances have properties."))
	}

	panic(i.errorAt(e.Name, "Undefined property '"+e.Name.Lexeme+"'."))
}

func (i *Interpreter) evalSet(e *ast.Set) any {
	obj := i.evaluate(e.Object)

	switch obj := obj.(type) {
	case *object.Instance:
		value := i.evaluate(e.Value)
		obj.Set(e.Name.Lexeme, value)
		return value
	case *object.Class:
		value := i.evaluate(e.Value)
		obj.Set(e.Name.Lexeme, value)
		return value
	}

	panic(i.errorAt(e.Name, "Only instances have fields."))
}

func (i *Interpreter) evalSuper(e *ast.Super) any {
	distance := i.locals[e]
	superclass := i.env.GetAt(distance, "super").(*object.Class)
	// 'this' sits in the frame just inside the one holding 'super'.
	this := i.env.GetAt(distance-1, "this")

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(i.errorAt(e.Method, "Undefined property '"+e.Method.Lexeme+"'."))
	}
	return method.Bind(this)
}

func (i *Interpreter) lookUpVariable(name token.Token, e ast.Expr) any {
	if distance, ok := i.locals[e]; ok {
		return i.env.GetAt(distance, name.Lexeme)
	}
	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v
	}
	panic(i.errorAt(name, "Undefined variable '"+name.Lexeme+"'."))
}

func (i *Interpreter) errorAt(tok token.Token, message string) runtimeError {
	return runtimeError{tok: tok, message: message}
}
