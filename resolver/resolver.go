// Package resolver performs the static pass between parsing and
// evaluation. It walks the whole tree exactly once — both branches of an
// if, loop bodies included — computing, for every non-global variable
// reference, how many scopes up its binding lives. The result is a side
// table keyed by expression node identity; references with no entry are
// globals resolved by name at runtime.
package resolver

import (
	"github.com/rubiojr/lox/ast"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/token"
)

type functionKind uint8

const (
	funcNone functionKind = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classKind uint8

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Resolver tracks lexical scopes while walking the tree. Each scope maps
// a name to whether its initializer has finished resolving; a false entry
// means the name is declared but not yet usable.
type Resolver struct {
	rep             *report.Reporter
	scopes          []map[string]bool
	locals          map[ast.Expr]int
	currentFunction functionKind
	currentClass    classKind
}

// New creates a Resolver reporting to the given sink.
func New(rep *report.Reporter) *Resolver {
	return &Resolver{
		rep:    rep,
		locals: map[ast.Expr]int{},
	}
}

// Resolve walks the program and returns the scope-depth side table.
// Static errors go to the reporter; resolution always continues so one
// pass surfaces every error.
func (r *Resolver) Resolve(stmts []ast.Stmt) map[ast.Expr]int {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.VarDecl:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.FuncDecl:
		// The name is defined before the body resolves so the function
		// can recurse.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Fn, funcFunction)

	case *ast.ClassDecl:
		r.resolveClass(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expression)

	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)

	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ast.ReturnStmt:
		if r.currentFunction == funcNone {
			r.rep.ErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == funcInitializer {
				r.rep.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDecl) {
	enclosing := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosing }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.rep.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		// 'super' lives in a synthetic scope enclosing every method of
		// the subclass.
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range s.Methods {
		kind := funcMethod
		if m.Name.Lexeme == "init" {
			kind = funcInitializer
		}
		r.resolveFunction(m.Fn, kind)
	}
	// Class methods also run with 'this' bound: the receiver is the
	// class object itself.
	for _, m := range s.ClassMethods {
		r.resolveFunction(m.Fn, funcMethod)
	}

	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.rep.ErrorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.This:
		if r.currentClass == classNone {
			r.rep.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.rep.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.rep.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.FunctionExpr:
		r.resolveFunction(e, funcFunction)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Expression)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Arguments {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)

	case *ast.Literal:
		// Nothing to resolve.
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionExpr, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosing
}

// resolveLocal records the scope distance for a reference, walking from
// the innermost scope outward. No match means the reference is global.
func (r *Resolver) resolveLocal(e ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks a name as existing in the innermost scope but not yet
// usable. Globals are exempt: redeclaration there is allowed.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.rep.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks the name's initializer as finished.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
