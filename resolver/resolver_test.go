package resolver

import (
	"bytes"
	"testing"

	"github.com/rubiojr/lox/ast"
	"github.com/rubiojr/lox/parser"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, map[ast.Expr]int, *report.Reporter, *bytes.Buffer) {
	t.Helper()
	var errb bytes.Buffer
	rep := report.New()
	rep.Out = &errb
	tokens := scanner.New(src, rep).ScanTokens()
	stmts := parser.New(tokens, rep).Parse()
	require.False(t, rep.HadError, "parse failed: %s", errb.String())
	locals := New(rep).Resolve(stmts)
	return stmts, locals, rep, &errb
}

func TestLocalDepths(t *testing.T) {
	stmts, locals, rep, _ := resolve(t, "{ var x = 1; { print x; } x; }")
	require.False(t, rep.HadError)

	block := stmts[0].(*ast.Block)
	inner := block.Statements[1].(*ast.Block).Statements[0].(*ast.PrintStmt).Expression
	outer := block.Statements[2].(*ast.ExprStmt).Expression

	assert.Equal(t, 1, locals[inner], "read from the nested block is one scope up")
	assert.Equal(t, 0, locals[outer], "read in the declaring block is in-scope")
}

func TestGlobalsHaveNoEntry(t *testing.T) {
	stmts, locals, rep, _ := resolve(t, "var x = 1; print x;")
	require.False(t, rep.HadError)

	ref := stmts[1].(*ast.PrintStmt).Expression
	_, ok := locals[ref]
	assert.False(t, ok, "global references stay out of the side table")
}

func TestClosurePinsToDefiningScope(t *testing.T) {
	// The reference to a inside show must not see the later shadowing
	// declaration in the block.
	src := `var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}`
	stmts, locals, rep, _ := resolve(t, src)
	require.False(t, rep.HadError)

	block := stmts[1].(*ast.Block)
	show := block.Statements[0].(*ast.FuncDecl)
	ref := show.Fn.Body[0].(*ast.PrintStmt).Expression
	_, ok := locals[ref]
	assert.False(t, ok, "a in show resolves to the global, not the later block-local")
}

func TestFunctionParameterDepth(t *testing.T) {
	stmts, locals, rep, _ := resolve(t, "fun f(a) { return a; }")
	require.False(t, rep.HadError)

	fn := stmts[0].(*ast.FuncDecl)
	ref := fn.Fn.Body[0].(*ast.ReturnStmt).Value
	assert.Equal(t, 0, locals[ref])
}

func TestReadInOwnInitializer(t *testing.T) {
	_, _, rep, errb := resolve(t, "{ var a = a; }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't read local variable in its own initializer.")
}

func TestReadInOwnInitializerAllowedGlobally(t *testing.T) {
	// Globals may be redeclared and self-referenced; only locals error.
	_, _, rep, _ := resolve(t, "var a = 1; var a = a;")
	assert.False(t, rep.HadError)
}

func TestDuplicateDeclaration(t *testing.T) {
	_, _, rep, errb := resolve(t, "{ var a = 1; var a = 2; }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Already a variable with this name in this scope.")
}

func TestDuplicateGlobalAllowed(t *testing.T) {
	_, _, rep, _ := resolve(t, "var a = 1; var a = 2;")
	assert.False(t, rep.HadError)
}

func TestTopLevelReturn(t *testing.T) {
	_, _, rep, errb := resolve(t, "return 1;")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't return from top-level code.")
}

func TestReturnValueFromInitializer(t *testing.T) {
	_, _, rep, errb := resolve(t, "class A { init() { return 1; } }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't return a value from an initializer.")
}

func TestBareReturnFromInitializerAllowed(t *testing.T) {
	_, _, rep, _ := resolve(t, "class A { init() { return; } }")
	assert.False(t, rep.HadError)
}

func TestThisOutsideClass(t *testing.T) {
	_, _, rep, errb := resolve(t, "fun f() { print this; }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't use 'this' outside of a class.")
}

func TestSuperOutsideClass(t *testing.T) {
	_, _, rep, errb := resolve(t, "fun f() { super.m(); }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't use 'super' outside of a class.")
}

func TestSuperWithoutSuperclass(t *testing.T) {
	_, _, rep, errb := resolve(t, "class A { m() { super.m(); } }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't use 'super' in a class with no superclass.")
}

func TestClassInheritingFromItself(t *testing.T) {
	_, _, rep, errb := resolve(t, "class A < A {}")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "A class can't inherit from itself.")
}

func TestThisAndSuperDepthsInMethods(t *testing.T) {
	src := `class A { m() {} }
class B < A {
  m() { super.m(); return this; }
}`
	stmts, locals, rep, _ := resolve(t, src)
	require.False(t, rep.HadError)

	b := stmts[1].(*ast.ClassDecl)
	m := b.Methods[0]
	sup := m.Fn.Body[0].(*ast.ExprStmt).Expression.(*ast.Call).Callee
	this := m.Fn.Body[1].(*ast.ReturnStmt).Value

	// Method body scope is 0; 'this' lives one up, 'super' two up.
	assert.Equal(t, 1, locals[this.(*ast.This)])
	assert.Equal(t, 2, locals[sup.(*ast.Super)])
}

func TestResolutionContinuesAfterError(t *testing.T) {
	_, _, rep, errb := resolve(t, "return 1;\n{ var a = 1; var a = 2; }")

	assert.True(t, rep.HadError)
	assert.Contains(t, errb.String(), "Can't return from top-level code.")
	assert.Contains(t, errb.String(), "Already a variable with this name in this scope.")
}
