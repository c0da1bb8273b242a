package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders statements as s-expressions, one per line. It backs the
// `lox ast` subcommand and keeps parser tests readable.
func Print(stmts []Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(PrintStmtNode(s))
		b.WriteByte('\n')
	}
	return b.String()
}

// PrintStmtNode renders a single statement as an s-expression.
func PrintStmtNode(s Stmt) string {
	switch s := s.(type) {
	case *ExprStmt:
		return parens(";", PrintExpr(s.Expression))
	case *PrintStmt:
		return parens("print", PrintExpr(s.Expression))
	case *VarDecl:
		if s.Initializer == nil {
			return parens("var", s.Name.Lexeme)
		}
		return parens("var", s.Name.Lexeme, "=", PrintExpr(s.Initializer))
	case *Block:
		parts := []string{"block"}
		for _, inner := range s.Statements {
			parts = append(parts, PrintStmtNode(inner))
		}
		return parens(parts...)
	case *IfStmt:
		if s.ElseBranch == nil {
			return parens("if", PrintExpr(s.Condition), PrintStmtNode(s.ThenBranch))
		}
		return parens("if-else", PrintExpr(s.Condition),
			PrintStmtNode(s.ThenBranch), PrintStmtNode(s.ElseBranch))
	case *WhileStmt:
		return parens("while", PrintExpr(s.Condition), PrintStmtNode(s.Body))
	case *ReturnStmt:
		if s.Value == nil {
			return parens("return")
		}
		return parens("return", PrintExpr(s.Value))
	case *FuncDecl:
		return printFunction("fun "+s.Name.Lexeme, s.Fn)
	case *ClassDecl:
		parts := []string{"class", s.Name.Lexeme}
		if s.Superclass != nil {
			parts = append(parts, "<", s.Superclass.Name.Lexeme)
		}
		for _, m := range s.ClassMethods {
			parts = append(parts, printFunction("class "+m.Name.Lexeme, m.Fn))
		}
		for _, m := range s.Methods {
			parts = append(parts, printFunction(m.Name.Lexeme, m.Fn))
		}
		return parens(parts...)
	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

// PrintExpr renders a single expression as an s-expression.
func PrintExpr(e Expr) string {
	switch e := e.(type) {
	case *Literal:
		return literalString(e.Value)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return parens("=", e.Name.Lexeme, PrintExpr(e.Value))
	case *Unary:
		return parens(e.Operator.Lexeme, PrintExpr(e.Right))
	case *Binary:
		return parens(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case *Logical:
		return parens(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case *Grouping:
		return parens("group", PrintExpr(e.Expression))
	case *Call:
		parts := []string{"call", PrintExpr(e.Callee)}
		for _, a := range e.Arguments {
			parts = append(parts, PrintExpr(a))
		}
		return parens(parts...)
	case *Get:
		return parens(".", PrintExpr(e.Object), e.Name.Lexeme)
	case *Set:
		return parens("=", parens(".", PrintExpr(e.Object), e.Name.Lexeme), PrintExpr(e.Value))
	case *This:
		return "this"
	case *Super:
		return parens("super", e.Method.Lexeme)
	case *FunctionExpr:
		return printFunction("fun", e)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func printFunction(head string, fn *FunctionExpr) string {
	parts := []string{head}
	for _, p := range fn.Params {
		parts = append(parts, p.Lexeme)
	}
	for _, s := range fn.Body {
		parts = append(parts, PrintStmtNode(s))
	}
	return parens(parts...)
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parens(parts ...string) string {
	return "(" + strings.Join(parts, " ") + ")"
}
