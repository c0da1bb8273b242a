package ast

import (
	"testing"

	"github.com/rubiojr/lox/token"
	"github.com/stretchr/testify/assert"
)

func TestPrintExpr(t *testing.T) {
	// (* (- 123) (group 45.67)), the classic.
	expr := &Binary{
		Left: &Unary{
			Operator: token.Token{Kind: token.MINUS, Lexeme: "-"},
			Right:    &Literal{Value: 123.0},
		},
		Operator: token.Token{Kind: token.STAR, Lexeme: "*"},
		Right:    &Grouping{Expression: &Literal{Value: 45.67}},
	}

	assert.Equal(t, "(* (- 123) (group 45.67))", PrintExpr(expr))
}

func TestPrintLiterals(t *testing.T) {
	assert.Equal(t, "nil", PrintExpr(&Literal{Value: nil}))
	assert.Equal(t, "true", PrintExpr(&Literal{Value: true}))
	assert.Equal(t, `"hi"`, PrintExpr(&Literal{Value: "hi"}))
	assert.Equal(t, "3", PrintExpr(&Literal{Value: 3.0}))
}

func TestPrintVarDecl(t *testing.T) {
	name := token.Token{Kind: token.IDENTIFIER, Lexeme: "x"}
	assert.Equal(t, "(var x)", PrintStmtNode(&VarDecl{Name: name}))
	assert.Equal(t, "(var x = 1)", PrintStmtNode(&VarDecl{Name: name, Initializer: &Literal{Value: 1.0}}))
}
