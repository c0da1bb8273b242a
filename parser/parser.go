// Package parser builds the AST from a token sequence by recursive
// descent. Errors are reported to the diagnostic sink; after each error
// the parser synchronizes to a likely statement boundary and keeps going,
// so a single run surfaces as many syntax errors as possible.
package parser

import (
	"fmt"

	"github.com/rubiojr/lox/ast"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/token"
)

// maxCallArgs caps both parameter and argument lists.
const maxCallArgs = 255

// syntaxError unwinds the descent to the nearest synchronization point.
type syntaxError struct{}

type Parser struct {
	tokens  []token.Token
	current int
	rep     *report.Reporter
}

// New creates a Parser over a scanned token sequence.
func New(tokens []token.Token, rep *report.Reporter) *Parser {
	return &Parser{tokens: tokens, rep: rep}
}

// Parse parses a whole program. The returned statements are only safe to
// execute when the reporter saw no error.
func (p *Parser) Parse() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)
	for !p.check(token.EOF) {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Declarations and statements
// --------------------------------------------------------

func (p *Parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	// 'fun' only starts a declaration when a name follows; otherwise it
	// is an anonymous function in expression position.
	case p.check(token.FUN) && p.checkNext(token.IDENTIFIER):
		p.advance()
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: sname}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	decl := &ast.ClassDecl{Name: name, Superclass: superclass}
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		if p.match(token.CLASS) {
			decl.ClassMethods = append(decl.ClassMethods, p.function("method"))
		} else {
			decl.Methods = append(decl.Methods, p.function("method"))
		}
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return decl
}

func (p *Parser) function(kind string) *ast.FuncDecl {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	return &ast.FuncDecl{Name: name, Fn: p.functionBody(kind)}
}

func (p *Parser) functionBody(kind string) *ast.FunctionExpr {
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")

	params := make([]token.Token, 0)
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxCallArgs {
				p.reportError(p.peek(), fmt.Sprintf(
					"Can't have more than %d parameters.", maxCallArgs))
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	return &ast.FunctionExpr{Params: params, Body: p.blockStatements()}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.VarDecl{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Statements: p.blockStatements()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars to: { initializer; while (condition) { body; increment; } }
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.ExprStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	var loop ast.Stmt = &ast.WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		loop = &ast.Block{Statements: []ast.Stmt{initializer, loop}}
	}
	return loop
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.PrintStmt{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()

	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	return &ast.WhileStmt{Condition: condition, Body: p.statement()}
}

// blockStatements parses declaration* '}' without scope bookkeeping; the
// opening brace is already consumed.
func (p *Parser) blockStatements() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExprStmt{Expression: expr}
}

// Expressions, in ascending precedence
// --------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	// The target is parsed as an ordinary expression first; only once the
	// '=' shows up is it reinterpreted as an assignment target.
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		}

		// Not a hard error: the RHS parsed fine, keep going.
		p.reportError(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		expr = &ast.Logical{Left: expr, Operator: op, Right: p.and()}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		expr = &ast.Logical{Left: expr, Operator: op, Right: p.equality()}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		expr = &ast.Binary{Left: expr, Operator: op, Right: p.comparison()}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		expr = &ast.Binary{Left: expr, Operator: op, Right: p.term()}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		expr = &ast.Binary{Left: expr, Operator: op, Right: p.factor()}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		expr = &ast.Binary{Left: expr, Operator: op, Right: p.unary()}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		return &ast.Unary{Operator: op, Right: p.unary()}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxCallArgs {
				p.reportError(p.peek(), fmt.Sprintf(
					"Can't have more than %d arguments.", maxCallArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}

	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}

	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}

	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}

	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}

	case p.match(token.FUN):
		return p.functionBody("function")

	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	}

	panic(p.hardError(p.peek(), "Expect expression."))
}

// Error handling
// --------------------------------------------------------

// reportError records an error without abandoning the current production.
func (p *Parser) reportError(tok token.Token, message string) {
	p.rep.ErrorAt(tok, message)
}

// hardError records an error and returns the panic value that unwinds to
// the nearest declaration boundary.
func (p *Parser) hardError(tok token.Token, message string) syntaxError {
	p.rep.ErrorAt(tok, message)
	return syntaxError{}
}

// synchronize discards tokens until a likely statement boundary, so one
// syntax error does not cascade into spurious follow-ups.
func (p *Parser) synchronize() {
	p.advance()

	for !p.check(token.EOF) {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}

// Token cursor helpers
// --------------------------------------------------------

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.hardError(p.peek(), message))
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkNext(kind token.Kind) bool {
	if p.peek().Kind == token.EOF {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.check(token.EOF) {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
