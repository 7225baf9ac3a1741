// Package engine turns calculator keystrokes into an expression, evaluates it
// and renders display text. It is pure in-memory state with no I/O.
package engine

import "strings"

// Operator is one of the four binary arithmetic operators.
type Operator byte

const (
	OpAdd      Operator = '+'
	OpSubtract Operator = '-'
	OpMultiply Operator = '*'
	OpDivide   Operator = '/'
)

// ParseOperator maps an ASCII operator character or its display glyph to an Operator.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-", glyphMinus:
		return OpSubtract, true
	case "*", glyphTimes, "x":
		return OpMultiply, true
	case "/", glyphDivide:
		return OpDivide, true
	}
	return 0, false
}

func (o Operator) String() string { return string(rune(o)) }

// TokenKind tags a Token as operand or operator.
type TokenKind int

const (
	KindOperand TokenKind = iota
	KindOperator
)

// Token is one element of an Expression. Operand tokens carry the magnitude
// text (digits and at most one '.') and a unary-sign attribute.
type Token struct {
	Kind     TokenKind
	Text     string
	Negative bool
	Op       Operator
}

// Operand builds an operand token.
func Operand(text string, negative bool) Token {
	return Token{Kind: KindOperand, Text: text, Negative: negative}
}

// OperatorToken builds an operator token.
func OperatorToken(op Operator) Token {
	return Token{Kind: KindOperator, Op: op}
}

// OperandFromLiteral splits a signed numeric literal such as "-2.5" into an operand token.
func OperandFromLiteral(lit string) Token {
	if strings.HasPrefix(lit, "-") {
		return Operand(lit[1:], true)
	}
	return Operand(lit, false)
}

// IsOperand reports whether t is an operand token.
func (t Token) IsOperand() bool { return t.Kind == KindOperand }

// Literal renders t in the ASCII grammar accepted by Evaluate.
func (t Token) Literal() string {
	if t.Kind == KindOperator {
		return t.Op.String()
	}
	if t.Negative {
		return "-" + t.Text
	}
	return t.Text
}

// Expression is the calculation in progress. It never starts with an operator
// and never holds two adjacent operator tokens; a unary minus is an operand attribute.
type Expression []Token

// String renders the expression in the evaluator's ASCII grammar, e.g. "5--3".
func (e Expression) String() string {
	var b strings.Builder
	for _, t := range e {
		b.WriteString(t.Literal())
	}
	return b.String()
}

// LastOperand returns the index of the trailing operand, or -1 when the
// expression is empty or ends with an operator.
func (e Expression) LastOperand() int {
	if len(e) == 0 || !e[len(e)-1].IsOperand() {
		return -1
	}
	return len(e) - 1
}

// EndsWithOperator reports whether an operand is still awaited.
func (e Expression) EndsWithOperator() bool {
	return len(e) > 0 && !e[len(e)-1].IsOperand()
}

// Clone returns an independent copy.
func (e Expression) Clone() Expression {
	out := make(Expression, len(e))
	copy(out, e)
	return out
}
