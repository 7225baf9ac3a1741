package engine

import "strings"

// Clear returns the expression shown after startup or clear: a lone "0".
func Clear() Expression {
	return Expression{Operand("0", false)}
}

// AppendDigit adds d to the trailing operand. A lone "0" operand is replaced
// rather than extended, and a trailing operator opens a new operand.
// maxDigits caps operand length when positive.
func (e Expression) AppendDigit(d byte, maxDigits int) Expression {
	if d < '0' || d > '9' {
		return e
	}
	i := e.LastOperand()
	if i < 0 {
		return append(e, Operand(string(d), false))
	}

	op := e[i]
	switch {
	case op.Text == "0":
		op.Text = string(d)
	case maxDigits > 0 && len(op.Text) >= maxDigits:
		return e
	default:
		op.Text += string(d)
	}
	e[i] = op
	return e
}

// AppendDecimal adds a decimal point to the trailing operand unless it
// already has one. After an operator it starts the operand "0.".
func (e Expression) AppendDecimal(maxDigits int) Expression {
	i := e.LastOperand()
	if i < 0 {
		return append(e, Operand("0.", false))
	}
	op := e[i]
	if strings.Contains(op.Text, ".") {
		return e
	}
	if maxDigits > 0 && len(op.Text) >= maxDigits {
		return e
	}
	op.Text += "."
	e[i] = op
	return e
}

// AppendOperator appends op, or replaces the pending operator when the
// expression already ends with one.
func (e Expression) AppendOperator(op Operator) Expression {
	if len(e) == 0 {
		return e
	}
	if e.EndsWithOperator() {
		e[len(e)-1] = OperatorToken(op)
		return e
	}
	return append(e, OperatorToken(op))
}

// Backspace removes the last character of the trailing operand. It does
// nothing while an operand is awaited. An operand reduced to nothing, "-"
// or "-0" becomes "0".
func (e Expression) Backspace() Expression {
	i := e.LastOperand()
	if i < 0 {
		return e
	}
	op := e[i]
	if len(op.Text) <= 1 {
		e[i] = Operand("0", false)
		return e
	}
	op.Text = op.Text[:len(op.Text)-1]
	if op.Text == "0" {
		op.Negative = false
	}
	e[i] = op
	return e
}
