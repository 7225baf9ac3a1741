package engine

import "strconv"

// ToggleSign flips the unary sign of the last operand. An operand that is
// exactly "0" stays unsigned, and nothing happens while an operand is awaited.
func (e Expression) ToggleSign() Expression {
	i := e.LastOperand()
	if i < 0 || e[i].Text == "0" {
		return e
	}
	e[i].Negative = !e[i].Negative
	return e
}

// ApplyPercent replaces the last operand's magnitude with magnitude/100,
// keeping its sign and the preceding operator untouched.
func (e Expression) ApplyPercent() Expression {
	i := e.LastOperand()
	if i < 0 {
		return e
	}
	text, ok := percentOf(e[i].Text)
	if !ok {
		return e
	}
	e[i].Text = text
	if text == "0" {
		e[i].Negative = false
	}
	return e
}

// percentOf divides a magnitude literal by 100 and renders the shortest
// decimal text after precision rounding.
func percentOf(magnitude string) (string, bool) {
	v, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return "", false
	}
	return formatNumber(roundSignificant(v / 100)), true
}
