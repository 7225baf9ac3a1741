package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	glyphPlus   = "+"
	glyphMinus  = "−"
	glyphTimes  = "×"
	glyphDivide = "÷"
)

var glyphs = map[Operator]string{
	OpAdd:      glyphPlus,
	OpSubtract: glyphMinus,
	OpMultiply: glyphTimes,
	OpDivide:   glyphDivide,
}

// Formatter renders expressions as display text. The zero value renders
// operands exactly as typed; with Grouping the integer part of each operand
// gets en-US thousands separators.
type Formatter struct {
	Grouping bool
	printer  *message.Printer
}

// NewFormatter returns a Formatter, grouping digits when grouping is set.
func NewFormatter(grouping bool) Formatter {
	f := Formatter{Grouping: grouping}
	if grouping {
		f.printer = message.NewPrinter(language.AmericanEnglish)
	}
	return f
}

// RenderExpression maps operators to display glyphs and joins tokens with
// single spaces. A unary sign renders as a minus glyph glued to its operand.
func (f Formatter) RenderExpression(e Expression) string {
	parts := make([]string, 0, len(e))
	for _, t := range e {
		if t.Kind == KindOperator {
			parts = append(parts, glyphs[t.Op])
			continue
		}
		text := f.renderOperand(t.Text)
		if t.Negative {
			text = glyphMinus + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// RenderHistory renders an evaluated expression followed by an equals marker.
func (f Formatter) RenderHistory(e Expression) string {
	if len(e) == 0 {
		return ""
	}
	return f.RenderExpression(e) + " ="
}

func (f Formatter) renderOperand(text string) string {
	if !f.Grouping {
		return text
	}
	printer := f.printer
	if printer == nil {
		printer = message.NewPrinter(language.AmericanEnglish)
	}

	intPart, frac, hasDot := strings.Cut(text, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64 the operand is shown ungrouped.
		return text
	}
	out := printer.Sprintf("%d", n)
	if hasDot {
		out += "." + frac
	}
	return out
}

var displayToASCII = strings.NewReplacer(
	glyphMinus, "-",
	glyphTimes, "*",
	glyphDivide, "/",
	",", "",
	" ", "",
	"=", "",
)

// ParseDisplay converts rendered display text back into the ASCII grammar
// accepted by Evaluate. Formatting is display-only, so
// Evaluate(ParseDisplay(f.RenderExpression(e))) equals EvaluateExpression(e).
func ParseDisplay(text string) string {
	return displayToASCII.Replace(text)
}
