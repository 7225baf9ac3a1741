package engine

// ErrorText is shown in place of a result when evaluation fails.
const ErrorText = "Error"

// Mode is the state machine position of a Calculator.
type Mode int

const (
	// ModeEntry means an expression is being composed.
	ModeEntry Mode = iota
	// ModeResult means the expression is exactly the last computed value.
	ModeResult
	// ModeError means the last evaluation failed; only digit, decimal,
	// clear and backspace leave it.
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeEntry:
		return "entry"
	case ModeResult:
		return "result"
	case ModeError:
		return "error"
	}
	return "unknown"
}

// Calculator is the keystroke state machine for one calculation session.
// It is not safe for concurrent use; callers serialise keystrokes.
type Calculator struct {
	expr       Expression
	mode       Mode
	lastResult string
	history    Expression
	err        error

	format    Formatter
	maxDigits int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMaxDigits caps the length of an operand typed by the user. Zero disables the cap.
func WithMaxDigits(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.maxDigits = n
		}
	}
}

// WithGrouping turns en-US thousands grouping of display text on or off.
func WithGrouping(grouping bool) Option {
	return func(c *Calculator) {
		c.format = NewFormatter(grouping)
	}
}

// New returns a Calculator showing "0" in entry mode.
func New(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Calculator) reset() {
	c.expr = Clear()
	c.mode = ModeEntry
	c.lastResult = ""
	c.history = nil
	c.err = nil
}

// startFresh discards a finished result or error and begins a new expression.
func (c *Calculator) startFresh(first Token) {
	c.reset()
	c.expr = Expression{first}
}

// PressDigit handles a '0'..'9' keystroke. Other bytes are ignored.
func (c *Calculator) PressDigit(d byte) string {
	if d < '0' || d > '9' {
		return c.DisplayText()
	}
	if c.mode != ModeEntry {
		c.startFresh(Operand(string(d), false))
		return c.DisplayText()
	}
	c.expr = c.expr.AppendDigit(d, c.maxDigits)
	return c.DisplayText()
}

// PressDecimal handles the decimal point keystroke.
func (c *Calculator) PressDecimal() string {
	if c.mode != ModeEntry {
		c.startFresh(Operand("0.", false))
		return c.DisplayText()
	}
	c.expr = c.expr.AppendDecimal(c.maxDigits)
	return c.DisplayText()
}

// PressOperator appends or replaces the pending operator. After a result the
// expression chains from the computed value.
func (c *Calculator) PressOperator(op Operator) string {
	switch c.mode {
	case ModeError:
		return c.DisplayText()
	case ModeResult:
		c.mode = ModeEntry
		c.history = nil
	}
	c.expr = c.expr.AppendOperator(op)
	return c.DisplayText()
}

// PressEquals evaluates the expression. It never fails: on error the
// display reads ErrorText and Err reports the cause.
func (c *Calculator) PressEquals() string {
	if c.mode != ModeEntry {
		return c.DisplayText()
	}

	evaluated := c.expr.Clone()
	if evaluated.EndsWithOperator() {
		evaluated = evaluated[:len(evaluated)-1]
	}

	res, err := EvaluateExpression(evaluated)
	if err != nil {
		c.mode = ModeError
		c.err = err
		c.history = nil
		return c.DisplayText()
	}

	c.expr = Expression{OperandFromLiteral(res.Text)}
	c.mode = ModeResult
	c.lastResult = res.Text
	c.history = evaluated
	c.err = nil
	return c.DisplayText()
}

// PressClear resets to the initial state.
func (c *Calculator) PressClear() string {
	c.reset()
	return c.DisplayText()
}

// PressBackspace removes the last character of the current operand. On a
// result or error it clears instead.
func (c *Calculator) PressBackspace() string {
	if c.mode != ModeEntry {
		return c.PressClear()
	}
	c.expr = c.expr.Backspace()
	return c.DisplayText()
}

// PressSign negates the last operand, or the shown result.
func (c *Calculator) PressSign() string {
	if c.mode == ModeError {
		return c.DisplayText()
	}
	c.expr = c.expr.ToggleSign()
	c.syncResult()
	return c.DisplayText()
}

// PressPercent divides the last operand, or the shown result, by 100.
// The history line is left as it was.
func (c *Calculator) PressPercent() string {
	if c.mode == ModeError {
		return c.DisplayText()
	}
	c.expr = c.expr.ApplyPercent()
	c.syncResult()
	return c.DisplayText()
}

// syncResult keeps lastResult equal to the expression while in result mode.
func (c *Calculator) syncResult() {
	if c.mode == ModeResult && len(c.expr) == 1 {
		c.lastResult = c.expr[0].Literal()
	}
}

// DisplayText renders the current expression, or ErrorText.
func (c *Calculator) DisplayText() string {
	if c.mode == ModeError {
		return ErrorText
	}
	return c.format.RenderExpression(c.expr)
}

// HistoryText renders the evaluated expression above a result. It is empty
// outside result mode.
func (c *Calculator) HistoryText() string {
	if c.mode != ModeResult {
		return ""
	}
	return c.format.RenderHistory(c.history)
}

// Mode reports the state machine position.
func (c *Calculator) Mode() Mode { return c.mode }

// Err returns the cause of the last failed evaluation while in error mode.
func (c *Calculator) Err() error { return c.err }

// Expression returns a copy of the current expression.
func (c *Calculator) Expression() Expression { return c.expr.Clone() }

// LastResult returns the most recent computed value as a literal.
func (c *Calculator) LastResult() (string, bool) {
	return c.lastResult, c.lastResult != ""
}
