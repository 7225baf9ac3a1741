package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision is the number of significant digits results are rounded to.
const Precision = 12

// MaxNesting bounds how deeply parentheses and unary signs may nest.
const MaxNesting = 256

var (
	ErrInvalidCharacter = errors.New("invalid character")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNonFiniteResult  = errors.New("non-finite result")
	ErrMalformed        = errors.New("malformed expression")
)

// Result is a successful evaluation.
type Result struct {
	Value float64
	Text  string
}

// Evaluate computes expr over the closed grammar of decimal literals,
// + - * /, unary signs and parentheses. Spaces are ignored. A single
// trailing binary operator is dropped and an empty expression yields 0.
func Evaluate(expr string) (Result, error) {
	if i := strings.IndexFunc(expr, notInGrammar); i >= 0 {
		r := []rune(expr[i:])[0]
		return Result{}, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, r, i)
	}

	lexemes, err := lex(expr)
	if err != nil {
		return Result{}, err
	}
	if n := len(lexemes); n > 0 && lexemes[n-1].kind == lexOperator {
		lexemes = lexemes[:n-1]
	}
	if len(lexemes) == 0 {
		return Result{Value: 0, Text: "0"}, nil
	}

	p := &parser{lexemes: lexemes}
	v, err := p.parseExpression()
	if err != nil {
		return Result{}, err
	}
	if !p.atEnd() {
		return Result{}, fmt.Errorf("%w: unexpected %q", ErrMalformed, p.peek().text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}, ErrNonFiniteResult
	}

	v = roundSignificant(v)
	return Result{Value: v, Text: formatNumber(v)}, nil
}

// EvaluateExpression evaluates a token expression.
func EvaluateExpression(e Expression) (Result, error) {
	return Evaluate(e.String())
}

type lexKind int

const (
	lexNumber lexKind = iota
	lexOperator
	lexLParen
	lexRParen
)

type lexeme struct {
	kind lexKind
	text string
	num  float64
}

func lex(expr string) ([]lexeme, error) {
	var out []lexeme
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			out = append(out, lexeme{kind: lexOperator, text: string(c)})
			i++
		case c == '(':
			out = append(out, lexeme{kind: lexLParen, text: "("})
			i++
		case c == ')':
			out = append(out, lexeme{kind: lexRParen, text: ")"})
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				i++
			}
			text := expr[start:i]
			if strings.Count(text, ".") > 1 || text == "." {
				return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, text)
			}
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				if !errors.Is(err, strconv.ErrRange) {
					return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, text)
				}
				if math.IsInf(num, 0) {
					return nil, ErrNonFiniteResult
				}
			}
			out = append(out, lexeme{kind: lexNumber, text: text, num: num})
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, rune(c), i)
		}
	}
	return out, nil
}

type parser struct {
	lexemes []lexeme
	pos     int
	depth   int
}

// enter records one level of nesting. Callers defer p.leave().
func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxNesting {
		return fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, MaxNesting)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) atEnd() bool { return p.pos >= len(p.lexemes) }

func (p *parser) peek() lexeme {
	if p.atEnd() {
		return lexeme{kind: -1}
	}
	return p.lexemes[p.pos]
}

// matchOperator consumes the next lexeme if it is one of ops.
func (p *parser) matchOperator(ops string) (byte, bool) {
	l := p.peek()
	if l.kind != lexOperator || !strings.Contains(ops, l.text) {
		return 0, false
	}
	p.pos++
	return l.text[0], true
}

// parseExpression handles + and -, the lowest precedence level.
func (p *parser) parseExpression() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.matchOperator("+-")
		if !ok {
			return value, nil
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			value += rhs
		} else {
			value -= rhs
		}
		if err := checkFinite(value); err != nil {
			return 0, err
		}
	}
}

// parseTerm handles * and /.
func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.matchOperator("*/")
		if !ok {
			return value, nil
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			value *= rhs
		} else {
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			value /= rhs
		}
		if err := checkFinite(value); err != nil {
			return 0, err
		}
	}
}

// parseUnary handles sign prefixes, so "5--3" is 5-(-3) and "5*-3" is 5*(-3).
func (p *parser) parseUnary() (float64, error) {
	if op, ok := p.matchOperator("+-"); ok {
		defer p.leave()
		if err := p.enter(); err != nil {
			return 0, err
		}
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	l := p.peek()
	switch l.kind {
	case lexNumber:
		p.pos++
		return l.num, nil
	case lexLParen:
		p.pos++
		defer p.leave()
		if err := p.enter(); err != nil {
			return 0, err
		}
		v, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != lexRParen {
			return 0, fmt.Errorf("%w: missing ')'", ErrMalformed)
		}
		p.pos++
		return v, nil
	}
	if p.atEnd() {
		return 0, fmt.Errorf("%w: unexpected end", ErrMalformed)
	}
	return 0, fmt.Errorf("%w: unexpected %q", ErrMalformed, l.text)
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFiniteResult
	}
	return nil
}

// notInGrammar is the character whitelist checked before lexing.
func notInGrammar(r rune) bool {
	return !strings.ContainsRune("0123456789.+-*/() \t", r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// roundSignificant rounds v to Precision significant digits, hiding binary
// floating-point noise such as 0.1+0.2 = 0.30000000000000004.
func roundSignificant(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', Precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// formatNumber renders v as the shortest plain decimal literal. Exponent
// notation is never used: the text becomes the next operand and must stay
// inside the evaluator's grammar, so 1e300 renders as 301 digits.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
