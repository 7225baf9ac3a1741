package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKey = errors.New("unknown key")

// KeyKind identifies a keypad button.
type KeyKind int

const (
	KeyDigit KeyKind = iota
	KeyDecimal
	KeyOperator
	KeyEquals
	KeyClear
	KeyBackspace
	KeySign
	KeyPercent
)

// Key is a single keystroke.
type Key struct {
	Kind  KeyKind
	Digit byte
	Op    Operator
}

var namedKeys = map[string]Key{
	".":         {Kind: KeyDecimal},
	"=":         {Kind: KeyEquals},
	"equals":    {Kind: KeyEquals},
	"c":         {Kind: KeyClear},
	"ac":        {Kind: KeyClear},
	"clear":     {Kind: KeyClear},
	"backspace": {Kind: KeyBackspace},
	"⌫":         {Kind: KeyBackspace},
	"sign":      {Kind: KeySign},
	"±":         {Kind: KeySign},
	"percent":   {Kind: KeyPercent},
	"%":         {Kind: KeyPercent},
}

// ParseKey resolves a key name such as "7", "+", "×", "=", "clear" or "sign".
func ParseKey(name string) (Key, error) {
	if len(name) == 1 && isDigit(name[0]) {
		return Key{Kind: KeyDigit, Digit: name[0]}, nil
	}
	if op, ok := ParseOperator(name); ok {
		return Key{Kind: KeyOperator, Op: op}, nil
	}
	if k, ok := namedKeys[strings.ToLower(name)]; ok {
		return k, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// ParseKeySequence reads one keystroke per character. Besides digits, '.',
// operators, '=' and '%', it accepts 'C' for clear, '<' for backspace and
// '~' for sign.
func ParseKeySequence(seq string) ([]Key, error) {
	keys := make([]Key, 0, len(seq))
	for _, r := range seq {
		var name string
		switch r {
		case ' ':
			continue
		case '<':
			name = "backspace"
		case '~':
			name = "sign"
		default:
			name = string(r)
		}
		k, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Press applies k and returns the updated display text.
func (c *Calculator) Press(k Key) string {
	switch k.Kind {
	case KeyDigit:
		return c.PressDigit(k.Digit)
	case KeyDecimal:
		return c.PressDecimal()
	case KeyOperator:
		return c.PressOperator(k.Op)
	case KeyEquals:
		return c.PressEquals()
	case KeyClear:
		return c.PressClear()
	case KeyBackspace:
		return c.PressBackspace()
	case KeySign:
		return c.PressSign()
	case KeyPercent:
		return c.PressPercent()
	}
	return c.DisplayText()
}
