package engine

import (
	"errors"
	"testing"
)

func TestRenderExpression(t *testing.T) {
	e := Expression{
		Operand("12", false), OperatorToken(OpMultiply),
		Operand("3", true), OperatorToken(OpDivide),
		Operand("4.5", false), OperatorToken(OpSubtract),
		Operand("1", false), OperatorToken(OpAdd),
	}

	got := Formatter{}.RenderExpression(e)
	want := "12 × −3 ÷ 4.5 − 1 +"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderHistoryEmptyExpression(t *testing.T) {
	if got := (Formatter{}).RenderHistory(nil); got != "" {
		t.Fatalf("expected empty history, got %q", got)
	}
}

func TestGroupingLeavesFractionAndHugeOperands(t *testing.T) {
	f := NewFormatter(true)
	tests := []struct {
		in   string
		want string
	}{
		{in: "0.", want: "0."},
		{in: "999", want: "999"},
		{in: "1000.0500", want: "1,000.0500"},
		{in: "123456789012345678901", want: "123456789012345678901"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := f.RenderExpression(Expression{Operand(tc.in, false)})
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDisplayRoundTripPreservesValue(t *testing.T) {
	exprs := []Expression{
		{Operand("2", false), OperatorToken(OpAdd), Operand("3", false), OperatorToken(OpMultiply), Operand("4", false)},
		{Operand("5", false), OperatorToken(OpSubtract), Operand("3", true)},
		{Operand("1234.5", true), OperatorToken(OpDivide), Operand("0.25", false), OperatorToken(OpAdd)},
		{Operand("8", false), OperatorToken(OpDivide), Operand("0", false)},
	}

	for _, f := range []Formatter{{}, NewFormatter(true)} {
		for _, e := range exprs {
			t.Run(e.String(), func(t *testing.T) {
				want, wantErr := EvaluateExpression(e)
				got, gotErr := Evaluate(ParseDisplay(f.RenderExpression(e)))

				if !errors.Is(gotErr, wantErr) && !(gotErr == nil && wantErr == nil) {
					t.Fatalf("expected error %v, got %v", wantErr, gotErr)
				}
				if got != want {
					t.Fatalf("expected %+v, got %+v", want, got)
				}
			})
		}
	}
}

func TestEvaluateRejectsBeforeParsing(t *testing.T) {
	_, err := Evaluate("1.2.3a")
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("expected %v, got %v", ErrInvalidCharacter, err)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "50", want: "0.5"},
		{in: "3", want: "0.03"},
		{in: "0.", want: "0"},
		{in: "12.5", want: "0.125"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := percentOf(tc.in)
			if !ok {
				t.Fatalf("percentOf(%q) failed", tc.in)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
