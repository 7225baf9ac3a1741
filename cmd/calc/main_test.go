package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	grouping, maxDigits, keyNames = false, 0, false
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "eval", "0.1+0.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "0.3" {
		t.Fatalf("expected %q, got %q", "0.3", got)
	}
}

func TestEvalCommandLeadingMinus(t *testing.T) {
	out, err := execute(t, "eval", "-4+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "-3" {
		t.Fatalf("expected %q, got %q", "-3", got)
	}
}

func TestEvalCommandError(t *testing.T) {
	_, err := execute(t, "eval", "8/0")
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("expected division by zero error, got %v", err)
	}
}

func TestKeysCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "characters", args: []string{"keys", "2+3="}, want: "2 + 3 =\n5\n"},
		{name: "chained", args: []string{"keys", "2+3=", "+4="}, want: "5 + 4 =\n9\n"},
		{name: "names", args: []string{"keys", "--names", "5", "-", "3", "sign", "="}, want: "5 − −3 =\n8\n"},
		{name: "entry", args: []string{"keys", "12<"}, want: "1\n"},
		{name: "error", args: []string{"keys", "8/0="}, want: "Error\n"},
		{name: "grouping", args: []string{"keys", "--grouping", "1234567"}, want: "1,234,567\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out)
			}
		})
	}
}

func TestKeysCommandUnknownKey(t *testing.T) {
	_, err := execute(t, "keys", "2^3")
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
