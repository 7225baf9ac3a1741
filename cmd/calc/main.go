package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"keypad-calc/internal/engine"
	"keypad-calc/internal/tui"
)

var (
	grouping  bool
	maxDigits int
	keyNames  bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Keypad calculator engine",
	Long: `calc drives the keypad calculator engine from the terminal:

- eval: evaluate a whole expression such as "2+3*4"
- keys: replay keystrokes and print the history and display lines
- tui:  interactive keypad`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression of numbers, + - * / and parentheses",
	Long: `Evaluate an expression of numbers, + - * / and parentheses.

Flags are not parsed after eval, so a leading minus such as "calc eval -4+1"
is part of the expression.`,
	Args:               cobra.ExactArgs(1),
	DisableFlagParsing: true,
	RunE:               runEval,
}

var keysCmd = &cobra.Command{
	Use:   "keys <sequence>",
	Short: "Replay keystrokes, one per character (C clear, < backspace, ~ sign)",
	Long: `Replay keystrokes on a fresh calculator.

By default every character is one key: digits, '.', '+ - * /', '=', '%',
'C' for clear, '<' for backspace and '~' for sign. With --names the
arguments are key names instead, e.g. "calc keys --names 5 + 3 sign =".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeys,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal keypad",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newCalculator())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s: %v", engine.ErrorText, err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&grouping, "grouping", false, "Group thousands in display text")
	rootCmd.PersistentFlags().IntVar(&maxDigits, "max-digits", 0, "Maximum operand length (0 = unlimited)")
	keysCmd.Flags().BoolVar(&keyNames, "names", false, "Treat arguments as key names")

	rootCmd.AddCommand(evalCmd, keysCmd, tuiCmd)
}

func newCalculator() *engine.Calculator {
	return engine.New(engine.WithGrouping(grouping), engine.WithMaxDigits(maxDigits))
}

func runEval(cmd *cobra.Command, args []string) error {
	res, err := engine.Evaluate(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	keys, err := parseKeyArgs(args)
	if err != nil {
		return err
	}

	calc := newCalculator()
	for _, k := range keys {
		calc.Press(k)
	}

	out := cmd.OutOrStdout()
	if h := calc.HistoryText(); h != "" {
		fmt.Fprintln(out, color.HiBlackString(h))
	}
	if calc.Mode() == engine.ModeError {
		fmt.Fprintln(out, color.RedString(calc.DisplayText()))
		return nil
	}
	fmt.Fprintln(out, color.New(color.Bold).Sprint(calc.DisplayText()))
	return nil
}

func parseKeyArgs(args []string) ([]engine.Key, error) {
	if !keyNames {
		var keys []engine.Key
		for _, arg := range args {
			ks, err := engine.ParseKeySequence(arg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, ks...)
		}
		return keys, nil
	}

	keys := make([]engine.Key, 0, len(args))
	for _, name := range args {
		k, err := engine.ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
