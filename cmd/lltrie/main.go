// SPDX-License-Identifier: Apache-2.0
package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"lltrie/internal/errors"
	"lltrie/internal/grammar"
	"lltrie/notation"
)

// errReported marks a failure whose details were already printed.
var errReported = stderrors.New("failed")

var rootCmd = &cobra.Command{
	Use:           "lltrie",
	Short:         "Backtracking parser driven by EBNF grammars.",
	Long:          "Flatten EBNF grammars into tries of rules and parse text with them.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			commonlog.Configure(2, nil)
		} else {
			commonlog.Configure(0, nil)
		}
		if GetFlag(cmd, "no-color") || !term.IsTerminal(int(os.Stdout.Fd())) {
			color.NoColor = true
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			_ = cmd.Help()
			return
		}
		fmt.Print("lltrie ")
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Print(info.Main.Version)
		} else {
			fmt.Print("(unknown version)")
		}
		fmt.Println()
	},
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if !stderrors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.RedString("error"), err)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.Flags().Bool("version", false, "print the version and exit")
}

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// source is a loaded notation file, kept for error reports.
type source struct {
	path string
	text string
}

func (s *source) report(err error) error {
	reporter := errors.NewErrorReporter(s.path, s.text)
	fmt.Fprint(os.Stderr, reporter.FormatErrors(err))
	return errReported
}

func (s *source) warn(warnings errors.List) {
	reporter := errors.NewErrorReporter(s.path, s.text)
	for _, w := range warnings {
		fmt.Fprint(os.Stderr, reporter.FormatError(w))
	}
}

// loadGrammar reads a notation file into a declared grammar, printing every
// problem found.
func loadGrammar(path string) (*grammar.Grammar, *source, error) {
	file, text, err := notation.ParseFile(path)
	src := &source{path: path, text: text}
	if err != nil {
		if text == "" {
			return nil, src, err
		}
		return nil, src, src.report(err)
	}

	g, err := notation.Build(file, path)
	if err != nil {
		return nil, src, src.report(err)
	}
	return g, src, nil
}

// loadNormalized is loadGrammar followed by Normalize. Warnings are printed
// but do not fail.
func loadNormalized(path string) (*grammar.Grammar, *source, error) {
	g, src, err := loadGrammar(path)
	if err != nil {
		return nil, src, err
	}
	if err := g.Normalize(); err != nil {
		return nil, src, src.report(err)
	}
	src.warn(g.Warnings())
	return g, src, nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
