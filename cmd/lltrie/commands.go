// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lltrie/internal/grammar"
	"lltrie/internal/parser"
	"lltrie/notation"
	"lltrie/repl"
)

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Print the symbols and rules of a grammar as declared.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := loadGrammar(args[0])
		if err != nil {
			return err
		}
		fmt.Print(g.Show())
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Print the flat rules of a grammar.",
	Long:  "Flatten every EBNF operator of a grammar into plain rules and print them, optionally with the rule tries.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, src, err := loadNormalized(args[0])
		if err != nil {
			return err
		}
		fmt.Print(g.Show())

		if !GetFlag(cmd, "trie") {
			return nil
		}
		p, err := parser.Build(g)
		if err != nil {
			return src.report(err)
		}
		for _, t := range p.Tries().All() {
			fmt.Println()
			fmt.Print(t.Dump())
		}
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format FILE",
	Short: "Print a grammar file in canonical notation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := loadGrammar(args[0])
		if err != nil {
			return err
		}
		if GetFlag(cmd, "flat") {
			if err := g.Normalize(); err != nil {
				return err
			}
		}
		fmt.Print(notation.Format(g))
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE [INPUTFILE]",
	Short: "Parse text with a grammar and print the parse tree.",
	Long:  "Parse the text given by --input, or the contents of INPUTFILE, starting at the --start nonterminal.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()

		g, src, err := loadNormalized(args[0])
		if err != nil {
			return err
		}
		p, err := parser.Build(g)
		if err != nil {
			return src.report(err)
		}

		input := GetString(cmd, "input")
		name := "--input"
		if len(args) == 2 {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			input, name = string(data), args[1]
		}

		start := startSymbol(cmd, g)
		tree, err := p.Parse(input, start)
		if err != nil {
			color.Red("%s is not a %s: %v", name, start, err)
			return errReported
		}

		if GetFlag(cmd, "show") {
			fmt.Println(tree.Show())
		} else {
			fmt.Print(tree.Dump())
		}
		color.Green("Parsed %s in %s", name, formatDuration(time.Since(startTime)))
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl FILE",
	Short: "Parse lines read from standard input.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, src, err := loadNormalized(args[0])
		if err != nil {
			return err
		}
		p, err := parser.Build(g)
		if err != nil {
			return src.report(err)
		}

		name := "there"
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
		fmt.Printf("Welcome to the lltrie REPL for %s, %s!\n", g.Name, name)
		repl.Start(os.Stdin, os.Stdout, p, startSymbol(cmd, g))
		return nil
	},
}

// startSymbol returns the --start flag, defaulting to the first nonterminal.
func startSymbol(cmd *cobra.Command, g *grammar.Grammar) string {
	if start := GetString(cmd, "start"); start != "" {
		return start
	}
	if nts := g.Nonterms(); len(nts) > 0 {
		return nts[0].Name
	}
	return ""
}

func init() {
	normalizeCmd.Flags().Bool("trie", false, "also print the rule trie of every nonterminal")
	formatCmd.Flags().Bool("flat", false, "write the flat rules instead of the declared ones")

	parseCmd.Flags().StringP("start", "s", "", "start nonterminal (default: the first one declared)")
	parseCmd.Flags().StringP("input", "i", "", "text to parse")
	parseCmd.Flags().Bool("show", false, "print the parsed tokens instead of the tree")

	replCmd.Flags().StringP("start", "s", "", "start nonterminal (default: the first one declared)")

	rootCmd.AddCommand(showCmd, normalizeCmd, formatCmd, parseCmd, replCmd)
}
