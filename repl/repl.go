// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lltrie/internal/parser"
)

const PROMPT = ">> "

// Start parses every line read from in with p, beginning at the start
// nonterminal, and writes the parse tree or the failure to out. A line
// ":start NAME" switches the start nonterminal. It returns when in is
// exhausted.
func Start(in io.Reader, out io.Writer, p *parser.Parser, start string) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, ":start"); ok {
			start = strings.TrimSpace(name)
			fmt.Fprintf(out, "start: %s\n", start)
			continue
		}

		tree, err := p.Parse(line, start)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		fmt.Fprint(out, tree.Dump())
	}
}
