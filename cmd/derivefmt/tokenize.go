package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"derivefmt/internal/diagfmt"
	"derivefmt/internal/driver"
	"derivefmt/internal/lexer"
	"derivefmt/internal/syntax"
)

// newTokenizeCmd dumps the token stream the formatter works on, trivia
// included. Lexical diagnostics go to stderr in pretty mode and into the
// document in json mode. --tree prints the delimiter tree instead.
func newTokenizeCmd() *cobra.Command {
	var (
		format     string
		editionRaw string
		maxDiags   int
		tree       bool
	)
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.rs",
		Short: "Print the tokens of a Rust source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return usagef("unknown format: %s", format)
			}
			if tree && format == "json" {
				return usagef("--tree has no json form")
			}
			edition, err := lexer.ParseEdition(editionRaw)
			if err != nil {
				return usagef("invalid --edition: %v", err)
			}
			res, err := driver.Tokenize(args[0], edition, maxDiags)
			if err != nil {
				return fmt.Errorf("tokenize %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return diagfmt.FormatTokensJSON(out, res.File, res.Tokens, res.Bag, res.FileSet)
			}
			if res.Bag.Len() > 0 {
				diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
					Color:     useColor(cmd, os.Stderr),
					Context:   1,
					ShowNotes: true,
				})
			}
			if tree {
				root, err := syntax.Parse(res.Tokens)
				if err != nil {
					return fmt.Errorf("tokenize %s: %w", args[0], err)
				}
				_, err = io.WriteString(out, root.Dump())
				return err
			}
			return diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "pretty", "output format (pretty|json)")
	f.StringVar(&editionRaw, "edition", lexer.Edition2021.String(), "Rust edition (2015|2018|2021|2024)")
	f.IntVar(&maxDiags, "max-diagnostics", 100, "maximum number of diagnostics to keep")
	f.BoolVar(&tree, "tree", false, "print the token tree grouped by delimiters")
	return cmd
}
