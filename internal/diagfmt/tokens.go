package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"derivefmt/internal/diag"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// FormatTokensPretty prints one token per line. Trivia is marked with "~".
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		marker := ' '
		if tok.IsTrivia() {
			marker = '~'
		}
		if _, err := fmt.Fprintf(w, "%3d:%c%-15s %q at %v-%v\n", i+1, marker, tok.Kind, tok.Text, start, end); err != nil {
			return err
		}
	}
	return nil
}

type tokenRecord struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Trivia bool   `json:"trivia,omitempty"`
}

// TokenDump is the JSON document of the tokenize command.
type TokenDump struct {
	File        string        `json:"file"`
	Tokens      []tokenRecord `json:"tokens"`
	Diagnostics []Record      `json:"diagnostics"`
}

// FormatTokensJSON writes the tokens of file together with the lexer's diagnostics.
func FormatTokensJSON(w io.Writer, file *source.File, tokens []token.Token, bag *diag.Bag, fs *source.FileSet) error {
	dump := TokenDump{
		File:        file.Path,
		Tokens:      make([]tokenRecord, 0, len(tokens)),
		Diagnostics: Records(bag, fs, PathModeAuto),
	}
	for _, tok := range tokens {
		dump.Tokens = append(dump.Tokens, tokenRecord{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Trivia: tok.IsTrivia(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
