package driver

import (
	"derivefmt/internal/diag"
	"derivefmt/internal/lexer"
	"derivefmt/internal/source"
	"derivefmt/internal/token"
)

// TokenizeResult is the full token stream of one file, trivia included.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path under edition. Lexical problems end up in Bag; the
// error is only set when the file cannot be read.
func Tokenize(path string, edition lexer.Edition, maxDiagnostics int) (*TokenizeResult, error) {
	res := &TokenizeResult{FileSet: source.NewFileSet(), Bag: diag.NewBag(maxDiagnostics)}
	id, err := res.FileSet.Load(path)
	if err != nil {
		return nil, err
	}
	res.File = res.FileSet.Get(id)
	res.Tokens = lexer.New(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}, Edition: edition}).All()
	return res, nil
}
