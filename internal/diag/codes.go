package diag

import "fmt"

// Code identifies a kind of diagnostic. The thousands digit selects the
// family: 1xxx lexical, 2xxx delimiter structure.
type Code uint16

const (
	UnknownCode Code = 0

	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadRawString             Code = 1007
	LexIdentNotNFC              Code = 1008

	SynUnclosedDelimiter   Code = 2002
	SynUnexpectedCloser    Code = 2003
	SynMismatchedDelimiter Code = 2004
)

var codeTitles = map[Code]string{
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexTokenTooLong:             "Token too long",
	LexUnterminatedChar:         "Unterminated character literal",
	LexBadRawString:             "Malformed raw string",
	LexIdentNotNFC:              "Identifier not in NFC",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnexpectedCloser:         "Unexpected closing delimiter",
	SynMismatchedDelimiter:      "Mismatched closing delimiter",
}

// ID is the stable short form, e.g. LEX1001.
func (c Code) ID() string {
	switch c / 1000 {
	case 1:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case 2:
		return fmt.Sprintf("SYN%04d", uint16(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return "Unknown error"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
