package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace is a maximal run of whitespace characters.
	Whitespace
	// LineComment covers `// ...` up to the newline and a leading shebang line.
	LineComment
	// BlockComment covers a possibly nested `/* ... */`.
	BlockComment
	// ByteOrderMark is a UTF-8 BOM at the start of the file.
	ByteOrderMark

	// Ident is an identifier, a raw identifier (r#name) or a keyword.
	Ident
	// Lifetime is 'name or a raw lifetime 'r#name.
	Lifetime

	CharLit          // 'a'
	ByteLit          // b'a'
	StringLit        // "..."
	ByteStringLit    // b"..."
	CStringLit       // c"..."
	RawStringLit     // r#"..."#
	RawByteStringLit // br#"..."#
	RawCStringLit    // cr#"..."#
	IntLit           // 42u8
	FloatLit         // 1.5e3f64

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Caret     // ^
	Bang      // !
	Amp       // &
	Pipe      // |
	AndAnd    // &&
	OrOr      // ||
	Eq        // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	At        // @
	Dot       // .
	DotDot    // ..
	DotDotDot // ...
	DotDotEq  // ..=
	Comma     // ,
	Semicolon // ;
	Colon     // :
	ColonColon
	Pound    // #
	Dollar   // $
	Question // ?
	Tilde    // ~
	Arrow    // ->
	FatArrow // =>
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Whitespace:       "Whitespace",
	LineComment:      "LineComment",
	BlockComment:     "BlockComment",
	ByteOrderMark:    "ByteOrderMark",
	Ident:            "Ident",
	Lifetime:         "Lifetime",
	CharLit:          "CharLit",
	ByteLit:          "ByteLit",
	StringLit:        "StringLit",
	ByteStringLit:    "ByteStringLit",
	CStringLit:       "CStringLit",
	RawStringLit:     "RawStringLit",
	RawByteStringLit: "RawByteStringLit",
	RawCStringLit:    "RawCStringLit",
	IntLit:           "IntLit",
	FloatLit:         "FloatLit",
	Plus:             "Plus",
	Minus:            "Minus",
	Star:             "Star",
	Slash:            "Slash",
	Percent:          "Percent",
	Caret:            "Caret",
	Bang:             "Bang",
	Amp:              "Amp",
	Pipe:             "Pipe",
	AndAnd:           "AndAnd",
	OrOr:             "OrOr",
	Eq:               "Eq",
	EqEq:             "EqEq",
	BangEq:           "BangEq",
	Lt:               "Lt",
	LtEq:             "LtEq",
	Gt:               "Gt",
	GtEq:             "GtEq",
	At:               "At",
	Dot:              "Dot",
	DotDot:           "DotDot",
	DotDotDot:        "DotDotDot",
	DotDotEq:         "DotDotEq",
	Comma:            "Comma",
	Semicolon:        "Semicolon",
	Colon:            "Colon",
	ColonColon:       "ColonColon",
	Pound:            "Pound",
	Dollar:           "Dollar",
	Question:         "Question",
	Tilde:            "Tilde",
	Arrow:            "Arrow",
	FatArrow:         "FatArrow",
	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether k carries no syntax: whitespace, comments or a BOM.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, LineComment, BlockComment, ByteOrderMark:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether k is a character, string or numeric literal.
func (k Kind) IsLiteral() bool {
	return k >= CharLit && k <= FloatLit
}

// IsOpenDelim reports whether k opens a delimited group.
func (k Kind) IsOpenDelim() bool {
	return k == LParen || k == LBrace || k == LBracket
}

// IsCloseDelim reports whether k closes a delimited group.
func (k Kind) IsCloseDelim() bool {
	return k == RParen || k == RBrace || k == RBracket
}

// Closing returns the delimiter closing k, or Invalid if k is not an opening one.
func (k Kind) Closing() Kind {
	switch k {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	default:
		return Invalid
	}
}
