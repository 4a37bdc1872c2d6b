package token

// Kind is the discriminant of a Token's tagged union, grounded on the
// teacher's lang/token.Token enum style (see opcodeNames-style String()
// table below) but trimmed to this language's smaller token set, per
// original_source/crates/lexer/src/lib.rs.
type Kind uint8

const (
	InvalidTok Kind = iota
	EOF

	Identifier
	String
	Int
	Float
	Bool

	KeywordTok
	OperatorTok
	DelimiterTok
)

var kindNames = [...]string{
	InvalidTok:  "invalid",
	EOF:         "eof",
	Identifier:  "identifier",
	String:      "string",
	Int:         "int",
	Float:       "float",
	Bool:        "bool",
	KeywordTok:  "keyword",
	OperatorTok: "operator",
	DelimiterTok: "delimiter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Keyword enumerates the reserved words of the language (spec.md §3).
type Keyword uint8

const (
	Fn Keyword = iota
	Let
	Const
	If
	Else
	While
	Break
	Continue
	Return
	None
)

var keywordNames = [...]string{
	Fn: "fn", Let: "let", Const: "const", If: "if", Else: "else",
	While: "while", Break: "break", Continue: "continue", Return: "return",
	None: "none",
}

func (k Keyword) String() string { return keywordNames[k] }

// keywords maps the raw identifier text to its Keyword. The true/false
// literals are not in it: Lexer.ident recognizes them before consulting
// this map and lexes them to Kind Bool, not KeywordTok, since they carry
// a value rather than being purely syntactic.
var keywords = map[string]Keyword{
	"fn": Fn, "let": Let, "const": Const, "if": If, "else": Else,
	"while": While, "break": Break, "continue": Continue, "return": Return,
	"none": None,
}

// LookupKeyword reports whether ident names a keyword.
func LookupKeyword(ident string) (Keyword, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Operator enumerates the binary/unary operator symbols.
type Operator uint8

const (
	Plus Operator = iota
	Minus
	Star
	StarStar
	Slash
	Percent
	Lt
	Gt
	Eq
	NotEq
	Bang
)

var operatorNames = [...]string{
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/",
	Percent: "%", Lt: "<", Gt: ">", Eq: "==", NotEq: "!=", Bang: "!",
}

func (o Operator) String() string { return operatorNames[o] }

// Delimiter enumerates punctuation that is not itself an operator.
type Delimiter uint8

const (
	Assign Delimiter = iota
	Comma
	Colon
	Semicolon
	Period
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
)

var delimiterNames = [...]string{
	Assign: "=", Comma: ",", Colon: ":", Semicolon: ";", Period: ".",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]",
	LBrace: "{", RBrace: "}",
}

func (d Delimiter) String() string { return delimiterNames[d] }

// Token is the payload produced by a single Lexer.Next call, grounded on
// the teacher's lang/token.Value struct (Raw plus typed slots), trimmed to
// only the fields a given Kind actually populates.
type Token struct {
	Span Span
	Tok  Kind

	Keyword  Keyword
	Operator Operator
	Delim    Delimiter

	Raw   string
	Int   int64
	Float float64
	Bool  bool
}

func (t Token) String() string {
	switch t.Tok {
	case Identifier:
		return t.Raw
	case String:
		return "string " + t.Raw
	case Int, Float:
		return t.Raw
	case Bool:
		if t.Bool {
			return "true"
		}
		return "false"
	case KeywordTok:
		return t.Keyword.String()
	case OperatorTok:
		return t.Operator.String()
	case DelimiterTok:
		return t.Delim.String()
	case EOF:
		return "eof"
	default:
		return "invalid"
	}
}
