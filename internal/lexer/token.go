// Package lexer turns document text into a stream of tokens with attached
// leading trivia. It is a restartable, greedy tokenizer: state is a plain
// value (see State), and producing the next token never depends on tokens
// already produced, following original_source's liblex2 design.
package lexer

import "github.com/kieli-lang/kieli/internal/source"

// Kind enumerates the finite token alphabet of spec.md §6.2.
type Kind int

const (
	KindEOF Kind = iota

	// Keywords.
	KindLet
	KindMut
	KindImmut
	KindIf
	KindElse
	KindElif
	KindFor
	KindIn
	KindWhile
	KindLoop
	KindContinue
	KindBreak
	KindMatch
	KindRet
	KindFn
	KindAs
	KindEnum
	KindStruct
	KindConcept
	KindImpl
	KindAlias
	KindImport
	KindExport
	KindModule
	KindSizeof
	KindTypeof
	KindWhere
	KindDyn
	KindMacro
	KindGlobal
	KindDefer

	// Punctuation.
	KindDot
	KindComma
	KindColon
	KindSemicolon
	KindColonColon
	KindAmp
	KindStar
	KindPlus
	KindQuestion
	KindBang
	KindEquals
	KindPipe
	KindBackslash
	KindArrowLeft
	KindArrowRight
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket

	// Literals.
	KindInteger
	KindFloat
	KindString
	KindChar
	KindBool

	// Names.
	KindLower
	KindUpper
	KindOp
	KindUnderscore

	// Error markers.
	KindUnterminatedComment
	KindUnterminatedString
	KindInvalidCharacter
	KindInvalidNumber
)

var kindNames = map[Kind]string{
	KindEOF: "eof", KindLet: "let", KindMut: "mut", KindImmut: "immut",
	KindIf: "if", KindElse: "else", KindElif: "elif", KindFor: "for",
	KindIn: "in", KindWhile: "while", KindLoop: "loop", KindContinue: "continue",
	KindBreak: "break", KindMatch: "match", KindRet: "ret", KindFn: "fn",
	KindAs: "as", KindEnum: "enum", KindStruct: "struct", KindConcept: "concept",
	KindImpl: "impl", KindAlias: "alias", KindImport: "import", KindExport: "export",
	KindModule: "module", KindSizeof: "sizeof", KindTypeof: "typeof",
	KindWhere: "where", KindDyn: "dyn", KindMacro: "macro", KindGlobal: "global",
	KindDefer: "defer",
	KindDot: "dot", KindComma: "comma", KindColon: "colon", KindSemicolon: "semicolon",
	KindColonColon: "colon_colon", KindAmp: "amp", KindStar: "star", KindPlus: "plus",
	KindQuestion: "question", KindBang: "bang", KindEquals: "equals", KindPipe: "pipe",
	KindBackslash: "backslash", KindArrowLeft: "arrow_left", KindArrowRight: "arrow_right",
	KindLParen: "lparen", KindRParen: "rparen", KindLBrace: "lbrace", KindRBrace: "rbrace",
	KindLBracket: "lbracket", KindRBracket: "rbracket",
	KindInteger: "int", KindFloat: "float", KindString: "str", KindChar: "char", KindBool: "bool",
	KindLower: "lower", KindUpper: "upper", KindOp: "op", KindUnderscore: "underscore",
	KindUnterminatedComment: "unterminated_comment",
	KindUnterminatedString:  "unterminated_string",
	KindInvalidCharacter:    "invalid_character",
	KindInvalidNumber:       "invalid_number",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Keywords maps every reserved spelling to its keyword Kind. Keywords
// shadow identifiers: the identifier scanner consults this map before
// emitting a Lower/Upper token, per spec.md §4.1.
var Keywords = map[string]Kind{
	"let": KindLet, "mut": KindMut, "immut": KindImmut, "if": KindIf,
	"else": KindElse, "elif": KindElif, "for": KindFor, "in": KindIn,
	"while": KindWhile, "loop": KindLoop, "continue": KindContinue,
	"break": KindBreak, "match": KindMatch, "ret": KindRet, "fn": KindFn,
	"as": KindAs, "enum": KindEnum, "struct": KindStruct, "concept": KindConcept,
	"impl": KindImpl, "alias": KindAlias, "import": KindImport, "export": KindExport,
	"module": KindModule, "sizeof": KindSizeof, "typeof": KindTypeof,
	"where": KindWhere, "dyn": KindDyn, "macro": KindMacro, "global": KindGlobal,
	"defer": KindDefer, "true": KindBool, "false": KindBool,
}

// Token carries a type tag, the substring view into the document text
// (as a byte-offset range), the token's own source.Range, and the range of
// its preceding trivia (spec.md §3.3). Trivia is never dropped.
type Token struct {
	Kind         Kind
	Start, Stop  int // byte offsets into the document text
	Range        source.Range
	TriviaStart  int // byte offset where leading trivia begins
	TriviaRange  source.Range
}

// Text returns the token's own lexeme, not including trivia.
func (t Token) Text(doc string) string {
	return doc[t.Start:t.Stop]
}

// LeadingTrivia returns the whitespace/comment text preceding the token.
func (t Token) LeadingTrivia(doc string) string {
	return doc[t.TriviaStart:t.Start]
}
