package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/source"
)

// lexAll drains Next until KindEOF, returning every token including EOF.
func lexAll(text string) []Token {
	var tokens []Token
	s := NewState(text)
	for {
		tok, next := Next(s)
		tokens = append(tokens, tok)
		s = next
		if tok.Kind == KindEOF {
			return tokens
		}
	}
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestNextRecognizesKeywords(t *testing.T) {
	tokens := lexAll("let mut fn if else")
	assert.Equal(t, []Kind{KindLet, KindMut, KindFn, KindIf, KindElse, KindEOF}, kinds(tokens))
}

func TestNextKeywordsShadowIdentifiers(t *testing.T) {
	tokens := lexAll("let")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindLet, tokens[0].Kind, "a reserved spelling lexes as its keyword, never KindLower")
}

func TestNextDistinguishesLowerAndUpperNames(t *testing.T) {
	tokens := lexAll("foo Bar")
	require.Len(t, tokens, 3)
	assert.Equal(t, KindLower, tokens[0].Kind)
	assert.Equal(t, KindUpper, tokens[1].Kind)
}

func TestNextUnderscoreAlone(t *testing.T) {
	tokens := lexAll("_")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindUnderscore, tokens[0].Kind)
}

func TestNextUnderscorePrefixedIdentifierIsLower(t *testing.T) {
	tokens := lexAll("_foo")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindLower, tokens[0].Kind)
	assert.Equal(t, "_foo", tokens[0].Text("_foo"))
}

func TestNextNumberLiterals(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
	}{
		{"42", KindInteger},
		{"0xFF", KindInteger},
		{"3.14", KindFloat},
		{"1e10", KindFloat},
		{"1e+5", KindFloat},
		{"2.5e-3", KindFloat},
		{"42abc", KindInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tokens := lexAll(tt.text)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.text, tokens[0].Text(tt.text))
		})
	}
}

func TestNextStringLiteral(t *testing.T) {
	text := `"hello world"`
	tokens := lexAll(text)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindString, tokens[0].Kind)
	assert.Equal(t, text, tokens[0].Text(text))
}

func TestNextStringLiteralWithEscape(t *testing.T) {
	text := `"a\"b"`
	tokens := lexAll(text)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindString, tokens[0].Kind)
}

func TestNextUnterminatedString(t *testing.T) {
	tokens := lexAll(`"hello`)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindUnterminatedString, tokens[0].Kind)
}

func TestNextStringCannotSpanNewline(t *testing.T) {
	tokens := lexAll("\"abc\ndef\"")
	require.GreaterOrEqual(t, len(tokens), 1)
	assert.Equal(t, KindUnterminatedString, tokens[0].Kind)
}

func TestNextCharLiteral(t *testing.T) {
	tokens := lexAll("'a'")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindChar, tokens[0].Kind)
}

func TestNextInvalidCharLiteral(t *testing.T) {
	tokens := lexAll("'ab'")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindInvalidCharacter, tokens[0].Kind)
}

func TestNextPunctuation(t *testing.T) {
	tokens := lexAll(",;(){}[]")
	assert.Equal(t, []Kind{
		KindComma, KindSemicolon, KindLParen, KindRParen,
		KindLBrace, KindRBrace, KindLBracket, KindRBracket, KindEOF,
	}, kinds(tokens))
}

func TestNextMultiCharPunctuation(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
	}{
		{"::", KindColonColon},
		{"->", KindArrowRight},
		{"<-", KindArrowLeft},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tokens := lexAll(tt.text)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
		})
	}
}

func TestNextFreeOperatorGlyphs(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
	}{
		{".", KindDot},
		{":", KindColon},
		{"&", KindAmp},
		{"*", KindStar},
		{"+", KindPlus},
		{"?", KindQuestion},
		{"!", KindBang},
		{"=", KindEquals},
		{"|", KindPipe},
		{"<=>", KindOp},
		{"<$>", KindOp},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tokens := lexAll(tt.text)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
		})
	}
}

func TestNextBackslash(t *testing.T) {
	tokens := lexAll(`\`)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindBackslash, tokens[0].Kind)
}

func TestNextInvalidCharacter(t *testing.T) {
	tokens := lexAll("@")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindInvalidCharacter, tokens[0].Kind)
}

func TestNextSkipsWhitespaceAsTrivia(t *testing.T) {
	text := "  \t\n  let"
	tokens := lexAll(text)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindLet, tokens[0].Kind)
	assert.Equal(t, "  \t\n  ", tokens[0].LeadingTrivia(text))
}

func TestNextSkipsLineComment(t *testing.T) {
	text := "// comment\nlet"
	tokens := lexAll(text)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindLet, tokens[0].Kind)
	assert.Equal(t, text, tokens[0].LeadingTrivia(text)+tokens[0].Text(text))
}

func TestNextSkipsNestedBlockComment(t *testing.T) {
	text := "/* outer /* inner */ still outer */ let"
	tokens := lexAll(text)
	require.Len(t, tokens, 2)
	assert.Equal(t, KindLet, tokens[0].Kind)
}

func TestNextUnterminatedBlockComment(t *testing.T) {
	tokens := lexAll("/* never closes")
	require.Len(t, tokens, 2)
	assert.Equal(t, KindUnterminatedComment, tokens[0].Kind)
}

func TestNextEmptyInputYieldsOnlyEOF(t *testing.T) {
	tokens := lexAll("")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindEOF, tokens[0].Kind)
}

// TestNextPositionMonotonicity checks the guarantee spec.md §4.1 calls
// position monotonicity: every token's range strictly follows the
// previous token's, and walking ranges agrees with Position.AdvanceString
// over the document text.
func TestNextPositionMonotonicity(t *testing.T) {
	text := "let x = 1;\nlet y = 2;\n"
	tokens := lexAll(text)

	pos := tokens[0].Range.Start
	for _, tok := range tokens {
		assert.True(t, pos.LessEqual(tok.Range.Start), "token ranges must be non-decreasing")
		pos = tok.Range.Stop
	}

	last := tokens[len(tokens)-1]
	want := source.Position{}.AdvanceString(text)
	assert.Equal(t, want, last.Range.Stop)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "let", KindLet.String())
	assert.Equal(t, "eof", KindEOF.String())
	assert.Equal(t, "unknown", Kind(999).String())
}

func TestSemanticColor(t *testing.T) {
	tests := []struct {
		kind Kind
		want source.SemanticTokenKind
	}{
		{KindInteger, source.TokenColorNumber},
		{KindFloat, source.TokenColorNumber},
		{KindString, source.TokenColorString},
		{KindUnterminatedString, source.TokenColorString},
		{KindLower, source.TokenColorVariable},
		{KindUpper, source.TokenColorVariable},
		{KindLet, source.TokenColorKeyword},
		{KindDefer, source.TokenColorKeyword},
		{KindPlus, source.TokenColorOperator},
		{KindEOF, source.TokenColorNone},
		{KindInvalidCharacter, source.TokenColorNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SemanticColor(tt.kind))
	}
}
