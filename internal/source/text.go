package source

import "strings"

// offsetOf walks text byte by byte, applying Position.Advance, until the
// running position equals target, returning the byte offset reached. It is
// the reference implementation the "range substring" universal property is
// checked against: callers that already track offsets incrementally (the
// lexer, the parser) must agree with this walk.
func offsetOf(text string, target Position) int {
	pos := Position{}
	for i := 0; i < len(text); i++ {
		if pos == target {
			return i
		}
		pos = pos.Advance(text[i])
	}
	return len(text)
}

// TextRange returns the substring of text spanned by r, computed by
// walking from the start of text char-by-char via Position.Advance.
func TextRange(text string, r Range) string {
	start := offsetOf(text, r.Start)
	stop := offsetOf(text, r.Stop)
	if stop < start {
		stop = start
	}
	return text[start:stop]
}

// EditText applies a single textual edit: the bytes spanned by r in text
// are replaced with replacement. Positions in r are resolved against text
// before the edit, matching the LSP didChange contract that
// internal/lsp.Server.handleDidChange relies on.
func EditText(text string, r Range, replacement string) string {
	start := offsetOf(text, r.Start)
	stop := offsetOf(text, r.Stop)
	if stop < start {
		stop = start
	}
	var b strings.Builder
	b.Grow(len(text) - (stop - start) + len(replacement))
	b.WriteString(text[:start])
	b.WriteString(replacement)
	b.WriteString(text[stop:])
	return b.String()
}
