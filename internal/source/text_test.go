package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextRange(t *testing.T) {
	text := "let x = 1;\nlet y = 2;\n"

	tests := []struct {
		name string
		r    Range
		want string
	}{
		{
			name: "within first line",
			r:    Range{Start: Position{Line: 0, Column: 4}, Stop: Position{Line: 0, Column: 5}},
			want: "x",
		},
		{
			name: "spans the newline",
			r:    Range{Start: Position{Line: 0, Column: 8}, Stop: Position{Line: 1, Column: 3}},
			want: "1;\nlet",
		},
		{
			name: "empty range",
			r:    Range{Start: Position{Line: 0, Column: 4}, Stop: Position{Line: 0, Column: 4}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextRange(text, tt.r))
		})
	}
}

func TestEditText(t *testing.T) {
	text := "let x = 1;\n"

	replaced := EditText(text, Range{Start: Position{Line: 0, Column: 8}, Stop: Position{Line: 0, Column: 9}}, "42")
	assert.Equal(t, "let x = 42;\n", replaced)
}

func TestEditTextInsertion(t *testing.T) {
	text := "let x = 1;\n"
	at := Position{Line: 0, Column: 4}

	inserted := EditText(text, Range{Start: at, Stop: at}, "y, ")
	assert.Equal(t, "let y, x = 1;\n", inserted)
}

func TestEditTextDeletion(t *testing.T) {
	text := "let x = 1;\nlet y = 2;\n"

	deleted := EditText(text, Range{Start: Position{Line: 0, Column: 0}, Stop: Position{Line: 1, Column: 0}}, "")
	assert.Equal(t, "let y = 2;\n", deleted)
}
