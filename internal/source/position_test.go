package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionAdvance(t *testing.T) {
	tests := []struct {
		name string
		from Position
		b    byte
		want Position
	}{
		{"plain byte advances column", Position{Line: 0, Column: 3}, 'x', Position{Line: 0, Column: 4}},
		{"newline advances line and resets column", Position{Line: 0, Column: 5}, '\n', Position{Line: 1, Column: 0}},
		{"newline from nonzero line", Position{Line: 2, Column: 7}, '\n', Position{Line: 3, Column: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Advance(tt.b))
		})
	}
}

func TestPositionAdvanceString(t *testing.T) {
	p := Position{}.AdvanceString("ab\ncd")
	assert.Equal(t, Position{Line: 1, Column: 2}, p)
}

func TestPositionLess(t *testing.T) {
	assert.True(t, Position{Line: 0, Column: 0}.Less(Position{Line: 0, Column: 1}))
	assert.True(t, Position{Line: 0, Column: 5}.Less(Position{Line: 1, Column: 0}))
	assert.False(t, Position{Line: 1, Column: 0}.Less(Position{Line: 0, Column: 5}))
	assert.False(t, Position{Line: 2, Column: 2}.Less(Position{Line: 2, Column: 2}))
}

func TestPositionLessEqual(t *testing.T) {
	p := Position{Line: 1, Column: 1}
	assert.True(t, p.LessEqual(p))
	assert.True(t, p.LessEqual(Position{Line: 1, Column: 2}))
	assert.False(t, p.LessEqual(Position{Line: 0, Column: 0}))
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: Position{Line: 0, Column: 2}, Stop: Position{Line: 0, Column: 5}}

	assert.True(t, r.Contains(Position{Line: 0, Column: 2}))
	assert.True(t, r.Contains(Position{Line: 0, Column: 4}))
	assert.False(t, r.Contains(Position{Line: 0, Column: 5}), "Stop is exclusive")
	assert.False(t, r.Contains(Position{Line: 0, Column: 1}))
}

func TestRangeOf(t *testing.T) {
	a := Position{Line: 0, Column: 0}
	b := Position{Line: 0, Column: 3}
	assert.Equal(t, Range{Start: a, Stop: b}, RangeOf(a, b))
}
