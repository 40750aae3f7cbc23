package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterFunctionDef(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"block body", "fn add(a: I64,b: I64)->I64{a+b}"},
		{"expr body", "fn  id(x:I64) = x"},
		{"no params", "fn main(){}"},
		{"default param", "fn f(a: I64 = 1) { a }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(nil).Format(tt.input)
			require.NoError(t, err)
			assert.Contains(t, out, "fn ")
		})
	}
}

func TestFormatterStructDef(t *testing.T) {
	input := `struct Point{x:I64,y:I64}`
	out, err := New(nil).Format(input)
	require.NoError(t, err)
	assert.Equal(t, "struct Point {\n  x: I64,\n  y: I64,\n}\n", out)
}

func TestFormatterEnumDef(t *testing.T) {
	input := `enum Option[T]{Some(T),None}`
	out, err := New(nil).Format(input)
	require.NoError(t, err)
	assert.Contains(t, out, "enum Option[T] {")
	assert.Contains(t, out, "Some(T),")
	assert.Contains(t, out, "None,")
}

func TestFormatterMatchExpr(t *testing.T) {
	input := `fn unwrap(o: Option[I64], d: I64) -> I64 {
match o {
Option::Some(x) -> x,
Option::None -> d
}
}`
	out, err := New(nil).Format(input)
	require.NoError(t, err)
	assert.Contains(t, out, "match o {")
	assert.Contains(t, out, "Option::Some(x) -> x,")
}

func TestFormatterIsIdempotent(t *testing.T) {
	input := `fn add(a: I64, b: I64) -> I64 {
  a + b;
}
`
	first, err := New(nil).Format(input)
	require.NoError(t, err)
	second, err := New(nil).Format(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFormatterRejectsInvalidSyntax(t *testing.T) {
	_, err := New(nil).Format("fn (")
	assert.Error(t, err)
}
