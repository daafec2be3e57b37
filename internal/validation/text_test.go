package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{" hello ", "hello"},
		{"   ", ""},
		{"fish & chips", "fish & chips"},
		{"Generics <T>", "Generics <T>"},
		{"  if x<y && y>z  ", "if x<y && y>z"},
		{"<b>bold</b> stays literal", "<b>bold</b> stays literal"},
		{"5 &lt; 6", "5 &lt; 6"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "input %q", tt.in)
	}
}

func TestOptionalText(t *testing.T) {
	t.Parallel()

	assert.Nil(t, OptionalText(nil))

	blank := "  "
	assert.Nil(t, OptionalText(&blank))

	v := " Result<T, E> "
	got := OptionalText(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Result<T, E>", *got)
	}
}
