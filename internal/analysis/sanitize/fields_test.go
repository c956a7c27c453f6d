package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "채식주의자", want: "채식주의자"},
		{name: "trims whitespace", input: "  Clean Code \n", want: "Clean Code"},
		{name: "composes decomposed hangul", input: "한", want: "한"},
		{name: "drops control characters", input: "Go\x00 in\x07 Action", want: "Go in Action"},
		{name: "inner newline becomes space", input: "Part\nOne", want: "Part One"},
		{name: "empty stays empty", input: "   ", want: ""},
		{name: "controls around a space", input: "\x00 \x00", want: ""},
		{name: "controls around a newline", input: "\x00\n\x00", want: ""},
		{name: "controls around text", input: "\x00 Go \x00", want: "Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Field(tt.input))
		})
	}
}
