package utils_test

import (
	"testing"

	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCompressAllWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "spaces and newlines", input: "  a \n\n  b\tc  ", want: "a b c"},
		{name: "already compact", input: "a b", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.CompressAllWhitespace(tt.input))
		})
	}
}

func TestCompressWhitespacePreserveNewlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "keeps newlines", input: "a   b\r\nc    d", want: "a b\nc d"},
		{name: "trims outer blank lines", input: "\n\n  a  \n\n", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.CompressWhitespacePreserveNewlines(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", utils.Truncate("short", 10))
	assert.Equal(t, "abcd...", utils.Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", utils.Truncate("abcdef", 2))
}
