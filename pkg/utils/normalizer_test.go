package utils_test

import (
	"testing"

	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestTextNormalizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		want     string
		contains string
		hasMatch bool
	}{
		{
			name:     "empty string",
			input:    "",
			want:     "",
			contains: "test",
			hasMatch: false,
		},
		{
			name:     "basic string",
			input:    "Hello World",
			want:     "hello world",
			contains: "hello",
			hasMatch: true,
		},
		{
			name:     "string with diacritics",
			input:    "héllo wörld",
			want:     "hello world",
			contains: "world",
			hasMatch: true,
		},
		{
			name:     "mixed case with spaces",
			input:    "HéLLo   WöRLD",
			want:     "hello world",
			contains: "HELLO",
			hasMatch: true,
		},
		{
			name:     "no match in string",
			input:    "hello world",
			want:     "hello world",
			contains: "goodbye",
			hasMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			normalizer := utils.NewTextNormalizer()

			assert.Equal(t, tt.want, normalizer.Normalize(tt.input))
			assert.Equal(t, tt.hasMatch, normalizer.Contains(tt.input, tt.contains))
		})
	}
}

func TestTextNormalizer_MatchTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		terms []string
		want  []string
	}{
		{
			name:  "whole word match",
			text:  "Praise ALLAH!",
			terms: []string{"allah"},
			want:  []string{"allah"},
		},
		{
			name:  "diacritics folded",
			text:  "Jésus saves",
			terms: []string{"jesus", "saves"},
			want:  []string{"jesus", "saves"},
		},
		{
			name:  "substring of a longer word does not match",
			text:  "the godzilla movie",
			terms: []string{"god"},
			want:  nil,
		},
		{
			name:  "multi word phrase",
			text:  "Click here, buy now!!",
			terms: []string{"buy now"},
			want:  []string{"buy now"},
		},
		{
			name:  "empty text",
			text:  "",
			terms: []string{"allah"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			normalizer := utils.NewTextNormalizer()
			assert.Equal(t, tt.want, normalizer.MatchTerms(tt.text, tt.terms))
		})
	}
}

func BenchmarkTextNormalizer(b *testing.B) {
	normalizer := utils.NewTextNormalizer()
	text := "Hello World! This is a test string with Diacritics: héllo wörld"

	b.Run("Normalize", func(b *testing.B) {
		for b.Loop() {
			normalizer.Normalize(text)
		}
	})

	b.Run("MatchTerms", func(b *testing.B) {
		terms := []string{"hello", "world", "diacritics", "missing"}
		for b.Loop() {
			normalizer.MatchTerms(text, terms)
		}
	})
}
