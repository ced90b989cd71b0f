package utils_test

import (
	"testing"

	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestExpandTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{
			name:  "regular verb",
			terms: []string{"spam"},
			want:  []string{"spam", "spams", "spamed"},
		},
		{
			name:  "ends with e",
			terms: []string{"hate"},
			want:  []string{"hate", "hates", "hated"},
		},
		{
			name:  "short terms are kept as-is",
			terms: []string{"ok"},
			want:  []string{"ok"},
		},
		{
			name:  "phrases are kept as-is",
			terms: []string{"buy now"},
			want:  []string{"buy now"},
		},
		{
			name:  "duplicates removed",
			terms: []string{"hate", "hates"},
			want:  []string{"hate", "hates", "hated", "hatess", "hatesed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.ExpandTerms(tt.terms))
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, utils.RemoveDuplicates([]string{"a", "b", "a"}))
	assert.Nil(t, utils.RemoveDuplicates(nil))
}
