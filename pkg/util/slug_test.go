package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Simple title",
			input: "Bread Whole Wheat",
			want:  "bread-whole-wheat",
		},
		{
			name:  "Mixed case with punctuation",
			input: "7up Diet, 355 Ml",
			want:  "7up-diet-355-ml",
		},
		{
			name:  "Leading and trailing separators",
			input: "  -- Coffee --  ",
			want:  "coffee",
		},
		{
			name:  "Empty string",
			input: "",
			want:  "",
		},
		{
			name:  "Consecutive separators collapse",
			input: "a  &  b",
			want:  "a-b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
