package util

import (
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestTransliterate(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal("Cafe creme", Transliterate("Café crème"))
	assert.Equal("plain", Transliterate("plain"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Amazing Post!", "amazing_post"},
		{"  [OC] Sunset   over the Bay  ", "oc_sunset_over_the_bay"},
		{"Crème brûlée / recipe", "creme_brulee_recipe"},
		{"already_fine-name", "already_fine-name"},
		{"../../etc/passwd", "etcpasswd"},
		{"???", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert_.Equal(t, tt.out, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	s := SanitizeFilename(strings.Repeat("ab ", 80))
	assert_.LessOrEqual(t, len(s), MaxFilenameStem)
	assert_.False(t, strings.HasSuffix(s, "_"))
}
