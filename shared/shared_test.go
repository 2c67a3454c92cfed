package shared_test

import (
	"testing"

	"cumbrecita/shared"

	"github.com/stretchr/testify/assert"
)

func TestBuildCacheKey(t *testing.T) {
	t.Run("joins parts with colons", func(t *testing.T) {
		key := shared.BuildCacheKey("chat", "context", "hosp-1", "sess-1")

		assert.Equal(t, "chat:context:hosp-1:sess-1", key)
	})

	t.Run("single part stays unchanged", func(t *testing.T) {
		key := shared.BuildCacheKey("health")

		assert.Equal(t, "health", key)
	})
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Hola Mundo",
			expected: "hola mundo",
		},
		{
			name:     "collapses inner whitespace",
			input:    "del  2   al\t5 de enero",
			expected: "del 2 al 5 de enero",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  quiero reservar \n",
			expected: "quiero reservar",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.NormalizeText(tt.input))
		})
	}
}
