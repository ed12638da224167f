package contextutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected string
	}{
		{name: "empty key", apiKey: "", expected: "[EMPTY]"},
		{name: "short key", apiKey: "abc", expected: "***"},
		{name: "exactly 8 characters", apiKey: "12345678", expected: "********"},
		{name: "long key", apiKey: "AIzaSyExampleKey1234", expected: "AIza************1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskAPIKey(tt.apiKey))
		})
	}
}

func TestRedactSecret(t *testing.T) {
	key := "AIzaSyExampleKey1234"
	msg := `Post "https://example.test/v1beta/models/m:generateContent?key=AIzaSyExampleKey1234": dial tcp: refused`

	out := RedactSecret(msg, key)
	assert.NotContains(t, out, key)
	assert.Contains(t, out, "key=AIza************1234")

	assert.Equal(t, msg, RedactSecret(msg, ""))
	assert.Equal(t, "", RedactSecret("", key))
}
