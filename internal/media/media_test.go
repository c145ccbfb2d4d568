package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "versioned url with folder",
			url:      "https://res.cloudinary.com/demo/image/upload/v1690000000/notes/abc-123.png",
			expected: "notes/abc-123",
		},
		{
			name:     "url without version segment",
			url:      "https://res.cloudinary.com/demo/image/upload/notes/abc-123.jpg",
			expected: "notes/abc-123",
		},
		{
			name:     "raw attachment without extension",
			url:      "https://res.cloudinary.com/demo/raw/upload/v1690000000/notes/abc-123",
			expected: "notes/abc-123",
		},
		{
			name:     "dotted folder keeps the last extension only",
			url:      "https://res.cloudinary.com/demo/image/upload/v1/notes.v2/abc.tar.gz",
			expected: "notes.v2/abc.tar",
		},
		{
			name:     "not a hosted url",
			url:      "https://example.com/somewhere/else.png",
			expected: "",
		},
		{
			name:     "unparseable url",
			url:      "://bad",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PublicIDFromURL(tt.url))
		})
	}
}

func TestClientSign(t *testing.T) {
	c := NewClient("demo", "key", "secret", "notes")

	first := c.sign(map[string]string{"timestamp": "1690000000", "public_id": "notes/abc"})
	second := c.sign(map[string]string{"public_id": "notes/abc", "timestamp": "1690000000"})

	// Signature is independent of map iteration order and hex encoded SHA-1.
	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
	assert.Regexp(t, "^[0-9a-f]+$", first)

	other := c.sign(map[string]string{"public_id": "notes/other", "timestamp": "1690000000"})
	assert.NotEqual(t, first, other)
}
