package imagecache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageKey(t *testing.T) {
	for _, tc := range []struct {
		listingKey, mediaURL, want string
	}{
		{"ABC123", "https://cdn.example.com/listings/photo.png", "ABC123.png"},
		{"ABC123", "https://cdn.example.com/listings/photo.JPEG?w=1024&sig=x.y", "ABC123.JPEG"},
		{"ABC123", "https://cdn.example.com/media/8812", "ABC123.jpg"},
		{"ABC123", "https://cdn.example.com/media/8812?format=.png", "ABC123.jpg"},
		{"ABC123", "https://cdn.example.com/a.b/photo", "ABC123.jpg"},
		{"ABC123", "https://cdn.example.com/photo.toolongext", "ABC123.jpg"},
		{"ABC123", "", "ABC123.jpg"},
	} {
		got, err := StorageKey(tc.listingKey, tc.mediaURL)
		assert.NoError(t, err, tc.mediaURL)
		assert.Equal(t, tc.want, got, tc.mediaURL)
	}
}

func TestStorageKeyRejectsPaths(t *testing.T) {
	for _, bad := range []string{"", "../etc/passwd", "a/b", `a\b`, ".."} {
		_, err := StorageKey(bad, "https://cdn.example.com/p.jpg")
		assert.Equal(t, ErrInvalidListingKey, err, bad)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("ABC123.png"))
	assert.Equal(t, "image/jpeg", ContentType("ABC123.jpg"))
	assert.Equal(t, "image/jpeg", ContentType("ABC123.JPG"))
	assert.True(t, strings.HasPrefix(ContentType("ABC123.zzz"), "application/octet-stream"))
}
