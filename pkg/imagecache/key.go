package imagecache

import (
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const DefaultExtension = ".jpg"

var (
	// An extension we are willing to put in a storage key.
	extensionRE = regexp.MustCompile(`^\.[A-Za-z0-9]{1,5}$`)

	ErrInvalidListingKey = errors.New("listing key cannot be used as a storage key")
)

// StorageKey derives the key an image is stored under: the listing key
// followed by the extension of the media URL's path, or
// DefaultExtension if it has none. The same listing always maps to the
// same key for the same kind of file.
func StorageKey(listingKey, mediaURL string) (string, error) {
	if listingKey == "" || strings.ContainsAny(listingKey, `/\`) || strings.Contains(listingKey, "..") {
		return "", ErrInvalidListingKey
	}
	return listingKey + extension(mediaURL), nil
}

func extension(mediaURL string) string {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		p = u.Path
	}
	ext := path.Ext(p)
	if !extensionRE.MatchString(ext) {
		return DefaultExtension
	}
	return ext
}

// ContentType gives the media type an object is stored with.
func ContentType(key string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(key))); t != "" {
		return t
	}
	return "application/octet-stream"
}
