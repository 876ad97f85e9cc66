// Package listing turns an album listing page into a model.Album.
//
// Two page shapes are understood: Bandcamp pages (data-tralbum JSON) and
// generic HTML listings built from a <title> plus repeated "track" blocks.
package listing

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/handiism/album-downloader/internal/bandcamp"
	"github.com/handiism/album-downloader/internal/model"
)

// ErrInvalidURL is returned for album addresses that are not absolute
// http(s) URLs.
var ErrInvalidURL = errors.New("album URL must be an absolute http(s) URL")

// ParseURL validates an album address.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

// Extract parses the listing document fetched from pageURL.
//
// The returned album may hold zero tracks; deciding whether that is an
// error is up to the caller.
func Extract(doc, pageURL string) (*model.Album, error) {
	base, err := ParseURL(pageURL)
	if err != nil {
		return nil, err
	}

	if bandcamp.IsAlbumPage(doc) {
		return bandcamp.NewParser().ParseAlbumPage(doc)
	}
	return parseHTML(doc, base)
}
