package model

import (
	"path/filepath"
	"strings"
)

// UnknownArtist is used when a listing title carries only the album name.
const UnknownArtist = "Unknown Artist"

// Album is the parsed result of one album listing page.
type Album struct {
	// Artist is the album artist name.
	Artist string

	// Title is the album title.
	Title string

	// CoverURL is the address of the cover art.
	// Empty string means no artwork is available.
	CoverURL string

	// Tracks contains all downloadable tracks in listing order.
	Tracks []Track
}

// HasCover returns true if the album has cover art available for download.
func (a *Album) HasCover() bool {
	return a.CoverURL != ""
}

// Dir returns root/{artist}/{album} for the album.
//
// The artist and album segments come from the sanitized first track, which
// is where every track task writes. An album without tracks falls back to
// its own fields.
func (a *Album) Dir(root string) string {
	artist, title := a.Artist, a.Title
	if len(a.Tracks) > 0 {
		artist, title = a.Tracks[0].Artist, a.Tracks[0].Album
	}
	return filepath.Join(root, PathSegment(artist), PathSegment(title))
}

// SplitTitle splits a listing title of the form "Artist - Album".
//
// Only the first " - " separates the two parts, so album names containing
// the separator survive. A title without a separator is all album and the
// artist is UnknownArtist.
func SplitTitle(title string) (artist, album string) {
	before, after, found := strings.Cut(title, " - ")
	if !found {
		return UnknownArtist, strings.TrimSpace(title)
	}
	artist = strings.TrimSpace(before)
	if artist == "" {
		artist = UnknownArtist
	}
	return artist, strings.TrimSpace(after)
}
