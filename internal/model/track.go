package model

import (
	"fmt"
	"path"

	ioutils "github.com/handiism/album-downloader/internal/io"
)

// Track is the descriptor for one downloadable track of an album listing.
//
// Tracks are produced once by the listing parser and never modified
// afterwards; Sanitized derives the path-safe copy used for file names.
//
// Example:
//
//	track := Track{URL: mp3URL, TrackNo: "01", Title: "Who?", Artist: "AC/DC", Album: "Live"}
//	track.RelPath("mp3") // "ACDC/Live/01 - Who.mp3"
type Track struct {
	// URL is the absolute address of the audio file. Required.
	URL string

	// TrackNo is the two-digit zero-padded position, e.g. "01".
	TrackNo string

	// Title is the track title as shown on the listing page.
	Title string

	// Artist is the album artist.
	Artist string

	// Album is the album title.
	Album string

	// Duration is the track length in seconds, 0 when the listing
	// does not provide it.
	Duration float64

	// Lyrics contains the song lyrics, if the listing has them.
	Lyrics string
}

// FormatTrackNo renders a 1-based position as a two-digit ordinal.
func FormatTrackNo(position int) string {
	return fmt.Sprintf("%02d", position)
}

// PathSegment sanitizes name for use as one directory level. The relative
// names "." and ".." become "_" so a segment never leaves its parent.
func PathSegment(name string) string {
	name = ioutils.SanitizeFileName(name)
	if name == "." || name == ".." {
		return "_"
	}
	return name
}

// Sanitized returns a copy of the track with Artist, Album, TrackNo and
// Title stripped of characters that are unsafe in file names. Artist and
// Album are also made safe as directory names (see PathSegment).
func (t Track) Sanitized() Track {
	t.Artist = PathSegment(t.Artist)
	t.Album = PathSegment(t.Album)
	t.TrackNo = ioutils.SanitizeFileName(t.TrackNo)
	t.Title = ioutils.SanitizeFileName(t.Title)
	return t
}

// FileName returns "{trackNo} - {title}.{ext}" built from sanitized fields.
func (t Track) FileName(ext string) string {
	s := t.Sanitized()
	return fmt.Sprintf("%s - %s.%s", s.TrackNo, s.Title, ext)
}

// RelPath returns "{artist}/{album}/{trackNo} - {title}.{ext}" built from
// sanitized fields, relative to the download root.
func (t Track) RelPath(ext string) string {
	s := t.Sanitized()
	return path.Join(s.Artist, s.Album, t.FileName(ext))
}

// Label is the human-readable "{trackNo} - {title}" used in progress messages.
func (t Track) Label() string {
	return t.TrackNo + " - " + t.Title
}
