package audio

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/album-downloader/internal/model"
)

// TagEditAction says what SaveTags does with one ID3 frame.
type TagEditAction int

const (
	// TagEmpty removes the frame.
	TagEmpty TagEditAction = iota

	// TagModify sets the frame from the track descriptor.
	TagModify

	// TagDoNotModify keeps whatever the file already has.
	TagDoNotModify
)

// TagConfig holds one action per ID3 frame written by the Tagger.
type TagConfig struct {
	Artist      TagEditAction // TPE1
	AlbumArtist TagEditAction // TPE2
	Album       TagEditAction // TALB
	TrackNumber TagEditAction // TRCK
	TrackTitle  TagEditAction // TIT2
	Lyrics      TagEditAction // USLT
	Comments    TagEditAction // COMM, only TagEmpty has an effect
}

// DefaultTagConfig sets every frame from the listing and clears comments.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		TrackNumber: TagModify,
		TrackTitle:  TagModify,
		Lyrics:      TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3v2 tags into downloaded tracks.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags(path, track, coverJPEG)
type Tagger struct {
	config *TagConfig
}

// NewTagger returns a Tagger. A nil config means DefaultTagConfig().
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// textFrame is one text frame together with the action configured for it.
type textFrame struct {
	id     string
	action TagEditAction
	value  string
}

func (t *Tagger) textFrames(track model.Track) []textFrame {
	return []textFrame{
		{"TPE1", t.config.Artist, track.Artist},
		{"TPE2", t.config.AlbumArtist, track.Artist},
		{"TALB", t.config.Album, track.Album},
		{"TRCK", t.config.TrackNumber, trackNumber(track.TrackNo)},
		{"TIT2", t.config.TrackTitle, track.Title},
	}
}

// SaveTags writes the tags of track into the file at path.
//
// artwork must hold JPEG bytes; nil leaves the attached pictures alone.
func (t *Tagger) SaveTags(path string, track model.Track, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	for _, f := range t.textFrames(track) {
		switch f.action {
		case TagEmpty:
			tag.DeleteFrames(f.id)
		case TagModify:
			tag.AddTextFrame(f.id, id3v2.EncodingUTF8, f.value)
		}
	}

	lyricsID := tag.CommonID("Unsynchronised lyrics/text transcription")
	switch {
	case t.config.Lyrics == TagEmpty:
		tag.DeleteFrames(lyricsID)
	case t.config.Lyrics == TagModify && track.Lyrics != "":
		tag.DeleteFrames(lyricsID)
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "eng",
			Lyrics:   track.Lyrics,
		})
	}

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}

// trackNumber strips zero padding: "03" is tagged as "3".
func trackNumber(trackNo string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(trackNo)); err == nil {
		return strconv.Itoa(n)
	}
	return trackNo
}
