package dto

import (
	"strings"

	"github.com/handiism/album-downloader/internal/model"
)

// JSONTrack represents a track from Bandcamp's JSON data.
type JSONTrack struct {
	Duration float64      `json:"duration"`
	File     *JSONMp3File `json:"file"`
	Lyrics   string       `json:"lyrics"`
	Number   *int         `json:"track_num"`
	Title    string       `json:"title"`
}

// JSONMp3File represents the MP3 file info.
type JSONMp3File struct {
	URL string `json:"mp3-128"`
}

// ToTrack converts JSONTrack to a model.Track of album.
//
// position is the 1-based index in trackinfo, used when Bandcamp omits
// track_num (single track pages).
func (jt *JSONTrack) ToTrack(album *model.Album, position int) model.Track {
	mp3URL := jt.File.URL
	if strings.HasPrefix(mp3URL, "//") {
		mp3URL = "https:" + mp3URL
	}

	number := position
	if jt.Number != nil && *jt.Number > 0 {
		number = *jt.Number
	}

	return model.Track{
		URL:      mp3URL,
		TrackNo:  model.FormatTrackNo(number),
		Title:    jt.Title,
		Artist:   album.Artist,
		Album:    album.Title,
		Duration: jt.Duration,
		Lyrics:   jt.Lyrics,
	}
}
