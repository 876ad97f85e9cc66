package dto

import (
	"fmt"

	"github.com/handiism/album-downloader/internal/model"
)

const (
	artworkURLStart = "https://f4.bcbits.com/img/a"
	artworkURLEnd   = "_0.jpg"
)

// JSONAlbum represents the deserialized album data from Bandcamp's HTML.
type JSONAlbum struct {
	AlbumData *JSONAlbumData `json:"current"`
	ArtID     *int64         `json:"art_id"`
	Artist    string         `json:"artist"`
	Tracks    []JSONTrack    `json:"trackinfo"`
}

// JSONAlbumData contains album metadata.
type JSONAlbumData struct {
	AlbumTitle string `json:"title"`
}

// ToAlbum converts JSONAlbum to a model.Album.
//
// Tracks without a streamable file (not yet released, purchase only) are
// skipped.
func (ja *JSONAlbum) ToAlbum() *model.Album {
	var coverURL string
	if ja.ArtID != nil {
		coverURL = fmt.Sprintf("%s%010d%s", artworkURLStart, *ja.ArtID, artworkURLEnd)
	}

	title := ""
	if ja.AlbumData != nil {
		title = ja.AlbumData.AlbumTitle
	}
	artist := ja.Artist
	if artist == "" {
		artist = model.UnknownArtist
	}

	album := &model.Album{
		Artist:   artist,
		Title:    title,
		CoverURL: coverURL,
	}

	for i, jt := range ja.Tracks {
		if jt.File == nil || jt.File.URL == "" {
			continue
		}
		album.Tracks = append(album.Tracks, jt.ToTrack(album, i+1))
	}

	return album
}
