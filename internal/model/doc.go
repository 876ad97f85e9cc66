// Package model defines the core data structures used throughout
// the album-downloader application.
//
// # Track
//
// Track is the descriptor for one downloadable track:
//
//	track := model.Track{URL: mp3URL, TrackNo: "03", Title: "Song", Artist: "Artist", Album: "Album"}
//	track.RelPath("mp3") // "Artist/Album/03 - Song.mp3"
//
// # Album
//
// Album groups the tracks of one listing page with its cover address:
//
//	album.Dir("/music") // "/music/Artist/Album"
//
// All path segments derived from remote metadata go through
// model.PathSegment, which sanitizes with ioutils.SanitizeFileName and
// never yields "." or "..".
package model
