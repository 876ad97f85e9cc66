// Package audio provides post-download processing of audio files:
// ID3 tag writing, playlist generation and duration probing.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, track, coverJPEG)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true, "mp3")
//	content := creator.CreatePlaylist(album, downloaded)
//
// Supported formats: M3U (optionally extended), PLS, WPL, ZPL.
//
// # Durations
//
// Listings often carry no track length; ProbeDuration decodes the
// downloaded MP3 to fill the gap for extended playlists.
package audio
