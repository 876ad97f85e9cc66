package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/album-downloader/internal/audio"
)

// DefaultConcurrency is the number of tracks downloaded at once unless
// overridden.
const DefaultConcurrency = 5

// ErrInvalidConcurrency is returned by Validate for a concurrency limit below 1.
var ErrInvalidConcurrency = errors.New("concurrency limit must be a positive integer")

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath               string `json:"downloads_path"`
	MaxConcurrentTracksDownload int    `json:"max_concurrent_tracks"`
	TrackExtension              string `json:"track_extension"`
	UserAgent                   string `json:"user_agent"`

	// RequestTimeout bounds each HTTP request in seconds. 0 disables it,
	// which means a stalled stream holds its slot indefinitely.
	RequestTimeout int `json:"request_timeout"`

	// Cover art settings
	SaveCoverArt       bool   `json:"save_cover_art"`
	CoverArtFileName   string `json:"cover_art_file_name"`
	CoverArtMaxSize    int    `json:"cover_art_max_size"`
	SaveCoverArtInTags bool   `json:"save_cover_art_in_tags"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath:               ".",
		MaxConcurrentTracksDownload: DefaultConcurrency,
		TrackExtension:              "mp3",
		UserAgent:                   "AlbumDownloader",
		RequestTimeout:              0,

		SaveCoverArt:       true,
		CoverArtFileName:   "cover.jpg",
		CoverArtMaxSize:    0,
		SaveCoverArtInTags: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,
	}
}

// Load reads settings from a JSON file. Fields missing from the file keep
// their default values; a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports settings that cannot drive a download run.
func (s *Settings) Validate() error {
	if s.MaxConcurrentTracksDownload < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, s.MaxConcurrentTracksDownload)
	}
	if s.TrackExtension == "" {
		return errors.New("track extension must not be empty")
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: got %d", s.RequestTimeout)
	}
	return nil
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ToPlaylistFormat converts the playlist format name to audio.PlaylistFormat.
// Unknown names fall back to M3U.
func (s *Settings) ToPlaylistFormat() audio.PlaylistFormat {
	switch s.PlaylistFormat {
	case "pls":
		return audio.FormatPLS
	case "wpl":
		return audio.FormatWPL
	case "zpl":
		return audio.FormatZPL
	default:
		return audio.FormatM3U
	}
}
