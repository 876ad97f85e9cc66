// Package config provides configuration management for album-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation before a run starts
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ./{artist}/{album}
//	// 5 tracks at a time
//	// ID3 tagging enabled, cover saved as cover.jpg
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// A missing file yields the defaults.
//
// # Saving Settings
//
//	settings.DownloadsPath = "/music"
//	err := settings.Save("/path/to/config.json")
//
// Command-line flags are applied on top of the loaded settings by the
// album-dl command.
package config
