package ioutils

import (
	"context"
	"os"
	"strings"
)

// forbiddenChars are the characters stripped from every path segment built
// from remote metadata.
const forbiddenChars = `:/"*<>|?`

// SanitizeFileName removes the characters : / " * < > | ? from name.
//
// Nothing else is touched: whitespace, dots and backslashes are kept as-is,
// which keeps the function idempotent.
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")   // Returns "Song Part 12"
//	SanitizeFileName(`"Who?" <live>`)    // Returns "Who live"
func SanitizeFileName(name string) string {
	if !strings.ContainsAny(name, forbiddenChars) {
		return name
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenChars, r) {
			return -1
		}
		return r
	}, name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/music/Artist/Album")
//	// Creates /music, /music/Artist, and /music/Artist/Album if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing. The context is checked once before
// the write starts.
//
// Example:
//
//	err := WriteFile(ctx, "/music/Artist/Album/cover.jpg", jpegBytes)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
