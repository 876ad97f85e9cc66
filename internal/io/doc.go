// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization
//   - Directory creation
//   - Small file writes (cover art, playlists)
//   - Image resizing and format conversion
//
// # Filename Sanitization
//
// SanitizeFileName strips the characters : / " * < > | ? and nothing else:
//
//	safe := ioutils.SanitizeFileName("AC/DC: Live") // Returns "ACDC Live"
//
// # Directories
//
//	err := ioutils.EnsureDir("/music/Artist/Album")
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
