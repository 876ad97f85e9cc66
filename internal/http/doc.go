// Package http provides the HTTP client used to fetch listing pages,
// cover art and audio files.
//
// # Basic Usage
//
//	client := http.NewClient("AlbumDownloader", 0)
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://example.com/album/name")
//
//	// Stream a file to disk
//	n, err := client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(delta, written int64) {
//	    fmt.Printf("%d bytes so far\n", written)
//	})
//
// Non-200 answers are reported as *StatusError.
package http
