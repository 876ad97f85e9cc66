// Package bandcamp parses Bandcamp album and track pages into a
// model.Album.
//
// Bandcamp embeds album data as JSON in the HTML page within a
// `data-tralbum` attribute. This package extracts and parses that JSON,
// fixing the JavaScript string concatenation some pages contain, and
// picks up lyrics from the page body.
//
//	if bandcamp.IsAlbumPage(html) {
//	    album, err := bandcamp.NewParser().ParseAlbumPage(html)
//	    ...
//	}
package bandcamp
