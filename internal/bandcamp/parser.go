package bandcamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/handiism/album-downloader/internal/bandcamp/dto"
	"github.com/handiism/album-downloader/internal/model"
	"golang.org/x/net/html"
)

// ErrNoAlbumData is returned when a page carries no data-tralbum attribute.
var ErrNoAlbumData = errors.New("could not find album data in HTML")

const tralbumAttr = "data-tralbum"

// Some pages build URLs with JavaScript concatenation inside the JSON:
//
//	url: "http://example.bandcamp.com" + "/album/name",
var urlConcatRe = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// IsAlbumPage reports whether doc embeds Bandcamp album data.
func IsAlbumPage(doc string) bool {
	return strings.Contains(doc, tralbumAttr+`="{`)
}

// Parser extracts album information from Bandcamp HTML pages.
//
// Example usage:
//
//	album, err := NewParser().ParseAlbumPage(html)
//	if err != nil {
//	    return err
//	}
//	for _, track := range album.Tracks {
//	    fmt.Printf("  %s. %s\n", track.TrackNo, track.Title)
//	}
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseAlbumPage extracts album info from a Bandcamp album or track page.
//
// Tracks without a streamable file are left out. Lyrics missing from the
// JSON are read from the page's lyrics_row_N elements.
func (p *Parser) ParseAlbumPage(doc string) (*model.Album, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing album page: %w", err)
	}

	albumData, err := extractAlbumData(root)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve album data: %w", err)
	}

	var jsonAlbum dto.JSONAlbum
	if err := json.Unmarshal([]byte(fixJSON(albumData)), &jsonAlbum); err != nil {
		return nil, fmt.Errorf("failed to parse album JSON: %w", err)
	}

	album := jsonAlbum.ToAlbum()
	fillLyrics(root, album)

	return album, nil
}

// extractAlbumData returns the data-tralbum attribute of the first element
// carrying one. The HTML parser has already unescaped it.
func extractAlbumData(root *html.Node) (string, error) {
	var data string
	found := walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == tralbumAttr {
				data = a.Val
				return true
			}
		}
		return false
	})
	if !found {
		return "", ErrNoAlbumData
	}
	return data, nil
}

func fixJSON(albumData string) string {
	return urlConcatRe.ReplaceAllString(albumData, "${1}${2}")
}

// fillLyrics sets missing lyrics from the elements with id lyrics_row_{n},
// where n is the unpadded track number.
func fillLyrics(root *html.Node, album *model.Album) {
	rows := make(map[string]*html.Node)
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && strings.HasPrefix(a.Val, "lyrics_row_") {
					rows[strings.TrimPrefix(a.Val, "lyrics_row_")] = n
				}
			}
		}
		return false
	})

	for i := range album.Tracks {
		track := &album.Tracks[i]
		if track.Lyrics != "" {
			continue
		}
		if row, ok := rows[strings.TrimLeft(track.TrackNo, "0")]; ok {
			track.Lyrics = strings.TrimSpace(text(row))
		}
	}
}

// walk visits n and its descendants depth first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return false
	})
	return sb.String()
}
