package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/album-downloader/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseHTML reads a generic listing page.
//
// The page title gives "Artist - Album" (or just the album). Every element
// whose class list contains "track" is one track block; blocks without an
// audio address are skipped. Addresses are resolved against base.
func parseHTML(doc string, base *url.URL) (*model.Album, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	album := &model.Album{}
	if title := findFirst(root, func(n *html.Node) bool { return n.DataAtom == atom.Title }); title != nil {
		album.Artist, album.Title = model.SplitTitle(textContent(title))
	} else {
		album.Artist = model.UnknownArtist
	}

	if cover := findCover(root); cover != "" {
		album.CoverURL = resolve(base, cover)
	}

	blocks := findAll(root, func(n *html.Node) bool { return hasClass(n, "track") })
	for i, block := range blocks {
		track, ok := parseTrackBlock(block, i+1, base)
		if !ok {
			continue
		}
		track.Artist = album.Artist
		track.Album = album.Title
		album.Tracks = append(album.Tracks, track)
	}

	return album, nil
}

// parseTrackBlock extracts one track. ordinal is the block's 1-based order,
// used when the block has no usable position element.
func parseTrackBlock(block *html.Node, ordinal int, base *url.URL) (model.Track, bool) {
	var href, anchorText string
	if a := findFirst(block, func(n *html.Node) bool { return n.DataAtom == atom.A && attr(n, "href") != "" }); a != nil {
		href, anchorText = attr(a, "href"), textContent(a)
	} else if src := findFirst(block, func(n *html.Node) bool {
		return (n.DataAtom == atom.Audio || n.DataAtom == atom.Source) && attr(n, "src") != ""
	}); src != nil {
		href = attr(src, "src")
	}
	if href == "" {
		return model.Track{}, false
	}

	position := ordinal
	if num := findFirst(block, func(n *html.Node) bool { return hasClass(n, "track-number") }); num != nil {
		if p, ok := parsePosition(textContent(num)); ok {
			position = p
		}
	}

	title := anchorText
	if t := findFirst(block, func(n *html.Node) bool { return hasClass(n, "track-title") }); t != nil {
		title = textContent(t)
	}

	return model.Track{
		URL:     resolve(base, href),
		TrackNo: model.FormatTrackNo(position),
		Title:   title,
	}, true
}

// parsePosition keeps the digits of s, so "3." and "#03" both give 3.
func parsePosition(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func findCover(root *html.Node) string {
	img := findFirst(root, func(n *html.Node) bool {
		if n.DataAtom != atom.Img || attr(n, "src") == "" {
			return false
		}
		id := attr(n, "id")
		return id == "cover" || id == "album-art" || hasClass(n, "cover") || hasClass(n, "album-art")
	})
	if img != nil {
		return attr(img, "src")
	}

	meta := findFirst(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Meta && attr(n, "property") == "og:image"
	})
	if meta != nil {
		return attr(meta, "content")
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst returns the first node below n (depth-first, document order)
// matching match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every matching node below n in document order. Matches
// are not searched for nested matches.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			out = append(out, c)
			continue
		}
		out = append(out, findAll(c, match)...)
	}
	return out
}

// textContent returns the whitespace-collapsed text below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
