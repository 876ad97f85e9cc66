package audio

import (
	"fmt"
	"strings"
	"time"

	ioutils "github.com/handiism/album-downloader/internal/io"
	"github.com/handiism/album-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator generates playlist files for a downloaded album.
//
// Entries are written relative to the album directory (file name only),
// so the playlist must be saved next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true, "mp3")
//	content := creator.CreatePlaylist(album, downloaded)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// 01 - Song Title.mp3
type PlaylistCreator struct {
	format    PlaylistFormat
	extended  bool // For M3U: include EXTINF lines with duration/title
	extension string
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// The extension is the track file extension (without dot) used to derive
// each entry's file name.
func NewPlaylistCreator(format PlaylistFormat, extended bool, extension string) *PlaylistCreator {
	return &PlaylistCreator{
		format:    format,
		extended:  extended,
		extension: extension,
	}
}

// FileName returns the playlist file name for album, e.g. "Album.m3u".
func (p *PlaylistCreator) FileName(album *model.Album) string {
	name := album.Title
	if len(album.Tracks) > 0 {
		name = album.Tracks[0].Album
	}
	return ioutils.SanitizeFileName(name) + p.format.Extension()
}

// CreatePlaylist generates playlist content for the given tracks of album.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album, tracks []model.Track) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	case FormatWPL:
		return p.createWPL(album, tracks)
	case FormatZPL:
		return p.createZPL(album, tracks)
	default:
		return p.createM3U(tracks)
	}
}

func (p *PlaylistCreator) createM3U(tracks []model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", extinfSeconds(track.Duration), track.Artist, track.Title)
		}
		sb.WriteString(track.FileName(p.extension) + "\n")
	}

	return sb.String()
}

// extinfSeconds returns -1 (unknown length in EXTINF) for missing durations.
func extinfSeconds(d float64) int {
	if d <= 0 {
		return -1
	}
	return int(d)
}

func (p *PlaylistCreator) createPLS(tracks []model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, track.FileName(p.extension))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, track.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, extinfSeconds(track.Duration))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistCreator) createWPL(album *model.Album, tracks []model.Track) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Title))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range tracks {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(track.FileName(p.extension)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func (p *PlaylistCreator) createZPL(album *model.Album, tracks []model.Track) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Title))
	sb.WriteString("    <meta name=\"Generator\" content=\"AlbumDownloader\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(tracks))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range tracks {
		duration := time.Duration(track.Duration * float64(time.Second))
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(track.FileName(p.extension)),
			escapeXML(album.Title),
			escapeXML(album.Artist),
			escapeXML(track.Title),
			escapeXML(track.Artist),
			duration.Milliseconds())
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
