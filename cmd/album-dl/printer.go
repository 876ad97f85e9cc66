package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/album-downloader/internal/download"
	"github.com/handiism/album-downloader/internal/model"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
)

const ruleWidth = 40

// printer writes progress events as one line each. Colours are only used
// when the output is a terminal.
type printer struct {
	out    io.Writer
	debug  bool
	styled bool
}

func newPrinter(out io.Writer, debug, styled bool) *printer {
	return &printer{out: out, debug: debug, styled: styled}
}

func (p *printer) event(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !p.debug {
		return
	}
	fmt.Fprintln(p.out, p.prefix(event.Level)+" "+event.Message)
}

func (p *printer) prefix(level download.ProgressLevel) string {
	var tag string
	var style lipgloss.Style
	switch level {
	case download.LevelError:
		tag, style = "[ERR] ", errorStyle
	case download.LevelWarning:
		tag, style = "[WARN]", warningStyle
	case download.LevelSuccess:
		tag, style = "[OK]  ", successStyle
	case download.LevelVerbose:
		tag, style = "[DBG] ", verboseStyle
	default:
		tag, style = "[INFO]", infoStyle
	}
	if !p.styled {
		return tag
	}
	return style.Render(tag)
}

func (p *printer) banner(title string) {
	if p.styled {
		fmt.Fprintln(p.out, titleStyle.Render(title))
	} else {
		fmt.Fprintln(p.out, title)
	}
	fmt.Fprintln(p.out, strings.Repeat("-", ruleWidth))
}

func (p *printer) summary(line string, failed int32) {
	fmt.Fprintln(p.out, strings.Repeat("-", ruleWidth))
	level := download.LevelSuccess
	if failed > 0 {
		level = download.LevelWarning
		line += fmt.Sprintf(", %d failed", failed)
	}
	fmt.Fprintln(p.out, p.prefix(level)+" "+line)
}

// album lists the parsed listing for --dry-run.
func (p *printer) album(album *model.Album) {
	fmt.Fprintf(p.out, "%s %s - %s (%d tracks)\n", p.prefix(download.LevelInfo), album.Artist, album.Title, len(album.Tracks))
	if album.HasCover() {
		fmt.Fprintf(p.out, "  cover: %s\n", album.CoverURL)
	}
	for _, track := range album.Tracks {
		fmt.Fprintf(p.out, "  %s  %s\n", track.Label(), track.URL)
	}
	fmt.Fprintln(p.out, "[Dry run - not downloading]")
}
