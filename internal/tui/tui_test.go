package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/album-downloader/internal/config"
	"github.com/handiism/album-downloader/internal/download"
	"github.com/handiism/album-downloader/internal/model"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+up":
		return tea.KeyMsg{Type: tea.KeyCtrlUp}
	case "ctrl+down":
		return tea.KeyMsg{Type: tea.KeyCtrlDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConcurrencyKeys(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MaxConcurrentTracksDownload = 2
	m := NewModel(settings, "")

	m = update(t, m, key("ctrl+up"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("="), Alt: true})
	if m.concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", m.concurrency)
	}

	for i := 0; i < 10; i++ {
		m = update(t, m, key("ctrl+down"))
	}
	if m.concurrency != 1 {
		t.Errorf("concurrency = %d, want 1", m.concurrency)
	}
	if m.textInput.Value() != "" {
		t.Errorf("option keys leaked into the input: %q", m.textInput.Value())
	}
}

func TestTypingURL(t *testing.T) {
	settings := config.DefaultSettings()
	m := NewModel(settings, "")

	const url = "https://my-band.example.com/album/first-light+=2"
	for _, r := range url {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := m.textInput.Value(); got != url {
		t.Errorf("input = %q, want %q", got, url)
	}

	pasted := NewModel(settings, "")
	pasted = update(t, pasted, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(url), Paste: true})
	if got := pasted.textInput.Value(); got != url {
		t.Errorf("pasted input = %q, want %q", got, url)
	}
	if m.concurrency != settings.MaxConcurrentTracksDownload {
		t.Errorf("typing changed concurrency to %d", m.concurrency)
	}
}

func TestOptionToggles(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "https://a.example.com/album")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !m.playlist || !m.verbose {
		t.Errorf("playlist=%v verbose=%v, want both on", m.playlist, m.verbose)
	}
	if got := m.textInput.Value(); got != "https://a.example.com/album" {
		t.Errorf("option keys changed the input: %q", got)
	}
}

func TestResetCancelsPreviousRun(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m.state = StateError
	old := m.ctx

	m = update(t, m, key("r"))
	if old.Err() == nil {
		t.Error("previous run context still live after reset")
	}
	if m.ctx.Err() != nil {
		t.Error("new run context already cancelled")
	}
}

func TestProgressEventsTrackActiveDownloads(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m.state = StateDownloading

	one := model.Track{TrackNo: "01", Title: "One"}
	two := model.Track{TrackNo: "02", Title: "Two"}

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Found album: A - B (2 tracks)", Kind: download.EventAlbumFound}})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Starting 01 - One", Kind: download.EventTrackStarting, Track: &one}})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Starting 02 - Two", Kind: download.EventTrackStarting, Track: &two}})

	if len(m.active) != 2 {
		t.Fatalf("active = %v, want 2 tracks", m.active)
	}

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Failed 01 - One", Level: download.LevelError, Kind: download.EventTrackFailed, Track: &one}})
	if len(m.active) != 1 || m.active[0] != "02 - Two" {
		t.Errorf("active = %v, want [02 - Two]", m.active)
	}

	if !strings.Contains(m.View(), "A - B") {
		t.Error("view does not show the album")
	}
	if got := m.logs[len(m.logs)-1]; got.Level != download.LevelError {
		t.Errorf("last log = %+v, want the failure", got)
	}
}

func TestVerboseEventsHidden(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "debug detail", Level: download.LevelVerbose}})
	if len(m.logs) != 0 {
		t.Errorf("logs = %v, want verbose event hidden", m.logs)
	}

	m.verbose = true
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "debug detail", Level: download.LevelVerbose}})
	if len(m.logs) != 1 {
		t.Errorf("logs = %v, want verbose event shown", m.logs)
	}
}

func TestLogsAreCapped(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	for i := 0; i < maxLogs+5; i++ {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "line"}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestDownloadDone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want State
	}{
		{"success", nil, StateComplete},
		{"failure", errors.New("no tracks found"), StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(config.DefaultSettings(), "http://example.com/album")
			m.state = StateDownloading
			m = update(t, m, DownloadDoneMsg{Downloaded: 3, Total: 3, Err: tt.err})
			if m.state != tt.want {
				t.Errorf("state = %v, want %v", m.state, tt.want)
			}
			if m.downloadedFiles != 3 {
				t.Errorf("downloadedFiles = %d, want 3", m.downloadedFiles)
			}
		})
	}
}

func TestResetAfterCompletion(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "http://example.com/album")
	m.state = StateComplete
	m.logs = []LogEntry{{Message: "done"}}

	m = update(t, m, key("r"))
	if m.state != StateInput || len(m.logs) != 0 || m.textInput.Value() != "" {
		t.Errorf("after reset: state=%v logs=%v input=%q", m.state, m.logs, m.textInput.Value())
	}
}
