// Package tui provides a Bubble Tea terminal user interface for album-downloader.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/album-downloader/internal/config"
	"github.com/handiism/album-downloader/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs        = 10
	maxConcurrency = 16
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// sender forwards manager events into the running program. It is shared by
// every copy of the Model.
type sender struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *sender) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	album     string
	active    []string
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  *sender

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int32
	receivedBytes   int64

	// Options
	concurrency int
	playlist    bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model. url, when not empty, pre-fills the input.
func NewModel(settings *config.Settings, url string) Model {
	ti := textinput.New()
	ti.Placeholder = "https://artist.bandcamp.com/album/name"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(url)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logs:        make([]LogEntry, 0),
		ctx:         ctx,
		cancel:      cancel,
		events:      &sender{},
		concurrency: max(settings.MaxConcurrentTracksDownload, 1),
		playlist:    settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event emitted by the download manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when the run returns.
	DownloadDoneMsg struct {
		Received   int64
		Downloaded int32
		Failed     int32
		Total      int32
		Err        error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				// Tracks in flight finish; nothing new starts.
				m.cancel()
				m.logs = appendLog(m.logs, LogEntry{Message: "Cancelling, waiting for running tracks...", Level: download.LevelWarning})
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateDownloading
				run := m.startDownload()
				return m, tea.Batch(run, m.tickProgress(), m.spinner.Tick)
			}

		case "ctrl+up", "alt+=":
			if m.state == StateInput && m.concurrency < maxConcurrency {
				m.concurrency++
			}
			return m, nil

		case "ctrl+down", "alt+-":
			if m.state == StateInput && m.concurrency > 1 {
				m.concurrency--
			}
			return m, nil

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}
			return m, nil

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m = m.applyEvent(msg.Event)

	case DownloadDoneMsg:
		m.receivedBytes = msg.Received
		m.downloadedFiles = msg.Downloaded
		m.failedFiles = msg.Failed
		m.totalFiles = msg.Total
		m.active = nil
		switch {
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			received, downloaded, failed, total := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = downloaded
			m.failedFiles = failed
			m.totalFiles = total

			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applyEvent records a manager event in the log and the active track list.
func (m Model) applyEvent(event download.ProgressEvent) Model {
	switch event.Kind {
	case download.EventAlbumFound:
		m.album = event.Message
	case download.EventTrackStarting:
		if event.Track != nil {
			m.active = append(slices.Clone(m.active), event.Track.Label())
		}
	case download.EventTrackFinished, download.EventTrackFailed:
		if event.Track != nil {
			label := event.Track.Label()
			m.active = slices.DeleteFunc(slices.Clone(m.active), func(s string) bool { return s == label })
		}
	}

	if event.Level == download.LevelVerbose && !m.verbose {
		return m
	}
	m.logs = appendLog(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	return m
}

func appendLog(logs []LogEntry, entry LogEntry) []LogEntry {
	logs = append(logs, entry)
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	return logs
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.album = ""
	m.active = nil
	m.err = nil
	m.downloadedFiles = 0
	m.failedFiles = 0
	m.totalFiles = 0
	m.receivedBytes = 0
	m.manager = nil
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m Model) percent() float64 {
	if m.totalFiles == 0 {
		return 0
	}
	return float64(m.downloadedFiles+m.failedFiles) / float64(m.totalFiles)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Album Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download every track of an album listing"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter album URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Verbose/debug output (ctrl+o)\n", checkbox(m.verbose))
	fmt.Fprintf(&b, "  Concurrent tracks: %d (ctrl+up/ctrl+down)\n", m.concurrency)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.album == "" {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Fetching album info..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(albumStyle.Render(m.album))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Failed: %d | Downloaded: %s",
		m.downloadedFiles,
		m.totalFiles,
		m.failedFiles,
		humanize.Bytes(uint64(m.receivedBytes)),
	)))
	b.WriteString("\n\n")

	for _, label := range m.active {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	if len(m.active) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Download Complete!\n\n"+
			"Files: %d/%d\n"+
			"Failed: %d\n"+
			"Size: %s",
		m.downloadedFiles,
		m.totalFiles,
		m.failedFiles,
		humanize.Bytes(uint64(m.receivedBytes)),
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+up/down: concurrency • ctrl+p: playlist • ctrl+o: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// startDownload creates the manager and runs it in the background. Events
// reach Update as ProgressMsg through the shared sender.
func (m *Model) startDownload() tea.Cmd {
	settings := *m.settings
	settings.CreatePlaylist = m.playlist
	settings.MaxConcurrentTracksDownload = m.concurrency

	events := m.events
	manager := download.NewManager(&settings, func(event download.ProgressEvent) {
		events.send(ProgressMsg{Event: event})
	})
	m.manager = manager

	ctx := m.ctx
	url := strings.TrimSpace(m.textInput.Value())
	opts := download.Options{ConcurrencyLimit: m.concurrency, Debug: m.verbose}

	return func() tea.Msg {
		err := manager.Run(ctx, url, opts)
		received, downloaded, failed, total := manager.GetProgress()
		return DownloadDoneMsg{
			Received:   received,
			Downloaded: downloaded,
			Failed:     failed,
			Total:      total,
			Err:        err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, url string) error {
	model := NewModel(settings, url)
	p := tea.NewProgram(model, tea.WithAltScreen())

	model.events.mu.Lock()
	model.events.program = p
	model.events.mu.Unlock()

	_, err := p.Run()
	model.cancel()
	return err
}
