package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/handiism/album-downloader/internal/config"
	"github.com/handiism/album-downloader/internal/download"
	"golang.org/x/term"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

type args struct {
	URL         string `arg:"positional,required" help:"album listing URL"`
	Debug       bool   `arg:"-d,--debug" help:"show verbose progress and the full error chain"`
	Concurrency *int   `arg:"-c,--concurrency" placeholder:"N" help:"number of tracks downloaded at once [default: 5]"`
	Track       int    `arg:"-t,--track" placeholder:"N" help:"download only this track (1-based)"`
	Output      string `arg:"-o,--output" placeholder:"DIR" help:"download root directory [default: .]"`
	Config      string `arg:"--config" placeholder:"FILE" help:"JSON settings file"`
	Playlist    bool   `arg:"--playlist" help:"write a playlist of the downloaded tracks"`
	DryRun      bool   `arg:"--dry-run" help:"list the album's tracks without downloading"`
}

func (args) Description() string {
	return "Album Downloader - download every track of an album listing\n\nFor interactive mode, use: album-tui"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd())))
	stop()
	os.Exit(code)
}

// run parses argv, downloads the album and returns the process exit code.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer, styled bool) int {
	var cli args
	p, err := arg.NewParser(arg.Config{Program: "album-dl"}, &cli)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	switch err := p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return exitOK
	case err != nil:
		return usageError(p, stderr, err.Error())
	}

	if cli.Concurrency != nil && *cli.Concurrency < 1 {
		return usageError(p, stderr, fmt.Sprintf("--concurrency must be a positive integer, got %d", *cli.Concurrency))
	}
	if cli.Track < 0 {
		return usageError(p, stderr, fmt.Sprintf("--track must be a positive integer, got %d", cli.Track))
	}

	settings := config.DefaultSettings()
	if cli.Config != "" {
		settings, err = config.Load(cli.Config)
		if err != nil {
			reportError(stderr, fmt.Errorf("loading config: %w", err), cli.Debug)
			return exitFailure
		}
	}

	// Flags override the config file.
	if cli.Concurrency != nil {
		settings.MaxConcurrentTracksDownload = *cli.Concurrency
	}
	if cli.Output != "" {
		settings.DownloadsPath = cli.Output
	}
	if cli.Playlist {
		settings.CreatePlaylist = true
	}
	if err := settings.Validate(); err != nil {
		reportError(stderr, fmt.Errorf("invalid settings: %w", err), cli.Debug)
		return exitFailure
	}

	out := newPrinter(stdout, cli.Debug, styled)
	manager := download.NewManager(settings, out.event)

	out.banner("Album Downloader")

	if cli.DryRun {
		album, err := manager.FetchAlbum(ctx, cli.URL)
		if err != nil {
			reportError(stderr, err, cli.Debug)
			return exitFailure
		}
		out.album(album)
		return exitOK
	}

	err = manager.Run(ctx, cli.URL, download.Options{
		ConcurrencyLimit: settings.MaxConcurrentTracksDownload,
		Debug:            cli.Debug,
		SingleTrack:      cli.Track,
	})
	if err != nil {
		reportError(stderr, err, cli.Debug)
		if ctx.Err() != nil {
			return exitInterrupted
		}
		return exitFailure
	}

	received, downloaded, failed, total := manager.GetProgress()
	out.summary(fmt.Sprintf("Complete! Downloaded %d/%d files (%s)", downloaded, total, humanize.Bytes(uint64(received))), failed)
	return exitOK
}

func usageError(p *arg.Parser, stderr io.Writer, msg string) int {
	p.WriteUsage(stderr)
	fmt.Fprintf(stderr, "error: %s\n", msg)
	return exitUsage
}

// reportError is the single top-level error handler. With debug set it
// also prints every wrapped cause.
func reportError(w io.Writer, err error, debug bool) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if !debug {
		return
	}
	for _, cause := range causes(err) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}

// causes returns the errors wrapped by err, depth first.
func causes(err error) []error {
	var wrapped []error
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		if inner := e.Unwrap(); inner != nil {
			wrapped = []error{inner}
		}
	case interface{ Unwrap() []error }:
		wrapped = e.Unwrap()
	}

	var out []error
	for _, inner := range wrapped {
		out = append(out, inner)
		out = append(out, causes(inner)...)
	}
	return out
}
