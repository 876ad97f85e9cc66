package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/handiism/album-downloader/internal/config"
	"github.com/handiism/album-downloader/internal/tui"
)

type args struct {
	URL    string `arg:"positional" help:"album listing URL to pre-fill"`
	Output string `arg:"-o,--output" placeholder:"DIR" help:"download root directory [default: .]"`
	Config string `arg:"--config" placeholder:"FILE" help:"JSON settings file"`
}

func main() {
	var cli args
	arg.MustParse(&cli)

	settings := config.DefaultSettings()
	if cli.Config != "" {
		var err error
		settings, err = config.Load(cli.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if cli.Output != "" {
		settings.DownloadsPath = cli.Output
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings, cli.URL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
