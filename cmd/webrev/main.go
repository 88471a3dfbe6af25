package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sokinpui/webrev/cli"
	"github.com/sokinpui/webrev/internal/tui"
	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/webrev"
)

func main() {
	cfg, err := cli.ParseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ui.SetVerbose(cfg.Verbose)
	if cfg.NoColor {
		ui.DisableColor()
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if cfg.Width <= 0 && interactive {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			cfg.Width = width
		}
	}

	app, err := webrev.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Flags that print or write files and should not run the TUI.
	if cfg.NoTUI || cfg.Output != "" || !interactive {
		if err := app.Execute(ctx); err != nil {
			fail(err)
		}
		return
	}

	// Messages printed while the TUI owns the screen are shown after it exits.
	var logs bytes.Buffer
	ui.SetOutput(&logs)
	final, err := tea.NewProgram(tui.New(ctx, app, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	ui.SetOutput(os.Stderr)
	os.Stderr.Write(logs.Bytes())

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		fail(m.Err())
	}
}

func fail(err error) {
	var detailed *webrev.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
