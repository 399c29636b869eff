package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Root flags (apply to every subcommand); they override the environment.
	groupPending := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", cfg.UI.Theme, "color theme: dark, light or mono")
	baseURL := flag.String("api", cfg.API.BaseURL, "todo API base URL")
	forceColor := flag.Bool("color", false, "force colored output")
	noColor := flag.Bool("no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	logger, closer, err := logging.NewClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}

	printer, err := ui.NewPrinter(os.Stdout, os.Stderr, *theme, ui.ColorEnabled(os.Stdout, *forceColor, *noColor))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	client, err := api.NewClient(*baseURL, cfg.API.Timeout, logger)
	if err != nil {
		printer.Fail(err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := controller.New(client, logger, time.Local)
	session := auth.NewSession(cfg.Login.Required, auth.Credentials{
		Username: cfg.Login.Username,
		Password: cfg.Login.Password,
	})

	logger.Debug().
		Str("api", client.BaseURL()).
		Str("theme", printer.Theme.Name).
		Msg("starting todo client")

	runner := &cli.Runner{
		Ctx:        ctx,
		Controller: ctrl,
		Printer:    printer,
		Options:    cli.Options{Group: *groupPending},
		RunTUI: func() error {
			return tui.Run(tui.Options{
				Ctx:        ctx,
				Controller: ctrl,
				Session:    session,
				Theme:      printer.Theme,
				Logger:     logger,
			})
		},
	}

	code := runner.Run(flag.Args())
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	closer.Close()
	os.Exit(code)
}
