// chatapp - a terminal client for a chat-completion backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/cli"
	"github.com/jeranaias/chatapp-tui/internal/clock"
	"github.com/jeranaias/chatapp-tui/internal/config"
	"github.com/jeranaias/chatapp-tui/internal/model"
	"github.com/jeranaias/chatapp-tui/internal/probe"
	"github.com/jeranaias/chatapp-tui/internal/sched"
	chatui "github.com/jeranaias/chatapp-tui/internal/ui/chat"
	"github.com/jeranaias/chatapp-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const (
	envDebug     = "CHATAPP_DEBUG"
	debugLogFile = "chatapp-debug.log"
	badge        = "Enterprise"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.PrintUsage(os.Stderr)
		os.Exit(cli.ExitCode(err))
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return
	}

	cfg, cfgPath, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(ctx, cfg, cfgPath)
	case cli.CmdAsk:
		err = runAsk(ctx, cfg, args)
	case cli.CmdChat:
		err = runChat(ctx, cfg, args)
	case cli.CmdStatus:
		setupCLILog()
		err = cli.RunStatus(ctx, os.Stdout, newClient(cfg), cfg)
	case cli.CmdClock:
		s := sched.NewReal()
		err = cli.RunClock(os.Stdout, cfg.Clock.Entries(), s)
		s.Close()
	}

	if err != nil {
		var reply *cli.ReplyError
		if errors.As(err, &reply) {
			fmt.Fprintln(os.Stderr, styles.RenderError(reply.Text))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(cli.ExitCode(err))
	}
}

// =============================================================================
// SETUP
// =============================================================================

// loadConfig loads the config file, then applies --url, which outranks the
// file and CHATAPP_API_URL. It also returns the path to watch for changes.
func loadConfig(args cli.Args) (*config.Config, string, error) {
	path := args.ConfigPath
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", &cli.ConfigError{Path: path, Err: err}
	}

	if args.URL != "" {
		cfg.API.BaseURL = args.URL
		if err := cfg.Validate(); err != nil {
			return nil, "", &cli.ConfigError{Err: err}
		}
	}

	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	return cfg, path, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout()).
		WithRateLimit(cfg.API.RequestsPerSecond, 1)
}

func newCoordinator(cfg *config.Config, client *api.Client) *chat.Coordinator {
	return chat.New(client, model.NewConversation(), chat.WithModel(cfg.API.Model))
}

func newProbe(cfg *config.Config, client *api.Client, s sched.Scheduler, opts ...probe.Option) *probe.Probe {
	opts = append([]probe.Option{
		probe.WithResetDelay(cfg.Probe.ResetDelay()),
		probe.WithTimeout(cfg.Probe.Timeout()),
	}, opts...)
	return probe.New(client, s, opts...)
}

// setupCLILog sends log output to stderr in debug mode and discards it
// otherwise so request lines never mix with command output.
func setupCLILog() {
	if os.Getenv(envDebug) != "" {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// =============================================================================
// COMMANDS
// =============================================================================

func runAsk(ctx context.Context, cfg *config.Config, args cli.Args) error {
	setupCLILog()
	coord := newCoordinator(cfg, newClient(cfg))
	out := cli.StdoutOutput(os.Stdout, args.Raw || !cfg.UI.RenderMarkdown, cfg.UI.ShowTokens)
	return cli.RunAsk(ctx, coord, args.Query, out)
}

func runChat(ctx context.Context, cfg *config.Config, args cli.Args) error {
	setupCLILog()
	client := newClient(cfg)
	s := sched.NewReal()
	defer s.Close()

	p := newProbe(cfg, client, s)
	defer p.Close()

	editor := cli.NewLineEditor()
	defer editor.Close()

	session := &cli.Session{
		Coordinator: newCoordinator(cfg, client),
		Probe:       p,
		Reader:      editor,
		Out:         cli.StdoutOutput(os.Stdout, args.Raw || !cfg.UI.RenderMarkdown, cfg.UI.ShowTokens),
	}
	return session.Run(ctx)
}

func runTUI(ctx context.Context, cfg *config.Config, cfgPath string) error {
	if os.Getenv(envDebug) != "" {
		f, err := tea.LogToFile(debugLogFile, "chatapp")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := newClient(cfg)
	s := sched.NewReal()
	defer s.Close()

	var notifier chatui.Notifier
	notify := func(probe.Status) { notifier.Notify() }

	p := newProbe(cfg, client, s, probe.WithObserver(notify))
	defer p.Close()

	ticker, err := clock.NewTicker(cfg.Clock.Entries(), s,
		clock.WithInterval(cfg.Clock.Interval()),
		clock.WithOnChange(notifier.Notify))
	if err != nil {
		return &cli.ConfigError{Path: cfgPath, Err: err}
	}
	defer ticker.Stop()

	m := chatui.New(chatui.Deps{
		Ctx:            ctx,
		Coordinator:    newCoordinator(cfg, client),
		Probe:          p,
		Clock:          ticker,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Version:        Version,
		Badge:          badge,
		ShowTokens:     cfg.UI.ShowTokens,
		RenderMarkdown: cfg.UI.RenderMarkdown,
	})

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(program)
	defer notifier.Attach(nil)

	if cfgPath != "" {
		go func() {
			err := config.Watch(ctx, cfgPath,
				func(c *config.Config) { program.Send(chatui.ClockZonesMsg{Entries: c.Clock.Entries()}) },
				func(err error) { program.Send(chatui.ConfigErrorMsg{Err: err}) })
			if err != nil {
				log.Printf("config watch disabled: %v", err)
			}
		}()
	}

	ticker.Start()
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
