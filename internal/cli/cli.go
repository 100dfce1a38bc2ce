// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time via -ldflags).
var (
	Version   = "1.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMAND TYPES
// =============================================================================

// Command represents a CLI command.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdClock
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdStatus:
		return "status"
	case CmdClock:
		return "clock"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Args holds the parsed command-line arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config PATH
	URL        string // --url BASE, overrides config and environment

	// ask
	Query string
	Raw   bool // --raw: print the reply without markdown rendering
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `chatapp - terminal chat client

USAGE:
  chatapp [flags] [command]

COMMANDS:
  tui                 Full-screen interface (default)
  ask <message>       Send one message and print the reply
  chat                Line-mode chat session
  status              Check backend health and connectivity
  clock               Print the world clock once
  version             Show version information
  help                Show this help

FLAGS:
  -c, --config PATH   Config file (default ~/.chatapp/config.toml)
  -u, --url BASE      Backend base address (default http://localhost:8000)
      --raw           ask/chat: print replies without markdown rendering
  -h, --help          Show help

ENVIRONMENT:
  CHATAPP_API_URL     Backend base address (overridden by --url)
  CHATAPP_DEBUG       Write debug log to chatapp-debug.log in TUI mode
  NO_COLOR            Disable colored output

EXAMPLES:
  chatapp
  chatapp ask "What is the capital of France?"
  chatapp --url http://10.0.0.5:8000 status

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "chatapp version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// =============================================================================
// PARSING
// =============================================================================

var boolFlagNames = []string{"raw", "help", "h", "version", "v"}

var knownFlagNames = []string{"config", "c", "url", "u", "raw", "help", "h", "version", "v"}

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlagNames...)

	if unknown := p.Unknown(knownFlagNames...); len(unknown) > 0 {
		return CmdHelp, Args{}, usageErrorf("unknown flag: --%s", unknown[0])
	}

	var args Args
	for _, name := range [][]string{{"config", "c"}, {"url", "u"}} {
		if (p.HasFlag(name[0]) || p.HasFlag(name[1])) && p.Flag(name...) == "" {
			return CmdHelp, Args{}, usageErrorf("--%s requires a value", name[0])
		}
	}
	args.ConfigPath = p.Flag("config", "c")
	args.URL = p.Flag("url", "u")
	args.Raw = p.BoolFlag("raw")

	if p.BoolFlag("help", "h") {
		return CmdHelp, args, nil
	}
	if p.BoolFlag("version", "v") {
		return CmdVersion, args, nil
	}

	switch strings.ToLower(p.Subcommand()) {
	case "", "tui":
		return CmdTUI, args, nil
	case "ask":
		args.Query = strings.TrimSpace(strings.Join(p.PositionalFrom(1), " "))
		if args.Query == "" {
			return CmdAsk, args, usageErrorf("ask requires a message")
		}
		return CmdAsk, args, nil
	case "chat":
		return CmdChat, args, nil
	case "status", "s":
		return CmdStatus, args, nil
	case "clock":
		return CmdClock, args, nil
	case "version":
		return CmdVersion, args, nil
	case "help":
		return CmdHelp, args, nil
	default:
		return CmdHelp, args, usageErrorf("unknown command: %s", p.Subcommand())
	}
}
