// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/clock"
	"github.com/jeranaias/chatapp-tui/internal/config"
	"github.com/jeranaias/chatapp-tui/internal/model"
	"github.com/jeranaias/chatapp-tui/internal/probe"
	"github.com/jeranaias/chatapp-tui/internal/sched"
)

var epoch = time.Date(2024, 1, 15, 17, 30, 45, 0, time.UTC)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"status"},
			wantSub: "status",
		},
		{
			name:    "flag with value",
			args:    []string{"status", "--url", "http://x:1"},
			wantSub: "status",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("url") != "http://x:1" {
					t.Errorf("Flag(url) = %q, want %q", p.Flag("url"), "http://x:1")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"--config=/tmp/c.toml", "clock"},
			wantSub: "clock",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("config") != "/tmp/c.toml" {
					t.Errorf("Flag(config) = %q", p.Flag("config"))
				}
			},
		},
		{
			name:    "declared bool does not swallow value",
			args:    []string{"ask", "--raw", "hello"},
			wantSub: "ask",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("raw") {
					t.Error("BoolFlag(raw) should be true")
				}
				if p.Positional(1) != "hello" {
					t.Errorf("Positional(1) = %q, want hello", p.Positional(1))
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"ask", "--", "--not-a-flag"},
			wantSub: "ask",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 2 || p.Positional(1) != "--not-a-flag" {
					t.Errorf("positional = %v", p.PositionalFrom(0))
				}
			},
		},
		{
			name:    "short alias",
			args:    []string{"-u", "http://y", "status"},
			wantSub: "status",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("url", "u") != "http://y" {
					t.Errorf("Flag(url, u) = %q", p.Flag("url", "u"))
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewArgParser(tc.args, boolFlagNames...)
			if p.Subcommand() != tc.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tc.wantSub)
			}
			if tc.validate != nil {
				tc.validate(t, p)
			}
		})
	}
}

func TestArgParser_Unknown(t *testing.T) {
	p := NewArgParser([]string{"--zeta", "1", "--alpha", "--url", "x"}, "alpha")
	got := p.Unknown("url")
	if strings.Join(got, ",") != "alpha,zeta" {
		t.Errorf("Unknown() = %v, want [alpha zeta]", got)
	}
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"tui"}, CmdTUI},
		{[]string{"chat"}, CmdChat},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"clock"}, CmdClock},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"chat", "-h"}, CmdHelp},
	}
	for _, tc := range tests {
		cmd, _, err := Parse(tc.argv)
		require.NoError(t, err, "argv %v", tc.argv)
		assert.Equal(t, tc.want, cmd, "argv %v", tc.argv)
	}
}

func TestParse_AskAndGlobalFlags(t *testing.T) {
	cmd, args, err := Parse([]string{"ask", "--raw", "What", "is", "Go?", "--url", "http://10.0.0.5:8000", "-c", "/tmp/x.toml"})
	require.NoError(t, err)
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "What is Go?", args.Query)
	assert.True(t, args.Raw)
	assert.Equal(t, "http://10.0.0.5:8000", args.URL)
	assert.Equal(t, "/tmp/x.toml", args.ConfigPath)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		msg  string
	}{
		{"ask without message", []string{"ask"}, "ask requires a message"},
		{"blank message", []string{"ask", "   "}, "ask requires a message"},
		{"unknown command", []string{"frobnicate"}, "unknown command: frobnicate"},
		{"unknown flag", []string{"--paranoid"}, "unknown flag: --paranoid"},
		{"config without value", []string{"status", "--config"}, "--config requires a value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.argv)
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
			assert.Equal(t, ExitUsageError, ExitCode(err))
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "ask", CmdAsk.String())
	assert.Equal(t, "Command(99)", Command(99).String())
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "USAGE:")
	assert.Contains(t, buf.String(), "Version: "+Version)

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "chatapp version "+Version)
	assert.Contains(t, buf.String(), "Go version:")
}

// =============================================================================
// ERROR / TERMINAL TESTS
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", usageErrorf("bad"), ExitUsageError},
		{"config", &ConfigError{Path: "x", Err: errors.New("y")}, ExitConfigError},
		{"validation", fmt.Errorf("load: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"reply", &ReplyError{Text: "boom"}, ExitNetworkError},
		{"api", &api.APIError{Status: 503}, ExitNetworkError},
		{"malformed", fmt.Errorf("%w: x", api.ErrMalformedResponse), ExitNetworkError},
		{"other", errors.New("other"), ExitGeneralError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ExitCode(tc.err), tc.name)
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Path: "/etc/c.toml", Err: errors.New("oops")}
	assert.Equal(t, "invalid configuration in /etc/c.toml: oops", err.Error())
	assert.Equal(t, "invalid configuration: oops", (&ConfigError{Err: errors.New("oops")}).Error())
}

func TestColorDecision(t *testing.T) {
	assert.False(t, colorDecision("1", "1", true), "NO_COLOR wins")
	assert.True(t, colorDecision("", "1", false), "FORCE_COLOR overrides detection")
	assert.True(t, colorDecision("", "", true))
	assert.False(t, colorDecision("", "", false))
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func newBackend(t *testing.T, chatStatus int, chatBody string, testStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(chatStatus)
		io.WriteString(w, chatBody)
	})
	mux.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(testStatus)
		io.WriteString(w, `{"status":"success","message":"Backend is working"}`)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"healthy","environment":"test"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newCoordinator(url string) *chat.Coordinator {
	return chat.New(api.NewClient(url), model.NewConversation())
}

func TestRunAsk_PrintsReplyAndTokens(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{"response":"Hi there","usage":{"total_tokens":1234}}`, http.StatusOK)
	var buf bytes.Buffer

	err := RunAsk(context.Background(), newCoordinator(srv.URL), "  hello  ", Output{W: &buf, ShowTokens: true})
	require.NoError(t, err)
	assert.Equal(t, "Hi there\nTokens: 1,234\n", buf.String())
}

func TestRunAsk_FailureCarriesDetail(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError, `{"detail":"Model overloaded"}`, http.StatusOK)
	var buf bytes.Buffer

	err := RunAsk(context.Background(), newCoordinator(srv.URL), "hello", Output{W: &buf})
	var reply *ReplyError
	require.ErrorAs(t, err, &reply)
	assert.Equal(t, "Model overloaded", reply.Text)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.Empty(t, buf.String())
}

func TestRunAsk_FailureWithoutDetailUsesFallback(t *testing.T) {
	srv := newBackend(t, http.StatusBadGateway, `upstream down`, http.StatusOK)

	err := RunAsk(context.Background(), newCoordinator(srv.URL), "hello", Output{W: io.Discard})
	require.Error(t, err)
	assert.Equal(t, chat.FallbackError, err.Error())
}

func TestRunAsk_EmptyQuery(t *testing.T) {
	err := RunAsk(context.Background(), newCoordinator("http://127.0.0.1:1"), "   ", Output{W: io.Discard})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

type scriptReader struct {
	lines   []string
	history []string
}

func (r *scriptReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestSession_Run(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{"response":"Hi there","usage":{"total_tokens":5}}`, http.StatusOK)
	v := sched.NewVirtual(epoch)
	reachable := false
	p := probe.New(probe.CheckerFunc(func(ctx context.Context) error {
		if reachable {
			return nil
		}
		return errors.New("refused")
	}), v)

	reader := &scriptReader{lines: []string{
		"",
		"hello",
		"/status",
		"/history",
		"/test",
		"/bogus",
		"/quit",
		"never sent",
	}}
	var buf bytes.Buffer
	s := &Session{Coordinator: newCoordinator(srv.URL), Probe: p, Reader: reader, Out: Output{W: &buf, ShowTokens: true}}

	require.NoError(t, s.Run(context.Background()))
	out := buf.String()

	assert.Contains(t, out, "model "+api.DefaultModel)
	assert.Contains(t, out, "AI:\nHi there\nTokens: 5\n")
	assert.Contains(t, out, "Messages")
	assert.Contains(t, out, "You: hello")
	assert.Contains(t, out, "AI: Hi there")
	assert.Contains(t, out, "[X] "+probe.FailureText)
	assert.Contains(t, out, "Unknown command: /bogus (try /help)")
	assert.NotContains(t, out, "never sent")
	assert.Equal(t, []string{"hello", "/status", "/history", "/test", "/bogus", "/quit"}, reader.history)
	assert.Len(t, s.Coordinator.History(), 2)

	// The reset from the first check is still pending; a second session
	// reports success once the backend is reachable.
	reachable = true
	reader.lines = []string{"/test"}
	buf.Reset()
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "[OK] Connected!")
	assert.Equal(t, 2, p.Pending())
}

func TestSession_FailedSendShowsError(t *testing.T) {
	srv := newBackend(t, http.StatusBadRequest, `{"detail":"Message too long"}`, http.StatusOK)
	reader := &scriptReader{lines: []string{"hello"}}
	var buf bytes.Buffer
	s := &Session{Coordinator: newCoordinator(srv.URL), Reader: reader, Out: Output{W: &buf}}

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, buf.String(), "[X] Message too long")
	assert.Empty(t, s.Coordinator.History(), "optimistic entry is removed")
}

func TestSession_HelpAndNoProbe(t *testing.T) {
	reader := &scriptReader{lines: []string{"/help", "/test", "/history"}}
	var buf bytes.Buffer
	s := &Session{Coordinator: newCoordinator("http://127.0.0.1:1"), Reader: reader, Out: Output{W: &buf}}

	require.NoError(t, s.Run(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "Test backend connectivity")
	assert.Contains(t, out, "Connectivity test unavailable")
	assert.Contains(t, out, "No messages yet.")
}

func TestRunStatus_Healthy(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{}`, http.StatusOK)
	var buf bytes.Buffer

	err := RunStatus(context.Background(), &buf, api.NewClient(srv.URL), config.Default())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, srv.URL)
	assert.Contains(t, out, api.DefaultModel)
	assert.Contains(t, out, "[OK] Health: healthy (test)")
	assert.Contains(t, out, "[OK] Connectivity: reachable - Backend is working")
}

func TestRunStatus_Unreachable(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{}`, http.StatusServiceUnavailable)
	var buf bytes.Buffer

	err := RunStatus(context.Background(), &buf, api.NewClient(srv.URL), nil)
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
	assert.Contains(t, buf.String(), "[X] Connectivity:")
}

func TestRunClock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunClock(&buf, clock.DefaultEntries(), sched.NewVirtual(epoch)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "San Jose")
	assert.Contains(t, lines[0], "09:30:45 AM")
	assert.Contains(t, lines[2], "12:30:45 PM")
	assert.Contains(t, lines[3], "11:00:45 PM")
	assert.Contains(t, lines[3], "Asia/Kolkata")
}

func TestRunClock_UnknownZone(t *testing.T) {
	err := RunClock(io.Discard, []clock.Entry{{City: "Nowhere", TimezoneID: "Mars/Olympus"}}, sched.NewVirtual(epoch))
	assert.Equal(t, ExitConfigError, ExitCode(err))
}
