// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PARSE
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		cmd     Command
		sub     string
		wantErr bool
	}{
		{"no args starts tui", nil, CmdTUI, "", false},
		{"tui", []string{"tui"}, CmdTUI, "", false},
		{"chat", []string{"chat"}, CmdChat, "", false},
		{"ask", []string{"ask", "hello", "world"}, CmdAsk, "", false},
		{"ask without query", []string{"ask"}, CmdAsk, "", true},
		{"provider default list", []string{"provider"}, CmdProvider, "list", false},
		{"api alias", []string{"api", "add"}, CmdProvider, "add", false},
		{"sessions alias", []string{"sessions"}, CmdSession, "list", false},
		{"session export", []string{"session", "export", "2"}, CmdSession, "export", false},
		{"config default show", []string{"config"}, CmdConfig, "show", false},
		{"version", []string{"version"}, CmdVersion, "", false},
		{"--version", []string{"--version"}, CmdVersion, "", false},
		{"help", []string{"--help"}, CmdHelp, "", false},
		{"unknown", []string{"frobnicate"}, CmdHelp, "", true},
		{"option missing value", []string{"provider", "add", "--name"}, CmdProvider, "add", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.sub, args.Subcommand)
		})
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args, err := Parse([]string{
		"--config=/tmp/c.toml", "--data-dir", "/tmp/d", "--sqlite", "--json", "-q", "-v",
		"--session", "2", "--api=3", "session", "list",
	})
	require.NoError(t, err)

	assert.Equal(t, CmdSession, cmd)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.Equal(t, "/tmp/d", args.DataDir)
	assert.True(t, args.SQLite)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.True(t, args.Verbose)
	assert.Equal(t, 2, args.Session)
	assert.Equal(t, 3, args.Provider)
}

func TestParseRejectsBadIndex(t *testing.T) {
	for _, v := range []string{"0", "-1", "two"} {
		_, _, err := Parse([]string{"--session", v})
		assert.Error(t, err, v)
	}
}

func TestParseOptions(t *testing.T) {
	_, args, err := Parse([]string{"provider", "add", "--name", "Local", "--url=http://x/v1", "extra", "--", "--raw"})
	require.NoError(t, err)

	assert.Equal(t, "Local", args.Option("name", ""))
	assert.Equal(t, "http://x/v1", args.Option("url", ""))
	assert.Equal(t, "fallback", args.Option("model", "fallback"))
	assert.Equal(t, []string{"extra", "--raw"}, args.Raw)
}

func TestParseConfigKeyValue(t *testing.T) {
	_, args, err := Parse([]string{"config", "set", "ui.theme", "light"})
	require.NoError(t, err)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "ui.theme", args.ConfigKey)
	assert.Equal(t, "light", args.ConfigVal)
}

func TestNeedsController(t *testing.T) {
	assert.True(t, CmdAsk.NeedsController())
	assert.True(t, CmdSession.NeedsController())
	assert.False(t, CmdConfig.NeedsController())
	assert.False(t, CmdVersion.NeedsController())
}

// =============================================================================
// HANDLERS
// =============================================================================

type harness struct {
	t    *testing.T
	dir  string
	base []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(KeyEnvVar, "")
	dir := t.TempDir()
	return &harness{
		t:   t,
		dir: dir,
		base: []string{
			"--config", filepath.Join(dir, "config.toml"),
			"--data-dir", filepath.Join(dir, "data"),
			"-q",
		},
	}
}

func (h *harness) run(argv ...string) (string, error) {
	h.t.Helper()
	cmd, args, err := Parse(append(append([]string{}, h.base...), argv...))
	require.NoError(h.t, err)

	ctx := context.Background()
	env, err := Bootstrap(ctx, cmd, args)
	if err != nil {
		return "", err
	}
	defer env.Close()

	var buf bytes.Buffer
	err = Run(ctx, env, cmd, args, &buf)
	return buf.String(), err
}

func (h *harness) mustRun(argv ...string) string {
	h.t.Helper()
	out, err := h.run(argv...)
	require.NoError(h.t, err, out)
	return out
}

func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func chatServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProviderAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("--json", "provider", "add", "--name", "Local", "--url", "http://localhost:8080/v1/chat/completions", "--key", "sk-1", "--model", "m1")
	var added ProviderData
	decodeData(t, out, &added)
	assert.Equal(t, 1, added.Index)
	assert.Equal(t, "Local", added.Name)
	assert.NotEmpty(t, added.KeyFingerprint)
	assert.NotContains(t, out, "sk-1")

	h.mustRun("provider", "add", "--name", "Other", "--url", "https://api.example.com/v1", "--model", "m2")

	out = h.mustRun("--json", "provider", "list")
	var list []ProviderData
	decodeData(t, out, &list)
	require.Len(t, list, 2)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)
	assert.Equal(t, "Other", list[1].Name)

	out = h.mustRun("--api", "2", "--json", "provider", "list")
	decodeData(t, out, &list)
	assert.True(t, list[1].Active)
}

func TestProviderAddRejectsInvalidURL(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("provider", "add", "--name", "Bad", "--url", "ftp://nope", "--model", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API configuration")
}

func TestProviderListEmpty(t *testing.T) {
	h := newHarness(t)
	h.base = h.base[:len(h.base)-1] // drop -q
	out := h.mustRun("provider", "list")
	assert.Contains(t, out, "No APIs configured")
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)

	h.mustRun("session", "new", "Research")
	h.mustRun("session", "new", "Scratch")

	out := h.mustRun("--json", "session", "list")
	var list []SessionData
	decodeData(t, out, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "Research", list[1].Name)
	assert.Equal(t, "Scratch", list[2].Name)

	// the active index is not stored, so rm removes the first session
	h.mustRun("session", "rm")
	out = h.mustRun("--json", "session", "list")
	decodeData(t, out, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Research", list[0].Name)

	h.mustRun("--session", "2", "session", "rm")
	out = h.mustRun("--json", "session", "list")
	decodeData(t, out, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Research", list[0].Name)

	h.mustRun("session", "clear")
	out = h.mustRun("--json", "session", "list")
	decodeData(t, out, &list)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Messages)
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	h.base = append(h.base, "--sqlite")

	h.mustRun("session", "new", "Stored")
	out := h.mustRun("--json", "session", "list")
	var list []SessionData
	decodeData(t, out, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Stored", list[1].Name)

	_, err := os.Stat(filepath.Join(h.dir, "data", "rigchat.db"))
	assert.NoError(t, err)
}

func TestSessionShowUnknownIndex(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("session", "show", "9")
	assert.Error(t, err)
}

func TestAskSuccess(t *testing.T) {
	h := newHarness(t)
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"hello there"}}]}`)
	h.mustRun("provider", "add", "--name", "Test", "--url", srv.URL, "--model", "m")

	out := h.mustRun("ask", "hi")
	assert.Contains(t, out, "hello there")

	out = h.mustRun("session", "show")
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "hello there")

	out = h.mustRun("--json", "session", "list")
	var list []SessionData
	decodeData(t, out, &list)
	assert.Equal(t, 2, list[0].Messages)
}

func TestAskJSON(t *testing.T) {
	h := newHarness(t)
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"pong"}}]}`)
	h.mustRun("provider", "add", "--name", "Test", "--url", srv.URL, "--model", "m")

	out := h.mustRun("--json", "ask", "ping")
	var data AskData
	decodeData(t, out, &data)
	assert.Equal(t, "pong", data.Reply)
	assert.Equal(t, "Test", data.Provider)
}

func TestAskFailurePersistsSystemMessage(t *testing.T) {
	h := newHarness(t)
	srv := chatServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	h.mustRun("provider", "add", "--name", "Test", "--url", srv.URL, "--model", "m")

	_, err := h.run("ask", "hi")
	require.ErrorIs(t, err, ErrExchangeFailed)

	out := h.mustRun("--json", "session", "list")
	var list []SessionData
	decodeData(t, out, &list)
	assert.Equal(t, 2, list[0].Messages)
}

func TestAskWithoutProvider(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider add")
}

func TestSessionExport(t *testing.T) {
	h := newHarness(t)
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"exported reply"}}]}`)
	h.mustRun("provider", "add", "--name", "Test", "--url", srv.URL, "--model", "m")
	h.mustRun("ask", "question")

	outDir := filepath.Join(h.dir, "exports")
	for _, format := range []string{"md", "json", "html"} {
		out := h.mustRun("--json", "session", "export", "--format", format, "--out", outDir)
		var data map[string]string
		decodeData(t, out, &data)

		content, err := os.ReadFile(data["path"])
		require.NoError(t, err, format)
		assert.Contains(t, string(content), "exported reply", format)
	}

	_, err := h.run("session", "export", "--format", "pdf", "--out", outDir)
	assert.Error(t, err)
}

func TestConfigInitGetSet(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "config.toml")

	out := h.mustRun("config", "path")
	assert.Equal(t, path, strings.TrimSpace(out))

	h.mustRun("config", "init")
	_, err := os.Stat(path)
	require.NoError(t, err)

	_, err = h.run("config", "init")
	assert.Error(t, err)
	h.mustRun("config", "init", "--force", "true")

	h.mustRun("config", "set", "ui.theme", "light")
	out = h.mustRun("config", "get", "ui.theme")
	assert.Equal(t, "light", strings.TrimSpace(out))

	out = h.mustRun("config", "show")
	assert.Contains(t, out, `"theme": "light"`)

	h.mustRun("config", "set", "exchange.persist_failures", "false")
	out = h.mustRun("--json", "config", "get", "exchange.persist_failures")
	var data map[string]any
	decodeData(t, out, &data)
	assert.Equal(t, false, data["value"])

	_, err = h.run("config", "set", "ui.theme", "purple")
	assert.Error(t, err)

	_, err = h.run("config", "get", "no.such.key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys:")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	assert.Contains(t, out, Version)

	out = h.mustRun("--json", "version")
	var data map[string]string
	decodeData(t, out, &data)
	assert.Equal(t, Version, data["version"])
}

// =============================================================================
// REPL
// =============================================================================

func newTestRepl(t *testing.T, h *harness) (*repl, *bytes.Buffer, func()) {
	t.Helper()
	cmd, args, err := Parse(append(append([]string{}, h.base...), "chat"))
	require.NoError(t, err)
	env, err := Bootstrap(context.Background(), cmd, args)
	require.NoError(t, err)

	var buf bytes.Buffer
	r := &repl{ctx: context.Background(), env: env, args: args, w: &buf, renderer: newReplyRenderer(env.Config)}
	return r, &buf, func() { env.Close() }
}

func TestReplCommands(t *testing.T) {
	h := newHarness(t)
	r, buf, done := newTestRepl(t, h)
	defer done()

	require.NoError(t, r.handleLine("   "))
	assert.Empty(t, buf.String())

	require.NoError(t, r.handleLine("/new Notes"))
	assert.Equal(t, "Notes", r.env.Controller.Snapshot().Active().Name)

	require.NoError(t, r.handleLine("/rename Ideas"))
	assert.Equal(t, "Ideas", r.env.Controller.Snapshot().Active().Name)

	require.NoError(t, r.handleLine("/session 1"))
	assert.Equal(t, 0, r.env.Controller.Snapshot().ActiveSession)

	assert.Error(t, r.handleLine("/session zero"))
	assert.Error(t, r.handleLine("/rename"))
	assert.Error(t, r.handleLine("/bogus"))
	assert.ErrorIs(t, r.handleLine("/quit"), errQuit)

	buf.Reset()
	require.NoError(t, r.handleLine("/help"))
	assert.Contains(t, buf.String(), "/export")
}

func TestReplSend(t *testing.T) {
	h := newHarness(t)
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"from the api"}}]}`)
	h.mustRun("provider", "add", "--name", "Test", "--url", srv.URL, "--model", "m")

	r, buf, done := newTestRepl(t, h)
	defer done()

	require.NoError(t, r.handleLine("/api 1"))
	require.NoError(t, r.handleLine("hello"))
	assert.Contains(t, buf.String(), "from the api")

	msgs := r.env.Controller.Snapshot().Active().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestReplSendWithoutProvider(t *testing.T) {
	h := newHarness(t)
	r, _, done := newTestRepl(t, h)
	defer done()

	assert.Error(t, r.handleLine("hello"))
	assert.Empty(t, r.env.Controller.Snapshot().Active().Messages)
}

func TestCompleteSlash(t *testing.T) {
	assert.ElementsMatch(t, []string{"/session", "/sessions", "/show"}, completeSlash("/s"))
	assert.Nil(t, completeSlash("hello"))
}
