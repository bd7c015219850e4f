// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// ChatCLI wraps liner with a persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor whose history lives in historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlash)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

var slashCommands = []string{
	"/help", "/quit", "/new", "/rename", "/rm", "/clear",
	"/sessions", "/session", "/apis", "/api", "/show", "/export",
}

func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range slashCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// REPL
// =============================================================================

// errQuit ends the REPL.
var errQuit = errors.New("quit")

const replHelp = `Commands:
  /new [NAME]     create a session
  /rename NAME    rename the active session
  /rm             remove the active session
  /clear          replace all sessions with one empty session
  /sessions       list sessions
  /session N      switch to session N
  /apis           list APIs
  /api N          switch to API N
  /show           print the active transcript
  /export [FMT]   export the active session (md, json, html)
  /quit           exit
Anything else is sent to the active API.`

// repl processes chat input lines.
type repl struct {
	ctx      context.Context
	env      *Env
	args     Args
	w        io.Writer
	renderer *replyRenderer
}

// HandleChat runs the interactive line-mode chat.
func HandleChat(ctx context.Context, env *Env, args Args, w io.Writer) error {
	reportStartup(env, args, w)

	dataDir, err := env.Config.ResolvedDataDir()
	if err != nil {
		return err
	}
	editor := NewChatCLI(filepath.Join(dataDir, "chat_history"))
	defer editor.Close()

	r := &repl{ctx: ctx, env: env, args: args, w: w, renderer: newReplyRenderer(env.Config)}
	if !args.Quiet {
		r.banner()
	}

	for {
		input, err := editor.ReadInput(PromptStyle.Render("rigchat> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and closed stdin all end the session
			fmt.Fprintln(w)
			return nil
		}
		if err := r.handleLine(input); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(w, DimStyle.Render("error: "+err.Error()))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (r *repl) banner() {
	state := r.env.Controller.Snapshot()
	fmt.Fprintln(r.w, TitleStyle.Render("rigchat "+Version))
	fmt.Fprintf(r.w, "%s%s\n", LabelStyle.Render("Session"), ValueStyle.Render(state.Active().Name))
	if p, ok := state.Provider(); ok {
		fmt.Fprintf(r.w, "%s%s\n", LabelStyle.Render("API"), ValueStyle.Render(p.Label()))
	} else {
		fmt.Fprintln(r.w, DimStyle.Render("No API configured. Add one with `rigchat provider add`."))
	}
	fmt.Fprintln(r.w, DimStyle.Render("Type /help for commands."))
}

// handleLine sends a message or runs a slash command. Blank lines are
// ignored.
func (r *repl) handleLine(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "/") {
		return r.command(trimmed)
	}
	return r.send(input)
}

func (r *repl) send(text string) error {
	if _, ok := r.env.Controller.Snapshot().Provider(); !ok {
		return errNoAPI
	}

	out, err := r.env.Controller.SendText(r.ctx, text)
	switch {
	case !out.Started():
		if err == nil {
			err = out.Err
		}
		return err
	case out.Succeeded():
		fmt.Fprintln(r.w, r.renderer.Render(out.Reply))
	default:
		fmt.Fprintln(r.w, DimStyle.Render(out.Reply))
	}
	return err
}

func (r *repl) command(line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ctrl := r.env.Controller

	switch name {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/?":
		fmt.Fprintln(r.w, replHelp)

	case "/new":
		s, err := ctrl.NewSession(r.ctx, rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Created session %q\n", s.Name)

	case "/rename":
		if rest == "" {
			return errors.New("usage: /rename NAME")
		}
		if err := ctrl.RenameSession(r.ctx, rest); err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Renamed to %q\n", rest)

	case "/rm":
		if err := ctrl.RemoveSession(r.ctx); err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Active session: %s\n", ctrl.Snapshot().Active().Name)

	case "/clear":
		if err := ctrl.ClearSessions(r.ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.w, "All sessions cleared")

	case "/sessions":
		return sessionList(r.env, Args{}, r.w)

	case "/session":
		n, err := parseIndex(rest)
		if err != nil {
			return err
		}
		if err := ctrl.SelectSession(n); err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Active session: %s\n", ctrl.Snapshot().Active().Name)

	case "/apis":
		return providerList(r.env, Args{}, r.w)

	case "/api":
		n, err := parseIndex(rest)
		if err != nil {
			return err
		}
		if err := ctrl.SelectProvider(n); err != nil {
			return err
		}
		p, _ := ctrl.Snapshot().Provider()
		fmt.Fprintf(r.w, "Using %s\n", p.Label())

	case "/show":
		r.show(ctrl.Snapshot().Active())

	case "/export":
		format := rest
		if format == "" {
			format = "md"
		}
		args := Args{Options: map[string]string{"format": format, "out": "."}}
		return sessionExport(r.env, args, r.w)

	default:
		return fmt.Errorf("unknown command %s (try /help)", name)
	}
	return nil
}

func (r *repl) show(sess *model.Session) {
	fmt.Fprintln(r.w, TitleStyle.Render(sess.Name))
	for _, msg := range sess.Messages {
		label := msg.Role.DisplayName() + ":"
		fmt.Fprintln(r.w, ActiveStyle.Render(label))
		if msg.Role == model.RoleAssistant {
			fmt.Fprintln(r.w, r.renderer.Render(msg.Content))
		} else {
			fmt.Fprintln(r.w, msg.Content)
		}
	}
}

// parseIndex converts a 1-based index argument.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a number >= 1, got %q", s)
	}
	return n - 1, nil
}

