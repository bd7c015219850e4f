// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// HandleSession dispatches session subcommands.
func HandleSession(ctx context.Context, env *Env, args Args, w io.Writer) error {
	reportStartup(env, args, w)
	ctrl := env.Controller

	switch args.Subcommand {
	case "list", "ls":
		return sessionList(env, args, w)

	case "new":
		s, err := ctrl.NewSession(ctx, strings.Join(args.Raw, " "))
		if err != nil {
			return err
		}
		return writeResult(args, w, "session new", summarize(s, ctrl.Snapshot().ActiveSession, true), func() {
			if !args.Quiet {
				fmt.Fprintf(w, "Created session %q\n", s.Name)
			}
		})

	case "rm", "remove":
		name := ctrl.Snapshot().Active().Name
		if err := ctrl.RemoveSession(ctx); err != nil {
			return err
		}
		return writeResult(args, w, "session rm", map[string]string{"removed": name}, func() {
			if !args.Quiet {
				fmt.Fprintf(w, "Removed session %q\n", name)
			}
		})

	case "clear":
		if err := ctrl.ClearSessions(ctx); err != nil {
			return err
		}
		return writeResult(args, w, "session clear", map[string]int{"sessions": 1}, func() {
			if !args.Quiet {
				fmt.Fprintln(w, "All sessions cleared")
			}
		})

	case "show":
		sess, err := pickSession(env, args)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("session show", sess).Write(w)
		}
		renderer := components.NewMessageRenderer(styles.NewTheme(), GetTerminalWidth())
		renderer.Markdown = env.Config.UI.RenderMarkdown && ColorsEnabled()
		renderer.Highlight = env.Config.UI.HighlightCode && ColorsEnabled()
		fmt.Fprintln(w, TitleStyle.Render(sess.Name))
		if sess.IsEmpty() {
			fmt.Fprintln(w, DimStyle.Render("(no messages)"))
			return nil
		}
		fmt.Fprintln(w, renderer.RenderAll(sess.Messages))
		return nil

	case "export":
		return sessionExport(env, args, w)

	default:
		return fmt.Errorf("unknown session subcommand %q (want list, new, rm, clear, show or export)", args.Subcommand)
	}
}

func sessionList(env *Env, args Args, w io.Writer) error {
	state := env.Controller.Snapshot()
	data := make([]SessionData, len(state.Sessions))
	for i, s := range state.Sessions {
		data[i] = summarize(s, i, i == state.ActiveSession)
	}

	return writeResult(args, w, "session list", data, func() {
		fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Sessions (%d)", len(data))))
		width := GetTerminalWidth()
		for _, s := range data {
			line := fmt.Sprintf("%2d  %s  %s", s.Index, s.Name, DimStyle.Render(fmt.Sprintf("%d messages", s.Messages)))
			if s.Preview != "" {
				line += "  " + DimStyle.Render(s.Preview)
			}
			fmt.Fprintln(w, marker(s.Active)+" "+util.TruncateWidth(line, width-2))
		}
	})
}

func summarize(s *model.Session, index int, active bool) SessionData {
	return SessionData{
		Index:    index + 1,
		ID:       s.ID,
		Name:     s.Name,
		Messages: s.Len(),
		Preview:  util.TruncateWidth(s.Preview(), 40),
		Active:   active,
	}
}

// pickSession returns the session named by the first positional argument
// (1-based), or the active session.
func pickSession(env *Env, args Args) (*model.Session, error) {
	state := env.Controller.Snapshot()
	if len(args.Raw) == 0 {
		return state.Active(), nil
	}
	n, err := strconv.Atoi(args.Raw[0])
	if err != nil || n < 1 || n > len(state.Sessions) {
		return nil, fmt.Errorf("no session %q (have %d)", args.Raw[0], len(state.Sessions))
	}
	return state.Sessions[n-1], nil
}

func sessionExport(env *Env, args Args, w io.Writer) error {
	sess, err := pickSession(env, args)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	opts.OutputDir = args.Option("out", ".")
	opts.OpenAfterExport = args.Option("open", "") == "true"
	if p, ok := env.Controller.Snapshot().Provider(); ok {
		opts.Provider = p.Label()
	}
	if env.Config.UI.Theme == string(styles.ModeLight) {
		opts.Theme = "light"
	}

	exporter, err := export.ForFormat(args.Option("format", "md"), opts)
	if err != nil {
		return err
	}
	path, err := export.ExportToFile(sess, exporter, opts)
	if err != nil {
		return err
	}

	return writeResult(args, w, "session export", map[string]string{"path": path}, func() {
		if !args.Quiet {
			fmt.Fprintf(w, "Exported %q to %s\n", sess.Name, path)
		}
	})
}
