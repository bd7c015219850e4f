// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
)

// Run executes cmd against env, writing command output to w.
func Run(ctx context.Context, env *Env, cmd Command, args Args, w io.Writer) error {
	switch cmd {
	case CmdTUI:
		return RunTUI(ctx, env)
	case CmdChat:
		return HandleChat(ctx, env, args, w)
	case CmdAsk:
		return HandleAsk(ctx, env, args, w)
	case CmdProvider:
		return HandleProvider(ctx, env, args, w)
	case CmdSession:
		return HandleSession(ctx, env, args, w)
	case CmdConfig:
		return HandleConfig(env, args, w)
	case CmdVersion:
		return HandleVersion(args, w)
	default:
		PrintUsage(w)
		return nil
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args, w io.Writer) error {
	if args.JSON {
		return NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go":         runtime.Version(),
		}).Write(w)
	}
	PrintVersion(w)
	return nil
}

// reportStartup prints load problems so a malformed file is not silently
// ignored.
func reportStartup(env *Env, args Args, w io.Writer) {
	if args.Quiet || args.JSON {
		return
	}
	for _, err := range env.Report.Errors {
		fmt.Fprintln(w, DimStyle.Render("warning: "+err.Error()))
	}
}

// writeResult writes data as JSON in --json mode, or runs human otherwise.
func writeResult(args Args, w io.Writer, command string, data any, human func()) error {
	if args.JSON {
		return NewJSONResponse(command, data).Write(w)
	}
	human()
	return nil
}
