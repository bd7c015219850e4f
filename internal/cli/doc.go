// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the rigchat command-line interface.

# Commands

	rigchat                       start the TUI (default)
	rigchat chat                  line-editing REPL
	rigchat ask "question"        one exchange in the active session
	rigchat provider add|list     manage API configurations
	rigchat session list|new|rm|clear|show|export
	rigchat config show|path|init|get|set
	rigchat version

# Global Flags

	--config PATH    config file (default ~/.rigchat/config.toml)
	--data-dir DIR   override data_dir
	--sqlite         use the sqlite storage backend
	--session N      active session for this run
	--api N          active API for this run
	--json           machine-readable output
	-q, --quiet      suppress informational output
	-v, --verbose    debug logging

# Usage

	cmd, args, err := cli.Parse(os.Args[1:])
	env, err := cli.Bootstrap(ctx, args)
	defer env.Close()
	err = cli.Run(ctx, env, cmd, args, os.Stdout)
*/
package cli
