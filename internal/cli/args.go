// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdProvider
	CmdSession
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdAsk:
		return "ask"
	case CmdProvider:
		return "provider"
	case CmdSession:
		return "session"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// NeedsController reports whether the command loads stored state.
func (c Command) NeedsController() bool {
	switch c {
	case CmdTUI, CmdChat, CmdAsk, CmdProvider, CmdSession:
		return true
	default:
		return false
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	DataDir    string
	SQLite     bool
	JSON       bool
	Quiet      bool
	Verbose    bool
	// Session and Provider pick the active entries for this run, 1-based.
	// Zero keeps the default (first).
	Session  int
	Provider int

	// Command-specific
	Subcommand string
	Query      string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --name, --format)
	Options map[string]string
}

// Option returns a named option or def.
func (a Args) Option(name, def string) string {
	if v, ok := a.Options[name]; ok {
		return v
	}
	return def
}

const usageText = `rigchat - terminal client for OpenAI-compatible chat APIs

Usage:
  rigchat                          Start the TUI (default)
  rigchat chat                     Interactive line-mode chat
  rigchat ask "question"           Send one message in the active session
  rigchat provider add             Add an API (--name --url --key --model)
  rigchat provider list            List APIs
  rigchat session list             List sessions
  rigchat session new [NAME]       Create a session
  rigchat session rm               Remove the active session
  rigchat session clear            Replace all sessions with one empty session
  rigchat session show [N]         Print a transcript
  rigchat session export [N]       Export a transcript (--format md|json|html --out DIR)
  rigchat config show|path|init    Configuration file
  rigchat config get KEY           Print a setting
  rigchat config set KEY VALUE     Change a setting
  rigchat version                  Version information

Global flags:
  --config PATH    Config file (default ~/.rigchat/config.toml)
  --data-dir DIR   Override data_dir
  --sqlite         Use the sqlite storage backend
  --session N      Active session for this run (1-based)
  --api N          Active API for this run (1-based)
  --json           JSON output
  -q, --quiet      Less output
  -v, --verbose    Debug logging

Version: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "rigchat version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}

	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]

	switch cmd {
	case "tui":
		args.Raw = remaining
		return CmdTUI, args, nil

	case "chat":
		args.Raw = remaining
		return CmdChat, args, nil

	case "ask":
		if err := parseOptions(&args, remaining); err != nil {
			return CmdAsk, args, err
		}
		args.Query = strings.Join(args.Raw, " ")
		if strings.TrimSpace(args.Query) == "" {
			return CmdAsk, args, fmt.Errorf("ask requires a question")
		}
		return CmdAsk, args, nil

	case "provider", "providers", "api":
		return CmdProvider, args, parseSubcommand(&args, remaining, "list")

	case "session", "sessions":
		return CmdSession, args, parseSubcommand(&args, remaining, "list")

	case "config":
		if err := parseSubcommand(&args, remaining, "show"); err != nil {
			return CmdConfig, args, err
		}
		if len(args.Raw) > 0 {
			args.ConfigKey = args.Raw[0]
		}
		if len(args.Raw) > 1 {
			args.ConfigVal = strings.Join(args.Raw[1:], " ")
		}
		return CmdConfig, args, nil

	case "version", "--version":
		return CmdVersion, args, nil

	case "help", "-h", "--help":
		return CmdHelp, args, nil
	}

	return CmdHelp, args, fmt.Errorf("unknown command %q", cmd)
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var remaining []string
	args := Args{Options: make(map[string]string)}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch name {
		case "--sqlite":
			args.SQLite = true
		case "--json":
			args.JSON = true
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--config", "--data-dir", "--session", "--api":
			if !hasValue {
				if i+1 >= len(argv) {
					return nil, args, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = argv[i]
			}
			if err := args.setGlobal(name, value); err != nil {
				return nil, args, err
			}
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args, nil
}

func (a *Args) setGlobal(name, value string) error {
	switch name {
	case "--config":
		a.ConfigPath = value
	case "--data-dir":
		a.DataDir = value
	default:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s wants a positive number, got %q", name, value)
		}
		if name == "--session" {
			a.Session = n
		} else {
			a.Provider = n
		}
	}
	return nil
}

// parseSubcommand takes the first word as the subcommand (def when absent)
// and parses the rest as options.
func parseSubcommand(args *Args, remaining []string, def string) error {
	args.Subcommand = def
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "--") {
		args.Subcommand = strings.ToLower(remaining[0])
		remaining = remaining[1:]
	}
	return parseOptions(args, remaining)
}

// parseOptions splits "--name value" / "--name=value" options from
// positional arguments.
func parseOptions(args *Args, remaining []string) error {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if !strings.HasPrefix(arg, "--") || arg == "--" {
			if arg == "--" {
				args.Raw = append(args.Raw, remaining[i+1:]...)
				return nil
			}
			args.Raw = append(args.Raw, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !hasValue {
			if i+1 >= len(remaining) {
				return fmt.Errorf("--%s requires a value", name)
			}
			i++
			value = remaining[i]
		}
		args.Options[name] = value
	}
	return nil
}
