// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/rigchat/internal/config"
)

// HandleConfig handles "config show|path|init|get|set".
func HandleConfig(env *Env, args Args, w io.Writer) error {
	switch args.Subcommand {
	case "show", "":
		if args.JSON {
			return NewJSONResponse("config show", env.Config).Write(w)
		}
		fmt.Fprintln(w, env.Config.String())
		return nil

	case "path":
		return writeResult(args, w, "config path", map[string]string{"path": env.ConfigPath}, func() {
			fmt.Fprintln(w, env.ConfigPath)
		})

	case "init":
		return configInit(env, args, w)

	case "get":
		return configGet(env, args, w)

	case "set":
		return configSet(env, args, w)

	default:
		return fmt.Errorf("unknown config subcommand %q (want show, path, init, get or set)", args.Subcommand)
	}
}

// configInit writes the default configuration. An existing file is kept
// unless --force true is given.
func configInit(env *Env, args Args, w io.Writer) error {
	if _, err := os.Stat(env.ConfigPath); err == nil && args.Option("force", "") != "true" {
		return fmt.Errorf("%s already exists (use --force true to overwrite)", env.ConfigPath)
	}
	if err := config.SaveTOML(config.Default(), env.ConfigPath); err != nil {
		return err
	}
	return writeResult(args, w, "config init", map[string]string{"path": env.ConfigPath}, func() {
		if !args.Quiet {
			fmt.Fprintf(w, "Wrote %s\n", env.ConfigPath)
		}
	})
}

func configGet(env *Env, args Args, w io.Writer) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("usage: rigchat config get KEY\n%s", keyList())
	}
	value, err := env.Config.Get(args.ConfigKey)
	if err != nil {
		return fmt.Errorf("%w\n%s", err, keyList())
	}
	return writeResult(args, w, "config get", map[string]any{"key": args.ConfigKey, "value": value}, func() {
		fmt.Fprintln(w, value)
	})
}

// configSet changes one key in the config file. The file is read without
// environment overrides so they are not written back.
func configSet(env *Env, args Args, w io.Writer) error {
	if args.ConfigKey == "" || len(args.Raw) < 2 {
		return fmt.Errorf("usage: rigchat config set KEY VALUE\n%s", keyList())
	}

	cfg := config.Default()
	if _, err := os.Stat(env.ConfigPath); err == nil {
		if err := config.LoadTOML(cfg, env.ConfigPath); err != nil {
			return fmt.Errorf("failed to load config from %s: %w", env.ConfigPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return fmt.Errorf("%w\n%s", err, keyList())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", args.ConfigKey, err)
	}
	if err := config.SaveTOML(cfg, env.ConfigPath); err != nil {
		return err
	}

	value, _ := cfg.Get(args.ConfigKey)
	return writeResult(args, w, "config set", map[string]any{"key": args.ConfigKey, "value": value}, func() {
		if !args.Quiet {
			fmt.Fprintf(w, "%s = %s\n", args.ConfigKey, formatValue(value))
		}
	})
}

func keyList() string {
	return "keys: " + strings.Join(config.AllKeys(), ", ")
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
