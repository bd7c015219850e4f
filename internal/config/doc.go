// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
//
// # Key Types
//
//   - Config: data directory plus the storage, exchange, log and ui sections
//   - ValidationError / ValidateErrors: every invalid setting, reported together
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGCHAT_*)
//   - ~/.rigchat/config.toml (or the file named by RIGCHAT_CONFIG)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("") // "" means ConfigPath()
//	if err != nil {
//	    return err
//	}
//	dir, _ := cfg.ResolvedDataDir()
//
// Values can be read and written with dot notation:
//
//	_ = cfg.Set("exchange.persist_failures", "false")
//	level, _ := cfg.Get("log.level")
package config
