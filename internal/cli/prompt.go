// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigchat/internal/model"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// promptProvider asks for the fields of cfg that are still empty.
func promptProvider(cfg model.ProviderConfig) (model.ProviderConfig, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	ask := func(label string, value *string) error {
		if *value != "" {
			return nil
		}
		v, err := line.Prompt(label + ": ")
		if err != nil {
			return promptErr(err)
		}
		*value = v
		return nil
	}

	if err := ask("Name", &cfg.DisplayName); err != nil {
		return cfg, err
	}
	if err := ask("URL", &cfg.EndpointURL); err != nil {
		return cfg, err
	}
	if cfg.Credential == "" {
		key, err := line.PasswordPrompt("Key (optional): ")
		if err != nil {
			return cfg, promptErr(err)
		}
		cfg.Credential = key
	}
	if err := ask("Model", &cfg.Model); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func promptErr(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) {
		return ErrAborted
	}
	return fmt.Errorf("read input: %w", err)
}
