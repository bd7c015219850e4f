// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/rigchat/internal/model"
)

// KeyEnvVar supplies the credential for `provider add` when --key is absent.
const KeyEnvVar = "RIGCHAT_API_KEY"

// HandleProvider dispatches provider subcommands.
func HandleProvider(ctx context.Context, env *Env, args Args, w io.Writer) error {
	switch args.Subcommand {
	case "list", "ls":
		return providerList(env, args, w)
	case "add":
		return providerAdd(ctx, env, args, w)
	default:
		return fmt.Errorf("unknown provider subcommand %q (want add or list)", args.Subcommand)
	}
}

func providerList(env *Env, args Args, w io.Writer) error {
	reportStartup(env, args, w)
	state := env.Controller.Snapshot()

	data := make([]ProviderData, len(state.Providers))
	for i, p := range state.Providers {
		data[i] = ProviderData{
			Index:          i + 1,
			Name:           p.DisplayName,
			URL:            p.EndpointURL,
			Model:          p.Model,
			KeyFingerprint: p.CredentialFingerprint(),
			Active:         i == state.ActiveProvider,
		}
	}

	return writeResult(args, w, "provider list", data, func() {
		if len(data) == 0 {
			fmt.Fprintln(w, DimStyle.Render("No APIs configured. Add one with: rigchat provider add --name NAME --url URL --model MODEL"))
			return
		}
		fmt.Fprintln(w, TitleStyle.Render("APIs"))
		for _, p := range data {
			fmt.Fprintf(w, "%s %2d  %s  %s\n", marker(p.Active), p.Index,
				ValueStyle.Render(p.Name+" - "+p.URL), DimStyle.Render("("+p.Model+")"))
		}
	})
}

func providerAdd(ctx context.Context, env *Env, args Args, w io.Writer) error {
	cfg := model.ProviderConfig{
		DisplayName: args.Option("name", ""),
		EndpointURL: args.Option("url", ""),
		Credential:  args.Option("key", os.Getenv(KeyEnvVar)),
		Model:       args.Option("model", ""),
	}

	if cfg.DisplayName == "" || cfg.EndpointURL == "" || cfg.Model == "" {
		if err := RequiresTTY("add an API"); err != nil {
			return fmt.Errorf("%w (pass --name, --url and --model)", err)
		}
		filled, err := promptProvider(cfg)
		if err != nil {
			return err
		}
		cfg = filled
	}

	index, err := env.Controller.AddProvider(ctx, cfg)
	if index < 0 {
		return fmt.Errorf("invalid API configuration: %w", err)
	}
	if err != nil {
		return err
	}

	added := env.Controller.Snapshot().Providers[index]
	return writeResult(args, w, "provider add", ProviderData{
		Index:          index + 1,
		Name:           added.DisplayName,
		URL:            added.EndpointURL,
		Model:          added.Model,
		KeyFingerprint: added.CredentialFingerprint(),
	}, func() {
		if !args.Quiet {
			fmt.Fprintf(w, "Added API %d: %s\n", index+1, added.Label())
		}
	})
}
