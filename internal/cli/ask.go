// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/rigchat/internal/exchange"
)

// ErrExchangeFailed is returned when the API call failed or the reply was
// unusable. The failure text is already in the transcript.
var ErrExchangeFailed = errors.New("exchange failed")

// errNoAPI explains how to fix a missing provider.
var errNoAPI = fmt.Errorf("%w: add one with `rigchat provider add`", exchange.ErrNoProvider)

// HandleAsk sends one message in the active session and prints the reply.
func HandleAsk(ctx context.Context, env *Env, args Args, w io.Writer) error {
	reportStartup(env, args, w)
	ctrl := env.Controller

	state := ctrl.Snapshot()
	prov, ok := state.Provider()
	if !ok {
		return errNoAPI
	}

	out, err := ctrl.SendText(ctx, args.Query)
	if !out.Started() {
		if err != nil {
			return err
		}
		return out.Err
	}

	if args.JSON {
		if werr := NewJSONResponse("ask", AskData{
			Session:  state.Active().Name,
			Provider: prov.DisplayName,
			State:    out.State.String(),
			Reply:    out.Reply,
			Duration: out.Duration.String(),
		}).Write(w); werr != nil {
			return werr
		}
	} else if out.Succeeded() {
		fmt.Fprintln(w, newReplyRenderer(env.Config).Render(out.Reply))
	} else {
		fmt.Fprintln(w, out.Reply)
	}

	if err != nil {
		return err
	}
	if !out.Succeeded() {
		return fmt.Errorf("%w: %v", ErrExchangeFailed, out.Err)
	}
	return nil
}
