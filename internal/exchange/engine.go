// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/rigchat/internal/cloud"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is the engine's position in Idle -> Sending -> {Succeeded, Failed}.
type State int

const (
	StateIdle State = iota
	StateSending
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event types emitted to the Observer.
const (
	EventStart    logging.EventType = "exchange.start"
	EventComplete logging.EventType = "exchange.complete"
	EventFailed   logging.EventType = "exchange.failed"
)

var (
	// ErrNoProvider is returned when Send is called without an active provider.
	ErrNoProvider = errors.New("no API provider selected")

	// ErrBusy is returned when an exchange is already in flight.
	ErrBusy = errors.New("an exchange is already in progress")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Transcript is the active session the engine reads from and appends to.
type Transcript interface {
	Append(role model.Role, content string)
	ActiveMessages() []model.Message
}

// Transport posts a request and returns the raw response body.
type Transport interface {
	Complete(ctx context.Context, endpoint, credential string, req cloud.ChatRequest) ([]byte, error)
}

// Outcome is the result of one Send.
type Outcome struct {
	State State
	// Reply is the appended Assistant or System content. Empty when the
	// exchange never started.
	Reply string
	// Err is the cause of a Failed or Idle outcome.
	Err      error
	Duration time.Duration
}

// Succeeded reports whether an Assistant reply was appended.
func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// Started reports whether the User message was appended.
func (o Outcome) Started() bool {
	return o.State == StateSucceeded || o.State == StateFailed
}

// Options configures an Engine.
type Options struct {
	// ReplaySystemMessages sends System transcript entries to the API as
	// assistant turns. When false they are left out of the request.
	ReplaySystemMessages bool
	Observer             logging.Observer
	Logger               *slog.Logger
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs exchanges against a transcript. Every started exchange appends
// exactly one User entry followed by exactly one Assistant or System entry.
type Engine struct {
	transcript Transcript
	transport  Transport
	opts       Options

	mu    sync.Mutex
	state State
}

// NewEngine creates an engine bound to a transcript and transport.
func NewEngine(transcript Transcript, transport Transport, opts Options) *Engine {
	if opts.Observer == nil {
		opts.Observer = logging.NoOpObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Engine{
		transcript: transcript,
		transport:  transport,
		opts:       opts,
		state:      StateIdle,
	}
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Send runs one exchange for input against provider. ok is false when no
// provider is selected; the transcript is then left untouched.
func (e *Engine) Send(ctx context.Context, input string, provider model.ProviderConfig, ok bool) Outcome {
	if !ok {
		e.opts.Logger.Warn("exchange skipped", "reason", ErrNoProvider.Error())
		return Outcome{State: StateIdle, Err: ErrNoProvider}
	}

	e.mu.Lock()
	if e.state == StateSending {
		e.mu.Unlock()
		return Outcome{State: StateSending, Err: ErrBusy}
	}
	e.state = StateSending
	e.mu.Unlock()

	start := time.Now()
	e.transcript.Append(model.RoleUser, input)
	req := e.buildRequest(provider.Model)
	e.emit(ctx, EventStart, slog.LevelInfo, map[string]any{
		"provider": provider.DisplayName,
		"model":    provider.Model,
		"messages": len(req.Messages),
	})

	out := e.complete(ctx, provider, req)
	out.Duration = time.Since(start)

	if out.Succeeded() {
		e.transcript.Append(model.RoleAssistant, out.Reply)
		e.emit(ctx, EventComplete, slog.LevelInfo, map[string]any{
			"provider": provider.DisplayName,
			"duration": out.Duration,
			"chars":    len(out.Reply),
		})
	} else {
		e.transcript.Append(model.RoleSystem, out.Reply)
		e.emit(ctx, EventFailed, slog.LevelWarn, map[string]any{
			"provider": provider.DisplayName,
			"duration": out.Duration,
			"error":    out.Err.Error(),
		})
	}

	e.mu.Lock()
	e.state = out.State
	e.mu.Unlock()
	return out
}

// complete performs the network call and classifies the result.
func (e *Engine) complete(ctx context.Context, provider model.ProviderConfig, req cloud.ChatRequest) Outcome {
	body, err := e.transport.Complete(ctx, provider.EndpointURL, provider.Credential, req)
	if err != nil {
		return Outcome{State: StateFailed, Reply: model.ErrorPrefix + err.Error(), Err: err}
	}

	reply, err := cloud.ParseReply(body)
	if err != nil {
		return Outcome{State: StateFailed, Reply: err.Error(), Err: err}
	}
	return Outcome{State: StateSucceeded, Reply: reply}
}

// buildRequest maps the whole active transcript to wire messages.
func (e *Engine) buildRequest(modelName string) cloud.ChatRequest {
	history := e.transcript.ActiveMessages()
	msgs := make([]cloud.ChatMessage, 0, len(history))
	for _, m := range history {
		if m.Role == model.RoleSystem && !e.opts.ReplaySystemMessages {
			continue
		}
		msgs = append(msgs, cloud.ChatMessage{Role: m.Role.WireRole(), Content: m.Content})
	}
	return cloud.ChatRequest{Model: modelName, Messages: msgs}
}

func (e *Engine) emit(ctx context.Context, t logging.EventType, level slog.Level, data map[string]any) {
	e.opts.Observer.OnEvent(ctx, logging.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "exchange",
		Data:      data,
	})
}
