// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/cloud"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

func providerFor(url string) model.ProviderConfig {
	return model.ProviderConfig{DisplayName: "test", EndpointURL: url, Credential: "k", Model: "m"}
}

func replyServer(t *testing.T, body string, seen *cloud.ChatRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

type recorder struct {
	mu     sync.Mutex
	events []logging.Event
}

func (r *recorder) OnEvent(_ context.Context, e logging.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []logging.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]logging.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type transportFunc func(ctx context.Context, endpoint, credential string, req cloud.ChatRequest) ([]byte, error)

func (f transportFunc) Complete(ctx context.Context, endpoint, credential string, req cloud.ChatRequest) ([]byte, error) {
	return f(ctx, endpoint, credential, req)
}

// =============================================================================
// OUTCOME TESTS
// =============================================================================

func TestSend_Success(t *testing.T) {
	var seen cloud.ChatRequest
	server := replyServer(t, `{"choices":[{"message":{"content":"hi"}}]}`, &seen)
	store := session.NewStore()
	rec := &recorder{}
	engine := NewEngine(store, cloud.NewClient(nil), Options{Observer: rec, ReplaySystemMessages: true})

	out := engine.Send(context.Background(), "hello", providerFor(server.URL), true)

	require.NoError(t, out.Err)
	assert.Equal(t, StateSucceeded, out.State)
	assert.Equal(t, StateSucceeded, engine.State())
	assert.Equal(t, "hi", out.Reply)

	msgs := store.ActiveMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.NewUserMessage("hello"), msgs[0])
	assert.Equal(t, model.NewAssistantMessage("hi"), msgs[1])

	assert.Equal(t, "m", seen.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, cloud.ChatMessage{Role: "user", Content: "hello"}, seen.Messages[0])

	assert.Equal(t, []logging.EventType{EventStart, EventComplete}, rec.types())
}

func TestSend_MissingChoices(t *testing.T) {
	server := replyServer(t, `{"foo":1}`, nil)
	store := session.NewStore()
	engine := NewEngine(store, cloud.NewClient(nil), Options{})

	out := engine.Send(context.Background(), "hello", providerFor(server.URL), true)

	assert.Equal(t, StateFailed, out.State)
	assert.ErrorIs(t, out.Err, cloud.ErrInvalidFormat)

	msgs := store.ActiveMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.NewUserMessage("hello"), msgs[0])
	assert.Equal(t, model.NewSystemMessage("Invalid response format"), msgs[1])
}

func TestSend_NonJSONBody(t *testing.T) {
	server := replyServer(t, `502 Bad Gateway`, nil)
	store := session.NewStore()
	engine := NewEngine(store, cloud.NewClient(nil), Options{})

	out := engine.Send(context.Background(), "hello", providerFor(server.URL), true)

	assert.Equal(t, StateFailed, out.State)
	last, _ := store.Active().LastMessage()
	assert.Equal(t, model.NewSystemMessage("Invalid response format"), last)
}

func TestSend_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	store := session.NewStore()
	rec := &recorder{}
	engine := NewEngine(store, cloud.NewClient(nil), Options{Observer: rec})

	out := engine.Send(context.Background(), "hello", providerFor("http://"+addr), true)

	assert.Equal(t, StateFailed, out.State)
	var te *cloud.TransportError
	assert.True(t, errors.As(out.Err, &te))

	msgs := store.ActiveMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleSystem, msgs[1].Role)
	assert.Equal(t, model.ErrorPrefix+out.Err.Error(), msgs[1].Content)
	assert.Equal(t, []logging.EventType{EventStart, EventFailed}, rec.types())
}

func TestSend_NoProviderIsNoOp(t *testing.T) {
	called := false
	transport := transportFunc(func(context.Context, string, string, cloud.ChatRequest) ([]byte, error) {
		called = true
		return nil, nil
	})
	store := session.NewStore()
	engine := NewEngine(store, transport, Options{})

	out := engine.Send(context.Background(), "hello", model.ProviderConfig{}, false)

	assert.Equal(t, StateIdle, out.State)
	assert.ErrorIs(t, out.Err, ErrNoProvider)
	assert.False(t, out.Started())
	assert.False(t, called)
	assert.Empty(t, store.ActiveMessages())
	assert.Equal(t, StateIdle, engine.State())
}

// =============================================================================
// REQUEST CONSTRUCTION TESTS
// =============================================================================

func TestSend_ReplaysWholeTranscript(t *testing.T) {
	tests := []struct {
		name   string
		replay bool
		want   []cloud.ChatMessage
	}{
		{
			name:   "system replayed as assistant",
			replay: true,
			want: []cloud.ChatMessage{
				{Role: "user", Content: "a"},
				{Role: "assistant", Content: "b"},
				{Role: "assistant", Content: "Error: boom"},
				{Role: "user", Content: "c"},
			},
		},
		{
			name:   "system excluded",
			replay: false,
			want: []cloud.ChatMessage{
				{Role: "user", Content: "a"},
				{Role: "assistant", Content: "b"},
				{Role: "user", Content: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen cloud.ChatRequest
			transport := transportFunc(func(_ context.Context, _, _ string, req cloud.ChatRequest) ([]byte, error) {
				seen = req
				return []byte(`{"choices":[{"message":{"content":"ok"}}]}`), nil
			})
			store := session.NewStore()
			store.Append(model.RoleUser, "a")
			store.Append(model.RoleAssistant, "b")
			store.Append(model.RoleSystem, "Error: boom")

			engine := NewEngine(store, transport, Options{ReplaySystemMessages: tt.replay})
			engine.Send(context.Background(), "c", providerFor("http://unused"), true)

			assert.Equal(t, tt.want, seen.Messages)
		})
	}
}

func TestSend_PassesEndpointAndCredential(t *testing.T) {
	var gotURL, gotKey string
	transport := transportFunc(func(_ context.Context, endpoint, credential string, _ cloud.ChatRequest) ([]byte, error) {
		gotURL, gotKey = endpoint, credential
		return []byte(`{"choices":[{"message":{"content":"ok"}}]}`), nil
	})
	engine := NewEngine(session.NewStore(), transport, Options{})

	engine.Send(context.Background(), "x", model.ProviderConfig{EndpointURL: "https://api.test/v1", Credential: "secret", Model: "m"}, true)

	assert.Equal(t, "https://api.test/v1", gotURL)
	assert.Equal(t, "secret", gotKey)
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestSend_RejectsOverlap(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	transport := transportFunc(func(context.Context, string, string, cloud.ChatRequest) ([]byte, error) {
		close(entered)
		<-release
		return []byte(`{"choices":[{"message":{"content":"late"}}]}`), nil
	})
	store := session.NewStore()
	engine := NewEngine(store, transport, Options{})

	done := make(chan Outcome)
	go func() {
		done <- engine.Send(context.Background(), "first", providerFor("http://x"), true)
	}()
	<-entered

	assert.Equal(t, StateSending, engine.State())
	busy := engine.Send(context.Background(), "second", providerFor("http://x"), true)
	assert.ErrorIs(t, busy.Err, ErrBusy)

	close(release)
	first := <-done
	assert.Equal(t, StateSucceeded, first.State)

	msgs := store.ActiveMessages()
	require.Len(t, msgs, 2, "overlapping send must not touch the transcript")
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "late", msgs[1].Content)
}

func TestSend_ExactlyOneReplyPerExchange(t *testing.T) {
	bodies := []string{
		`{"choices":[{"message":{"content":"one"}}]}`,
		`not json`,
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":"four"}}]}`,
	}
	i := 0
	transport := transportFunc(func(context.Context, string, string, cloud.ChatRequest) ([]byte, error) {
		b := bodies[i]
		i++
		return []byte(b), nil
	})
	store := session.NewStore()
	engine := NewEngine(store, transport, Options{})

	for range bodies {
		engine.Send(context.Background(), "q", providerFor("http://x"), true)
	}

	msgs := store.ActiveMessages()
	require.Len(t, msgs, 2*len(bodies))
	for j := 0; j < len(msgs); j += 2 {
		assert.Equal(t, model.RoleUser, msgs[j].Role)
		assert.NotEqual(t, model.RoleUser, msgs[j+1].Role)
	}
}
