// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
)

// backends returns one gateway per BlobStore implementation.
func backends(t *testing.T) map[string]*Gateway {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	db, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "rigchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]*Gateway{
		"file":   NewGateway(fs),
		"sqlite": NewGateway(db),
	}
}

func sampleSessions() []*model.Session {
	return []*model.Session{
		{ID: 0, Name: "Default Session", Messages: []model.Message{
			model.NewUserMessage("hi"),
			model.NewAssistantMessage("Hello!"),
		}},
		{ID: 1, Name: "Session 2", Messages: []model.Message{
			model.NewUserMessage("ping"),
			model.NewSystemMessage("Error: connection refused"),
		}},
		{ID: 1, Name: "after delete", Messages: []model.Message{}},
	}
}

// =============================================================================
// GATEWAY TESTS
// =============================================================================

func TestGateway_LoadMissingIsInformational(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			providers, found, err := gw.LoadProviders(ctx)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, providers)

			sessions, found, err := gw.LoadSessions(ctx)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, sessions)
		})
	}
}

func TestGateway_SessionsRoundTrip(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleSessions()

			require.NoError(t, gw.SaveSessions(ctx, want))

			got, found, err := gw.LoadSessions(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)
		})
	}
}

func TestGateway_ProvidersRoundTrip(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := []model.ProviderConfig{
				{DisplayName: "openai", EndpointURL: "https://api.openai.com/v1/chat/completions", Credential: "sk-1", Model: "gpt-4o"},
				{DisplayName: "local", EndpointURL: "http://localhost:8080/v1/chat/completions", Model: "llama"},
			}

			require.NoError(t, gw.SaveProviders(ctx, want))

			got, found, err := gw.LoadProviders(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)
		})
	}
}

func TestGateway_SaveOverwrites(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, gw.SaveSessions(ctx, sampleSessions()))
			require.NoError(t, gw.SaveSessions(ctx, []*model.Session{model.NewDefaultSession()}))

			got, _, err := gw.LoadSessions(ctx)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, model.DefaultSessionName, got[0].Name)
		})
	}
}

func TestGateway_MalformedIsError(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, gw.Store().Put(ctx, SessionsKey, []byte("{not json")))

			_, found, err := gw.LoadSessions(ctx)
			assert.True(t, found)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestGateway_ReadsOriginalFileFormat(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":0,"name":"Default Session","messages":[{"sender":"user","content":"hi"},{"sender":"API","content":"Hello!"},{"sender":"system","content":"Error: x"}]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SessionsKey), []byte(raw), 0644))

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	sessions, found, err := NewGateway(fs).LoadSessions(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, sessions, 1)
	assert.Equal(t, []model.Message{
		model.NewUserMessage("hi"),
		model.NewAssistantMessage("Hello!"),
		model.NewSystemMessage("Error: x"),
	}, sessions[0].Messages)
}

func TestGateway_WithKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	gw := NewGateway(fs).WithKeys("providers.json", "")

	require.NoError(t, gw.SaveProviders(context.Background(), nil))
	_, err = os.Stat(fs.Path("providers.json"))
	assert.NoError(t, err)
	assert.Equal(t, SessionsKey, gw.SessionsKey())
}

// =============================================================================
// FILE STORE TESTS
// =============================================================================

func TestFileStore_RejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape.json", `a\b`} {
		assert.Error(t, fs.Put(context.Background(), key, []byte("x")), "key %q", key)
	}
}

func TestFileStore_WritesPrivateFiles(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Put(context.Background(), ProvidersKey, []byte("[]")))

	info, err := os.Stat(fs.Path(ProvidersKey))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}
