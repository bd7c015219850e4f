// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_WireRole(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "user"},
		{RoleAssistant, "assistant"},
		{RoleSystem, "assistant"},
	}

	for _, tt := range tests {
		if got := tt.role.WireRole(); got != tt.want {
			t.Errorf("%s.WireRole() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestRoleFromSender(t *testing.T) {
	tests := []struct {
		sender string
		want   Role
	}{
		{"user", RoleUser},
		{"API", RoleAssistant},
		{"system", RoleSystem},
		{"assistant", RoleAssistant},
		{"something-else", RoleAssistant},
	}

	for _, tt := range tests {
		if got := RoleFromSender(tt.sender); got != tt.want {
			t.Errorf("RoleFromSender(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_MarshalUsesSenderField(t *testing.T) {
	data, err := json.Marshal(NewAssistantMessage("Hello!"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"sender":"API","content":"Hello!"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage(errors.New("connection refused"))
	if msg.Role != RoleSystem {
		t.Errorf("Role = %q, want system", msg.Role)
	}
	if msg.Content != "Error: connection refused" {
		t.Errorf("Content = %q", msg.Content)
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSession_DefaultName(t *testing.T) {
	s := NewSession(2, "")
	if s.Name != "Session 3" {
		t.Errorf("Name = %q, want %q", s.Name, "Session 3")
	}
	if s.Messages == nil {
		t.Error("Messages should be an empty slice, not nil")
	}

	named := NewSession(0, "Research")
	if named.Name != "Research" {
		t.Errorf("Name = %q, want Research", named.Name)
	}
}

func TestSession_RoundTrip(t *testing.T) {
	sessions := []*Session{
		{ID: 0, Name: "Default Session", Messages: []Message{
			NewUserMessage("hi"),
			NewAssistantMessage("Hello!"),
			NewSystemMessage("Error: boom"),
		}},
		{ID: 1, Name: "Session 2", Messages: []Message{}},
		{ID: 1, Name: "duplicate id", Messages: []Message{NewUserMessage("multi\nline")}},
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded []*Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(decoded) != len(sessions) {
		t.Fatalf("decoded %d sessions, want %d", len(decoded), len(sessions))
	}
	for i := range sessions {
		want, got := sessions[i], decoded[i]
		if got.ID != want.ID || got.Name != want.Name {
			t.Errorf("session %d = (%d, %q), want (%d, %q)", i, got.ID, got.Name, want.ID, want.Name)
		}
		if len(got.Messages) != len(want.Messages) {
			t.Fatalf("session %d has %d messages, want %d", i, len(got.Messages), len(want.Messages))
		}
		for j := range want.Messages {
			if got.Messages[j] != want.Messages[j] {
				t.Errorf("session %d message %d = %+v, want %+v", i, j, got.Messages[j], want.Messages[j])
			}
		}
	}
}

func TestSession_ResetAndClone(t *testing.T) {
	s := NewSession(0, "work")
	s.Append(NewUserMessage("one"))

	clone := s.Clone()
	s.Reset(DefaultSessionName)

	if !s.IsEmpty() || s.Name != DefaultSessionName {
		t.Errorf("Reset left %d messages, name %q", s.Len(), s.Name)
	}
	if clone.Len() != 1 || clone.Name != "work" {
		t.Errorf("Clone was affected by Reset: %+v", clone)
	}
}

func TestSession_PreviewAndLast(t *testing.T) {
	s := NewSession(0, "")
	if _, ok := s.LastMessage(); ok {
		t.Error("LastMessage on empty session should report false")
	}

	s.Append(NewSystemMessage("Error: x"))
	s.Append(NewUserMessage("first\nquestion"))
	s.Append(NewAssistantMessage("answer"))

	if got := s.Preview(); got != "first question" {
		t.Errorf("Preview = %q", got)
	}
	last, ok := s.LastOfRole(RoleAssistant)
	if !ok || last.Content != "answer" {
		t.Errorf("LastOfRole(assistant) = %+v, %v", last, ok)
	}
}

// =============================================================================
// PROVIDER TESTS
// =============================================================================

func TestProviderConfig_Validate(t *testing.T) {
	valid := ProviderConfig{
		DisplayName: "openai",
		EndpointURL: "https://api.openai.com/v1/chat/completions",
		Credential:  "sk-test",
		Model:       "gpt-3.5-turbo",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := ProviderConfig{EndpointURL: "not a url"}
	err := bad.Validate()
	for _, want := range []error{ErrProviderNameMissing, ErrProviderURLInvalid, ErrProviderModelMissing} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() = %v, want it to include %v", err, want)
		}
	}
}

func TestProviderConfig_JSONFieldNames(t *testing.T) {
	p := ProviderConfig{DisplayName: "n", EndpointURL: "u", Credential: "k", Model: "m"}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"api_name":"n","api_url":"u","api_key":"k","model":"m"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestProviderConfig_Label(t *testing.T) {
	p := ProviderConfig{DisplayName: "local", EndpointURL: "http://localhost:8080"}
	if got := p.Label(); got != "local - http://localhost:8080" {
		t.Errorf("Label = %q", got)
	}
	if p.MaskedCredential() != "[not set]" {
		t.Errorf("MaskedCredential = %q", p.MaskedCredential())
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint(""); got != "none" {
		t.Errorf("Fingerprint(\"\") = %q, want none", got)
	}

	fp := Fingerprint("sk-secret")
	if !strings.HasPrefix(fp, "sha256:") || strings.Contains(fp, "secret") {
		t.Errorf("Fingerprint = %q", fp)
	}
	if fp != Fingerprint("sk-secret") {
		t.Error("Fingerprint is not deterministic")
	}

	p := ProviderConfig{Credential: "sk-secret"}
	if p.CredentialFingerprint() != fp {
		t.Errorf("CredentialFingerprint = %q, want %q", p.CredentialFingerprint(), fp)
	}
	if !strings.Contains(p.MaskedCredential(), fp) {
		t.Errorf("MaskedCredential = %q", p.MaskedCredential())
	}
}
