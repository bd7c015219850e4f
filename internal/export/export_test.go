// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/rigchat/internal/model"
)

func testSession() *model.Session {
	s := model.NewSession(3, "Go questions")
	s.Append(model.NewUserMessage("How do I reverse a slice?"))
	s.Append(model.NewAssistantMessage("Use `slices.Reverse`:\n\n```go\nslices.Reverse(s)\n```"))
	s.Append(model.NewSystemMessage("Invalid response format"))
	return s
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{IncludeMetadata: true, Provider: "OpenAI - https://api.openai.com"}).Export(testSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"title: Go questions",
		"session_id: 3",
		"provider: \"OpenAI - https://api.openai.com\"",
		"# Go questions",
		"### User",
		"### Assistant",
		"### System",
		"```go\nslices.Reverse(s)\n```",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExport_EmptySession(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{}).Export(model.NewDefaultSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), "No messages") {
		t.Error("empty session should say so")
	}
	if strings.HasPrefix(string(out), "---") {
		t.Error("frontmatter written without IncludeMetadata")
	}
}

// TestYAMLNewlineInjection tests that newlines in names cannot add frontmatter keys.
func TestYAMLNewlineInjection(t *testing.T) {
	s := model.NewSession(0, "Test\nInjection: malicious")
	out, _ := NewMarkdownExporter(nil).Export(s)

	if strings.Contains(string(out), "\nInjection: malicious\n") {
		t.Error("newline in session name leaked into frontmatter")
	}
}

func TestJSONExport_MatchesSessionFile(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(testSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded model.Session
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != 3 || decoded.Name != "Go questions" || len(decoded.Messages) != 3 {
		t.Errorf("unexpected decode: %+v", decoded)
	}
	if !strings.Contains(string(out), `"sender": "API"`) {
		t.Error("assistant sender should be stored as API")
	}
}

// TestHTMLEscaping tests that content and language names are escaped.
func TestHTMLEscaping(t *testing.T) {
	s := model.NewSession(0, "<b>name</b>")
	s.Append(model.NewAssistantMessage("```<script>alert('xss')</script>\ncode here\n```"))
	s.Append(model.NewUserMessage("<img src=x onerror=alert(1)>"))

	out, err := NewHTMLExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	if strings.Contains(result, "<script>alert") || strings.Contains(result, "<img src=x") {
		t.Error("unescaped markup in HTML output")
	}
	if !strings.Contains(result, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if !strings.Contains(result, "&lt;b&gt;name&lt;/b&gt;") {
		t.Error("expected escaped title")
	}
}

func TestHTMLCodeBlocks(t *testing.T) {
	out, _ := NewHTMLExporter(&Options{Theme: "light"}).Export(testSession())
	result := string(out)

	if !strings.Contains(result, `<code class="language-go">slices.Reverse(s)</code>`) {
		t.Error("fenced code block not converted")
	}
	if !strings.Contains(result, "<code>slices.Reverse</code>") {
		t.Error("inline code not converted")
	}
	if !strings.Contains(result, `<body class="light">`) {
		t.Error("theme not applied")
	}
	if !strings.Contains(result, `class="message system"`) {
		t.Error("system message class missing")
	}
}

func TestNilSession(t *testing.T) {
	for _, exp := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil), NewHTMLExporter(nil)} {
		if _, err := exp.Export(nil); !errors.Is(err, ErrNilSession) {
			t.Errorf("%T: err = %v, want ErrNilSession", exp, err)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"md", ".md"},
		{"Markdown", ".md"},
		{".json", ".json"},
		{"html", ".html"},
	}
	for _, tt := range tests {
		exp, err := ForFormat(tt.format, nil)
		if err != nil {
			t.Errorf("ForFormat(%q): %v", tt.format, err)
			continue
		}
		if exp.FileExtension() != tt.ext {
			t.Errorf("ForFormat(%q) ext = %s, want %s", tt.format, exp.FileExtension(), tt.ext)
		}
	}

	if _, err := ForFormat("pdf", nil); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{OutputDir: filepath.Join(dir, "out")}

	path, err := ExportToFile(testSession(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "session_Go_questions_") || filepath.Ext(path) != ".md" {
		t.Errorf("unexpected file name %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

// TestFilenameSanitization tests that unsafe characters are replaced.
func TestFilenameSanitization(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"normal", "normal"},
		{"with spaces", "with_spaces"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "session"},
		{"tab\there", "tab_here"},
		{"Cafe\u0301 notes", "Caf\u00e9_notes"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := sanitizeFilename(strings.Repeat("x", 80)); len([]rune(got)) > 50 {
		t.Errorf("sanitized name too long: %d", len(got))
	}
}
