// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// Fence is the code block delimiter.
const Fence = "```"

// =============================================================================
// SEGMENTS
// =============================================================================

// Segment is a run of message content, either prose or fenced code.
type Segment struct {
	Text     string
	Code     bool
	Language string
}

// SplitSegments splits content on ``` fences. Segments alternate between
// prose and code starting with prose, so an unclosed fence turns the rest of
// the message into code. The first line of a code segment is taken as its
// language when it is a single word.
func SplitSegments(content string) []Segment {
	parts := strings.Split(content, Fence)
	segments := make([]Segment, 0, len(parts))

	for i, part := range parts {
		if i%2 == 0 {
			if part != "" {
				segments = append(segments, Segment{Text: part})
			}
			continue
		}

		lang, code := splitLanguage(part)
		segments = append(segments, Segment{Text: code, Code: true, Language: lang})
	}
	return segments
}

func splitLanguage(part string) (string, string) {
	first, rest, found := strings.Cut(part, "\n")
	if !found {
		return "", part
	}
	first = strings.TrimSpace(first)
	switch {
	case first == "":
		return "", rest
	case strings.ContainsAny(first, " \t"):
		return "", part
	default:
		return first, rest
	}
}

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a rendered code block.
type CodeBlock struct {
	Language  string
	Code      string
	MaxWidth  int
	Highlight bool
}

// NewCodeBlock creates a highlighted code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language:  language,
		Code:      code,
		MaxWidth:  80,
		Highlight: true,
	}
}

// Render renders the code block inside the theme's code frame.
func (c CodeBlock) Render(theme *styles.Theme) string {
	code := strings.Trim(c.Code, "\n")
	if c.Highlight {
		code = highlightCode(code, c.Language)
	}

	width := c.MaxWidth - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	if c.Language != "" {
		b.WriteString(theme.CodeLang.Render(c.Language))
		b.WriteString("\n")
	}
	b.WriteString(theme.CodeBlock.MaxWidth(width).Render(code))
	return b.String()
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies ANSI syntax highlighting. It returns the input
// unchanged when tokenizing or formatting fails.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// DetectLanguage guesses the language of an untagged code block.
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
