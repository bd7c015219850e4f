// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
)

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML with embedded CSS.
func (e *HTMLExporter) Export(sess *model.Session) ([]byte, error) {
	if sess == nil {
		return nil, ErrNilSession
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(sess.Name))
	sb.WriteString("<meta name=\"generator\" content=\"rigchat\">\n")
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s\">\n<div class=\"container\">\n", theme)

	if e.options.IncludeMetadata {
		sb.WriteString("<header>\n")
		fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(sess.Name))
		fmt.Fprintf(&sb, "<p class=\"meta\">Session %d &middot; %d messages", sess.ID, len(sess.Messages))
		if e.options.Provider != "" {
			fmt.Fprintf(&sb, " &middot; %s", html.EscapeString(e.options.Provider))
		}
		sb.WriteString("</p>\n</header>\n")
	}

	sb.WriteString("<main>\n")
	for _, msg := range sess.Messages {
		fmt.Fprintf(&sb, "<div class=\"message %s\">\n", msg.Role)
		fmt.Fprintf(&sb, "<div class=\"role\">%s</div>\n", roleLabel(msg.Role))
		sb.WriteString("<div class=\"content\">")
		sb.WriteString(formatHTMLContent(msg.Content))
		sb.WriteString("</div>\n</div>\n")
	}
	sb.WriteString("</main>\n")

	fmt.Fprintf(&sb, "<footer>Exported from rigchat on %s</footer>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("</div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// formatHTMLContent escapes content, then turns fenced and inline code into
// <pre>/<code>. Escaping happens first so nothing in the content becomes markup.
func formatHTMLContent(content string) string {
	content = html.EscapeString(strings.TrimSpace(content))

	var blocks []string
	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		lang, code := parts[1], strings.TrimRight(parts[2], "\n")

		label := ""
		if lang != "" {
			label = fmt.Sprintf("<div class=\"lang\">%s</div>", lang)
		}
		blocks = append(blocks, fmt.Sprintf("<div class=\"code\">%s<pre><code class=\"language-%s\">%s</code></pre></div>", label, lang, code))
		return fmt.Sprintf("\x00%d\x00", len(blocks)-1)
	})

	content = inlineCodeRegex.ReplaceAllString(content, "<code>$1</code>")
	content = strings.ReplaceAll(content, "\n", "<br>\n")

	for i, block := range blocks {
		content = strings.Replace(content, fmt.Sprintf("\x00%d\x00", i), block, 1)
	}
	return content
}

const pageCSS = `<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.6; margin: 0; padding: 24px; }
body.dark { background: #1a1b26; color: #c0caf5; }
body.light { background: #ffffff; color: #24292e; }
.container { max-width: 900px; margin: 0 auto; }
header h1 { margin-bottom: 4px; }
.meta, footer { opacity: 0.7; font-size: 14px; }
.message { border-left: 4px solid; padding: 8px 16px; margin: 16px 0; }
.message.user { border-color: #22863a; }
.message.assistant { border-color: #0366d6; }
.message.system { border-color: #d73a49; }
.role { font-weight: 700; margin-bottom: 4px; }
.user .role { color: #22863a; }
.assistant .role { color: #0366d6; }
.system .role { color: #d73a49; }
.code { margin: 8px 0; }
.lang { font-size: 12px; opacity: 0.7; }
pre { padding: 12px; overflow-x: auto; border-radius: 6px; }
body.dark pre, body.dark code { background: #24283b; }
body.light pre, body.light code { background: #f6f8fa; }
code { font-family: "SF Mono", Monaco, Consolas, monospace; }
footer { margin-top: 32px; }
</style>
`
