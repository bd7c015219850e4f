// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a session transcript to a document.
//
// # Supported Formats
//
//   - Markdown: headings per message, YAML frontmatter with session metadata
//   - JSON: the same shape as an entry of sessions.json
//   - HTML: standalone page with the user/assistant/system color scheme
//
// # Usage
//
//	exp, err := export.ForFormat("md", opts)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(sess, exp, opts)
package export
