// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidFormat is returned when a body does not carry a reply at
// choices[0].message.content. Its text is shown to the user verbatim.
var ErrInvalidFormat = errors.New("Invalid response format")

// replyEnvelope mirrors only the path we read. RawMessage lets us tell a
// missing content field from a non-string one.
type replyEnvelope struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ParseReply extracts choices[0].message.content from a chat-completions body.
// Any other shape, including API error objects, yields ErrInvalidFormat.
func ParseReply(body []byte) (string, error) {
	var env replyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", ErrInvalidFormat
	}
	if len(env.Choices) == 0 {
		return "", ErrInvalidFormat
	}
	raw := env.Choices[0].Message.Content
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrInvalidFormat
	}

	var content string
	if err := json.Unmarshal(raw, &content); err != nil {
		return "", ErrInvalidFormat
	}
	return content, nil
}
