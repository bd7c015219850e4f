// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange turns one user utterance into one API round trip and
// folds the result back into the active transcript.
//
// # States
//
//	Idle -> Sending -> Succeeded
//	                -> Failed
//
// Send without a provider stays Idle and changes nothing. Otherwise the user
// text is appended, the full transcript is sent (user entries as "user",
// everything else as "assistant"), and exactly one reply entry follows:
//
//   - Assistant(content) for choices[0].message.content
//   - System("Invalid response format") for any other body
//   - System("Error: <cause>") when no body was obtained
//
// There are no retries and no streaming.
package exchange
