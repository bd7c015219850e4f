// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider holds the user-editable list of API endpoints.
//
// Providers are addressed by position. There is no per-provider update or
// delete; the list is only ever appended to or replaced wholesale (startup
// load, or an external edit picked up by the storage watcher).
package provider
