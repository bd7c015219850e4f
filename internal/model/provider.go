// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// =============================================================================
// PROVIDER CONFIG
// =============================================================================

// ProviderConfig describes a remote chat-completions endpoint.
// Providers have no id of their own; they are addressed by registry position.
type ProviderConfig struct {
	DisplayName string `json:"api_name"`
	EndpointURL string `json:"api_url"`
	Credential  string `json:"api_key"`
	Model       string `json:"model"`
}

// Validation errors for provider configs.
var (
	ErrProviderNameMissing  = errors.New("provider name is required")
	ErrProviderURLInvalid   = errors.New("provider URL must be an absolute http or https URL")
	ErrProviderModelMissing = errors.New("provider model is required")
)

// Label returns the "<name> - <url>" form used by provider pickers.
func (p ProviderConfig) Label() string {
	return fmt.Sprintf("%s - %s", p.DisplayName, p.EndpointURL)
}

// Validate checks the fields a request cannot be built without.
// An empty credential is allowed; some local endpoints need none.
func (p ProviderConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(p.DisplayName) == "" {
		errs = append(errs, ErrProviderNameMissing)
	}
	u, err := url.Parse(strings.TrimSpace(p.EndpointURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ErrProviderURLInvalid)
	}
	if strings.TrimSpace(p.Model) == "" {
		errs = append(errs, ErrProviderModelMissing)
	}
	return errors.Join(errs...)
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (p ProviderConfig) Normalized() ProviderConfig {
	return ProviderConfig{
		DisplayName: strings.TrimSpace(p.DisplayName),
		EndpointURL: strings.TrimSpace(p.EndpointURL),
		Credential:  strings.TrimSpace(p.Credential),
		Model:       strings.TrimSpace(p.Model),
	}
}

// Fingerprint returns a short SHA-256 fingerprint of a credential for
// logs and listings, or "none" when it is empty.
func Fingerprint(credential string) string {
	if credential == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(credential))
	return "sha256:" + hex.EncodeToString(h[:4])
}

// CredentialFingerprint returns the Fingerprint of the credential. The
// credential itself never leaves this struct except in the auth header.
func (p ProviderConfig) CredentialFingerprint() string {
	return Fingerprint(p.Credential)
}

// MaskedCredential returns a display-safe representation of the credential.
func (p ProviderConfig) MaskedCredential() string {
	if p.Credential == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, fingerprint=%s]", p.CredentialFingerprint())
}
