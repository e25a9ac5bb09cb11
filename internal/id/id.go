// Package id generates prefixed NanoID identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used across the console.
const (
	// PrefixToken marks admin token ids (the PASETO jti claim).
	PrefixToken = "tok"
	// PrefixClient marks SSE client connections.
	PrefixClient = "cli"
	// PrefixRequest marks request ids echoed in X-Request-Id.
	PrefixRequest = "req"
)

// Generate returns prefix-<21 char nanoid>, e.g. "tok-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system has no entropy.
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// MustGenerate is like Generate but panics on failure.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}
