// Package ident implements the canonical naming rules shared by every
// artifact kind, plus derived hook identities and ephemeral handles.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Normalize maps a raw artifact name onto the canonical identifier
// alphabet: lowercase, any character outside [a-z0-9-] becomes a hyphen,
// and runs of hyphens collapse to one. Idempotent, so normalized names
// pass through unchanged.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	hyphen := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen {
				b.WriteByte('-')
			}
			hyphen = true
		}
	}
	return b.String()
}

// HookID derives the structural identity of one hook action from its
// phase, matcher and command. It is recomputed on every read, never
// stored.
func HookID(phase, matcher, command string) string {
	sum := sha256.Sum256([]byte(phase + "\x00" + matcher + "\x00" + command))
	return hex.EncodeToString(sum[:8])
}

// NewHandle returns a fresh sortable id for transient objects that live
// for a single notification cycle. Handles are never persisted.
func NewHandle() string {
	return ulid.Make().String()
}
