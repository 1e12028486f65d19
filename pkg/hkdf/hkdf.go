// Package hkdf exposes HMAC-based key derivation (RFC 5869) using SHA-512,
// sized to the 64-byte output the outer Pair-Setup/Pair-Verify layer uses
// to derive per-session encryption keys from the SRP session key K. SRP
// itself never calls into this package -- per the core's contract, HKDF is
// exposed for the outer pairing state machine, not consumed internally.
package hkdf

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Size is the fixed output length this package produces: one SHA-512
// digest's worth (64 bytes) of derived key material.
const Size = sha512.Size

// Sha512 derives Size bytes of key material from secret, salt, and info
// using HKDF-SHA512.
func Sha512(secret, salt, info []byte) ([]byte, error) {
	r := hkdf.New(sha512.New, secret, salt, info)
	out := make([]byte, Size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf: expand: %w", err)
	}
	return out, nil
}
