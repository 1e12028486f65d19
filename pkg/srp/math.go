package srp

import (
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/blacktop/pairproto/internal/bigint"
)

// H is the hash primitive used throughout the exchange: SHA-512, 64 bytes
// of output.
func H(parts ...[]byte) []byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Hint hashes parts and interprets the digest as a big-endian integer.
func Hint(parts ...[]byte) *big.Int {
	return bigint.FromBuffer(H(parts...))
}

// PAD left-zero-pads n to KeyBytes bytes, matching RFC 5054's PAD()
// convention, fixed here to the 384-byte width Apple's Pair-Setup variant
// requires rather than a variable prime-field size.
func PAD(n *big.Int) ([]byte, error) {
	buf, err := bigint.ToBuffer(n, KeyBytes)
	if err != nil {
		return nil, fmt.Errorf("srp: PAD: %w", err)
	}
	return buf, nil
}

// multiplierK computes k = H(PAD(N) || PAD(g)).
func multiplierK() (*big.Int, error) {
	padN, err := PAD(N)
	if err != nil {
		return nil, err
	}
	padG, err := PAD(G)
	if err != nil {
		return nil, err
	}
	return Hint(padN, padG), nil
}

// scramblingU computes u = H(PAD(A) || PAD(B)).
func scramblingU(A, B *big.Int) (*big.Int, error) {
	padA, err := PAD(A)
	if err != nil {
		return nil, err
	}
	padB, err := PAD(B)
	if err != nil {
		return nil, err
	}
	return Hint(padA, padB), nil
}

// privateX computes x = H(salt || H(username || ":" || password)).
// The inner hash covers the ASCII bytes of username, a literal colon, and
// the raw bytes of password -- not a PBKDF or any further expansion.
func privateX(salt []byte, username, password string) *big.Int {
	inner := H([]byte(username), []byte(":"), []byte(password))
	return Hint(salt, inner)
}

// clientProofM1 computes Apple's Pair-Setup variant of the SRP client
// proof:
//
//	M1 = H( H(PAD(N)) XOR H(PAD(g)) || H(username) || salt || PAD(A) || PAD(B) || K )
//
// This is deliberately NOT the textbook SRP M = H(A, B, S) construction --
// it hashes K directly rather than re-deriving it from S, and it XORs the
// hashes of N and g the way RFC 2945/Apple's HAP variant does. Do not
// "simplify" this to the textbook form; it will fail to interoperate.
func clientProofM1(username string, salt []byte, A, B *big.Int, K []byte) ([]byte, error) {
	padN, err := PAD(N)
	if err != nil {
		return nil, err
	}
	padG, err := PAD(G)
	if err != nil {
		return nil, err
	}
	padA, err := PAD(A)
	if err != nil {
		return nil, err
	}
	padB, err := PAD(B)
	if err != nil {
		return nil, err
	}

	hN := H(padN)
	hG := H(padG)
	xored := xorBytes(hN, hG)
	if xored == nil {
		return nil, fmt.Errorf("srp: H(N) and H(g) digest lengths differ")
	}

	hUser := H([]byte(username))

	return H(xored, hUser, salt, padA, padB, K), nil
}

func xorBytes(a, b []byte) []byte {
	if len(a) != len(b) {
		return nil
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
