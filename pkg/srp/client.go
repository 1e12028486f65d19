package srp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/blacktop/pairproto/internal/bigint"
)

// state tracks the client's position in the Fresh -> IdentitySet ->
// KeysGenerated -> SessionReady -> Disposed progression described in the
// core's state-machine contract. KeysGenerated requires both salt and B;
// the order in which ProvideSalt/ProvideServerPublicKey are called does
// not matter. SessionReady is entered lazily, the first time a caller
// asks for something that requires K.
type state int

const (
	stateFresh state = iota
	stateIdentitySet
	stateKeysGenerated
	stateSessionReady
	stateDisposed
)

// Client is a single SRP-6a pairing attempt. It is not safe for concurrent
// use: callers must serialize all method calls on one instance. Multiple
// Clients are fully independent.
//
// Salt and the server's public key are supplied through explicit methods
// that return an error instead of panicking or silently no-op'ing on
// misuse -- ProvideSalt and ProvideServerPublicKey may be called in either
// order, and key generation fires exactly once, as soon as both have
// landed.
type Client struct {
	st state

	username string
	password string

	salt []byte
	B    *big.Int

	a *big.Int
	A *big.Int

	k *big.Int

	S *big.Int
	K []byte
}

// NewClient constructs a fresh SRP client and precomputes k = H(N, PAD(g)).
func NewClient() (*Client, error) {
	k, err := multiplierK()
	if err != nil {
		return nil, fmt.Errorf("srp: NewClient: %w", err)
	}
	return &Client{st: stateFresh, k: k}, nil
}

// SetIdentity stores the trimmed username and raw password for this
// attempt. It may be called before or after ProvideSalt/ProvideServerPublicKey,
// but must be called before ComputeProof or SessionKey.
func (c *Client) SetIdentity(user, pass string) error {
	if c.st == stateDisposed {
		return ErrDisposed
	}
	user = strings.TrimSpace(user)
	if user == "" || pass == "" {
		return ErrEmptyIdentity
	}
	c.username = user
	c.password = pass
	if c.st == stateFresh {
		c.st = stateIdentitySet
	}
	return nil
}

// ProvideSalt stores the server's salt. If the server public key has
// already been provided, this triggers ephemeral key generation.
func (c *Client) ProvideSalt(salt []byte) error {
	if c.st == stateDisposed {
		return ErrDisposed
	}
	if len(salt) == 0 {
		return ErrInvalidSalt
	}
	c.salt = append([]byte(nil), salt...)
	return c.maybeGenerateKeys()
}

// ProvideServerPublicKey validates and stores the server's public key B.
// If the salt has already been provided, this triggers ephemeral key
// generation.
func (c *Client) ProvideServerPublicKey(buf []byte) error {
	if c.st == stateDisposed {
		return ErrDisposed
	}
	if len(buf) != KeyBytes {
		return fmt.Errorf("srp: server public key must be %d bytes, got %d: %w", KeyBytes, len(buf), ErrInvalidServerPublicKey)
	}
	B := bigint.FromBuffer(buf)
	if err := validatePublicKey(B, "B"); err != nil {
		return err
	}
	c.B = B
	return c.maybeGenerateKeys()
}

// validatePublicKey rejects 0, 1, N-1, N, and anything >= N -- i.e.
// enforces 1 < key < N-1 and key mod N != 0 (the latter is implied once
// the range check holds, since key < N already).
func validatePublicKey(key *big.Int, name string) error {
	one := big.NewInt(1)
	nMinus1 := new(big.Int).Sub(N, one)
	if key.Cmp(one) <= 0 || key.Cmp(nMinus1) >= 0 {
		return fmt.Errorf("srp: %s must satisfy 1 < %s < N-1: %w", name, name, ErrInvalidServerPublicKey)
	}
	if new(big.Int).Mod(key, N).Sign() == 0 {
		return fmt.Errorf("srp: %s must not be congruent to 0 mod N: %w", name, ErrInvalidServerPublicKey)
	}
	return nil
}

// maybeGenerateKeys generates (a, A) exactly once, as soon as both salt
// and B are present, regardless of arrival order.
func (c *Client) maybeGenerateKeys() error {
	if c.st != stateFresh && c.st != stateIdentitySet {
		// Keys already generated (or client disposed, already handled by callers).
		return nil
	}
	if c.salt == nil || c.B == nil {
		return nil
	}
	a, A, err := generateEphemeralKeyPair()
	if err != nil {
		return err
	}
	c.a = a
	c.A = A
	c.st = stateKeysGenerated
	return nil
}

// generateEphemeralKeyPair samples a uniformly random 256-bit a by
// rejection sampling: 32 random bytes are drawn from a CSPRNG and rejected
// (not folded back into range) if a == 0, a >= N, or the resulting
// A = g^a mod N falls outside (1, N-1). This bias-free rejection loop
// aborts after maxKeyGenAttempts consecutive rejections.
func generateEphemeralKeyPair() (*big.Int, *big.Int, error) {
	buf := make([]byte, PrivateKeyBits/8)
	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		if _, err := rand.Read(buf); err != nil {
			return nil, nil, fmt.Errorf("srp: reading random bytes for private key: %w", err)
		}
		a := bigint.FromBuffer(buf)
		if a.Sign() == 0 || a.Cmp(N) >= 0 {
			continue
		}
		A := bigint.ModPow(G, a, N)
		one := big.NewInt(1)
		nMinus1 := new(big.Int).Sub(N, one)
		if A.Cmp(one) <= 0 || A.Cmp(nMinus1) >= 0 {
			continue
		}
		return a, A, nil
	}
	return nil, nil, ErrKeyGenerationExhausted
}

// PublicKey returns PAD(A), the client's public ephemeral key, once key
// generation has happened (i.e. both salt and B have been provided).
func (c *Client) PublicKey() ([]byte, error) {
	if c.st == stateDisposed {
		return nil, ErrDisposed
	}
	if c.A == nil {
		return nil, ErrMissingPrerequisite
	}
	return PAD(c.A)
}

// IsReady reports whether salt, B, and the derived keys are all present
// and the client has not been disposed.
func (c *Client) IsReady() bool {
	return c.st != stateDisposed && c.A != nil
}

// HasSessionKey reports whether K has already been computed and the
// client has not been disposed.
func (c *Client) HasSessionKey() bool {
	return c.st != stateDisposed && c.K != nil
}

// ComputeProof computes S and K lazily (at most once) and returns M1, the
// client's authentication proof.
func (c *Client) ComputeProof() ([]byte, error) {
	M1, err := c.computeProofBytes()
	if err != nil {
		return nil, err
	}
	return M1, nil
}

// SessionKey computes S and K lazily (at most once) and returns K.
func (c *Client) SessionKey() ([]byte, error) {
	if _, err := c.computeProofBytes(); err != nil {
		return nil, err
	}
	return c.K, nil
}

// computeProofBytes performs the shared-secret computation exactly once
// (subsequent calls reuse the cached S/K) and returns M1 freshly
// recomputed from the cached K -- M1 itself is cheap enough that caching
// it separately isn't worth the extra state.
func (c *Client) computeProofBytes() ([]byte, error) {
	if c.st == stateDisposed {
		return nil, ErrDisposed
	}
	if c.username == "" || c.salt == nil || c.B == nil || c.A == nil {
		return nil, ErrMissingPrerequisite
	}

	if c.K == nil {
		if err := c.computeSharedSecret(); err != nil {
			return nil, err
		}
		c.st = stateSessionReady
	}

	return clientProofM1(c.username, c.salt, c.A, c.B, c.K)
}

// computeSharedSecret implements:
//
//	u = H(PAD(A), PAD(B))
//	x = H(salt, H(username, ":", password))
//	base = (B - k*g^x mod N) mod N       -- corrected to be non-negative
//	exponent = a + u*x                    -- full-width, NOT reduced mod anything
//	S = base^exponent mod N
//	K = SHA-512(PAD(S))
//
// The negative-modulo correction and the unreduced exponent are both
// mandatory for interoperability with Apple's M1 variant; see math.go.
func (c *Client) computeSharedSecret() error {
	u, err := scramblingU(c.A, c.B)
	if err != nil {
		return err
	}
	if u.Sign() == 0 {
		return fmt.Errorf("srp: derived u is zero: %w", ErrInvalidServerPublicKey)
	}

	x := privateX(c.salt, c.username, c.password)

	gx := bigint.ModPow(G, x, N)
	kgx := new(big.Int).Mul(c.k, gx)
	base := new(big.Int).Sub(c.B, kgx)
	base = bigint.Mod(base, N)

	exponent := new(big.Int).Add(c.a, new(big.Int).Mul(u, x))

	S := bigint.ModPow(base, exponent, N)

	padS, err := PAD(S)
	if err != nil {
		return err
	}

	c.S = S
	c.K = H(padS)
	return nil
}

// Dispose zeroes K, a, A, S, and salt, clears the password and B, and
// marks the client terminally disposed. It is idempotent and never fails,
// even when called on a client in any other state.
func (c *Client) Dispose() {
	if c.st == stateDisposed {
		return
	}
	for i := range c.K {
		c.K[i] = 0
	}
	c.K = nil
	// Go strings are immutable and may have been copied by the runtime
	// (e.g. during a GC compaction or string concatenation elsewhere);
	// dropping the reference is the best this can do without holding the
	// password in a []byte from the start.
	c.password = ""
	zeroBigInt(c.a)
	c.a = nil
	zeroBigInt(c.A)
	c.A = nil
	c.B = nil
	zeroBigInt(c.S)
	c.S = nil
	for i := range c.salt {
		c.salt[i] = 0
	}
	c.salt = nil
	c.st = stateDisposed
}

// zeroBigInt overwrites n's backing word slice with zeroes in place. It is
// a no-op for nil, which happens whenever Dispose runs before key
// generation or the shared-secret computation have populated a, A, or S.
func zeroBigInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
}
