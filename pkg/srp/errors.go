package srp

import "errors"

// Error kinds per the SRP validation contract. Callers should compare
// against these with errors.Is: some are returned as-is, others wrapped
// with additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrDisposed is returned by every operation (other than Dispose,
	// IsReady, and HasSessionKey) once the client has been disposed.
	ErrDisposed = errors.New("srp: client has been disposed")

	// ErrEmptyIdentity is returned by SetIdentity when user or pass is
	// empty (after trimming the username).
	ErrEmptyIdentity = errors.New("srp: username and password must be non-empty")

	// ErrInvalidSalt is returned by ProvideSalt when salt is empty.
	ErrInvalidSalt = errors.New("srp: salt must be non-empty")

	// ErrInvalidServerPublicKey is returned by ProvideServerPublicKey when
	// the buffer is not exactly KeyBytes long, or the integer it encodes
	// falls outside (1, N-1), or is congruent to 0 mod N.
	ErrInvalidServerPublicKey = errors.New("srp: server public key B is malformed or out of range")

	// ErrMissingPrerequisite is returned by PublicKey, ComputeProof, and
	// SessionKey when required state (identity, salt, B) has not yet been
	// provided.
	ErrMissingPrerequisite = errors.New("srp: required identity, salt, or server public key not yet provided")

	// ErrKeyGenerationExhausted is returned by the internal key-generation
	// step if maxKeyGenAttempts consecutive candidates for 'a' are
	// rejected.
	ErrKeyGenerationExhausted = errors.New("srp: exhausted key generation attempts")
)
