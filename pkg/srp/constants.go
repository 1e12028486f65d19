// Package srp implements the client half of SRP-6a (RFC 5054) fixed to the
// 3072-bit safe prime group, using the variant of the protocol Apple's
// Pair-Setup handshake expects: SHA-512 throughout, and an M1 proof built
// from K directly rather than from the raw shared secret S.
//
// This package does not implement the SRP server, does not perform network
// I/O, and holds no state beyond a single pairing attempt's Client.
package srp

import "math/big"

// KeyBytes is the byte length of N, and therefore the width PAD() gives
// every group element (A, B, S) exchanged or hashed big-endian. K is a
// SHA-512 digest and is 64 bytes, not KeyBytes.
const KeyBytes = 384

// PrivateKeyBits is the bit length of the client's ephemeral private
// exponent a, sampled uniformly by rejection sampling.
const PrivateKeyBits = 256

// DefaultUsername is the identity Apple's Pair-Setup protocol hard-codes
// for the SRP exchange; it is not the device's real username.
const DefaultUsername = "Pair-Setup"

// maxKeyGenAttempts bounds the rejection-sampling loop used to pick a.
const maxKeyGenAttempts = 100

// n3072Hex is the RFC 5054 Appendix A 3072-bit safe prime.
const n3072Hex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3BE39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF6955817183995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E208E24FA074E5AB3143DB5BFCE0FD108E4B82D120A93AD2CAFFFFFFFFFFFFFFFF"

// N is the fixed 3072-bit safe prime modulus. G is the group generator.
// Both are process-wide constants; never mutate the values they point to.
var (
	N = mustParseHex(n3072Hex)
	G = big.NewInt(5)
)

func mustParseHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("srp: failed to parse embedded RFC 5054 3072-bit prime")
	}
	return n
}
