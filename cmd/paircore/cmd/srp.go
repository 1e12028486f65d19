/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/apex/log"
	"github.com/blacktop/pairproto/pkg/srp"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var srpPassword string

func init() {
	srpCmd.Flags().StringVar(&srpPassword, "password", "000000", "setup code to authenticate with")
}

var srpCmd = &cobra.Command{
	Use:   "srp",
	Short: "Run a loopback Pair-Setup SRP-6a exchange against an in-process verifier",
	Long: `Drives pkg/srp.Client through a full exchange against a verifier
built in this command, printing the salt and the resulting A, K, and M1. There is
no live device involved: this exists to give operators and CI a quick
sanity check that the core's math still agrees with itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := uuid.NewString()
		log.WithField("session", sessionID).Debug("starting loopback SRP exchange")

		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return errors.Wrap(err, "generating salt")
		}

		B, err := serverPublicKeyFor(srp.DefaultUsername, srpPassword, salt)
		if err != nil {
			return errors.Wrap(err, "computing verifier-derived server public key")
		}
		Bbuf, err := srp.PAD(B)
		if err != nil {
			return errors.Wrap(err, "padding server public key")
		}

		client, err := srp.NewClient()
		if err != nil {
			return errors.Wrap(err, "constructing srp client")
		}
		defer client.Dispose()

		if err := client.SetIdentity(srp.DefaultUsername, srpPassword); err != nil {
			return errors.Wrap(err, "setting identity")
		}
		if err := client.ProvideSalt(salt); err != nil {
			return errors.Wrap(err, "providing salt")
		}
		if err := client.ProvideServerPublicKey(Bbuf); err != nil {
			return errors.Wrap(err, "providing server public key")
		}

		A, err := client.PublicKey()
		if err != nil {
			return errors.Wrap(err, "reading client public key")
		}
		K, err := client.SessionKey()
		if err != nil {
			return errors.Wrap(err, "computing session key")
		}
		M1, err := client.ComputeProof()
		if err != nil {
			return errors.Wrap(err, "computing proof")
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n", bold("session:"), sessionID)
		fmt.Printf("%s %s\n", bold("salt:"), hex.EncodeToString(salt))
		fmt.Printf("%s %s\n", bold("A:"), hex.EncodeToString(A))
		fmt.Printf("%s %s\n", bold("K:"), hex.EncodeToString(K))
		fmt.Printf("%s %s\n", bold("M1:"), hex.EncodeToString(M1))

		log.WithField("session", sessionID).Info("srp exchange complete")
		return nil
	},
}

// serverPublicKeyFor builds a verifier the way an SRP-6a server would --
// v = g^x mod N, B = (k*v + g^b) mod N for a random ephemeral b -- purely
// so this harness has something to hand the client. This is demo
// scaffolding, not a server implementation: pkg/srp only ever implements
// the client half.
func serverPublicKeyFor(username, password string, salt []byte) (*big.Int, error) {
	x := srp.Hint(salt, srp.H([]byte(username), []byte(":"), []byte(password)))
	v := new(big.Int).Exp(srp.G, x, srp.N)

	bBuf := make([]byte, srp.PrivateKeyBits/8)
	if _, err := rand.Read(bBuf); err != nil {
		return nil, err
	}
	b := new(big.Int).SetBytes(bBuf)

	padBigN, err := srp.PAD(srp.N)
	if err != nil {
		return nil, err
	}
	padG, err := srp.PAD(srp.G)
	if err != nil {
		return nil, err
	}
	k := srp.Hint(padBigN, padG)

	gb := new(big.Int).Exp(srp.G, b, srp.N)
	kv := new(big.Int).Mul(k, v)
	B := new(big.Int).Mod(new(big.Int).Add(kv, gb), srp.N)
	return B, nil
}
