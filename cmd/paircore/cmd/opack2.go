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
	"encoding/hex"
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/pairproto/pkg/opack2"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var opack2Cmd = &cobra.Command{
	Use:   "opack2",
	Short: "Encode a nested fixture document as OPACK2",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture := opack2.Map{
			{Key: "model", Value: "PairCore"},
			{Key: "protocolVersion", Value: 1},
			{Key: "supportedFeatures", Value: opack2.Array{"srp", "tlv8", "opack2"}},
			{Key: "retryCount", Value: 0},
		}

		encoded, err := opack2.Encode(fixture)
		if err != nil {
			return errors.Wrap(err, "encoding fixture document")
		}

		log.WithField("bytes", len(encoded)).Debug("encoded opack2 document")

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %d bytes\n", bold("encoded:"), len(encoded))
		fmt.Printf("%s %s\n", bold("hex:"), hex.EncodeToString(encoded))
		return nil
	},
}
