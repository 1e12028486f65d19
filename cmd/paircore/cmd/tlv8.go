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
	"github.com/blacktop/pairproto/pkg/tlv8"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tlv8FragmentSize int

func init() {
	tlv8Cmd.Flags().IntVar(&tlv8FragmentSize, "size", 260, "size in bytes of the fixture value to encode")
}

var tlv8Cmd = &cobra.Command{
	Use:   "tlv8",
	Short: "Encode a fixture value as TLV8, demonstrating fragmentation above 255 bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		value := make([]byte, tlv8FragmentSize)
		for i := range value {
			value[i] = byte(i % 256)
		}

		encoded := tlv8.Encode([]tlv8.Item{
			{Type: 0x06, Data: []byte{0x03}}, // kTLVType_State, M3-style
			{Type: 0x0A, Data: value},        // kTLVType_EncryptedData-style fixture payload
		})

		log.WithField("bytes", len(encoded)).Debug("encoded tlv8 stream")

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %d bytes\n", bold("input value:"), tlv8FragmentSize)
		fmt.Printf("%s %d bytes\n", bold("encoded:"), len(encoded))
		fmt.Printf("%s %s\n", bold("hex:"), hex.EncodeToString(encoded))
		return nil
	},
}
