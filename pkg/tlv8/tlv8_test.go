package tlv8

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeEmptyValue(t *testing.T) {
	got := Encode([]Item{{Type: 0x06, Data: nil}})
	require.Equal(t, []byte{0x06, 0x00}, got)
}

func TestEncodeShortValue(t *testing.T) {
	got := Encode([]Item{{Type: 0x01, Data: []byte{0xAA, 0xBB, 0xCC}}})
	require.Equal(t, []byte{0x01, 0x03, 0xAA, 0xBB, 0xCC}, got)
}

// TestFragmentation260Bytes is T4: a 260-byte value fragments into a
// 255-byte record followed by a 5-byte record, both sharing the type.
func TestFragmentation260Bytes(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 260)
	got := Encode([]Item{{Type: 0x05, Data: data}})

	want := append([]byte{0x05, 0xFF}, bytes.Repeat([]byte{0xAB}, 255)...)
	want = append(want, 0x05, 0x05)
	want = append(want, bytes.Repeat([]byte{0xAB}, 5)...)

	require.Equal(t, want, got)
}

func TestFragmentationExactMultipleOf255HasNoTrailingRecord(t *testing.T) {
	data := bytes.Repeat([]byte{0x11}, 510)
	got := Encode([]Item{{Type: 0x02, Data: data}})

	require.Len(t, got, 2*(2+255))
	// Two full 255-byte records, no trailing zero-length record.
	require.Equal(t, byte(0x02), got[0])
	require.Equal(t, byte(0xFF), got[1])
	require.Equal(t, byte(0x02), got[2+255])
	require.Equal(t, byte(0xFF), got[2+255+1])
}

func TestEncodePreservesInputOrder(t *testing.T) {
	got := Encode([]Item{
		{Type: 0x01, Data: []byte{0x01}},
		{Type: 0x02, Data: []byte{0x02}},
		{Type: 0x01, Data: []byte{0x03}},
	})
	require.Equal(t, []byte{0x01, 0x01, 0x01, 0x02, 0x01, 0x02, 0x01, 0x01, 0x03}, got)
}

// TestRoundTripReassemblesFragments is property 3/4: concatenating the
// payload slices of records sharing a type reproduces the original data,
// and full 255-byte chunks precede a shorter (or absent) final chunk.
func TestRoundTripReassemblesFragments(t *testing.T) {
	lengths := []int{0, 1, 254, 255, 256, 509, 510, 511, 1000}
	for _, n := range lengths {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i % 256)
		}
		encoded := Encode([]Item{{Type: 0x09, Data: data}})

		reassembled := []byte{}
		var lastLen = 256
		i := 0
		for i < len(encoded) {
			typ := encoded[i]
			ln := int(encoded[i+1])
			require.Equal(t, byte(0x09), typ)
			payload := encoded[i+2 : i+2+ln]
			reassembled = append(reassembled, payload...)
			if lastLen < 255 {
				t.Fatalf("record after a short record for type %#x", typ)
			}
			lastLen = ln
			i += 2 + ln
		}
		require.Equal(t, data, reassembled)
	}
}
