// Package tlv8 implements the fragmenting TLV8 encoder HomeKit-style
// Pair-Setup messages use to frame their fields: each record is
// [type:1][length:1][payload:length], and any value longer than 255
// bytes is split across consecutive records sharing the same type, all
// but the last carrying exactly 255 bytes.
//
// Unlike the Matter TLV encoder this package takes its writer-oriented
// shape from (pkg/tlv in the examples pack), TLV8's length field is a
// single byte with no tag addressing at all -- there is no control octet,
// no container nesting, and no type-width selection. The encoder here is
// a pure function of its input and performs no I/O.
package tlv8

import "bytes"

// maxChunk is the largest payload a single TLV8 record can carry.
const maxChunk = 255

// Item is a single (type, data) pairing-message field. Items with the
// same Type in an input slice are continuations of one logical value, not
// duplicates to be merged by the encoder -- Encode never reorders or
// coalesces input items.
type Item struct {
	Type byte
	Data []byte
}

// Encode renders items as a flat concatenation of TLV8 records, emitted
// in input order. A value whose Data is empty produces a single
// zero-length record. A value longer than 255 bytes is fragmented into
// consecutive maxChunk-byte records followed by one record carrying the
// remainder; if the remainder is exactly maxChunk bytes no extra
// zero-length terminator record is appended -- decoders identify the
// final fragment of a value by a length byte less than 255.
func Encode(items []Item) []byte {
	var buf bytes.Buffer
	for _, it := range items {
		encodeItem(&buf, it)
	}
	return buf.Bytes()
}

func encodeItem(buf *bytes.Buffer, it Item) {
	if len(it.Data) == 0 {
		buf.WriteByte(it.Type)
		buf.WriteByte(0)
		return
	}
	for off := 0; off < len(it.Data); off += maxChunk {
		end := off + maxChunk
		if end > len(it.Data) {
			end = len(it.Data)
		}
		chunk := it.Data[off:end]
		buf.WriteByte(it.Type)
		buf.WriteByte(byte(len(chunk)))
		buf.Write(chunk)
	}
}
