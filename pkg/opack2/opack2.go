// Package opack2 implements an encoder for OPACK2, the compact
// type-tagged binary format Apple's XPC transport uses to carry
// structured payloads. Only encoding is implemented -- decoding is out
// of scope for this core.
//
// The encoder dispatches on Go's native types plus the two container
// types this package defines (Array and Map, the latter ordered since
// OPACK2 dictionaries must round-trip in insertion order). It is a pure
// function of its input: no I/O, no shared state, safe to call
// concurrently from multiple goroutines because each call owns its own
// buffer.
package opack2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Errors returned by Encode for values this format cannot represent.
var (
	// ErrUnsupportedType is returned for any value that isn't one of the
	// supported scalar, string, byte-slice, Array, or Map shapes (e.g.
	// functions, channels, or arbitrary structs).
	ErrUnsupportedType = fmt.Errorf("opack2: unsupported value type")

	// ErrNumberOutOfRange is returned for an integer magnitude beyond
	// 2^53-1, the largest value OPACK2's tagged-integer forms cover.
	ErrNumberOutOfRange = fmt.Errorf("opack2: number exceeds 2^53-1")

	// ErrLengthOutOfRange is returned when a string, byte slice, array,
	// or map length exceeds 2^32-1.
	ErrLengthOutOfRange = fmt.Errorf("opack2: length exceeds 2^32-1")
)

// maxSafeInteger is 2^53-1, the largest magnitude OPACK2's integer forms
// can carry; larger non-negative integers are rejected with
// ErrNumberOutOfRange.
const maxSafeInteger = (int64(1) << 53) - 1

// KV is one key/value entry of an ordered Map.
type KV struct {
	Key   string
	Value any
}

// Map is an ordered string-keyed mapping. Plain Go maps are not used for
// OPACK2 payloads because map iteration order is unspecified in Go and
// OPACK2 peers expect a deterministic, insertion-ordered encoding.
type Map []KV

// Array is an ordered list of OPACK2 values.
type Array []any

// Encode renders value as an OPACK2 byte sequence. value must be nil, a
// bool, a supported numeric type (see encodeNumber), a string, a []byte,
// an Array, or a Map (recursively, for the latter two). Any other type
// returns ErrUnsupportedType.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteByte(0x03)
		return nil
	case bool:
		if v {
			buf.WriteByte(0x01)
		} else {
			buf.WriteByte(0x02)
		}
		return nil
	case string:
		return encodeString(buf, v)
	case []byte:
		return encodeBytes(buf, v)
	case Array:
		return encodeArray(buf, v)
	case []any:
		return encodeArray(buf, Array(v))
	case Map:
		return encodeMap(buf, v)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return encodeNumber(buf, v)
	default:
		return fmt.Errorf("opack2: value of type %T: %w", value, ErrUnsupportedType)
	}
}

// encodeNumber implements the Number encoding rules below: any negative or
// non-integer value is emitted as a 4-byte little-endian float32 behind
// marker 0x35 (a deliberately lossy, format-mandated choice). Non-negative
// integers are emitted in the narrowest of four tagged forms by magnitude,
// or rejected once they exceed 2^53-1.
func encodeNumber(buf *bytes.Buffer, value any) error {
	if f, needsFloatForm, isFloatType := asFloat(value); isFloatType {
		if needsFloatForm {
			return encodeFloat32Form(buf, f)
		}
		// An integral, non-negative float (e.g. float64(5.0)): falls
		// through to the same tagged-integer forms an int would use.
		return encodeUintForm(buf, uint64(f))
	}

	i, negative, ok := asInt64(value)
	if !ok {
		// Unsigned value too large to fit in int64 (a uint or uint64
		// above math.MaxInt64): still representable as a non-negative
		// integer.
		switch u := value.(type) {
		case uint64:
			return encodeUintForm(buf, u)
		case uint:
			return encodeUintForm(buf, uint64(u))
		}
		return fmt.Errorf("opack2: value of type %T: %w", value, ErrUnsupportedType)
	}
	if negative {
		return encodeFloat32Form(buf, float64(i))
	}
	return encodeUintForm(buf, uint64(i))
}

// asFloat reports whether value is one of the float types and, if so,
// whether it needs the lossy float32 escape (non-integral or negative).
func asFloat(value any) (f float64, needsFloatForm bool, handled bool) {
	switch v := value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return 0, false, false
	}
	needsFloatForm = f < 0 || f != math.Trunc(f)
	return f, needsFloatForm, true
}

// asInt64 reports value as an int64 (and its sign) for every signed and
// unsigned integer kind that fits; ok is false for a uint or uint64 too
// large to fit in int64, and for any non-integer type.
func asInt64(value any) (i int64, negative bool, ok bool) {
	switch v := value.(type) {
	case int:
		i = int64(v)
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false, false
		}
		i = int64(v)
	case uint8:
		i = int64(v)
	case uint16:
		i = int64(v)
	case uint32:
		i = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, false, false
		}
		i = int64(v)
	default:
		return 0, false, false
	}
	return i, i < 0, true
}

func encodeFloat32Form(buf *bytes.Buffer, f float64) error {
	buf.WriteByte(0x35)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(f)))
	buf.Write(b[:])
	return nil
}

func encodeUintForm(buf *bytes.Buffer, v uint64) error {
	switch {
	case v <= 39:
		buf.WriteByte(byte(v) + 0x08)
	case v <= 0xFF:
		buf.WriteByte(0x30)
		buf.WriteByte(byte(v))
	case v <= 0xFFFFFFFF:
		buf.WriteByte(0x32)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf.Write(b[:])
	case v <= uint64(maxSafeInteger):
		buf.WriteByte(0x33)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	default:
		return ErrNumberOutOfRange
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	data := []byte(s)
	n := uint64(len(data))
	switch {
	case n <= 0x20:
		buf.WriteByte(0x40 + byte(n))
	case n <= 0xFF:
		buf.WriteByte(0x61)
		buf.WriteByte(byte(n))
	case n <= 0xFFFF:
		buf.WriteByte(0x62)
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case n <= 0xFFFFFFFF:
		buf.WriteByte(0x63)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	default:
		return ErrLengthOutOfRange
	}
	buf.Write(data)
	return nil
}

func encodeBytes(buf *bytes.Buffer, data []byte) error {
	n := uint64(len(data))
	switch {
	case n <= 0xFF:
		buf.WriteByte(0x70)
		buf.WriteByte(byte(n))
	case n <= 0xFFFF:
		buf.WriteByte(0x91)
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case n <= 0xFFFFFFFF:
		buf.WriteByte(0x92)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	default:
		return ErrLengthOutOfRange
	}
	buf.Write(data)
	return nil
}

func encodeArray(buf *bytes.Buffer, arr Array) error {
	n := len(arr)
	if uint64(n) > 0xFFFFFFFF {
		return ErrLengthOutOfRange
	}
	if n <= 15 {
		buf.WriteByte(0xD0 + byte(n))
		for _, elem := range arr {
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		return nil
	}
	buf.WriteByte(0xDF)
	for _, elem := range arr {
		if err := encodeValue(buf, elem); err != nil {
			return err
		}
	}
	buf.WriteByte(0x03)
	return nil
}

// encodeMap uses an intentionally asymmetric small-form threshold: arrays
// switch to the sentinel-terminated form above 15 elements (L <= 15 stays
// small), but maps switch above 14 (L < 15 stays small). This is not a
// typo -- it matches the peer's expected cutoff and must not be
// "corrected" to match the array threshold.
func encodeMap(buf *bytes.Buffer, m Map) error {
	n := len(m)
	if uint64(n) > 0xFFFFFFFF {
		return ErrLengthOutOfRange
	}
	if n < 15 {
		buf.WriteByte(0xE0 + byte(n))
		for _, kv := range m {
			if err := encodeValue(buf, kv.Key); err != nil {
				return err
			}
			if err := encodeValue(buf, kv.Value); err != nil {
				return err
			}
		}
		return nil
	}
	buf.WriteByte(0xEF)
	for _, kv := range m {
		if err := encodeValue(buf, kv.Key); err != nil {
			return err
		}
		if err := encodeValue(buf, kv.Value); err != nil {
			return err
		}
	}
	buf.WriteByte(0x03)
	buf.WriteByte(0x03)
	return nil
}
