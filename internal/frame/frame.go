package frame

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Mode-S frame sizes
const (
	ShortBits  = 56
	LongBits   = 112
	ShortBytes = ShortBits / 8
	LongBytes  = LongBits / 8
	ShortHex   = ShortBits / 4
	LongHex    = LongBits / 4
	ParityBits = 24
)

// ErrMalformed is returned for input that is not a 56 or 112 bit hex frame
var ErrMalformed = errors.New("malformed message")

// Frame is an immutable Mode-S downlink frame. Bit positions used by the
// accessors are 1-based, counted from the most significant bit of the first
// byte, matching the numbering of the Mode-S documents.
type Frame struct {
	hex  string
	data []byte
}

// Parse validates a hexadecimal message string and returns the frame.
func Parse(msg string) (Frame, error) {
	if len(msg) != ShortHex && len(msg) != LongHex {
		return Frame{}, fmt.Errorf("%w: length %d, want %d or %d hex characters",
			ErrMalformed, len(msg), ShortHex, LongHex)
	}

	data, err := hex.DecodeString(msg)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Frame{hex: strings.ToUpper(msg), data: data}, nil
}

// FromBytes builds a frame from 7 or 14 raw bytes, as delivered by binary feeds.
func FromBytes(data []byte) (Frame, error) {
	if len(data) != ShortBytes && len(data) != LongBytes {
		return Frame{}, fmt.Errorf("%w: %d bytes, want %d or %d",
			ErrMalformed, len(data), ShortBytes, LongBytes)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	return Frame{hex: strings.ToUpper(hex.EncodeToString(buf)), data: buf}, nil
}

// MustParse is Parse for known-good literals. It panics on malformed input.
func MustParse(msg string) Frame {
	f, err := Parse(msg)
	if err != nil {
		panic(err)
	}
	return f
}

// Hex returns the upper-case hexadecimal form of the frame
func (f Frame) Hex() string {
	return f.hex
}

// Bytes returns a copy of the frame bytes
func (f Frame) Bytes() []byte {
	buf := make([]byte, len(f.data))
	copy(buf, f.data)
	return buf
}

// Len returns the frame length in bits
func (f Frame) Len() int {
	return len(f.data) * 8
}

// IsLong reports whether the frame carries 112 bits
func (f Frame) IsLong() bool {
	return len(f.data) == LongBytes
}

// Bit returns bit n (1-based). Positions outside the frame read as zero.
func (f Frame) Bit(n int) uint8 {
	if n < 1 || n > f.Len() {
		return 0
	}
	i := n - 1
	return (f.data[i/8] >> (7 - uint(i%8))) & 1
}

// Bits returns bits first..last (1-based, inclusive) as an unsigned integer.
// At most 64 bits can be read at once.
func (f Frame) Bits(first, last int) uint64 {
	if first < 1 || last < first || last-first >= 64 {
		return 0
	}

	var v uint64
	for n := first; n <= last; n++ {
		v = v<<1 | uint64(f.Bit(n))
	}
	return v
}

// DF returns the downlink format, bits 1-5
func (f Frame) DF() int {
	if len(f.data) == 0 {
		return 0
	}
	return int(f.data[0] >> 3)
}

// Parity returns the last 24 bits of the frame (AP or PI field)
func (f Frame) Parity() uint32 {
	n := len(f.data)
	if n < 3 {
		return 0
	}
	return uint32(f.data[n-3])<<16 | uint32(f.data[n-2])<<8 | uint32(f.data[n-1])
}

// Payload returns a copy of the frame without its 24 parity bits
func (f Frame) Payload() []byte {
	n := len(f.data)
	if n < 3 {
		return nil
	}
	buf := make([]byte, n-3)
	copy(buf, f.data[:n-3])
	return buf
}

// String implements fmt.Stringer
func (f Frame) String() string {
	return f.hex
}
