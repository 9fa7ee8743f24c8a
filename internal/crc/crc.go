package crc

// Mode-S CRC-24 generator polynomial (x^24 term implied)
const GeneratorPoly = 0xfff409

// Pre-computed CRC table, one entry per leading byte
var crcTable [256]uint32

// Syndromes of single bit errors, keyed by syndrome, value is the 1-based
// bit position. One table per frame length.
var (
	singleBitShort map[uint32]int
	singleBitLong  map[uint32]int
)

func init() {
	for i := 0; i < 256; i++ {
		c := uint32(i) << 16
		for j := 0; j < 8; j++ {
			if c&0x800000 != 0 {
				c = (c << 1) ^ GeneratorPoly
			} else {
				c = c << 1
			}
		}
		crcTable[i] = c & 0x00ffffff
	}

	singleBitShort = buildSingleBitTable(7)
	singleBitLong = buildSingleBitTable(14)
}

func buildSingleBitTable(n int) map[uint32]int {
	table := make(map[uint32]int, n*8)
	for bit := 1; bit <= n*8; bit++ {
		msg := make([]byte, n)
		flipBit(msg, bit)
		table[Syndrome(msg)] = bit
	}
	return table
}

// Checksum returns the 24-bit Mode-S parity of data: the remainder of
// data * x^24 divided by the generator polynomial.
func Checksum(data []byte) uint32 {
	var rem uint32
	for _, b := range data {
		rem = (rem << 8) ^ crcTable[uint32(b)^((rem&0xff0000)>>16)]
		rem &= 0xffffff
	}
	return rem
}

// Syndrome returns the CRC remainder of a complete frame, parity included.
// It is zero for an error-free DF17 frame, the interrogator identity for a
// DF11 frame and the transponder address for the AP formats.
func Syndrome(msg []byte) uint32 {
	n := len(msg)
	if n < 3 {
		return 0
	}
	parity := uint32(msg[n-3])<<16 | uint32(msg[n-2])<<8 | uint32(msg[n-1])
	return Checksum(msg[:n-3]) ^ parity
}

// SingleBitError returns the 1-based position of the single bit error that
// leaves syndrome in a frame of n bytes, or false when no single bit
// explains it
func SingleBitError(n int, syndrome uint32) (int, bool) {
	if syndrome == 0 {
		return 0, false
	}

	var table map[uint32]int
	switch n {
	case 7:
		table = singleBitShort
	case 14:
		table = singleBitLong
	default:
		return 0, false
	}

	bit, ok := table[syndrome]
	return bit, ok
}

// FixSingleBit repairs a single bit error in msg in place using the
// syndrome, which must be the frame's syndrome with any expected overlay
// (such as a DF11 interrogator code) already removed. It returns the 1-based
// position of the flipped bit, or -1 when no single bit error explains the
// syndrome.
func FixSingleBit(msg []byte, syndrome uint32) int {
	bit, ok := SingleBitError(len(msg), syndrome)
	if !ok {
		return -1
	}

	flipBit(msg, bit)
	return bit
}

func flipBit(msg []byte, bit int) {
	i := bit - 1
	msg[i/8] ^= 1 << (7 - uint(i%8))
}
