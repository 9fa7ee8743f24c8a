// Package gillham converts Gillham (Mode C) Gray coded altitudes to feet.
package gillham

import (
	"errors"
	"fmt"
)

// ErrInvalidCode is returned for Gray codes that do not map to an altitude
var ErrInvalidCode = errors.New("invalid gillham altitude code")

// CodeBits is the width of a reordered Gillham code: D2 D4 A1 A2 A4 B1 B2 B4 C1 C2 C4
const CodeBits = 11

// Altitude decodes an 11-bit Gillham code whose bits are ordered, from most
// to least significant, D2 D4 A1 A2 A4 B1 B2 B4 C1 C2 C4. The first eight
// bits count 500 ft steps and the C bits count 100 ft steps, both as
// reflected binary.
func Altitude(code uint16) (int, error) {
	if code >= 1<<CodeBits {
		return 0, fmt.Errorf("%w: %#x exceeds %d bits", ErrInvalidCode, code, CodeBits)
	}

	n500 := grayToBinary(code >> 3)
	n100 := grayToBinary(code & 0x07)

	switch n100 {
	case 0, 5, 6:
		return 0, fmt.Errorf("%w: 100 ft group %d", ErrInvalidCode, n100)
	case 7:
		n100 = 5
	}

	// the 100 ft count runs backwards in odd 500 ft bands
	if n500%2 == 1 {
		n100 = 6 - n100
	}

	return int(n500)*500 + int(n100)*100 - 1300, nil
}

func grayToBinary(g uint16) uint16 {
	g ^= g >> 8
	g ^= g >> 4
	g ^= g >> 2
	g ^= g >> 1
	return g
}
