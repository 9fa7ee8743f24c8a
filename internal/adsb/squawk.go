package adsb

import (
	"fmt"

	"modes1090/internal/frame"
)

// Squawk returns the Mode A code carried by a type code 28 (aircraft status)
// message. The twelve code bits are interleaved in bits 44-56 and are
// regrouped into the digits A4A2A1 B4B2B1 C4C2C1 D4D2D1.
func Squawk(f frame.Frame) (string, error) {
	tc, err := TypeCode(f)
	if err != nil {
		return "", err
	}
	if tc != TypeCodeAircraftStatus {
		return "", unsupported("squawk", tc, TypeCodeAircraftStatus)
	}

	digit := func(b4, b2, b1 int) uint8 {
		return f.Bit(b4)<<2 | f.Bit(b2)<<1 | f.Bit(b1)
	}

	return fmt.Sprintf("%d%d%d%d",
		digit(SquawkA4, SquawkA2, SquawkA1),
		digit(SquawkB4, SquawkB2, SquawkB1),
		digit(SquawkC4, SquawkC2, SquawkC1),
		digit(SquawkD4, SquawkD2, SquawkD1),
	), nil
}
