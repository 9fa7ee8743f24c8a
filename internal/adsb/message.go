// Package adsb decodes the Extended Squitter (DF 17) fields whose meaning
// depends on the type code: identification, emitter category, navigation
// integrity category and the TC 28 squawk.
package adsb

import (
	"fmt"

	"modes1090/internal/frame"
	"modes1090/internal/modes"
)

// expectSquitter gates every accessor: DF 17 and a full 112-bit frame
func expectSquitter(f frame.Frame) error {
	if err := modes.Expect(f, modes.DFExtendedSquitter); err != nil {
		return err
	}
	if !f.IsLong() {
		return fmt.Errorf("%w: extended squitter with %d bits", modes.ErrMalformedMessage, f.Len())
	}
	return nil
}

// TypeCode returns the type code (bits 33-37) of a DF 17 frame
func TypeCode(f frame.Frame) (uint8, error) {
	if err := expectSquitter(f); err != nil {
		return 0, err
	}
	return uint8(f.Bits(TypeCodeFirstBit, TypeCodeLastBit)), nil
}

// Category returns the 3-bit field in bits 6-8 of a DF 17 frame
func Category(f frame.Frame) (uint8, error) {
	if err := expectSquitter(f); err != nil {
		return 0, err
	}
	return uint8(f.Bits(6, 8)), nil
}

// ICAO returns the address announced in bits 9-32 of a DF 17 frame
func ICAO(f frame.Frame) (string, error) {
	if err := expectSquitter(f); err != nil {
		return "", err
	}
	return modes.FormatICAO(uint32(f.Bits(9, 32))), nil
}
