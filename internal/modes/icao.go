package modes

import (
	"fmt"

	"modes1090/internal/crc"
	"modes1090/internal/frame"
)

// FormatICAO renders a 24-bit address as six upper-case hex digits
func FormatICAO(addr uint32) string {
	return fmt.Sprintf("%06X", addr&0xFFFFFF)
}

// RecoverICAO returns the transponder address of a frame whose parity field
// is overlaid with the address (DF 0, 4, 5, 16, 20, 21). The parity the
// transponder computed over the frame is reproduced locally and XORed with
// the received AP field, which leaves the address. Frames of any other
// format return false.
//
// A bit error anywhere in the frame yields a wrong address rather than an
// error; confirm recovered addresses against addresses seen in DF11/DF17.
func RecoverICAO(f frame.Frame) (string, bool) {
	addr, ok := recoverAddress(f)
	if !ok {
		return "", false
	}
	return FormatICAO(addr), true
}

func recoverAddress(f frame.Frame) (uint32, bool) {
	if !HasAddressParity(Format(f)) {
		return 0, false
	}
	return crc.Checksum(f.Payload()) ^ f.Parity(), true
}

// ICAO returns the address of any frame that carries one: extracted from
// bits 9-32 for DF 11/17/18, recovered from the parity field for the AP
// formats.
func ICAO(f frame.Frame) (string, error) {
	if Expect(f, directICAOFormats...) == nil {
		return FormatICAO(uint32(f.Bits(9, 32))), nil
	}

	if addr, ok := RecoverICAO(f); ok {
		return addr, nil
	}

	expected := append(append([]DownlinkFormat(nil), directICAOFormats...), apFormats...)
	return "", &FormatMismatchError{Expected: expected, Actual: Format(f)}
}
