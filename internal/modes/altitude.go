package modes

import (
	"fmt"

	"modes1090/internal/frame"
	"modes1090/internal/gillham"
)

// FeetPerMetre converts metric altitude reports to feet
const FeetPerMetre = 3.28084

// AC13 field bit positions (1-based, whole frame)
const (
	acFirstBit = 20
	acLastBit  = 32
	mBit       = 26 // unit: 1 = metres
	qBit       = 28 // resolution when M = 0: 1 = 25 ft
)

// Altitude decodes the 13-bit altitude code (bits 20-32) of DF 0, 4, 16 and
// 20 frames and returns feet.
func Altitude(f frame.Frame) (int, error) {
	if err := Expect(f, altitudeFormats...); err != nil {
		return 0, err
	}
	return decodeAC13(f)
}

// AirAirAltitude is Altitude restricted to the air-air surveillance formats
func AirAirAltitude(f frame.Frame) (int, error) {
	if err := Expect(f, airAirFormats...); err != nil {
		return 0, err
	}
	return decodeAC13(f)
}

func decodeAC13(f frame.Frame) (int, error) {
	if f.Bit(mBit) == 1 {
		// 11 bits around M: 20-25, 27-31
		n := f.Bits(20, 25)<<5 | f.Bits(27, 31)
		return int(float64(n) * FeetPerMetre), nil
	}

	if f.Bit(qBit) == 1 {
		// 11 bits around M and Q: 20-25, 27, 29-32
		n := f.Bits(20, 25)<<5 | f.Bits(27, 27)<<4 | f.Bits(29, 32)
		return int(n)*25 - 1000, nil
	}

	alt, err := gillham.Altitude(gillhamCode(f))
	if err != nil {
		return 0, fmt.Errorf("altitude code %013b: %w", f.Bits(acFirstBit, acLastBit), err)
	}
	return alt, nil
}

// Position of each Gillham bit inside the AC13 field, in the order the
// Gray code decoder expects: D2 D4 A1 A2 A4 B1 B2 B4 C1 C2 C4. D1 sits in
// the Q position and is always zero above 50175 ft.
var gillhamOrder = [gillham.CodeBits]int{
	30, // D2
	32, // D4
	21, // A1
	23, // A2
	25, // A4
	27, // B1
	29, // B2
	31, // B4
	20, // C1
	22, // C2
	24, // C4
}

func gillhamCode(f frame.Frame) uint16 {
	var code uint16
	for _, bit := range gillhamOrder {
		code = code<<1 | uint16(f.Bit(bit))
	}
	return code
}
