package modes

import (
	"fmt"

	"modes1090/internal/frame"
)

// idFirstBit is the start of the 13-bit identity field of DF 5 and 21,
// laid out C1 A1 C2 A2 C4 A4 X B1 D1 B2 D2 B4 D4
const idFirstBit = 20

// IdentityCode returns the Mode A code (squawk) of a DF 5 or DF 21 reply
func IdentityCode(f frame.Frame) (string, error) {
	if err := Expect(f, identityFormats...); err != nil {
		return "", err
	}

	b := func(offset int) uint8 { return f.Bit(idFirstBit + offset) }

	a := b(5)<<2 | b(3)<<1 | b(1)
	bb := b(11)<<2 | b(9)<<1 | b(7)
	c := b(4)<<2 | b(2)<<1 | b(0)
	d := b(12)<<2 | b(10)<<1 | b(8)

	return fmt.Sprintf("%d%d%d%d", a, bb, c, d), nil
}
