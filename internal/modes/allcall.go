package modes

import (
	"fmt"

	"modes1090/internal/frame"
)

// AllCallICAO returns the address announced in bits 9-32 of a DF 11 frame
func AllCallICAO(f frame.Frame) (string, error) {
	if err := Expect(f, allCallFormats...); err != nil {
		return "", err
	}
	return FormatICAO(uint32(f.Bits(9, 32))), nil
}

// Capability returns the transponder capability CA (bits 6-8) of a DF 11 frame
func Capability(f frame.Frame) (uint8, error) {
	if err := Expect(f, allCallFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(6, 8)), nil
}

// InterrogatorKind tags an InterrogatorIdentity
type InterrogatorKind uint8

const (
	// InterrogatorNone: code label 1 with a zero interrogator code names no
	// interrogator. This is a valid reply, not a decode failure.
	InterrogatorNone             InterrogatorKind = iota
	InterrogatorII                                // interrogator identifier, code 0-15
	InterrogatorSI                                // surveillance identifier, code 1-63
	InterrogatorInvalidCodeLabel                  // code label 5, 6 or 7
)

// InterrogatorIdentity identifies the ground interrogator that solicited an
// all-call reply
type InterrogatorIdentity struct {
	Kind      InterrogatorKind
	Code      int   // II or SI number; zero for None and InvalidCodeLabel
	CodeLabel uint8 // raw 3-bit CL field
}

// Valid reports whether the identity names an interrogator
func (id InterrogatorIdentity) Valid() bool {
	return id.Kind == InterrogatorII || id.Kind == InterrogatorSI
}

// String renders "II 5", "SI 17", "" for no identity and a marker for an
// undefined code label
func (id InterrogatorIdentity) String() string {
	switch id.Kind {
	case InterrogatorII:
		return fmt.Sprintf("II %d", id.Code)
	case InterrogatorSI:
		return fmt.Sprintf("SI %d", id.Code)
	case InterrogatorInvalidCodeLabel:
		return fmt.Sprintf("invalid code label %03b", id.CodeLabel)
	default:
		return ""
	}
}

// InterrogatorID decodes the code label (CL) and interrogator code (IC) from
// the last 7 bits of a DF 11 frame. The receiver is expected to have
// stripped the CRC, so the fields are read as transmitted.
func InterrogatorID(f frame.Frame) (InterrogatorIdentity, error) {
	if err := Expect(f, allCallFormats...); err != nil {
		return InterrogatorIdentity{}, err
	}

	n := f.Len()
	cl := uint8(f.Bits(n-6, n-4))
	ic := int(f.Bits(n-3, n))

	return InterrogatorFromCode(cl, ic), nil
}

// InterrogatorFromCode maps a code label and interrogator code to an
// identity. Receivers that keep the CRC in the frame find CL and IC in the
// low 7 bits of the DF 11 syndrome instead of the last 7 bits.
func InterrogatorFromCode(cl uint8, ic int) InterrogatorIdentity {
	id := InterrogatorIdentity{CodeLabel: cl}

	switch cl {
	case 0:
		id.Kind, id.Code = InterrogatorII, ic
	case 1:
		if ic == 0 {
			id.Kind = InterrogatorNone
			return id
		}
		id.Kind, id.Code = InterrogatorSI, ic
	case 2:
		id.Kind, id.Code = InterrogatorSI, 16+ic
	case 3:
		id.Kind, id.Code = InterrogatorSI, 32+ic
	case 4:
		id.Kind, id.Code = InterrogatorSI, 48+ic
	default:
		id.Kind = InterrogatorInvalidCodeLabel
	}

	return id
}
