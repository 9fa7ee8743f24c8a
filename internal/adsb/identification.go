package adsb

import (
	"fmt"
	"strings"

	"modes1090/internal/frame"
)

// EmitterSet is one of the ADS-B emitter category sets, chosen by the
// identification type code
type EmitterSet uint8

// Emitter category sets
const (
	SetA EmitterSet = iota + 1 // TC 4
	SetB                       // TC 3
	SetC                       // TC 2
	SetD                       // TC 1
)

func (s EmitterSet) String() string {
	switch s {
	case SetA:
		return "A"
	case SetB:
		return "B"
	case SetC:
		return "C"
	case SetD:
		return "D"
	default:
		return "?"
	}
}

// Emitter is a 3-bit emitter category code labelled with its set
type Emitter struct {
	Set  EmitterSet
	Code uint8
}

// String renders the category as "SET B CODE 5"
func (c Emitter) String() string {
	return fmt.Sprintf("SET %s CODE %d", c.Set, c.Code)
}

var identificationSets = map[uint8]EmitterSet{
	TypeCodeIdentSetA: SetA,
	TypeCodeIdentSetB: SetB,
	TypeCodeIdentSetC: SetC,
	TypeCodeIdentSetD: SetD,
}

// EmitterCategory returns the emitter category (bits 38-40) of an
// identification message, type codes 1-4.
func EmitterCategory(f frame.Frame) (Emitter, error) {
	tc, err := TypeCode(f)
	if err != nil {
		return Emitter{}, err
	}

	set, ok := identificationSets[tc]
	if !ok {
		return Emitter{}, unsupported("emitter category", tc,
			TypeCodeIdentSetD, TypeCodeIdentSetC, TypeCodeIdentSetB, TypeCodeIdentSetA)
	}

	return Emitter{
		Set:  set,
		Code: uint8(f.Bits(EmitterFirstBit, EmitterLastBit)),
	}, nil
}

// Callsign returns the flight identification of a type code 1-4 message
// with trailing spaces removed
func Callsign(f frame.Frame) (string, error) {
	tc, err := TypeCode(f)
	if err != nil {
		return "", err
	}
	if _, ok := identificationSets[tc]; !ok {
		return "", unsupported("callsign", tc,
			TypeCodeIdentSetD, TypeCodeIdentSetC, TypeCodeIdentSetB, TypeCodeIdentSetA)
	}

	var callsign [CallsignChars]byte
	for i := range callsign {
		first := CallsignFirstBit + i*CallsignCharBits
		callsign[i] = ADSBCharset[f.Bits(first, first+CallsignCharBits-1)]
	}

	for _, c := range callsign {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == ' ') {
			return "", fmt.Errorf("%w: %q", ErrInvalidCallsign, string(callsign[:]))
		}
	}

	return strings.TrimRight(string(callsign[:]), " "), nil
}
