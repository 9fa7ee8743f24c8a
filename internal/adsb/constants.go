package adsb

// ADS-B 6-bit character set: space, A-Z, 0-9
// This is the standard character set used in ADS-B callsign encoding
const ADSBCharset = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

// Extended Squitter field positions (1-based, whole frame)
const (
	TypeCodeFirstBit = 33
	TypeCodeLastBit  = 37
	EmitterFirstBit  = 38
	EmitterLastBit   = 40
	CallsignFirstBit = 41
	CallsignChars    = 8
	CallsignCharBits = 6
)

// Type codes
const (
	TypeCodeNoPosition     = 0
	TypeCodeIdentSetD      = 1
	TypeCodeIdentSetC      = 2
	TypeCodeIdentSetB      = 3
	TypeCodeIdentSetA      = 4
	TypeCodeSurfaceFirst   = 5
	TypeCodeSurfaceLast    = 8
	TypeCodeGNSSAltFirst   = 20
	TypeCodeGNSSAltLast    = 22
	TypeCodeAircraftStatus = 28
)

// Squawk code bit positions in a TC 28 frame (bit 50 is unused)
const (
	SquawkC1 = 44
	SquawkA1 = 45
	SquawkC2 = 46
	SquawkA2 = 47
	SquawkC4 = 48
	SquawkA4 = 49
	SquawkB1 = 51
	SquawkD1 = 52
	SquawkB2 = 53
	SquawkD2 = 54
	SquawkB4 = 55
	SquawkD4 = 56
)
