// Package modes decodes the Mode-S downlink formats that do not carry an
// Extended Squitter payload: surveillance replies (DF 4/5/20/21), air-air
// surveillance (DF 0/16) and all-call replies (DF 11).
//
// Every accessor is a pure function of a frame.Frame. An accessor first
// checks that the frame's downlink format carries the field and returns a
// *FormatMismatchError otherwise, without decoding anything.
package modes

import (
	"modes1090/internal/frame"
)

// DownlinkFormat is the 5-bit format code in bits 1-5 of every frame
type DownlinkFormat uint8

// Downlink formats handled by this module
const (
	DFShortAirAir      DownlinkFormat = 0
	DFAltitudeReply    DownlinkFormat = 4
	DFIdentityReply    DownlinkFormat = 5
	DFAllCall          DownlinkFormat = 11
	DFLongAirAir       DownlinkFormat = 16
	DFExtendedSquitter DownlinkFormat = 17
	DFNonTransponder   DownlinkFormat = 18
	DFCommBAltitude    DownlinkFormat = 20
	DFCommBIdentity    DownlinkFormat = 21
	DFCommD            DownlinkFormat = 24
)

var formatNames = map[DownlinkFormat]string{
	DFShortAirAir:      "short air-air surveillance",
	DFAltitudeReply:    "surveillance altitude reply",
	DFIdentityReply:    "surveillance identity reply",
	DFAllCall:          "all-call reply",
	DFLongAirAir:       "long air-air surveillance",
	DFExtendedSquitter: "extended squitter",
	DFNonTransponder:   "extended squitter non-transponder",
	DFCommBAltitude:    "comm-b altitude reply",
	DFCommBIdentity:    "comm-b identity reply",
	DFCommD:            "comm-d extended length message",
}

// String returns a human readable name for the format
func (df DownlinkFormat) String() string {
	if name, ok := formatNames[df]; ok {
		return name
	}
	return "unknown"
}

// Classify parses a hexadecimal message and returns its downlink format
func Classify(msg string) (DownlinkFormat, error) {
	f, err := frame.Parse(msg)
	if err != nil {
		return 0, err
	}
	return Format(f), nil
}

// Format returns the downlink format of an already parsed frame
func Format(f frame.Frame) DownlinkFormat {
	return DownlinkFormat(f.DF())
}

// Expect returns a *FormatMismatchError unless the frame's format is one
// of the expected formats.
func Expect(f frame.Frame, expected ...DownlinkFormat) error {
	df := Format(f)
	for _, want := range expected {
		if df == want {
			return nil
		}
	}

	return &FormatMismatchError{
		Expected: append([]DownlinkFormat(nil), expected...),
		Actual:   df,
	}
}

// Applicable format sets
var (
	apFormats           = []DownlinkFormat{0, 4, 5, 16, 20, 21}
	altitudeFormats     = []DownlinkFormat{0, 4, 16, 20}
	airAirFormats       = []DownlinkFormat{0, 16}
	surveillanceFormats = []DownlinkFormat{4, 5, 20, 21}
	identityFormats     = []DownlinkFormat{5, 21}
	crosslinkFormats    = []DownlinkFormat{0}
	allCallFormats      = []DownlinkFormat{11}
	directICAOFormats   = []DownlinkFormat{11, 17, 18}
)

// HasAddressParity reports whether the format overlays the transponder
// address on its parity field (AP formats)
func HasAddressParity(df DownlinkFormat) bool {
	for _, ap := range apFormats {
		if df == ap {
			return true
		}
	}
	return false
}
