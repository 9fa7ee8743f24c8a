package modes

import (
	"modes1090/internal/frame"
)

// FlightStatus returns the FS field (bits 6-8) of DF 4, 5, 20 and 21.
// Values 1 and 3 mean the aircraft is on the ground.
func FlightStatus(f frame.Frame) (uint8, error) {
	if err := Expect(f, surveillanceFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(6, 8)), nil
}

// DownlinkRequest returns the DR field (bits 9-13) of DF 4, 5, 20 and 21
func DownlinkRequest(f frame.Frame) (uint8, error) {
	if err := Expect(f, surveillanceFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(9, 13)), nil
}

// UtilityMessage returns the UM field (bits 14-19) of DF 4, 5, 20 and 21
func UtilityMessage(f frame.Frame) (uint8, error) {
	if err := Expect(f, surveillanceFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(14, 19)), nil
}

// VerticalStatus returns the VS bit (6) of DF 0 and 16: true when the
// aircraft is on the ground.
func VerticalStatus(f frame.Frame) (bool, error) {
	if err := Expect(f, airAirFormats...); err != nil {
		return false, err
	}
	return f.Bit(6) == 1, nil
}

// CrosslinkCapability returns the CC bit (7), carried by DF 0 only
func CrosslinkCapability(f frame.Frame) (bool, error) {
	if err := Expect(f, crosslinkFormats...); err != nil {
		return false, err
	}
	return f.Bit(7) == 1, nil
}

// SensitivityLevel returns the TCAS sensitivity level (bits 9-11) of DF 0
// and 16. Zero means no level is reported.
func SensitivityLevel(f frame.Frame) (uint8, error) {
	if err := Expect(f, airAirFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(9, 11)), nil
}

// ReplyInformation returns the air-air RI field (bits 14-17) of DF 0 and 16
func ReplyInformation(f frame.Frame) (uint8, error) {
	if err := Expect(f, airAirFormats...); err != nil {
		return 0, err
	}
	return uint8(f.Bits(14, 17)), nil
}

// AirAirICAO returns the address recovered from a DF 0 or 16 frame
func AirAirICAO(f frame.Frame) (string, error) {
	if err := Expect(f, airAirFormats...); err != nil {
		return "", err
	}
	addr, _ := RecoverICAO(f)
	return addr, nil
}
