// Package report holds the decoded view of one Mode-S message and the
// encoders that serialise it for the outputs.
package report

import (
	"time"
)

// Report is everything decoded from one frame. Fields that do not apply to
// the frame's downlink format or type code are left nil/empty.
type Report struct {
	Time   time.Time `json:"time"`
	Raw    string    `json:"raw"`
	Signal *uint8    `json:"signal,omitempty"`

	DF     uint8  `json:"df"`
	Format string `json:"format"`

	ICAO          string `json:"icao,omitempty"`
	ICAOConfirmed bool   `json:"icao_confirmed"`
	CRCOK         bool   `json:"crc_ok"`
	CorrectedBits int    `json:"corrected_bits"`

	Altitude *int  `json:"altitude,omitempty"`
	OnGround *bool `json:"on_ground,omitempty"`

	// DF 4/5/20/21
	FlightStatus    *uint8 `json:"fs,omitempty"`
	DownlinkRequest *uint8 `json:"dr,omitempty"`
	UtilityMessage  *uint8 `json:"um,omitempty"`
	IdentityCode    string `json:"id,omitempty"`

	// DF 0/16
	VerticalStatus      *bool  `json:"vs,omitempty"`
	CrosslinkCapability *bool  `json:"cc,omitempty"`
	SensitivityLevel    *uint8 `json:"sl,omitempty"`
	ReplyInformation    *uint8 `json:"ri,omitempty"`

	// DF 11
	Capability   *uint8 `json:"ca,omitempty"`
	Interrogator string `json:"interrogator,omitempty"`

	// DF 17
	TypeCode *uint8 `json:"tc,omitempty"`
	Category *uint8 `json:"category,omitempty"`
	Emitter  string `json:"emitter,omitempty"`
	Callsign string `json:"callsign,omitempty"`
	NIC      string `json:"nic,omitempty"`
	Squawk   string `json:"squawk,omitempty"`

	// Field decode failures that did not stop the rest of the report
	Warnings []string `json:"warnings,omitempty"`
}

// Warn appends a non-fatal decode failure
func (r *Report) Warn(field string, err error) {
	r.Warnings = append(r.Warnings, field+": "+err.Error())
}

// ModeA returns the TC 28 squawk or, failing that, the DF 5/21 identity code
func (r *Report) ModeA() string {
	if r.Squawk != "" {
		return r.Squawk
	}
	return r.IdentityCode
}

// Uint8 returns a pointer to v
func Uint8(v uint8) *uint8 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }
