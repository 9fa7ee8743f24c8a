package adsb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedTypeCode is matched by every *UnsupportedTypeCodeError
	ErrUnsupportedTypeCode = errors.New("unsupported type code")

	// ErrInvalidCallsign is returned when an identification message holds
	// characters outside A-Z, 0-9 and space
	ErrInvalidCallsign = errors.New("invalid callsign characters")
)

// UnsupportedTypeCodeError reports an accessor applied to an Extended
// Squitter whose type code does not carry the field
type UnsupportedTypeCodeError struct {
	Field    string
	Expected []uint8
	Actual   uint8
}

func (e *UnsupportedTypeCodeError) Error() string {
	want := make([]string, len(e.Expected))
	for i, tc := range e.Expected {
		want[i] = fmt.Sprintf("%d", tc)
	}
	return fmt.Sprintf("%s: type code %d, want one of [%s]", e.Field, e.Actual, strings.Join(want, " "))
}

// Is makes errors.Is(err, ErrUnsupportedTypeCode) hold
func (e *UnsupportedTypeCodeError) Is(target error) bool {
	return target == ErrUnsupportedTypeCode
}

func unsupported(field string, tc uint8, expected ...uint8) error {
	return &UnsupportedTypeCodeError{Field: field, Expected: expected, Actual: tc}
}
