package adsb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modes1090/internal/frame"
	"modes1090/internal/modes"
)

func TestTypeCodeAndHeader(t *testing.T) {
	f := frame.MustParse("8D406B902015A678D4D220AA4BDA")

	tc, err := TypeCode(f)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), tc)

	ca, err := Category(f)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), ca)

	icao, err := ICAO(f)
	require.NoError(t, err)
	assert.Equal(t, "406B90", icao)
}

func TestSquitterGate(t *testing.T) {
	t.Run("other downlink format", func(t *testing.T) {
		for _, msg := range []string{"5D484FDEA248F5", "A0001839CA3800315800007448D9", "20001718029FCD"} {
			_, err := TypeCode(frame.MustParse(msg))
			assert.ErrorIs(t, err, modes.ErrFormatMismatch, msg)

			_, err = Callsign(frame.MustParse(msg))
			assert.ErrorIs(t, err, modes.ErrFormatMismatch, msg)
		}
	})

	t.Run("short extended squitter", func(t *testing.T) {
		f := frame.MustParse("8D406B902015A6")
		_, err := TypeCode(f)
		assert.ErrorIs(t, err, modes.ErrMalformedMessage)

		_, err = Squawk(f)
		assert.ErrorIs(t, err, modes.ErrMalformedMessage)
	})
}

func TestCallsign(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"8D406B902015A678D4D220AA4BDA", "EZY85MH"},
		{"8D4840D6202CC371C32CE0576098", "KLM1023"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Callsign(frame.MustParse(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallsignInvalidCharacters(t *testing.T) {
	// every character is index 0, which is not A-Z, 0-9 or space
	_, err := Callsign(frame.MustParse("8D4840D620000000000000000000"))
	assert.ErrorIs(t, err, ErrInvalidCallsign)
}

func TestCallsignWrongTypeCode(t *testing.T) {
	_, err := Callsign(frame.MustParse("8D4840D6E1120800000000000000"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedTypeCode))

	var unsupported *UnsupportedTypeCodeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, uint8(28), unsupported.Actual)
	assert.Equal(t, "callsign", unsupported.Field)
}

func TestEmitterCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want Emitter
		text string
	}{
		{"8D4840D61D000000000000000000", Emitter{Set: SetB, Code: 5}, "SET B CODE 5"},
		{"8D4840D620000000000000000000", Emitter{Set: SetA, Code: 0}, "SET A CODE 0"},
		{"8D4840D60F000000000000000000", Emitter{Set: SetD, Code: 7}, "SET D CODE 7"},
		{"8D4840D612000000000000000000", Emitter{Set: SetC, Code: 2}, "SET C CODE 2"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := EmitterCategory(frame.MustParse(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
}

func TestEmitterCategoryUnsupported(t *testing.T) {
	_, err := EmitterCategory(frame.MustParse("8D4840D65B000000000000000000"))
	assert.ErrorIs(t, err, ErrUnsupportedTypeCode)
	assert.Equal(t, "emitter category: type code 11, want one of [1 2 3 4]", err.Error())
}

func TestNICValue(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		want      []int
		ambiguous bool
		text      string
	}{
		{"TC0", "8D4840D600000000000000000000", []int{0}, false, "0"},
		{"TC5", "8D4840D628000000000000000000", []int{11}, false, "11"},
		{"TC6", "8D4840D630000000000000000000", []int{10}, false, "10"},
		{"TC7", "8D4840D638000000000000000000", []int{9, 8}, true, "9 or 8"},
		{"TC8", "8D4840D640000000000000000000", []int{7, 6, 0}, true, "7 or 6 or 0"},
		{"TC20", "8D4840D6A0000000000000000000", []int{11}, false, "11"},
		{"TC21", "8D4840D6A8000000000000000000", []int{10}, false, "10"},
		{"TC22", "8D4840D6B0000000000000000000", []int{0}, false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nic, err := NICValue(frame.MustParse(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, nic.Candidates())
			assert.Equal(t, tt.ambiguous, nic.Ambiguous())
			assert.Equal(t, tt.text, nic.String())

			v, ok := nic.Value()
			assert.Equal(t, !tt.ambiguous, ok)
			if ok {
				assert.Equal(t, tt.want[0], v)
			}
		})
	}
}

func TestNICValueUnsupported(t *testing.T) {
	for _, msg := range []string{
		"8D4840D648000000000000000000", // TC9 airborne position
		"8D4840D698000000000000000000", // TC19 velocity
		"8D406B902015A678D4D220AA4BDA", // TC4 identification
	} {
		_, err := NICValue(frame.MustParse(msg))
		assert.ErrorIs(t, err, ErrUnsupportedTypeCode, msg)
	}
}

func TestNICCandidatesAreCopied(t *testing.T) {
	nic, err := NICValue(frame.MustParse("8D4840D638000000000000000000"))
	require.NoError(t, err)

	c := nic.Candidates()
	c[0] = 99
	assert.Equal(t, []int{9, 8}, nic.Candidates())

	again, err := NICValue(frame.MustParse("8D4840D638000000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, "9 or 8", again.String())
}

func TestSquawk(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"8D4840D6E1120800000000000000", "2210"},
		{"8D4840D6E10AAA00000000000000", "7700"},
		{"8D4840D6E0000000000000000000", "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Squawk(frame.MustParse(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSquawkWrongTypeCode(t *testing.T) {
	_, err := Squawk(frame.MustParse("8D406B902015A678D4D220AA4BDA"))
	assert.ErrorIs(t, err, ErrUnsupportedTypeCode)
}
