package gillham

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(t *testing.T, bits string) uint16 {
	t.Helper()
	v, err := strconv.ParseUint(bits, 2, 16)
	require.NoError(t, err)
	return uint16(v)
}

func TestAltitude(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"00000000001", -1200},
		{"00000000010", -1000},
		{"01011100100", 51200},
		{"01000111010", 60000},
		{"10000000001", 126700},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			alt, err := Altitude(code(t, tt.code))
			require.NoError(t, err)
			assert.Equal(t, tt.want, alt)
		})
	}
}

func TestAltitudeInvalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"C bits all zero", "00000000000"},
		{"C bits decode to five", "00000000111"},
		{"C bits decode to six", "00000000101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Altitude(code(t, tt.code))
			assert.ErrorIs(t, err, ErrInvalidCode)
		})
	}

	_, err := Altitude(1 << CodeBits)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAltitudeRangeIsHundredFeetSteps(t *testing.T) {
	seen := 0
	for code := uint16(0); code < 1<<CodeBits; code++ {
		alt, err := Altitude(code)
		if err != nil {
			continue
		}
		seen++
		assert.Zero(t, (alt+1300)%100, "code %011b", code)
		assert.GreaterOrEqual(t, alt, -1200)
		assert.LessOrEqual(t, alt, 126700)
	}
	// 256 500 ft bands times 5 valid 100 ft groups
	assert.Equal(t, 1280, seen)
}
