package sbs

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modes1090/internal/report"
)

var (
	generated = time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.UTC)
	logged    = time.Date(2024, 3, 1, 12, 30, 1, 0, time.UTC)
)

func newTestWriter(buf *bytes.Buffer) *Writer {
	w := NewWriter(buf)
	w.now = func() time.Time { return logged }
	return w
}

func TestWriter_Encode(t *testing.T) {
	tests := []struct {
		name   string
		report *report.Report
		want   string
	}{
		{
			name: "identification",
			report: &report.Report{
				Time: generated, DF: 17, ICAO: "406B90",
				TypeCode: report.Uint8(4), Callsign: "EZY85MH", OnGround: report.Bool(false),
			},
			want: "MSG,1,1,1,406B90,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,EZY85MH,,,,,,,,,,,0",
		},
		{
			name: "altitude reply",
			report: &report.Report{
				Time: generated, DF: 4, ICAO: "4891A6",
				Altitude: report.Int(36000), FlightStatus: report.Uint8(0), OnGround: report.Bool(false),
			},
			want: "MSG,5,1,1,4891A6,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,,36000,,,,,,,0,,0,0",
		},
		{
			name: "identity reply with emergency",
			report: &report.Report{
				Time: generated, DF: 5, ICAO: "ABCDEF",
				IdentityCode: "7700", FlightStatus: report.Uint8(3), OnGround: report.Bool(true),
			},
			want: "MSG,6,1,1,ABCDEF,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,,,,,,,,7700,-1,-1,0,-1",
		},
		{
			name: "aircraft status squawk",
			report: &report.Report{
				Time: generated, DF: 17, ICAO: "4840D6",
				TypeCode: report.Uint8(28), Squawk: "2210",
			},
			want: "MSG,6,1,1,4840D6,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,,,,,,,,2210,,0,,",
		},
		{
			name: "air-air",
			report: &report.Report{
				Time: generated, DF: 0, ICAO: "4B18FE",
				Altitude: report.Int(37000), OnGround: report.Bool(false),
			},
			want: "MSG,7,1,1,4B18FE,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,,37000,,,,,,,,,,0",
		},
		{
			name: "all-call",
			report: &report.Report{
				Time: generated, DF: 11, ICAO: "484FDE", OnGround: report.Bool(true),
			},
			want: "MSG,8,1,1,484FDE,1,2024/03/01,12:30:00.500,2024/03/01,12:30:01.000,,,,,,,,,,,,-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, newTestWriter(&buf).Encode(tt.report))
			assert.Equal(t, tt.want+"\n", buf.String())
			assert.Len(t, strings.Split(tt.want, ","), 22)
		})
	}
}

func TestWriter_Skips(t *testing.T) {
	tests := []struct {
		name   string
		report *report.Report
	}{
		{"no address", &report.Report{DF: 4, Altitude: report.Int(1000)}},
		{"unsupported format", &report.Report{DF: 24, ICAO: "ABCDEF"}},
		{"squitter without type code", &report.Report{DF: 17, ICAO: "ABCDEF"}},
		{"surface position", &report.Report{DF: 17, ICAO: "ABCDEF", TypeCode: report.Uint8(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, newTestWriter(&buf).Encode(tt.report))
			assert.Empty(t, buf.String())
		})
	}
}

func TestWriter_NilReport(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewWriter(&buf).Encode(nil))
}

func TestWriter_ZeroTimeUsesClock(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	msg := w.Convert(&report.Report{DF: 11, ICAO: "484FDE"})
	require.NotNil(t, msg)
	assert.Equal(t, logged, msg.Generated)
}

func TestWriter_ConcurrentEncode(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = w.Encode(&report.Report{Time: generated, DF: 11, ICAO: "484FDE"})
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 500)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "MSG,8,"))
	}
}
