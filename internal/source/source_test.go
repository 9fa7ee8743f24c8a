package source

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modes1090/internal/beast"
	"modes1090/internal/frame"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// collect runs src to completion and returns what it delivered
func collect(t *testing.T, src Source) []Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan Message, 64)
	require.NoError(t, src.Run(ctx, out))
	close(out)

	var msgs []Message
	for m := range out {
		msgs = append(msgs, m)
	}
	return msgs
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantHex string
		wantTS  uint64
		wantOK  bool
		wantErr bool
	}{
		{"plain", "8D406B902015A678D4D220AA4BDA", "8D406B902015A678D4D220AA4BDA", 0, true, false},
		{"plain with spaces", "  20001718029FCD\r", "20001718029FCD", 0, true, false},
		{"avr", "*8D406B902015A678D4D220AA4BDA;", "8D406B902015A678D4D220AA4BDA", 0, true, false},
		{"avr mlat", "@0000001A2B3C5D484FDEA248F5;", "5D484FDEA248F5", 0x1A2B3C, true, false},
		{"blank", "   ", "", 0, false, false},
		{"comment", "# recorded 2024-03-01", "", 0, false, false},
		{"mlat too short", "@00001A;", "", 0, false, true},
		{"mlat bad timestamp", "@zz00001A2B3C5D484FDEA248F5;", "", 0, false, true},
		{"stray terminator", "8D406B90;2015", "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok, err := ParseLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHex, msg.Hex)
			assert.Equal(t, tt.wantTS, msg.Timestamp)
		})
	}
}

func TestParseLineAVRMatchesPlain(t *testing.T) {
	plain, _, err := ParseLine("8D4840D6202CC371C32CE0576098")
	require.NoError(t, err)
	avr, _, err := ParseLine("*8D4840D6202CC371C32CE0576098;")
	require.NoError(t, err)
	assert.Equal(t, plain.Hex, avr.Hex)
}

func TestLines(t *testing.T) {
	input := strings.Join([]string{
		"# capture",
		"*8D406B902015A678D4D220AA4BDA;",
		"",
		"20001718029FCD",
		"@000000000001;",
		"5D484FDEA248F5",
	}, "\n")

	src := NewLines(strings.NewReader(input), testLogger())
	msgs := collect(t, src)

	require.Len(t, msgs, 3)
	assert.Equal(t, "8D406B902015A678D4D220AA4BDA", msgs[0].Hex)
	assert.Equal(t, "20001718029FCD", msgs[1].Hex)
	assert.Equal(t, "5D484FDEA248F5", msgs[2].Hex)
	assert.False(t, msgs[0].Received.IsZero())
	assert.Equal(t, uint64(1), src.BadLines())
}

func TestLinesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Message)
	err := NewLines(strings.NewReader("20001718029FCD\n20001718029FCD\n"), testLogger()).Run(ctx, out)
	assert.NoError(t, err)
}

func TestBeastSource(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(beast.FromFrame(frame.MustParse("8D406B902015A678D4D220AA4BDA"), 99, 0x1A).Encode())
	stream.Write((&beast.Message{MessageType: beast.ModeAC, Data: []byte{0x02, 0x34}}).Encode())
	stream.Write(beast.FromFrame(frame.MustParse("5D484FDEA248F5"), 100, 7).Encode())

	msgs := collect(t, NewBeast(&stream, testLogger()))

	require.Len(t, msgs, 2)
	assert.Equal(t, "8D406B902015A678D4D220AA4BDA", msgs[0].Hex)
	assert.Equal(t, uint64(99), msgs[0].Timestamp)
	require.NotNil(t, msgs[0].Signal)
	assert.Equal(t, uint8(0x1A), *msgs[0].Signal)
	assert.Equal(t, "5D484FDEA248F5", msgs[1].Hex)
}

func TestBeastSourceDropsShortPayload(t *testing.T) {
	b := NewBeast(strings.NewReader(""), testLogger())

	_, ok := b.convert(&beast.Message{MessageType: beast.ModeSLong, Data: make([]byte, 7)})
	assert.False(t, ok)

	msg, ok := b.convert(beast.FromFrame(frame.MustParse("5D484FDEA248F5"), 1, 2))
	require.True(t, ok)
	assert.Equal(t, "5D484FDEA248F5", msg.Hex)
}

func TestNewStreamUnknownFormat(t *testing.T) {
	_, err := NewStream(strings.NewReader(""), StreamFormat("sbs"), testLogger())
	assert.Error(t, err)
}

func TestTCP(t *testing.T) {
	tests := []struct {
		name    string
		format  StreamFormat
		payload []byte
	}{
		{"raw", FormatRaw, []byte("*8D406B902015A678D4D220AA4BDA;\n")},
		{"beast", FormatBeast, beast.FromFrame(frame.MustParse("8D406B902015A678D4D220AA4BDA"), 1, 1).Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)
			defer ln.Close()

			go func() {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				defer conn.Close()
				conn.Write(tt.payload)
			}()

			msgs := collect(t, NewTCP(ln.Addr().String(), tt.format, testLogger()))
			require.Len(t, msgs, 1)
			assert.Equal(t, "8D406B902015A678D4D220AA4BDA", msgs[0].Hex)
		})
	}
}

func TestTCPCancelWhileIdle(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewTCP(ln.Addr().String(), FormatBeast, testLogger()).Run(ctx, make(chan Message))
	}()

	conn := <-accepted
	defer conn.Close()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("TCP source did not stop after cancellation")
	}
}

func TestTCPCancelledWhileConnecting(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = NewTCP(ln.Addr().String(), FormatRaw, testLogger()).Run(ctx, make(chan Message))
	assert.NoError(t, err)
}

func TestTCPConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	err = NewTCP(addr, FormatRaw, testLogger()).Run(context.Background(), make(chan Message))
	assert.Error(t, err)
}

func TestSerialOpenFailure(t *testing.T) {
	src := NewSerial("/dev/modes1090-does-not-exist", 0, testLogger())
	assert.Equal(t, DefaultBaudRate, src.baud)

	err := src.Run(context.Background(), make(chan Message))
	assert.Error(t, err)
}

func TestNATSHandle(t *testing.T) {
	src := NewNATS(nats.DefaultURL, "adsb.raw", testLogger())
	out := make(chan Message, 4)
	ctx := context.Background()

	assert.True(t, src.handle(ctx, &nats.Msg{Subject: "adsb.raw", Data: []byte("*8D406B902015A678D4D220AA4BDA;")}, out))
	assert.True(t, src.handle(ctx, &nats.Msg{Subject: "adsb.raw", Data: []byte("@zz;")}, out))
	assert.True(t, src.handle(ctx, &nats.Msg{Subject: "adsb.raw", Data: []byte("")}, out))

	require.Len(t, out, 1)
	msg := <-out
	assert.Equal(t, "8D406B902015A678D4D220AA4BDA", msg.Hex)
	assert.Equal(t, uint64(1), src.BadLines())
}
