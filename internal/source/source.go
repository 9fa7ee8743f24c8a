// Package source reads demodulated Mode S frames from the supported inputs:
// text lines (plain hex or AVR), Beast binary streams over TCP or a serial
// port, and NATS subjects carrying one line per message.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Message is one frame as delivered by a source. Hex is not validated
// here; the decoder rejects malformed frames.
type Message struct {
	Hex       string
	Received  time.Time
	Timestamp uint64 // receiver clock (12 MHz), 0 when unknown
	Signal    *uint8
}

// Source delivers messages until its input ends or ctx is cancelled.
// Run returns nil in both cases and an error only when reading fails.
type Source interface {
	Run(ctx context.Context, out chan<- Message) error
}

// ErrBadLine is returned by ParseLine for lines that are neither plain hex
// nor AVR
var ErrBadLine = errors.New("unrecognised input line")

// mlatTimestampHex is the width of the timestamp in '@' lines
const mlatTimestampHex = 12

// ParseLine extracts the frame of one input line. Accepted forms are plain
// hex, AVR "*<hex>;" and AVR with timestamp "@<12 hex><hex>;". ok is false
// for blank lines and '#' comments.
func ParseLine(line string) (msg Message, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Message{}, false, nil
	}

	switch line[0] {
	case '*':
		msg.Hex = strings.TrimSuffix(line[1:], ";")
	case '@':
		body := strings.TrimSuffix(line[1:], ";")
		if len(body) < mlatTimestampHex {
			return Message{}, false, fmt.Errorf("%w: %q", ErrBadLine, line)
		}
		ts, err := strconv.ParseUint(body[:mlatTimestampHex], 16, 64)
		if err != nil {
			return Message{}, false, fmt.Errorf("%w: timestamp %q", ErrBadLine, body[:mlatTimestampHex])
		}
		msg.Timestamp = ts
		msg.Hex = body[mlatTimestampHex:]
	default:
		if strings.ContainsAny(line, "*@;") {
			return Message{}, false, fmt.Errorf("%w: %q", ErrBadLine, line)
		}
		msg.Hex = line
	}

	if msg.Hex == "" {
		return Message{}, false, fmt.Errorf("%w: %q", ErrBadLine, line)
	}
	return msg, true, nil
}

// send delivers msg unless ctx is done first
func send(ctx context.Context, out chan<- Message, msg Message) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
