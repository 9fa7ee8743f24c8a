package beast

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxBuffer bounds the bytes kept while waiting for the rest of a message
const maxBuffer = 4096

// Decoder decodes a Beast binary stream. Data may be split anywhere; the
// unfinished tail is kept until the next call.
type Decoder struct {
	logger *logrus.Logger
	buffer []byte
}

// NewDecoder creates a new Beast decoder
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{
		logger: logger,
		buffer: make([]byte, 0, maxBuffer),
	}
}

// Decode appends data to the stream and returns every complete message
func (d *Decoder) Decode(data []byte) []*Message {
	d.buffer = append(d.buffer, data...)

	var messages []*Message

	for {
		// Look for sync byte
		syncIndex := -1
		for i, b := range d.buffer {
			if b == SyncByte {
				syncIndex = i
				break
			}
		}

		if syncIndex == -1 {
			d.buffer = d.buffer[:0]
			break
		}

		if syncIndex > 0 {
			d.logger.WithField("skipped", syncIndex).Debug("Discarding bytes before sync")
			d.buffer = d.buffer[syncIndex:]
		}

		if len(d.buffer) < 2 {
			break
		}

		messageType := d.buffer[1]
		n := payloadLen(messageType)
		if n == 0 {
			// Unknown type or an escaped 0x1A seen out of frame
			d.logger.WithFields(logrus.Fields{
				"message_type": fmt.Sprintf("0x%02x", messageType),
			}).Debug("Unknown message type, skipping")
			d.buffer = d.buffer[1:]
			continue
		}

		body, consumed, state := unescape(d.buffer[2:], headerLen+n)
		if state == incomplete {
			break
		}
		if state == resync {
			// A lone sync byte inside the message starts a new one
			d.logger.WithField("message_type", fmt.Sprintf("0x%02x", messageType)).
				Debug("Truncated Beast message")
			d.buffer = d.buffer[2+consumed:]
			continue
		}

		msg := &Message{
			MessageType: messageType,
			Signal:      body[TimestampLen],
			Data:        body[headerLen:],
		}
		for _, b := range body[:TimestampLen] {
			msg.Timestamp = msg.Timestamp<<8 | uint64(b)
		}
		messages = append(messages, msg)

		d.buffer = d.buffer[2+consumed:]
	}

	// Keep buffer size reasonable
	if len(d.buffer) > maxBuffer {
		d.logger.WithField("buffer_size", len(d.buffer)).Debug("Beast buffer overflow, clearing")
		d.buffer = d.buffer[:0]
	}

	return messages
}

type unescapeState int

const (
	complete unescapeState = iota
	incomplete
	resync
)

// unescape reads want data bytes from src, collapsing doubled sync bytes.
// consumed is the number of src bytes used; on resync it points at the
// sync byte that starts the next message.
func unescape(src []byte, want int) (out []byte, consumed int, state unescapeState) {
	out = make([]byte, 0, want)
	i := 0
	for len(out) < want {
		if i >= len(src) {
			return nil, i, incomplete
		}
		b := src[i]
		if b == SyncByte {
			if i+1 >= len(src) {
				return nil, i, incomplete
			}
			if src[i+1] != SyncByte {
				return nil, i, resync
			}
			i++
		}
		out = append(out, b)
		i++
	}
	return out, i, complete
}
