package beast

import (
	"fmt"

	"modes1090/internal/frame"
)

// Beast mode message types
const (
	SyncByte   = 0x1A // Beast mode sync byte, doubled when it occurs in data
	ModeAC     = 0x31 // Mode A/C
	ModeS      = 0x32 // Mode S Short (56 bits)
	ModeSLong  = 0x33 // Mode S Long (112 bits)
	ModeStatus = 0x34 // Status
)

// Field sizes after unescaping
const (
	TimestampLen = 6 // 48-bit counter at 12 MHz
	SignalLen    = 1
	headerLen    = TimestampLen + SignalLen
)

// Message represents a decoded Beast mode message
type Message struct {
	MessageType byte
	Timestamp   uint64 // 12 MHz receiver clock
	Signal      byte
	Data        []byte
}

// payloadLen returns the number of unescaped data bytes for a type, 0 when
// the type is unknown
func payloadLen(messageType byte) int {
	switch messageType {
	case ModeAC, ModeStatus:
		return 2
	case ModeS:
		return frame.ShortBytes
	case ModeSLong:
		return frame.LongBytes
	default:
		return 0
	}
}

// IsModeS reports whether the message carries a Mode S frame
func (msg *Message) IsModeS() bool {
	return msg.MessageType == ModeS || msg.MessageType == ModeSLong
}

// IsValid performs basic validation on the message
func (msg *Message) IsValid() bool {
	n := payloadLen(msg.MessageType)
	return n > 0 && len(msg.Data) == n
}

// Frame returns the Mode S frame of a 0x32 or 0x33 message
func (msg *Message) Frame() (frame.Frame, error) {
	if !msg.IsModeS() {
		return frame.Frame{}, fmt.Errorf("beast message type 0x%02x carries no Mode S frame", msg.MessageType)
	}
	return frame.FromBytes(msg.Data)
}

// Encode renders the message in wire format, escaping sync bytes
func (msg *Message) Encode() []byte {
	raw := make([]byte, 0, headerLen+len(msg.Data))
	for i := TimestampLen - 1; i >= 0; i-- {
		raw = append(raw, byte(msg.Timestamp>>(8*uint(i))))
	}
	raw = append(raw, msg.Signal)
	raw = append(raw, msg.Data...)

	out := make([]byte, 0, 2+len(raw)*2)
	out = append(out, SyncByte, msg.MessageType)
	for _, b := range raw {
		if b == SyncByte {
			out = append(out, SyncByte)
		}
		out = append(out, b)
	}
	return out
}

// FromFrame wraps a Mode S frame in a Beast message
func FromFrame(f frame.Frame, timestamp uint64, signal byte) *Message {
	t := byte(ModeS)
	if f.IsLong() {
		t = ModeSLong
	}
	return &Message{
		MessageType: t,
		Timestamp:   timestamp,
		Signal:      signal,
		Data:        f.Bytes(),
	}
}
