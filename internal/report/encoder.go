package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoder writes reports to an output stream
type Encoder interface {
	Encode(r *Report) error
}

// JSONEncoder writes one JSON object per line
type JSONEncoder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONEncoder creates a JSON lines encoder on w
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{enc: json.NewEncoder(w)}
}

// Encode writes r followed by a newline
func (e *JSONEncoder) Encode(r *Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(r)
}

// MsgpackEncoder writes a stream of msgpack maps keyed like the JSON output
type MsgpackEncoder struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

// NewMsgpackEncoder creates a msgpack stream encoder on w
func NewMsgpackEncoder(w io.Writer) *MsgpackEncoder {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return &MsgpackEncoder{enc: enc}
}

// Encode appends r to the stream
func (e *MsgpackEncoder) Encode(r *Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(r)
}

// MarshalJSON renders a single report as used for MQTT payloads
func MarshalJSON(r *Report) ([]byte, error) {
	return json.Marshal(r)
}
