package modes

import (
	"errors"
	"fmt"
	"strings"

	"modes1090/internal/frame"
)

// ErrMalformedMessage is returned for input that is not a 14 or 28
// character hexadecimal frame
var ErrMalformedMessage = frame.ErrMalformed

// ErrFormatMismatch is matched by every *FormatMismatchError
var ErrFormatMismatch = errors.New("downlink format mismatch")

// FormatMismatchError reports a field accessor called on a frame whose
// downlink format does not carry that field
type FormatMismatchError struct {
	Expected []DownlinkFormat
	Actual   DownlinkFormat
}

func (e *FormatMismatchError) Error() string {
	want := make([]string, len(e.Expected))
	for i, df := range e.Expected {
		want[i] = fmt.Sprintf("%d", df)
	}
	return fmt.Sprintf("downlink format %d, want one of [%s]", e.Actual, strings.Join(want, " "))
}

// Is makes errors.Is(err, ErrFormatMismatch) hold
func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}
