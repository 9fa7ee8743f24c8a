package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"modes1090/internal/beast"
)

// Beast reads a Beast binary stream from r. Only Mode S messages (types
// 0x32 and 0x33) are delivered.
type Beast struct {
	r       io.Reader
	logger  *logrus.Logger
	decoder *beast.Decoder
}

// NewBeast creates a Beast source on r
func NewBeast(r io.Reader, logger *logrus.Logger) *Beast {
	return &Beast{
		r:       r,
		logger:  logger,
		decoder: beast.NewDecoder(logger),
	}
}

// Run reads r until EOF or cancellation. Read timeouts (zero byte reads
// or os.ErrDeadlineExceeded) are treated as idle periods.
func (b *Beast) Run(ctx context.Context, out chan<- Message) error {
	buf := make([]byte, 4096)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := b.r.Read(buf)
		if n > 0 {
			for _, m := range b.decoder.Decode(buf[:n]) {
				msg, ok := b.convert(m)
				if !ok {
					continue
				}
				if !send(ctx, out, msg) {
					return nil
				}
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
		default:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read beast stream: %w", err)
		}
	}
}

func (b *Beast) convert(m *beast.Message) (Message, bool) {
	if !m.IsModeS() || !m.IsValid() {
		return Message{}, false
	}

	f, err := m.Frame()
	if err != nil {
		b.logger.WithError(err).Debug("Dropping beast message")
		return Message{}, false
	}

	signal := m.Signal
	return Message{
		Hex:       f.Hex(),
		Received:  time.Now().UTC(),
		Timestamp: m.Timestamp,
		Signal:    &signal,
	}, true
}
