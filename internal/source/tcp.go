package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// StreamFormat is the encoding of a byte stream input
type StreamFormat string

// Stream formats
const (
	FormatRaw   StreamFormat = "raw"   // AVR / hex lines, dump1090 port 30002
	FormatBeast StreamFormat = "beast" // Beast binary, dump1090 port 30005
)

// DefaultDialTimeout bounds the TCP connect
const DefaultDialTimeout = 10 * time.Second

// NewStream returns the source decoding r in the given format
func NewStream(r io.Reader, format StreamFormat, logger *logrus.Logger) (Source, error) {
	switch format {
	case FormatRaw:
		return NewLines(r, logger), nil
	case FormatBeast:
		return NewBeast(r, logger), nil
	default:
		return nil, fmt.Errorf("unknown stream format %q", format)
	}
}

// TCP connects to a feeder such as dump1090 and reads its output
type TCP struct {
	addr   string
	format StreamFormat
	logger *logrus.Logger
}

// NewTCP creates a TCP client source for addr (host:port)
func NewTCP(addr string, format StreamFormat, logger *logrus.Logger) *TCP {
	return &TCP{addr: addr, format: format, logger: logger}
}

// Run dials the feeder and reads until it disconnects or ctx is cancelled
func (t *TCP) Run(ctx context.Context, out chan<- Message) error {
	dialer := net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect to %s: %w", t.addr, err)
	}
	defer conn.Close()

	// unblock the pending Read on cancellation
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	t.logger.WithFields(logrus.Fields{
		"addr":   t.addr,
		"format": t.format,
	}).Info("Connected to feeder")

	stream, err := NewStream(conn, t.format, t.logger)
	if err != nil {
		return err
	}

	err = stream.Run(ctx, out)
	t.logger.WithField("addr", t.addr).Info("Feeder connection closed")
	return err
}
