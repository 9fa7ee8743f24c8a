package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Serial defaults for Beast USB receivers
const (
	DefaultBaudRate   = 3000000
	serialReadTimeout = 500 * time.Millisecond
)

// Serial reads a Beast binary stream from a serial port
type Serial struct {
	port   string
	baud   int
	logger *logrus.Logger
}

// NewSerial creates a serial source. A non-positive baud rate selects
// DefaultBaudRate.
func NewSerial(port string, baud int, logger *logrus.Logger) *Serial {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &Serial{port: port, baud: baud, logger: logger}
}

// Run opens the port and reads until cancellation
func (s *Serial) Run(ctx context.Context, out chan<- Message) error {
	mode := &serial.Mode{
		BaudRate: s.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(s.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}
	defer port.Close()

	// Reads return (0, nil) on timeout so cancellation is noticed
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		return fmt.Errorf("failed to set read timeout on %s: %w", s.port, err)
	}

	s.logger.WithFields(logrus.Fields{
		"port": s.port,
		"baud": s.baud,
	}).Info("Opened serial receiver")

	return NewBeast(port, s.logger).Run(ctx, out)
}
