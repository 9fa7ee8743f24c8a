package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Lines reads newline separated text frames from r
type Lines struct {
	r       io.Reader
	logger  *logrus.Logger
	badLine atomic.Uint64
}

// NewLines creates a line source on r
func NewLines(r io.Reader, logger *logrus.Logger) *Lines {
	return &Lines{r: r, logger: logger}
}

// Run scans r until EOF or cancellation
func (l *Lines) Run(ctx context.Context, out chan<- Message) error {
	scanner := bufio.NewScanner(l.r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		msg, ok, err := ParseLine(scanner.Text())
		if err != nil {
			l.badLine.Add(1)
			l.logger.WithError(err).Debug("Skipping input line")
			continue
		}
		if !ok {
			continue
		}

		msg.Received = time.Now().UTC()
		if !send(ctx, out, msg) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// BadLines returns the number of lines ParseLine rejected
func (l *Lines) BadLines() uint64 {
	return l.badLine.Load()
}
