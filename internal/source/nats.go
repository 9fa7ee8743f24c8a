package source

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// natsBuffer is the subscription channel capacity
const natsBuffer = 1024

// NATS subscribes to a subject whose message payloads are input lines
type NATS struct {
	url     string
	subject string
	logger  *logrus.Logger
	badLine atomic.Uint64
}

// NewNATS creates a NATS source
func NewNATS(url, subject string, logger *logrus.Logger) *NATS {
	return &NATS{url: url, subject: subject, logger: logger}
}

// Run connects, subscribes and forwards messages until cancellation
func (n *NATS) Run(ctx context.Context, out chan<- Message) error {
	nc, err := nats.Connect(n.url,
		nats.Name("modes1090"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				n.logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			n.logger.WithField("url", c.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS %s: %w", n.url, err)
	}
	defer nc.Close()

	msgs := make(chan *nats.Msg, natsBuffer)
	sub, err := nc.ChanSubscribe(n.subject, msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.subject, err)
	}
	defer sub.Unsubscribe()

	n.logger.WithFields(logrus.Fields{
		"url":     n.url,
		"subject": n.subject,
	}).Info("Subscribed to NATS subject")

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-msgs:
			if !n.handle(ctx, m, out) {
				return nil
			}
		}
	}
}

// handle forwards one NATS message; false means ctx ended
func (n *NATS) handle(ctx context.Context, m *nats.Msg, out chan<- Message) bool {
	msg, ok, err := ParseLine(string(m.Data))
	if err != nil {
		n.badLine.Add(1)
		n.logger.WithError(err).WithField("subject", m.Subject).Debug("Skipping NATS message")
		return true
	}
	if !ok {
		return true
	}

	msg.Received = time.Now().UTC()
	return send(ctx, out, msg)
}

// BadLines returns the number of payloads ParseLine rejected
func (n *NATS) BadLines() uint64 {
	return n.badLine.Load()
}
