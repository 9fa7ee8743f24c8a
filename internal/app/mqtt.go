package app

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"modes1090/internal/report"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttQuiesceMillis  = 250
)

// publisher sends one report to a message broker
type publisher interface {
	Publish(r *report.Report) error
	Close()
}

// mqttPublisher publishes reports as JSON to <prefix>/<ICAO>
type mqttPublisher struct {
	client mqtt.Client
	prefix string
	logger *logrus.Logger
}

func newMQTTPublisher(broker, clientID, prefix string, logger *logrus.Logger) (*mqttPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
	}

	logger.WithField("broker", broker).Info("Connected to MQTT broker")

	return &mqttPublisher{client: client, prefix: prefix, logger: logger}, nil
}

func (p *mqttPublisher) Publish(r *report.Report) error {
	if r.ICAO == "" {
		return nil
	}

	payload, err := report.MarshalJSON(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	// Fire and forget: QoS 0, errors surface through the connection handler
	p.client.Publish(topicFor(p.prefix, r.ICAO), 0, false, payload)
	return nil
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(mqttQuiesceMillis)
}

func topicFor(prefix, icao string) string {
	return prefix + "/" + icao
}
