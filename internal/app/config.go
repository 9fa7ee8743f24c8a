package app

import (
	"fmt"
	"time"

	"modes1090/internal/source"
)

// Output formats
const (
	OutputSBS     = "sbs"
	OutputJSON    = "json"
	OutputMsgpack = "msgpack"
)

// Default configuration constants
const (
	DefaultInput           = "-" // stdin
	DefaultInputFormat     = string(source.FormatRaw)
	DefaultOutputFormat    = OutputSBS
	DefaultWorkers         = 4
	DefaultLogDir          = "./logs"
	DefaultNATSSubject     = "adsb.raw"
	DefaultMQTTTopicPrefix = "modes1090"
	DefaultMQTTClientID    = "modes1090"
	DefaultStatsInterval   = 30 * time.Second
	DefaultCacheTTL        = 60 * time.Second
)

// Config holds application configuration
type Config struct {
	// Exactly one input: Connect, SerialPort, NATSURL or else Input
	Input       string // file path, "-" for stdin
	InputFormat string // raw or beast, for Input and Connect
	Connect     string // host:port of a feeder
	SerialPort  string
	BaudRate    int
	NATSURL     string
	NATSSubject string

	OutputFormat string
	Quiet        bool // no reports on stdout
	LogDir       string
	LogRotateUTC bool
	MaxLogDays   int // 0 keeps every file

	MQTTBroker      string // tcp://host:1883, empty disables
	MQTTTopicPrefix string
	MQTTClientID    string

	Workers         int
	FixErrors       bool
	CacheTTL        time.Duration
	ShowUnconfirmed bool // keep reports whose parity-recovered address is unconfirmed
	StatsInterval   time.Duration

	Verbose     bool
	LogJSON     bool
	ShowVersion bool
}

// DefaultConfig returns the configuration the command line starts from
func DefaultConfig() Config {
	return Config{
		Input:           DefaultInput,
		InputFormat:     DefaultInputFormat,
		BaudRate:        source.DefaultBaudRate,
		NATSSubject:     DefaultNATSSubject,
		OutputFormat:    DefaultOutputFormat,
		LogDir:          DefaultLogDir,
		LogRotateUTC:    true,
		MQTTTopicPrefix: DefaultMQTTTopicPrefix,
		MQTTClientID:    DefaultMQTTClientID,
		Workers:         DefaultWorkers,
		FixErrors:       true,
		CacheTTL:        DefaultCacheTTL,
		StatsInterval:   DefaultStatsInterval,
	}
}

// Validate rejects inconsistent configurations
func (c Config) Validate() error {
	inputs := 0
	for _, in := range []string{c.Connect, c.SerialPort, c.NATSURL} {
		if in != "" {
			inputs++
		}
	}
	if inputs > 1 {
		return fmt.Errorf("only one of --connect, --serial and --nats may be given")
	}
	if inputs == 0 && c.Input == "" {
		return fmt.Errorf("no input given")
	}

	switch source.StreamFormat(c.InputFormat) {
	case source.FormatRaw, source.FormatBeast:
	default:
		return fmt.Errorf("unknown input format %q (want raw or beast)", c.InputFormat)
	}

	switch c.OutputFormat {
	case OutputSBS, OutputJSON, OutputMsgpack:
	default:
		return fmt.Errorf("unknown output format %q (want sbs, json or msgpack)", c.OutputFormat)
	}

	if c.NATSURL != "" && c.NATSSubject == "" {
		return fmt.Errorf("--nats-subject is required with --nats")
	}
	if c.MQTTBroker != "" && c.MQTTTopicPrefix == "" {
		return fmt.Errorf("--mqtt-topic is required with --mqtt")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxLogDays < 0 {
		return fmt.Errorf("max log days must not be negative")
	}
	if c.StatsInterval < 0 || c.CacheTTL < 0 {
		return fmt.Errorf("durations must not be negative")
	}

	return nil
}
