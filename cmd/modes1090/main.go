package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modes1090/internal/app"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	config := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "modes1090",
		Short: "Mode-S / ADS-B message decoder",
		Long: `Mode-S / ADS-B message decoder.

Reads demodulated Mode-S frames (hex or AVR lines, or Beast binary) from a
file, stdin, a dump1090 TCP port, a Beast serial receiver or a NATS subject,
checks and repairs their parity, decodes every downlink format and writes
the reports as BaseStation (SBS) CSV, JSON lines or msgpack.

Example usage:
  modes1090 --connect localhost:30005 --input-format beast
  modes1090 recorded.txt --output json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			if len(args) == 1 {
				config.Input = args[0]
			}
			if err := config.Validate(); err != nil {
				return err
			}

			return app.NewApplication(config).Start()
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&config.Input, "input", "i", config.Input, "Input file, - for stdin")
	flags.StringVarP(&config.InputFormat, "input-format", "F", config.InputFormat, "Input encoding: raw or beast")
	flags.StringVarP(&config.Connect, "connect", "c", "", "Read from a feeder at host:port")
	flags.StringVar(&config.SerialPort, "serial", "", "Read Beast frames from a serial port")
	flags.IntVar(&config.BaudRate, "baud", config.BaudRate, "Serial port baud rate")
	flags.StringVar(&config.NATSURL, "nats", "", "Read lines from a NATS server URL")
	flags.StringVar(&config.NATSSubject, "nats-subject", config.NATSSubject, "NATS subject to subscribe to")

	flags.StringVarP(&config.OutputFormat, "output", "o", config.OutputFormat, "Output format: sbs, json or msgpack")
	flags.BoolVarP(&config.Quiet, "quiet", "q", false, "Do not write reports to stdout")
	flags.StringVarP(&config.LogDir, "log-dir", "l", config.LogDir, "Directory for daily report files, empty disables")
	flags.BoolVarP(&config.LogRotateUTC, "utc", "u", config.LogRotateUTC, "Use UTC for log rotation")
	flags.IntVar(&config.MaxLogDays, "max-log-days", 0, "Remove report files older than this many days, 0 keeps all")

	flags.StringVar(&config.MQTTBroker, "mqtt", "", "Publish reports to an MQTT broker (tcp://host:1883)")
	flags.StringVar(&config.MQTTTopicPrefix, "mqtt-topic", config.MQTTTopicPrefix, "MQTT topic prefix")
	flags.StringVar(&config.MQTTClientID, "mqtt-client-id", config.MQTTClientID, "MQTT client ID")

	flags.IntVarP(&config.Workers, "workers", "w", config.Workers, "Number of decode workers")
	flags.BoolVar(&config.FixErrors, "fix", config.FixErrors, "Repair single bit errors")
	flags.DurationVar(&config.CacheTTL, "icao-ttl", config.CacheTTL, "How long a seen address stays confirmed")
	flags.BoolVar(&config.ShowUnconfirmed, "show-unconfirmed", false, "Also output replies whose recovered address was not seen in a CRC-checked frame")
	flags.DurationVar(&config.StatsInterval, "stats-interval", config.StatsInterval, "Statistics log interval, 0 disables")

	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&config.LogJSON, "log-json", false, "Log in JSON")
	flags.BoolVar(&config.ShowVersion, "version", false, "Show version information")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowVersion(cmd.OutOrStdout())
		},
	})

	return rootCmd
}
