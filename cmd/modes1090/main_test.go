package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"flag", []string{"--version"}},
		{"subcommand", []string{"version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "modes1090")
			assert.Contains(t, out, "Version:")
		})
	}
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"output format", []string{"--output", "xml"}, "unknown output format"},
		{"input format", []string{"--input-format", "sbs"}, "unknown input format"},
		{"two inputs", []string{"--connect", "localhost:30005", "--nats", "nats://localhost:4222"}, "only one of"},
		{"workers", []string{"--workers", "0"}, "workers"},
		{"too many args", []string{"a.txt", "b.txt"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	cmd := newRootCommand()

	tests := map[string]string{
		"input":          "-",
		"input-format":   "raw",
		"output":         "sbs",
		"log-dir":        "./logs",
		"workers":        "4",
		"fix":            "true",
		"nats-subject":   "adsb.raw",
		"mqtt-topic":     "modes1090",
		"stats-interval": "30s",
		"icao-ttl":       "1m0s",
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(name)
			require.NotNil(t, flag)
			assert.Equal(t, want, flag.DefValue)
		})
	}
}
