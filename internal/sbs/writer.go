// Package sbs renders reports as BaseStation (SBS-1) CSV lines, the format
// served by dump1090 on port 30003.
package sbs

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"modes1090/internal/report"
)

// BaseStationMSG is the only message type written: a transmission
const BaseStationMSG = "MSG"

// BaseStation transmission types. Types 2-4 carry positions and velocities,
// which are not decoded.
const (
	TransmissionESIdentCategory = 1 // Extended Squitter Aircraft ID and Category
	TransmissionSurveillance    = 5 // Surveillance Alt, Squawk change
	TransmissionSurveillanceID  = 6 // Surveillance ID change
	TransmissionAirToAir        = 7 // Air-to-Air Message
	TransmissionAllCall         = 8 // All Call Reply
)

// Flag values used in the boolean columns
const (
	flagTrue  = "-1"
	flagFalse = "0"
)

const (
	dateLayout = "2006/01/02"
	timeLayout = "15:04:05.000"
)

// Message represents a BaseStation format message
type Message struct {
	MessageType      string
	TransmissionType int
	SessionID        int
	AircraftID       int
	HexIdent         string
	FlightID         int
	Generated        time.Time
	Logged           time.Time
	Callsign         string
	Altitude         string
	GroundSpeed      string
	Track            string
	Latitude         string
	Longitude        string
	VerticalRate     string
	Squawk           string
	Alert            string
	Emergency        string
	SPI              string
	IsOnGround       string
}

// Writer writes reports in BaseStation format. Reports with no
// BaseStation equivalent are skipped.
type Writer struct {
	mu         sync.Mutex
	w          io.Writer
	sessionID  int
	aircraftID int
	now        func() time.Time
}

// NewWriter creates a BaseStation writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:          w,
		sessionID:  1,
		aircraftID: 1,
		now:        time.Now,
	}
}

// Encode writes the report as one CSV line
func (w *Writer) Encode(r *report.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}

	msg := w.Convert(r)
	if msg == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.w, FormatCSV(msg)+"\n"); err != nil {
		return fmt.Errorf("failed to write SBS line: %w", err)
	}
	return nil
}

// Convert maps a report to a BaseStation message, nil when the report has
// no address or no matching transmission type
func (w *Writer) Convert(r *report.Report) *Message {
	if r.ICAO == "" {
		return nil
	}

	tt := transmissionType(r)
	if tt == 0 {
		return nil
	}

	generated := r.Time
	if generated.IsZero() {
		generated = w.now()
	}

	msg := &Message{
		MessageType:      BaseStationMSG,
		TransmissionType: tt,
		SessionID:        w.sessionID,
		AircraftID:       w.aircraftID,
		HexIdent:         r.ICAO,
		FlightID:         w.aircraftID,
		Generated:        generated,
		Logged:           w.now(),
		Callsign:         r.Callsign,
		Squawk:           r.ModeA(),
	}

	if r.Altitude != nil {
		msg.Altitude = strconv.Itoa(*r.Altitude)
	}
	if r.OnGround != nil {
		msg.IsOnGround = flag(*r.OnGround)
	}

	if r.FlightStatus != nil {
		fs := *r.FlightStatus
		msg.Alert = flag(fs >= 2 && fs <= 4)
		msg.SPI = flag(fs == 4 || fs == 5)
	}
	if msg.Squawk != "" {
		msg.Emergency = flag(isEmergency(msg.Squawk))
	}

	return msg
}

func transmissionType(r *report.Report) int {
	switch r.DF {
	case 17:
		if r.TypeCode == nil {
			return 0
		}
		switch tc := *r.TypeCode; {
		case tc >= 1 && tc <= 4:
			return TransmissionESIdentCategory
		case tc == 28 && r.Squawk != "":
			return TransmissionSurveillanceID
		}
		return 0
	case 4, 20:
		return TransmissionSurveillance
	case 5, 21:
		return TransmissionSurveillanceID
	case 0, 16:
		return TransmissionAirToAir
	case 11:
		return TransmissionAllCall
	}
	return 0
}

func isEmergency(squawk string) bool {
	switch squawk {
	case "7500", "7600", "7700":
		return true
	}
	return false
}

func flag(b bool) string {
	if b {
		return flagTrue
	}
	return flagFalse
}

// FormatCSV formats a BaseStation message as CSV
func FormatCSV(msg *Message) string {
	fields := []string{
		msg.MessageType,
		strconv.Itoa(msg.TransmissionType),
		strconv.Itoa(msg.SessionID),
		strconv.Itoa(msg.AircraftID),
		msg.HexIdent,
		strconv.Itoa(msg.FlightID),
		msg.Generated.Format(dateLayout),
		msg.Generated.Format(timeLayout),
		msg.Logged.Format(dateLayout),
		msg.Logged.Format(timeLayout),
		msg.Callsign,
		msg.Altitude,
		msg.GroundSpeed,
		msg.Track,
		msg.Latitude,
		msg.Longitude,
		msg.VerticalRate,
		msg.Squawk,
		msg.Alert,
		msg.Emergency,
		msg.SPI,
		msg.IsOnGround,
	}

	return strings.Join(fields, ",")
}
