// Package decoder turns frames into reports. It checks the CRC of the
// formats that carry a plain parity field, repairs single bit errors,
// confirms addresses recovered from the AP field against recently seen
// ones and runs every field accessor that applies to the frame.
package decoder

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modes1090/internal/adsb"
	"modes1090/internal/crc"
	"modes1090/internal/frame"
	"modes1090/internal/icaocache"
	"modes1090/internal/modes"
	"modes1090/internal/report"
)

// ErrBadCRC is returned for DF 11/17/18 frames whose parity does not
// check and could not be repaired
var ErrBadCRC = errors.New("CRC check failed")

// ErrInvalidCodeLabel marks a DF 11 reply whose interrogator code label is
// not defined. The reply is still decoded.
var ErrInvalidCodeLabel = errors.New("undefined interrogator code label")

// maxIID is the largest syndrome a valid DF 11 reply may leave: its
// parity is overlaid with the 7-bit interrogator identifier
const maxIID = 0x7f

const dfBits = 5

// Options controls the CRC handling
type Options struct {
	// FixErrors enables single bit error repair on DF 11/17/18
	FixErrors bool
}

// Decoder is safe for concurrent use
type Decoder struct {
	logger  *logrus.Logger
	seen    *icaocache.Cache
	options Options
	stats   counters
}

type counters struct {
	messages  atomic.Uint64
	malformed atomic.Uint64
	badCRC    atomic.Uint64
	corrected atomic.Uint64
	confirmed atomic.Uint64
	perDF     [32]atomic.Uint64
}

// Stats is a snapshot of the decoder counters
type Stats struct {
	Messages  uint64
	Malformed uint64
	BadCRC    uint64
	Corrected uint64
	Confirmed uint64
	PerDF     map[int]uint64
}

// New creates a decoder. A nil cache disables address confirmation.
func New(logger *logrus.Logger, seen *icaocache.Cache, options Options) *Decoder {
	return &Decoder{
		logger:  logger,
		seen:    seen,
		options: options,
	}
}

// DecodeString parses a hex message and decodes it
func (d *Decoder) DecodeString(msg string, received time.Time) (*report.Report, error) {
	f, err := frame.Parse(msg)
	if err != nil {
		d.stats.malformed.Add(1)
		return nil, err
	}
	return d.Decode(f, received)
}

// Decode builds the report for one frame
func (d *Decoder) Decode(f frame.Frame, received time.Time) (*report.Report, error) {
	d.stats.messages.Add(1)

	df := modes.Format(f)
	d.stats.perDF[df&31].Add(1)

	r := &report.Report{
		Time:   received,
		Raw:    f.Hex(),
		DF:     uint8(df),
		Format: df.String(),
	}

	// for DF 11 the syndrome left after the check is the interrogator
	// identifier overlaid on the parity
	var iid uint32
	switch df {
	case modes.DFAllCall, modes.DFExtendedSquitter, modes.DFNonTransponder:
		fixed, syndrome, err := d.checkParity(f, r)
		if err != nil {
			return nil, err
		}
		f, iid = fixed, syndrome
	}

	switch df {
	case modes.DFShortAirAir, modes.DFLongAirAir:
		d.decodeAirAir(f, r)
	case modes.DFAltitudeReply, modes.DFIdentityReply, modes.DFCommBAltitude, modes.DFCommBIdentity:
		d.decodeSurveillance(f, r)
	case modes.DFAllCall:
		d.decodeAllCall(f, iid, r)
	case modes.DFExtendedSquitter:
		d.decodeSquitter(f, r)
	default:
		if icao, err := modes.ICAO(f); err == nil {
			r.ICAO = icao
		}
		d.remember(r)
	}

	if modes.HasAddressParity(df) {
		d.confirm(r)
	}

	return r, nil
}

// checkParity verifies the parity of a frame with a plain CRC field and
// tries a single bit repair when enabled. It returns the frame to decode
// and its remaining syndrome.
func (d *Decoder) checkParity(f frame.Frame, r *report.Report) (frame.Frame, uint32, error) {
	df := modes.Format(f)
	msg := f.Bytes()
	syndrome := crc.Syndrome(msg)

	if parityOK(df, syndrome) {
		r.CRCOK = true
		return f, syndrome, nil
	}

	if d.options.FixErrors {
		if bit := repair(df, msg, syndrome); bit > 0 {
			fixed, err := frame.FromBytes(msg)
			if err == nil {
				d.stats.corrected.Add(1)
				d.logger.WithFields(logrus.Fields{
					"raw": f.Hex(),
					"bit": bit,
				}).Debug("Corrected single bit error")

				r.Raw = fixed.Hex()
				r.CRCOK = true
				r.CorrectedBits = 1
				return fixed, crc.Syndrome(msg), nil
			}
		}
	}

	d.stats.badCRC.Add(1)
	return f, syndrome, fmt.Errorf("%w: %s syndrome %06X", ErrBadCRC, f.Hex(), syndrome)
}

// repair flips the bit explaining the syndrome and returns its position,
// or -1. A DF 11 syndrome also carries the unknown interrogator
// identifier, so each possible overlay is removed in turn.
func repair(df modes.DownlinkFormat, msg []byte, syndrome uint32) int {
	var overlays uint32
	if df == modes.DFAllCall {
		overlays = maxIID
	}

	for iid := uint32(0); iid <= overlays; iid++ {
		bit, ok := crc.SingleBitError(len(msg), syndrome^iid)
		// a repair inside the DF field would change the format being decoded
		if !ok || bit <= dfBits {
			continue
		}
		return crc.FixSingleBit(msg, syndrome^iid)
	}
	return -1
}

func parityOK(df modes.DownlinkFormat, syndrome uint32) bool {
	if df == modes.DFAllCall {
		return syndrome <= maxIID
	}
	return syndrome == 0
}

// confirm marks an AP-recovered address as confirmed when the same
// address was recently seen in a frame with a checked CRC
func (d *Decoder) confirm(r *report.Report) {
	if d.seen == nil || r.ICAO == "" {
		return
	}
	if d.seen.Seen(r.ICAO) {
		r.ICAOConfirmed = true
		r.CRCOK = true
		d.stats.confirmed.Add(1)
	}
}

// remember adds the address of a CRC-checked frame to the cache
func (d *Decoder) remember(r *report.Report) {
	if d.seen != nil && r.CRCOK && r.ICAO != "" {
		d.seen.Add(r.ICAO)
		r.ICAOConfirmed = true
	}
}

func (d *Decoder) decodeAirAir(f frame.Frame, r *report.Report) {
	if icao, err := modes.AirAirICAO(f); err == nil {
		r.ICAO = icao
	} else {
		r.Warn("icao", err)
	}

	if alt, err := modes.AirAirAltitude(f); err == nil {
		r.Altitude = report.Int(alt)
	} else {
		r.Warn("altitude", err)
	}

	if vs, err := modes.VerticalStatus(f); err == nil {
		r.VerticalStatus = report.Bool(vs)
		r.OnGround = report.Bool(vs)
	}
	if sl, err := modes.SensitivityLevel(f); err == nil {
		r.SensitivityLevel = report.Uint8(sl)
	}
	if ri, err := modes.ReplyInformation(f); err == nil {
		r.ReplyInformation = report.Uint8(ri)
	}

	// DF 0 only
	if cc, err := modes.CrosslinkCapability(f); err == nil {
		r.CrosslinkCapability = report.Bool(cc)
	}
}

func (d *Decoder) decodeSurveillance(f frame.Frame, r *report.Report) {
	if icao, ok := modes.RecoverICAO(f); ok {
		r.ICAO = icao
	}

	if fs, err := modes.FlightStatus(f); err == nil {
		r.FlightStatus = report.Uint8(fs)
		r.OnGround = groundFromFlightStatus(fs)
	}
	if dr, err := modes.DownlinkRequest(f); err == nil {
		r.DownlinkRequest = report.Uint8(dr)
	}
	if um, err := modes.UtilityMessage(f); err == nil {
		r.UtilityMessage = report.Uint8(um)
	}

	switch modes.Format(f) {
	case modes.DFAltitudeReply, modes.DFCommBAltitude:
		if alt, err := modes.Altitude(f); err == nil {
			r.Altitude = report.Int(alt)
		} else {
			r.Warn("altitude", err)
		}
	default:
		if id, err := modes.IdentityCode(f); err == nil {
			r.IdentityCode = id
		} else {
			r.Warn("identity", err)
		}
	}
}

func (d *Decoder) decodeAllCall(f frame.Frame, iid uint32, r *report.Report) {
	if icao, err := modes.AllCallICAO(f); err == nil {
		r.ICAO = icao
	}

	if ca, err := modes.Capability(f); err == nil {
		r.Capability = report.Uint8(ca)
		r.OnGround = groundFromCapability(ca)
	}

	id := modes.InterrogatorFromCode(uint8(iid>>4&7), int(iid&0xf))
	r.Interrogator = id.String()
	if id.Kind == modes.InterrogatorInvalidCodeLabel {
		r.Warn("interrogator", fmt.Errorf("%w: code label %03b", ErrInvalidCodeLabel, id.CodeLabel))
	}

	d.remember(r)
}

func (d *Decoder) decodeSquitter(f frame.Frame, r *report.Report) {
	if icao, err := adsb.ICAO(f); err == nil {
		r.ICAO = icao
	} else {
		// short DF 17: nothing else decodes either
		r.Warn("icao", err)
		return
	}

	if ca, err := adsb.Category(f); err == nil {
		r.Category = report.Uint8(ca)
		r.OnGround = groundFromCapability(ca)
	}

	tc, err := adsb.TypeCode(f)
	if err != nil {
		r.Warn("type code", err)
		return
	}
	r.TypeCode = report.Uint8(tc)

	switch {
	case tc >= adsb.TypeCodeIdentSetD && tc <= adsb.TypeCodeIdentSetA:
		if em, err := adsb.EmitterCategory(f); err == nil {
			r.Emitter = em.String()
		}
		if cs, err := adsb.Callsign(f); err == nil {
			r.Callsign = cs
		} else {
			r.Warn("callsign", err)
		}
	case tc >= adsb.TypeCodeSurfaceFirst && tc <= adsb.TypeCodeSurfaceLast:
		r.OnGround = report.Bool(true)
	case tc == adsb.TypeCodeAircraftStatus:
		if sq, err := adsb.Squawk(f); err == nil {
			r.Squawk = sq
		} else {
			r.Warn("squawk", err)
		}
	}

	if nic, err := adsb.NICValue(f); err == nil {
		r.NIC = nic.String()
	}

	d.remember(r)
}

// groundFromFlightStatus maps FS 0/2 to airborne and FS 1/3 to on ground
func groundFromFlightStatus(fs uint8) *bool {
	switch fs {
	case 0, 2:
		return report.Bool(false)
	case 1, 3:
		return report.Bool(true)
	}
	return nil
}

// groundFromCapability maps CA 4 to on ground and CA 5 to airborne
func groundFromCapability(ca uint8) *bool {
	switch ca {
	case 4:
		return report.Bool(true)
	case 5:
		return report.Bool(false)
	}
	return nil
}

// Stats returns a snapshot of the counters
func (d *Decoder) Stats() Stats {
	s := Stats{
		Messages:  d.stats.messages.Load(),
		Malformed: d.stats.malformed.Load(),
		BadCRC:    d.stats.badCRC.Load(),
		Corrected: d.stats.corrected.Load(),
		Confirmed: d.stats.confirmed.Load(),
		PerDF:     make(map[int]uint64),
	}
	for df := range d.stats.perDF {
		if n := d.stats.perDF[df].Load(); n > 0 {
			s.PerDF[df] = n
		}
	}
	return s
}
