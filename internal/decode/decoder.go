package decode

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"vdl2sbs/internal/airframes"
	"vdl2sbs/internal/rules"
	"vdl2sbs/internal/sbs"
)

// maxXIDAltitude is the sanity ceiling for XID-reported altitudes in feet.
// Values above it are discarded as implausible.
const maxXIDAltitude = 60000

// Decoder turns one raw envelope into one flight-event record. All
// configuration is explicit; the zero value decodes with the default rule
// table, all location sources and no logging.
type Decoder struct {
	// FlightAsCallsign copies the flight number into the callsign field.
	FlightAsCallsign bool
	// Extract applies the free-text rule table; its Location policy also
	// gates the ADS-C and XID position paths.
	Extract rules.Extractor
	// Airframes resolves a registration to a hex address when the
	// aggregator schema supplies neither directly. Optional.
	Airframes *airframes.DB
	// Log receives warnings for malformed input. Optional.
	Log *log.Logger
}

// Decode decodes a single raw JSON envelope. It always returns a record;
// callers check Valid before formatting. Decode never panics on bad input
// and never returns an error: every failure is contained in the record.
func (d *Decoder) Decode(raw []byte) *sbs.Record {
	rec := sbs.New()

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		d.warnf("malformed envelope: %v: %s", err, raw)
		return rec
	}
	if body, ok := probe["vdl2"]; ok {
		d.decodeNative(rec, body)
		return rec
	}
	if _, ok := probe["fromHex"]; ok {
		d.decodeAggregator(rec, raw)
		return rec
	}
	d.warnf("unrecognized envelope schema: %s", raw)
	return rec
}

// decodeNative handles the dumpvdl2 frame schema.
func (d *Decoder) decodeNative(rec *sbs.Record, body []byte) {
	var frame vdl2Frame
	if err := json.Unmarshal(body, &frame); err != nil {
		d.warnf("malformed vdl2 frame: %v", err)
		return
	}
	if frame.AVLC.Src.Type == "" {
		d.warnf("vdl2 frame missing link source")
		return
	}
	// Ground-station transmissions are not aircraft telemetry.
	if frame.AVLC.Src.Type != "Aircraft" {
		return
	}

	rec.HexAddr = frame.AVLC.Src.Addr
	rec.OnGround = frame.AVLC.Src.Status != "Airborne"
	rec.SetTimestamp(time.Unix(frame.T.Sec, frame.T.USec*1000))

	if frame.AVLC.ACARS != nil {
		d.decodeACARS(rec, frame.AVLC.ACARS)
	}
	if frame.AVLC.XID != nil {
		d.decodeXID(rec, frame.AVLC.XID)
	}
	rec.Valid = true
}

// decodeACARS fills the record from an ACARS payload. Structured ADS-C
// reports bypass the rule engine; MIAM transfers recurse into the wrapped
// message; everything else goes through free-text extraction.
func (d *Decoder) decodeACARS(rec *sbs.Record, a *acarsPayload) {
	if a.Reg != "" {
		rec.Registration = a.Reg
	}
	rec.Registration = strings.TrimLeft(rec.Registration, ".")
	if a.Flight != "" {
		rec.Flight = a.Flight
	}
	if d.FlightAsCallsign {
		rec.Callsign = rec.Flight
	}
	if rec.Kind != sbs.KindPosition {
		rec.Kind = sbs.KindACARS
	}

	text := a.text()
	rec.MessageText = text
	rec.MessageLabel = a.Label
	if text != "" {
		rec.Empty = false
	}

	switch {
	case a.ARINC622 != nil:
		if a.ARINC622.ADSC != nil {
			d.decodeADSC(rec, a.ARINC622.ADSC)
		}
	case a.MIAM != nil:
		if inner := a.MIAM.inner(); inner != nil {
			d.decodeACARS(rec, inner)
		}
	default:
		d.Extract.Apply(rec, text, a.Label)
	}
}

// decodeADSC applies structured basic reports directly; the fields arrive
// already decoded, so the rule engine is not involved.
func (d *Decoder) decodeADSC(rec *sbs.Record, adsc *adscPayload) {
	if !d.Extract.Location.AllowsADSC() {
		return
	}
	for _, tag := range adsc.Tags {
		br := tag.BasicReport
		if br == nil {
			continue
		}
		if br.Alt != nil {
			rec.Altitude = formatNumber(*br.Alt)
		}
		if br.Lat != nil {
			rec.Latitude = sbs.FormatCoord(*br.Lat)
		}
		if br.Lon != nil {
			rec.Longitude = sbs.FormatCoord(*br.Lon)
		}
		rec.Kind = sbs.KindPosition
	}
}

// decodeXID scans the parameter list for the aircraft-location and
// destination-airport parameters. Only the altitude is taken from
// ac_location; its position is too coarse to use.
func (d *Decoder) decodeXID(rec *sbs.Record, xid *xidPayload) {
	for _, param := range xid.Params {
		switch param.Name {
		case "ac_location":
			if len(param.Value) == 0 || !d.Extract.Location.AllowsFreeText() {
				continue
			}
			var loc acLocation
			if err := json.Unmarshal(param.Value, &loc); err != nil {
				d.warnf("malformed ac_location value: %v", err)
				continue
			}
			if loc.Alt != nil && *loc.Alt <= maxXIDAltitude {
				rec.Altitude = formatNumber(*loc.Alt)
			} else {
				rec.Altitude = ""
			}
			rec.Kind = sbs.KindPosition
			rec.Empty = false
		case "dst_airport":
			if len(param.Value) == 0 {
				continue
			}
			var dst string
			if err := json.Unmarshal(param.Value, &dst); err != nil {
				d.warnf("malformed dst_airport value: %v", err)
				continue
			}
			rec.DestinationAirport = strings.Trim(dst, ".")
			rec.Empty = false
		}
	}
}

// decodeAggregator handles the flat aggregator feed schema.
func (d *Decoder) decodeAggregator(rec *sbs.Record, raw []byte) {
	var m aggregatorMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		d.warnf("malformed aggregator message: %v: %s", err, raw)
		return
	}
	// Ground-to-aircraft traffic is not telemetry.
	if m.LinkDirection == "uplink" {
		return
	}

	rec.HexAddr = m.FromHex
	if m.Tail != "" {
		rec.Registration = strings.TrimLeft(m.Tail, ".")
	}
	if rec.HexAddr == "" {
		if d.Airframes != nil && rec.Registration != "" {
			rec.HexAddr = d.Airframes.HexForReg(rec.Registration)
		}
		if rec.HexAddr == "" {
			// Nothing identifies the airframe.
			return
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		d.warnf("malformed aggregator timestamp %q: %v", m.Timestamp, err)
		return
	}
	rec.SetTimestamp(ts)

	if m.Reg != "" {
		rec.Registration = strings.TrimLeft(m.Reg, ".")
	}
	if m.FlightNumber != "" {
		rec.Flight = m.FlightNumber
	}
	if d.FlightAsCallsign {
		rec.Callsign = rec.Flight
	}
	rec.Kind = sbs.KindACARS

	text := rules.StripControlMarker(m.Text)
	rec.MessageText = text
	rec.MessageLabel = m.Label
	if text != "" {
		rec.Empty = false
	}

	// Already-structured fields apply first; the free-text pass below may
	// refine them. A zero coordinate means absent in this schema.
	if m.Latitude != nil && *m.Latitude != 0 {
		rec.Latitude = sbs.FormatCoord(*m.Latitude)
	}
	if m.Longitude != nil && *m.Longitude != 0 {
		rec.Longitude = sbs.FormatCoord(*m.Longitude)
	}
	if m.Altitude != nil && *m.Altitude != 0 {
		rec.Altitude = formatNumber(*m.Altitude)
	}

	if text != "" {
		d.Extract.Apply(rec, text, m.Label)
	}
	if rec.HasPosition() {
		rec.Empty = false
	}
	rec.Valid = true
}

func (d *Decoder) warnf(format string, args ...any) {
	if d.Log != nil {
		d.Log.Printf(format, args...)
	}
}

// formatNumber renders a JSON number without a spurious fraction.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
