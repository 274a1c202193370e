// Package sbs holds the canonical flight-event record and renders it as an
// SBS/BaseStation line for flight-tracking display tools.
package sbs

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the SBS message sub-type carried in field 2.
type Kind int

const (
	// KindNone marks a record that decoded but carries no ACARS payload.
	KindNone Kind = 8
	// KindACARS marks a record built from an ACARS text message.
	KindACARS Kind = 1
	// KindPosition marks a record where a position or altitude was decoded.
	KindPosition Kind = 3
)

// Record is the mutable accumulator for one input message. Numeric fields
// are strings because the wire format distinguishes "unknown" (empty) from
// zero; they hold formatted values or "".
type Record struct {
	Kind Kind

	HexAddr      string // 6 hex digits, uppercase
	Registration string

	Date string // YYYY/MM/DD
	Time string // HH:MM:SS.mmm

	Flight   string
	Callsign string

	Altitude     string // feet
	GroundSpeed  string
	Track        string
	Latitude     string // signed decimal degrees, 5 dp
	Longitude    string
	VerticalRate string
	Squawk       string
	OnGround     bool

	DepartureAirport   string
	DestinationAirport string
	ETA                string // HHMM

	// Decoded payload, kept for diagnostics only.
	MessageText  string
	MessageLabel string

	// Valid reports whether decoding succeeded enough to emit anything.
	Valid bool
	// Empty reports that the record carries no payload text and no
	// position or altitude, so it may be suppressed as noise.
	Empty bool
}

// New returns a fresh record in its pre-decode state.
func New() *Record {
	return &Record{Kind: KindNone, Empty: true}
}

// SetTimestamp fills the date and time fields from a UTC instant, keeping
// millisecond precision.
func (r *Record) SetTimestamp(t time.Time) {
	t = t.UTC()
	r.Date = t.Format("2006/01/02")
	r.Time = t.Format("15:04:05.000")
}

// HasPosition reports whether any position or altitude field is populated.
func (r *Record) HasPosition() bool {
	return r.Latitude != "" || r.Longitude != "" || r.Altitude != ""
}

// FormatCoord renders a decimal-degree value with up to 5 decimal places,
// trailing zeros trimmed the way the consuming tools expect.
func FormatCoord(deg float64) string {
	s := strconv.FormatFloat(deg, 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Format renders the record as one SBS/BaseStation MSG line. Unknown fields
// are literal empty strings between commas, never "null" or a sentinel.
// Returns "" for invalid records: no output is produced for them.
func (r *Record) Format() string {
	if !r.Valid {
		return ""
	}
	ground := "0"
	if r.OnGround {
		ground = "1"
	}
	fields := []string{
		"MSG",
		strconv.Itoa(int(r.Kind)),
		"1", // session ID, fixed
		"1", // aircraft ID, fixed
		r.HexAddr,
		"1", // flight ID, fixed
		r.Date,
		r.Time,
		r.Date, // logged date/time mirror the message date/time
		r.Time,
		r.Callsign,
		r.Altitude,
		r.GroundSpeed,
		r.Track,
		r.Latitude,
		r.Longitude,
		r.VerticalRate,
		r.Squawk,
		"", // alert
		"", // emergency
		"", // SPI
		ground,
		r.Registration,
		r.Flight,
		r.DepartureAirport,
		r.DestinationAirport,
		r.ETA,
	}
	return strings.Join(fields, ",")
}
