package rules

import (
	"log"
	"strconv"
	"strings"

	"vdl2sbs/internal/coords"
	"vdl2sbs/internal/sbs"
)

// LocationPolicy gates which sources of position/altitude data are trusted.
// Departure/destination/ETA extraction is never gated.
type LocationPolicy string

const (
	// LocationAll decodes positions from free text, ADS-C reports and XID
	// parameters alike.
	LocationAll LocationPolicy = "all"
	// LocationADSC only trusts structured ADS-C reports; free-text and XID
	// positions are skipped.
	LocationADSC LocationPolicy = "adsc"
	// LocationNone skips position and altitude decoding entirely.
	LocationNone LocationPolicy = "none"
)

// Valid reports whether p is one of the known policies.
func (p LocationPolicy) Valid() bool {
	switch p {
	case LocationAll, LocationADSC, LocationNone:
		return true
	}
	return false
}

// allowsFreeText reports whether free-text and XID positions are trusted.
// The zero policy behaves like LocationAll.
func (p LocationPolicy) allowsFreeText() bool {
	return p == "" || p == LocationAll
}

// AllowsFreeText reports whether free-text and XID position sources are
// trusted under this policy.
func (p LocationPolicy) AllowsFreeText() bool { return p.allowsFreeText() }

// AllowsADSC reports whether structured ADS-C reports are trusted under
// this policy.
func (p LocationPolicy) AllowsADSC() bool {
	return p.allowsFreeText() || p == LocationADSC
}

// Extractor applies the rule table to message bodies. The zero value uses
// the package Table, decodes all location sources and logs nowhere.
type Extractor struct {
	Table    []Rule
	Location LocationPolicy
	Log      *log.Logger
}

// StripControlMarker removes the 4-character "#xxB" framing prefix one
// upstream source leaves on message bodies: '#', a 2-character code and the
// block-type letter 'B'.
func StripControlMarker(body string) string {
	if len(body) >= 4 && body[0] == '#' && body[3] == 'B' {
		return body[4:]
	}
	return body
}

// Apply runs every applicable rule against body in table order and writes
// the extracted fields into rec. Rules do not short-circuit: each matching
// sub-pattern overwrites its field, so the last matching rule wins per
// field. A position match promotes rec to a position report even when the
// captured tokens fail to normalize (those fields degrade to unknown).
func (e *Extractor) Apply(rec *sbs.Record, body, label string) {
	table := e.Table
	if table == nil {
		table = Table
	}
	body = StripControlMarker(body)

	for i := range table {
		rule := &table[i]
		if rule.Label != "" && rule.Label != label {
			continue
		}

		if rule.Pos != nil && e.Location.allowsFreeText() {
			if m := rule.Pos.FindStringSubmatch(body); m != nil {
				rec.Latitude = e.normalize(m[1], rule)
				rec.Longitude = e.normalize(m[2], rule)
				rec.Kind = sbs.KindPosition
			}
		}
		if rule.Alt != nil && e.Location.allowsFreeText() {
			if m := rule.Alt.FindStringSubmatch(body); m != nil {
				if alt, err := strconv.Atoi(m[1]); err == nil {
					mul := rule.AltMul
					if mul == 0 {
						mul = 1
					}
					rec.Altitude = strconv.Itoa(alt * mul)
				}
			}
		}
		if rule.Dep != nil {
			if m := rule.Dep.FindStringSubmatch(body); m != nil {
				rec.DepartureAirport = strings.TrimSpace(m[1])
			}
		}
		if rule.Dst != nil {
			if m := rule.Dst.FindStringSubmatch(body); m != nil {
				rec.DestinationAirport = strings.TrimSpace(m[1])
			}
		}
		if rule.ETA != nil {
			if m := rule.ETA.FindStringSubmatch(body); m != nil {
				rec.ETA = m[1]
			}
		}
	}
}

// normalize decodes one captured coordinate token, returning "" (unknown)
// on failure so a bad token degrades instead of aborting the message.
func (e *Extractor) normalize(token string, rule *Rule) string {
	val, err := coords.Parse(token, rule.PosEnc, rule.PosDiv)
	if err != nil {
		if e.Log != nil {
			e.Log.Printf("unparsable coordinate: %v", err)
		}
		return ""
	}
	return sbs.FormatCoord(val)
}
