// Package coords converts textual coordinate fragments from ACARS/VDL2
// message bodies into signed decimal degrees.
//
// Downlink dialects encode coordinates several ways: plain decimal degrees
// (sometimes with an implied decimal point, e.g. an integer scaled by 1000),
// degrees with decimal minutes, and degrees/minutes/seconds. One parser
// handles all of them; the caller says which encoding a rule expects.
package coords

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Encoding selects how a coordinate token is interpreted.
type Encoding string

const (
	// DecimalDegrees: the token is already a decimal-degree float,
	// optionally divided by a scale factor supplied by the rule.
	DecimalDegrees Encoding = "dd"
	// DegreesMinutes: sign, 2-3 degree digits, 2 minute digits and an
	// optional fractional-minute digit (e.g. N38578 = 38 deg 57.8 min).
	DegreesMinutes Encoding = "dm"
	// DegreesMinutesSeconds: as DegreesMinutes but the trailing digit is
	// whole seconds instead of tenths of a minute.
	DegreesMinutesSeconds Encoding = "dms"
)

// angularRe splits a hemisphere-stripped token into sign, degrees, minutes
// and the trailing digit. End-anchored so leading junk (fixed prefixes kept
// by context-matching rules) is skipped; 2 or 3 degree digits covers both
// latitude and longitude leading groups.
var angularRe = regexp.MustCompile(`(-?)([01]?\d{2})(\d{2})\.?(\d)$`)

// hemisphereRepl maps hemisphere letters onto signs and drops spaces.
// N/E are positive, S/W negative.
var hemisphereRepl = strings.NewReplacer("N", "", "E", "", "S", "-", "W", "-", " ", "")

// Parse converts a coordinate token to signed decimal degrees, rounded to
// 5 decimal places. div only applies to DecimalDegrees tokens; pass 1 when
// the source carries a real decimal point.
func Parse(token string, enc Encoding, div float64) (float64, error) {
	s := strings.TrimSpace(hemisphereRepl.Replace(token))

	if enc == DegreesMinutes || enc == DegreesMinutesSeconds {
		m := angularRe.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("coordinate %q does not match %s grammar", token, enc)
		}
		deg, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, fmt.Errorf("coordinate %q: %w", token, err)
		}
		var min, sec float64
		if enc == DegreesMinutes {
			min, err = strconv.ParseFloat(m[3]+"."+m[4], 64)
		} else {
			min, err = strconv.ParseFloat(m[3], 64)
			if err == nil {
				sec, err = strconv.ParseFloat(m[4], 64)
			}
		}
		if err != nil {
			return 0, fmt.Errorf("coordinate %q: %w", token, err)
		}
		val := deg + min/60 + sec/3600
		if m[1] == "-" {
			val = -val
		}
		return Round(val), nil
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", token, err)
	}
	if div == 0 {
		div = 1
	}
	return Round(val / div), nil
}

// Round rounds a decimal-degree value to 5 decimal places, the precision
// carried through to the output record.
func Round(deg float64) float64 {
	return math.Round(deg*1e5) / 1e5
}
