package decode

import (
	"testing"

	"vdl2sbs/internal/airframes"
	"vdl2sbs/internal/rules"
	"vdl2sbs/internal/sbs"
)

func newTestDecoder() *Decoder {
	return &Decoder{
		FlightAsCallsign: true,
		Extract:          rules.Extractor{Location: rules.LocationAll},
	}
}

const nativePOSRPT = `{"vdl2":{"t":{"sec":1632167877,"usec":345000},"avlc":{` +
	`"src":{"type":"Aircraft","addr":"A1B2C3","status":"Airborne"},` +
	`"acars":{"reg":".N503DN","flight":"DL0073","label":"80",` +
	`"msg_text":"3N01 POSRPT 0073/18 EHAM/KATL .N503DN\n/POS N39176W077051/ALT 380/MCH 853/FOB 0384\n/TME 1609/WND 273 027/OAT -050/TAS 0496/ETA 1726"}}}}`

func TestDecodeNativePositionReport(t *testing.T) {
	rec := newTestDecoder().Decode([]byte(nativePOSRPT))

	if !rec.Valid {
		t.Fatal("record not valid")
	}
	if rec.Kind != sbs.KindPosition {
		t.Errorf("kind = %v, want %v", rec.Kind, sbs.KindPosition)
	}
	if rec.HexAddr != "A1B2C3" {
		t.Errorf("hex = %q, want A1B2C3", rec.HexAddr)
	}
	if rec.Registration != "N503DN" {
		t.Errorf("registration = %q, want N503DN (leading dot stripped)", rec.Registration)
	}
	if rec.Flight != "DL0073" || rec.Callsign != "DL0073" {
		t.Errorf("flight/callsign = %q/%q, want DL0073/DL0073", rec.Flight, rec.Callsign)
	}
	if rec.OnGround {
		t.Error("airborne frame marked on ground")
	}
	if rec.Date != "2021/09/20" || rec.Time != "19:57:57.345" {
		t.Errorf("timestamp = %q %q", rec.Date, rec.Time)
	}
	if rec.Latitude != "39.29333" || rec.Longitude != "-77.085" {
		t.Errorf("position = %q,%q", rec.Latitude, rec.Longitude)
	}
	if rec.Altitude != "38000" {
		t.Errorf("altitude = %q, want 38000", rec.Altitude)
	}
	if rec.DepartureAirport != "EHAM" || rec.DestinationAirport != "KATL" || rec.ETA != "1726" {
		t.Errorf("route = %q -> %q eta %q", rec.DepartureAirport, rec.DestinationAirport, rec.ETA)
	}
	if rec.Empty {
		t.Error("record with text marked empty")
	}
}

func TestDecodeNativeGenericPOS(t *testing.T) {
	raw := `{"vdl2":{"t":{"sec":1632000000,"usec":500000},"avlc":{` +
		`"src":{"type":"Aircraft","addr":"A1B2C3","status":"Airborne"},` +
		`"acars":{"reg":"N123AB","flight":"DAL123","label":"H1",` +
		`"msg_text":"POSN38578W076083,JAY01,033904,195,"}}}}`
	rec := newTestDecoder().Decode([]byte(raw))

	if !rec.Valid || rec.Kind != sbs.KindPosition {
		t.Fatalf("valid=%v kind=%v", rec.Valid, rec.Kind)
	}
	if rec.Latitude != "38.96333" || rec.Longitude != "-76.13833" {
		t.Errorf("position = %q,%q", rec.Latitude, rec.Longitude)
	}
	if rec.Altitude != "19500" {
		t.Errorf("altitude = %q, want 19500", rec.Altitude)
	}
	if rec.Date != "2021/09/18" || rec.Time != "21:20:00.500" {
		t.Errorf("timestamp = %q %q", rec.Date, rec.Time)
	}
}

func TestDecodeNativeGroundStation(t *testing.T) {
	raw := `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{"src":{"type":"GroundStation","addr":"2E4F01"}}}}`
	rec := newTestDecoder().Decode([]byte(raw))
	if rec.Valid {
		t.Error("ground-station frame produced a valid record")
	}
}

func TestDecodeNativeMissingSource(t *testing.T) {
	raw := `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{}}}`
	rec := newTestDecoder().Decode([]byte(raw))
	if rec.Valid {
		t.Error("frame without a link source produced a valid record")
	}
}

func TestDecodeMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     `{"vdl2":`,
		"wrong schema": `{"foo":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := newTestDecoder().Decode([]byte(raw))
			if rec.Valid {
				t.Error("malformed envelope produced a valid record")
			}
		})
	}
}

func TestDecodeXIDLocation(t *testing.T) {
	tests := []struct {
		name    string
		alt     string
		wantAlt string
	}{
		{"plausible altitude", "35000", "35000"},
		{"implausible altitude discarded", "65000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{` +
				`"src":{"type":"Aircraft","addr":"A1B2C3","status":"On ground"},` +
				`"xid":{"vdl_params":[{"name":"ac_location","value":{"alt":` + tt.alt + `}},` +
				`{"name":"dst_airport","value":"KJFK.."}]}}}}`
			rec := newTestDecoder().Decode([]byte(raw))

			if !rec.Valid {
				t.Fatal("record not valid")
			}
			if rec.Altitude != tt.wantAlt {
				t.Errorf("altitude = %q, want %q", rec.Altitude, tt.wantAlt)
			}
			if rec.Kind != sbs.KindPosition {
				t.Errorf("kind = %v, want %v", rec.Kind, sbs.KindPosition)
			}
			if rec.Empty {
				t.Error("record marked empty")
			}
			if !rec.OnGround {
				t.Error("non-airborne frame not marked on ground")
			}
			if rec.DestinationAirport != "KJFK" {
				t.Errorf("destination = %q, want KJFK (dots trimmed)", rec.DestinationAirport)
			}
		})
	}
}

func TestDecodeXIDLocationGatedByPolicy(t *testing.T) {
	raw := `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{` +
		`"src":{"type":"Aircraft","addr":"A1B2C3","status":"Airborne"},` +
		`"xid":{"vdl_params":[{"name":"ac_location","value":{"alt":35000}}]}}}}`
	d := newTestDecoder()
	d.Extract.Location = rules.LocationADSC
	rec := d.Decode([]byte(raw))

	if rec.Altitude != "" {
		t.Errorf("altitude = %q, want empty under adsc policy", rec.Altitude)
	}
	if rec.Kind != sbs.KindNone {
		t.Errorf("kind = %v, want %v", rec.Kind, sbs.KindNone)
	}
}

func adscEnvelope() string {
	return `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{` +
		`"src":{"type":"Aircraft","addr":"A1B2C3","status":"Airborne"},` +
		`"acars":{"reg":"N503DN","flight":"DL0073","label":"B6","msg_text":"ignored by engine",` +
		`"arinc622":{"adsc":{"tags":[{"basic_report":{"lat":38.9,"lon":-76.1,"alt":35000}}]}}}}}}`
}

func TestDecodeADSCBasicReport(t *testing.T) {
	rec := newTestDecoder().Decode([]byte(adscEnvelope()))

	if rec.Latitude != "38.9" || rec.Longitude != "-76.1" {
		t.Errorf("position = %q,%q, want 38.9,-76.1", rec.Latitude, rec.Longitude)
	}
	if rec.Altitude != "35000" {
		t.Errorf("altitude = %q, want 35000", rec.Altitude)
	}
	if rec.Kind != sbs.KindPosition {
		t.Errorf("kind = %v, want %v", rec.Kind, sbs.KindPosition)
	}
}

func TestDecodeADSCUnderADSCOnlyPolicy(t *testing.T) {
	d := newTestDecoder()
	d.Extract.Location = rules.LocationADSC
	rec := d.Decode([]byte(adscEnvelope()))

	if rec.Latitude != "38.9" {
		t.Errorf("latitude = %q, want 38.9 (adsc policy trusts adsc)", rec.Latitude)
	}
}

func TestDecodeADSCUnderNonePolicy(t *testing.T) {
	d := newTestDecoder()
	d.Extract.Location = rules.LocationNone
	rec := d.Decode([]byte(adscEnvelope()))

	if rec.Latitude != "" || rec.Altitude != "" {
		t.Errorf("position data under none policy: %q %q", rec.Latitude, rec.Altitude)
	}
	if rec.Kind != sbs.KindACARS {
		t.Errorf("kind = %v, want %v", rec.Kind, sbs.KindACARS)
	}
}

func TestDecodeMIAMRecursion(t *testing.T) {
	raw := `{"vdl2":{"t":{"sec":1632167877,"usec":0},"avlc":{` +
		`"src":{"type":"Aircraft","addr":"A1B2C3","status":"Airborne"},` +
		`"acars":{"reg":"N503DN","label":"MA","msg_text":"<compressed>",` +
		`"miam":{"single_transfer":{"miam_core":{"data":{"acars":` +
		`{"label":"H1","message":{"text":"S/N L:000000            DEPART:KMCO   DEST:KEWR "}}}}}}}}}}`
	rec := newTestDecoder().Decode([]byte(raw))

	if rec.DepartureAirport != "KMCO" || rec.DestinationAirport != "KEWR" {
		t.Errorf("route = %q -> %q, want KMCO -> KEWR (inner message decoded)",
			rec.DepartureAirport, rec.DestinationAirport)
	}
	if rec.MessageLabel != "H1" {
		t.Errorf("label = %q, want inner H1", rec.MessageLabel)
	}
}

const aggregatorPOS = `{"fromHex":"A1B2C3","tail":".N123AB","reg":"N321BA","flightNumber":"DL123",` +
	`"label":"H2","text":"POSN38578W076083,JAY01,033904,195,HED01",` +
	`"timestamp":"2021-09-20T19:57:57.345678Z","linkDirection":"downlink"}`

func TestDecodeAggregator(t *testing.T) {
	rec := newTestDecoder().Decode([]byte(aggregatorPOS))

	if !rec.Valid {
		t.Fatal("record not valid")
	}
	if rec.HexAddr != "A1B2C3" {
		t.Errorf("hex = %q", rec.HexAddr)
	}
	if rec.Registration != "N321BA" {
		t.Errorf("registration = %q, want N321BA (reg overrides tail)", rec.Registration)
	}
	if rec.Flight != "DL123" || rec.Callsign != "DL123" {
		t.Errorf("flight/callsign = %q/%q", rec.Flight, rec.Callsign)
	}
	if rec.Date != "2021/09/20" || rec.Time != "19:57:57.345" {
		t.Errorf("timestamp = %q %q", rec.Date, rec.Time)
	}
	if rec.Latitude != "38.96333" || rec.Longitude != "-76.13833" {
		t.Errorf("position = %q,%q", rec.Latitude, rec.Longitude)
	}
	if rec.Altitude != "19500" {
		t.Errorf("altitude = %q, want 19500", rec.Altitude)
	}
}

func TestDecodeAggregatorDirectFields(t *testing.T) {
	raw := `{"fromHex":"A1B2C3","tail":"N123AB","text":"",` +
		`"timestamp":"2021-09-20T19:57:57Z","linkDirection":"downlink",` +
		`"latitude":38.9,"longitude":0,"altitude":35000}`
	rec := newTestDecoder().Decode([]byte(raw))

	if !rec.Valid {
		t.Fatal("record not valid")
	}
	if rec.Latitude != "38.9" {
		t.Errorf("latitude = %q, want 38.9", rec.Latitude)
	}
	if rec.Longitude != "" {
		t.Errorf("longitude = %q, want empty (zero means absent)", rec.Longitude)
	}
	if rec.Altitude != "35000" {
		t.Errorf("altitude = %q, want 35000", rec.Altitude)
	}
	if rec.Empty {
		t.Error("record with position marked empty")
	}
	if rec.Kind != sbs.KindACARS {
		t.Errorf("kind = %v, want %v (direct fields do not promote)", rec.Kind, sbs.KindACARS)
	}
}

func TestDecodeAggregatorEngineOverridesDirect(t *testing.T) {
	raw := `{"fromHex":"A1B2C3","label":"H2",` +
		`"text":"POSN38578W076083,JAY01,033904,195,HED01",` +
		`"timestamp":"2021-09-20T19:57:57Z","linkDirection":"downlink",` +
		`"latitude":10.5,"longitude":-20.5}`
	rec := newTestDecoder().Decode([]byte(raw))

	if rec.Latitude != "38.96333" || rec.Longitude != "-76.13833" {
		t.Errorf("position = %q,%q, want extracted values to override direct fields",
			rec.Latitude, rec.Longitude)
	}
}

func TestDecodeAggregatorUplink(t *testing.T) {
	raw := `{"fromHex":"A1B2C3","text":"x","timestamp":"2021-09-20T19:57:57Z","linkDirection":"uplink"}`
	rec := newTestDecoder().Decode([]byte(raw))
	if rec.Valid {
		t.Error("uplink message produced a valid record")
	}
}

func TestDecodeAggregatorResolvesHexFromTail(t *testing.T) {
	d := newTestDecoder()
	d.Airframes = airframes.New(map[string]string{"N123AB": "ABC123"})

	raw := `{"fromHex":"","tail":"N123AB","text":"x","timestamp":"2021-09-20T19:57:57Z","linkDirection":"downlink"}`
	rec := d.Decode([]byte(raw))
	if !rec.Valid {
		t.Fatal("record not valid")
	}
	if rec.HexAddr != "ABC123" {
		t.Errorf("hex = %q, want ABC123 resolved from tail", rec.HexAddr)
	}

	// Without a database the airframe cannot be identified.
	rec = newTestDecoder().Decode([]byte(raw))
	if rec.Valid {
		t.Error("unidentifiable airframe produced a valid record")
	}
}

func TestDecodeAggregatorBadTimestamp(t *testing.T) {
	raw := `{"fromHex":"A1B2C3","text":"x","timestamp":"yesterday","linkDirection":"downlink"}`
	rec := newTestDecoder().Decode([]byte(raw))
	if rec.Valid {
		t.Error("unparsable timestamp produced a valid record")
	}
}
