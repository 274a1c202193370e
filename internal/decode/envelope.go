// Package decode turns raw upstream JSON envelopes into flight-event
// records. Two schemas are understood: the native dumpvdl2 frame (a top
// level "vdl2" object) and the aggregator feed schema (flat, keyed by
// "fromHex").
package decode

import "encoding/json"

// frameTime is the native envelope epoch timestamp.
type frameTime struct {
	Sec  int64 `json:"sec"`
	USec int64 `json:"usec"`
}

// vdl2Frame is the payload of the native envelope's "vdl2" key.
type vdl2Frame struct {
	T    frameTime `json:"t"`
	AVLC avlcFrame `json:"avlc"`
}

// avlcFrame is the link-layer frame wrapping the application payloads.
type avlcFrame struct {
	Src   linkEndpoint  `json:"src"`
	ACARS *acarsPayload `json:"acars"`
	XID   *xidPayload   `json:"xid"`
}

// linkEndpoint identifies the transmitting side of an AVLC frame.
type linkEndpoint struct {
	Type   string `json:"type"`
	Addr   string `json:"addr"`
	Status string `json:"status"`
}

// acarsPayload is an ACARS message as decoded by dumpvdl2. The text lives
// in msg_text or, in older decoder versions, message.text.
type acarsPayload struct {
	Reg      string           `json:"reg"`
	Flight   string           `json:"flight"`
	Label    string           `json:"label"`
	MsgText  string           `json:"msg_text"`
	Message  *messageText     `json:"message"`
	ARINC622 *arinc622Payload `json:"arinc622"`
	MIAM     *miamPayload     `json:"miam"`
}

type messageText struct {
	Text string `json:"text"`
}

// text returns the message body from whichever field carries it.
func (a *acarsPayload) text() string {
	if a.MsgText != "" {
		return a.MsgText
	}
	if a.Message != nil {
		return a.Message.Text
	}
	return ""
}

// arinc622Payload wraps ADS-C application data inside an ACARS message.
type arinc622Payload struct {
	ADSC *adscPayload `json:"adsc"`
}

type adscPayload struct {
	Tags []adscTag `json:"tags"`
}

// adscTag is one tagged group of an ADS-C report; only basic reports carry
// the fields this system uses.
type adscTag struct {
	BasicReport *adscBasicReport `json:"basic_report"`
}

// adscBasicReport is a structured position report. Pointers distinguish
// absent fields from zero values.
type adscBasicReport struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
	Alt *float64 `json:"alt"`
}

// miamPayload is a MIAM-encapsulated message; a single transfer can wrap a
// complete inner ACARS message which is re-decoded recursively.
type miamPayload struct {
	SingleTransfer *miamSingleTransfer `json:"single_transfer"`
}

type miamSingleTransfer struct {
	MIAMCore miamCore `json:"miam_core"`
}

type miamCore struct {
	Data miamData `json:"data"`
}

type miamData struct {
	ACARS *acarsPayload `json:"acars"`
}

// inner returns the wrapped ACARS message, if any.
func (m *miamPayload) inner() *acarsPayload {
	if m.SingleTransfer == nil {
		return nil
	}
	return m.SingleTransfer.MIAMCore.Data.ACARS
}

// xidPayload is an XID frame's parameter list. Values are schema-dependent
// per parameter name, so they stay raw until dispatched.
type xidPayload struct {
	Params []xidParam `json:"vdl_params"`
}

type xidParam struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// acLocation is the value of the ac_location XID parameter. The reported
// lat/lon is deliberately unused: it is far too coarse to feed a tracker.
type acLocation struct {
	Alt *float64 `json:"alt"`
}

// aggregatorMessage is the flat aggregator feed schema. Numeric pointers
// distinguish absent values; a zero coordinate is also treated as absent,
// matching the feed's convention.
type aggregatorMessage struct {
	FromHex       string   `json:"fromHex"`
	Tail          string   `json:"tail"`
	Reg           string   `json:"reg"`
	FlightNumber  string   `json:"flightNumber"`
	Text          string   `json:"text"`
	Label         string   `json:"label"`
	Timestamp     string   `json:"timestamp"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Altitude      *float64 `json:"altitude"`
	LinkDirection string   `json:"linkDirection"`
}
