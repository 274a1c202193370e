// Package rules defines the ordered table of dialect-specific extraction
// rules for free-text ACARS bodies, and the engine that applies them.
//
// Each airline/avionics vendor formats position reports its own way, so a
// rule usually matches the whole body with embedded structural literals
// rather than just the field of interest: the surrounding context is what
// disambiguates the dialect. The table is ordered but deliberately not
// ordered by specificity; several entries overlap on purpose and the engine
// lets the later match win per field.
package rules

import (
	"regexp"

	"vdl2sbs/internal/coords"
)

// Rule recognises one message dialect. Every pattern is optional; a rule
// contributes only the fields it defines. Label restricts the rule to one
// 2-character message label; an empty Label applies to every message.
type Rule struct {
	Label string

	// Pos captures latitude and longitude as groups 1 and 2, decoded with
	// PosEnc and, for dd tokens with an implied decimal point, PosDiv.
	Pos    *regexp.Regexp
	PosEnc coords.Encoding
	PosDiv float64

	// Alt captures altitude digits; AltMul scales them (100 converts
	// flight levels to feet). Zero means no scaling.
	Alt    *regexp.Regexp
	AltMul int

	Dep *regexp.Regexp
	Dst *regexp.Regexp
	ETA *regexp.Regexp
}

// Table is the rule table, applied in order. Do not reorder: overlapping
// entries rely on position in the table, and the near-duplicate label 80
// and H1 variants each cover a real dialect seen in the wild.
var Table = []Rule{
	// Example: POSN38578W076083,JAY01,033904,195,HED01,034016,ESSSO,M11,321026,89677A
	{
		Pos:    regexp.MustCompile(`^POS([NS]\d{5,6})([EW]\d{5,6}),[^,]*,\d{6},`),
		PosEnc: coords.DegreesMinutes,
		Alt:    regexp.MustCompile(`^POS[NS]\d{5,6}[EW]\d{5,6},[^,]*,\d{6},(\d+),`),
		AltMul: 100,
	},
	// Example: POSN 380202W 754933,-------,0409,3358,,- 43,29132  70,FOB  221,ETA 0710,KPHL,TJSJ,
	{
		Pos:    regexp.MustCompile(`^POS([NS][ 0-9]{6})\d([EW][ 0-9]{6})\d,`),
		PosEnc: coords.DegreesMinutes,
		Dep:    regexp.MustCompile(`^POS.*,ETA ?\d{4,6},([0-9A-Z]{4}),[0-9A-Z]{4},`),
		Dst:    regexp.MustCompile(`^POS.*,ETA ?\d{4,6},[0-9A-Z]{4},([0-9A-Z]{4}),`),
		ETA:    regexp.MustCompile(`^POS.*,ETA ?(\d{4}),`),
	},
	// Example: 3N01 POSRPT 0073/18 EHAM/KATL .N503DN
	//          /POS N39176W077051/ALT 380/MCH 853/FOB 0384
	//          /TME 1609/WND 273 027/OAT -050/TAS 0496/ETA 1726
	// Also INRANG and OPSCTL headers share this shape.
	{
		Label:  "80",
		Pos:    regexp.MustCompile(`/POS ([NS]\d{5,6})([EW]\d{5,6})/`),
		PosEnc: coords.DegreesMinutes,
		Dep:    regexp.MustCompile(`\d [A-Z]{6} +\d+/\d+ ([0-9A-Z]{4})/[0-9A-Z]{4} `),
		Dst:    regexp.MustCompile(`\d [A-Z]{6} +\d+/\d+ [0-9A-Z]{4}/([0-9A-Z]{4}) `),
		ETA:    regexp.MustCompile(`/ETA (\d{4})`),
		Alt:    regexp.MustCompile(`/ALT +(\d{1,3})`),
		AltMul: 100,
	},
	// Example: /UTC 190820/POS N3857.6 W07558.6/ALT 35024
	//          /SPD 462/FOB 0087/ETA 1957
	{
		Label:  "80",
		Pos:    regexp.MustCompile(`/POS ([NS]\d{4,5}\.\d) ([EW]\d{4,5}\.\d)/`),
		PosEnc: coords.DegreesMinutes,
		Alt:    regexp.MustCompile(`/ALT +(\d{4,5})`),
	},
	// Example: 3C01 POS N37468W077231  ,,225556,               ,      ,               ,P45,045,0057
	{
		Label:  "80",
		Pos:    regexp.MustCompile(`.* POS ([NS]\d{5})([EW]\d{5,6}) *,`),
		PosEnc: coords.DegreesMinutes,
	},
	// Example: 76401
	//          02E18KBNAKLGA
	//          N38803W07600416113052M037277024G000X2300309B,
	// Coordinates are integers with an implied decimal point, scaled by 1000.
	{
		Label:  "H1",
		Pos:    regexp.MustCompile(`76401.*\n.*\n[\S\s]*([NS]\d{5})([EW]\d{6})\d`),
		PosEnc: coords.DecimalDegrees,
		PosDiv: 1000,
		Dep:    regexp.MustCompile(`76401.*\n\d{2}.\d{2}([0-9A-Z]{4})[0-9A-Z]{4}`),
		Dst:    regexp.MustCompile(`76401.*\n\d{2}.\d{2}[0-9A-Z]{4}([0-9A-Z]{4})`),
	},
	// Example: <HEADRTR><FROM>EHAM</FROM><TO>KATL</TO><FNBR>DAL73 </FNBR></HEADRTR>
	// Sublabel CF route headers.
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`<FROM>([A-Z]{4})</FROM>.*<TO>[A-Z]{4}</TO>`),
		Dst:   regexp.MustCompile(`<FROM>[A-Z]{4}</FROM>.*<TO>([A-Z]{4})</TO>`),
	},
	// Example: /EA2003/DSKDCA/SK21
	{
		Label: "30",
		Dst:   regexp.MustCompile(`/EA\d{4}/DS([A-Z]{4})`),
		ETA:   regexp.MustCompile(`/EA(\d{4})/DS[A-Z]{4}`),
	},
	// Example: /AERODAT.22,C,1,1,IAD, 39.264, -77.547, 39.229, -77.542,11,309, 30, ...
	{
		Label:  "32",
		Pos:    regexp.MustCompile(`/.*\.\d+,.,.,.,[A-Z]{0,4}, (-?\d+\.\d{1,3}), (-?\d+\.\d{1,3}),`),
		PosEnc: coords.DecimalDegrees,
		PosDiv: 1,
	},
	// Example: 82,E,KCLT,KEWR,29,22R,170,09,,,0,0,0,0,0,0,,59165,C2ED
	//          /AERODAT.22,C,IAD,PVD,23,,6,6,0,150/09,,,45,0,44810,0,0,0,0,B355
	{
		Label: "33",
		Dep:   regexp.MustCompile(`^(?:/AERODAT.)?\d+,[A-Z],([A-Z]{3,4}),[A-Z]{3,4},`),
		Dst:   regexp.MustCompile(`^(?:/AERODAT.)?\d+,[A-Z],[A-Z]{3,4},([A-Z]{3,4}),`),
	},
	// Label 35 shares the label 33 report shape.
	{
		Label: "35",
		Dep:   regexp.MustCompile(`^(?:/AERODAT.)?\d+,[A-Z],([A-Z]{3,4}),[A-Z]{3,4},`),
		Dst:   regexp.MustCompile(`^(?:/AERODAT.)?\d+,[A-Z],[A-Z]{3,4},([A-Z]{3,4}),`),
	},
	// Example: /KAUS.TI2/040KAUSA4CFA
	{
		Label: "B9",
		Dst:   regexp.MustCompile(`^/([0-9A-Z]{4})\.`),
	},
	// Example: PRG/FNDAL2697/DTKBDL,15O,97,172511,30EB38
	{
		Label: "H1",
		Dst:   regexp.MustCompile(`^PRG.*/DT([0-9A-Z]{4}),`),
		ETA:   regexp.MustCompile(`^PRG.*/DT[0-9A-Z]{4},[^,]+,[^,]+,(\d{4})`),
	},
	// Example: S/N L:000000            DEPART:KMCO   DEST:KEWR
	{
		Label: "H1",
		Dep:   regexp.MustCompile(` DEPART:([0-9A-Z]{4}) `),
		Dst:   regexp.MustCompile(` DEST:([0-9A-Z]{4})`),
	},
	// Example: A320,043656,1,2,TB000000/REP026,84,01,4/CC      ,SEP20,225312,KBWI,KDTW,8080/...
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`,TB000000/REP0..,[^,]*,[^,]*,[^,]*,[^,]*,\d{6},([A-Z]{4}),[A-Z]{4},`),
		Dst:   regexp.MustCompile(`,TB000000/REP0..,[^,]*,[^,]*,[^,]*,[^,]*,\d{6},[A-Z]{4},([A-Z]{4}),`),
	},
	// Example: A321,047801,1,1,TB000000/REP239,00,00,4/239N312DN0419092121040630786N38203W 77328369-24-51287 24T 0510 146
	//          40 255 468 000549030      KATLKBOS
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`,TB000000/REP239,.*\n*.*([A-Z]{4})[A-Z]{4}\n?$`),
		Dst:   regexp.MustCompile(`,TB000000/REP239,.*\n*.*[A-Z]{4}([A-Z]{4})\n?$`),
	},
	// Example: ++86501, N8811,B7378MAX,210920,WN4923,KBWI,TJSJ,0284,SMX47-2102-0000
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`^[^,]*,[^,]*,B7\d\d[^,]*,\d{6},[0-9A-Z\-]*,([A-Z]{4}),[A-Z]{4},\d{4},`),
		Dst:   regexp.MustCompile(`^[^,]*,[^,]*,B7\d\d[^,]*,\d{6},[0-9A-Z\-]*,[A-Z]{4},([A-Z]{4}),\d{4},`),
	},
	// Example: A5E6210319PHL SDF N39547W0755831733M036202006G2880N39546W076015183
	//          D3M321KSEAKBWIN39258W07723020491272P004188022G0009N39257W077193205
	// Airports may be 3-letter codes padded with a space. Only the last
	// lat/lon pair in the body is the current position.
	{
		Label:  "H1",
		Dep:    regexp.MustCompile(`^[0-9A-Z]+\d([A-Z]{3}[ A-Z])[A-Z]{3}[ A-Z][NS]\d{5}[EW]\d{6}\d{4}`),
		Dst:    regexp.MustCompile(`^[0-9A-Z]+\d[A-Z]{3}[ A-Z]([A-Z]{3}[ A-Z])[NS]\d{5}[EW]\d{6}\d{4}`),
		Pos:    regexp.MustCompile(`^[0-9A-Z]+\d[A-Z]{3}[ A-Z][A-Z]{3}[ A-Z][NS]\d{5}[EW]\d{6}\d{4}[\s\S]*([NS]\d{5})([EW]\d{6})`),
		PosEnc: coords.DegreesMinutes,
	},
	// Example: FPN/RI:DA:KCLT:AA:KJFK:CR:CLTJFK01(13L)..KALDA.J121.SIE:A:CAMRN4:F:CAMRN..
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`FPN/RI:DA:([0-9A-Z]{4}):AA:[0-9A-Z]{4}:`),
		Dst:   regexp.MustCompile(`FPN/RI:DA:[0-9A-Z]{4}:AA:([0-9A-Z]{4}):`),
	},
	// Example: APM    1 G-ZBKK         BAW293  EGLLKIAD200921165939
	{
		Label: "H1",
		Dep:   regexp.MustCompile(`APM    \d [0-9A-Z\-]+ +[0-9A-Z\-]+ +([A-Z]{4})[A-Z]{4}\d{12}`),
		Dst:   regexp.MustCompile(`APM    \d [0-9A-Z\-]+ +[0-9A-Z\-]+ +[A-Z]{4}([A-Z]{4})\d{12}`),
	},
	// Example: EGLL,KIAH,201624, 39.74,- 76.38,40001,254,-119.5, 19300
	// The embedded position is not precise enough to use; altitude only.
	{
		Label: "83",
		Alt:   regexp.MustCompile(`^[A-Z]{4},[A-Z]{4},\d{6},[ \-\.0-9]*,[ \-\.0-9]*,(\d{1,5})`),
		Dep:   regexp.MustCompile(`^([A-Z]{4}),[A-Z]{4},`),
		Dst:   regexp.MustCompile(`^[A-Z]{4},([A-Z]{4}),`),
	},
	// Example: /N38.268/W078.117/10/0.74/235/400/KHOU/1625/0073/00016/MOL  /PSK  /1405/YICUT/1357/
	{
		Label:  "10",
		Pos:    regexp.MustCompile(`/([NS]\d{2,3}\.\d{1,3})/([EW]\d{2,3}\.\d{1,3})/\d+/[^/]+/\d+/\d+/[0-9A-Z]{4}/`),
		PosEnc: coords.DecimalDegrees,
		Dst:    regexp.MustCompile(`/[NS]\d{2,3}\.\d{1,3}/[EW]\d{2,3}\.\d{1,3}/\d+/[^/]+/\d+/\d+/([0-9A-Z]{4})/`),
		ETA:    regexp.MustCompile(`/[NS]\d{2,3}\.\d{1,3}/[EW]\d{2,3}\.\d{1,3}/\d+/[^/]+/\d+/\d+/[0-9A-Z]{4}/(\d{4})/`),
	},
	// Example: MRB-13 ,N 39.643,W  77.299,33999,0486,1448,036\\TS132657,200921
	//          N 38.887,W 77.064,927,5, 368
	{
		Label:  "16",
		Pos:    regexp.MustCompile(`([NS] *\d+\.\d{1,3})[, ]([EW] *\d+\.\d{1,3})`),
		PosEnc: coords.DecimalDegrees,
		PosDiv: 1,
		Alt:    regexp.MustCompile(`[NS] *\d+\.\d{1,3},[EW] *\d+\.\d{1,3}, *(\d{2,5})`),
	},
	// Example: POS02,N38228W077029,371,KVPC,KTEB,0920,2212,2257,008.1
	//          00POS03,N39393W078152,330,KBWI,KRST,0920,2210,0001,004.8
	{
		Label:  "44",
		Pos:    regexp.MustCompile(`.*POS.*,([NS]\d{5}) ?([EW]\d{5,6}),`),
		PosEnc: coords.DegreesMinutes,
		Dep:    regexp.MustCompile(`.*POS.*,[NS]\d{5} ?[EW]\d{5,6},\d+,([A-Z]{4}),[A-Z]{4}`),
		Dst:    regexp.MustCompile(`.*POS.*,[NS]\d{5} ?[EW]\d{5,6},\d+,[A-Z]{4},([A-Z]{4})`),
		ETA:    regexp.MustCompile(`.*POS.*,[NS]\d{5} ?[EW]\d{5,6},\d+,[A-Z]{4},[A-Z]{4},\d{4},\d{4},(\d{4})`),
	},
	// Example: INR02,KJFK,0,0,0,,,,,
	{
		Label: "44",
		Dst:   regexp.MustCompile(`^INR..,([0-9A-Z]{4}),`),
	},
	// Example: /ET EXP TIME       / KEWR KMCO 20 003427/EON 0220 AUTO
	//          /C3 GATE REQ       / KIAD KEWR 20 222300 1156 ---- ---- ---- ----
	{
		Label: "5Z",
		Dep:   regexp.MustCompile(`^/\w{2} [^/]* / ([A-Z]{4}) [A-Z]{4} `),
		Dst:   regexp.MustCompile(`^/\w{2} [^/]* / [A-Z]{4} ([A-Z]{4}) `),
		ETA:   regexp.MustCompile(`^/ET [^/]* / [A-Z]{4} [A-Z]{4} .*/EON (\d{4})`),
	},
	// Example: OS KBDL /ALT00000351
	{
		Label: "5Z",
		Dst:   regexp.MustCompile(`^OS ([A-Z]{4}) /[A-Z]+`),
	},
	// Example: KADWKMVY154721SEP21
	{
		Label: "QQ",
		Dep:   regexp.MustCompile(`^([A-Z]{4})[A-Z]{4}\d`),
		Dst:   regexp.MustCompile(`^[A-Z]{4}([A-Z]{4})\d`),
	},
	// Example: 202339 KATL KEWR7 (any label)
	{
		Dep: regexp.MustCompile(`^\d{6} ([A-Z]{4}) [A-Z]{4}\d(?:$|\r|\n)`),
		Dst: regexp.MustCompile(`^\d{6} [A-Z]{4} ([A-Z]{4})\d(?:$|\r|\n)`),
	},
	// Example: 200224  ATL  HPN0 (any label, 3-letter IATA variant)
	{
		Dep: regexp.MustCompile(`^\d{6}  ([A-Z]{3})  [A-Z]{3}\d(?:$|\r|\n)`),
		Dst: regexp.MustCompile(`^\d{6}  [A-Z]{3}  ([A-Z]{3})\d(?:$|\r|\n)`),
	},
	// Example: LDR01,189,C,SWA-2600-013,0,N 38.722,W 76.705,8358,  8.6,KMCO,KBWI,KBWI,15R/,...
	//          28,E,21SEP21,161812,N 38.851,W 76.603,32422,  8680,KTPA,KEWR,KEWR,22L/,...
	{
		Pos:    regexp.MustCompile(`,([NS] *\d{1,3}\.\d{3}),([EW] *\d{1,3}\.\d{3}), *\d{1,5}. *[0-9\.]+,[A-Z]{4},[A-Z]{4},[A-Z]{4},`),
		PosEnc: coords.DecimalDegrees,
		PosDiv: 1,
		Alt:    regexp.MustCompile(`,[NS] *\d{1,3}\.\d{3},[EW] *\d{1,3}\.\d{3}, *(\d{1,5}). *[0-9\.]+,[A-Z]{4},[A-Z]{4},[A-Z]{4},`),
		Dep:    regexp.MustCompile(`,[NS] *\d{1,3}\.\d{3},[EW] *\d{1,3}\.\d{3}, *\d{1,5}. *[0-9\.]+,([A-Z]{4}),[A-Z]{4},[A-Z]{4},`),
		Dst:    regexp.MustCompile(`,[NS] *\d{1,3}\.\d{3},[EW] *\d{1,3}\.\d{3}, *\d{1,5}. *[0-9\.]+,[A-Z]{4},([A-Z]{4}),[A-Z]{4},`),
	},
}
