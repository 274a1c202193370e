// Command vdl2sbs normalizes VDL2/ACARS downlink telemetry into SBS
// (BaseStation) lines.
//
// Input is one JSON envelope per line, either the native dumpvdl2 schema or
// the flat aggregator schema; the decoder autodetects per line. Envelopes
// arrive on stdin, from a capture file or from a NATS subject. Emitted SBS
// lines go to stdout, a file, a TCP consumer and/or a NATS subject, in any
// combination.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"vdl2sbs/internal/airframes"
	"vdl2sbs/internal/decode"
	"vdl2sbs/internal/feed"
	"vdl2sbs/internal/rules"
	"vdl2sbs/internal/sbs"
	"vdl2sbs/internal/sink"
)

func main() {
	// .env is optional; flags and real environment variables win.
	_ = godotenv.Load()

	inPath := flag.String("input", envOrDefault("VDL2SBS_INPUT", ""), "Input JSONL file (default: stdin)")
	outPath := flag.String("output", envOrDefault("VDL2SBS_OUTPUT", ""), "Output file for SBS lines (default: stdout)")
	tcpAddr := flag.String("tcp", envOrDefault("VDL2SBS_TCP", ""), "TCP host:port to stream SBS lines to")
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", ""), "NATS server URL")
	natsIn := flag.String("nats-in", envOrDefault("VDL2SBS_NATS_IN", ""), "NATS subject to consume envelopes from")
	natsOut := flag.String("nats-out", envOrDefault("VDL2SBS_NATS_OUT", ""), "NATS subject to publish SBS lines to")
	dbPath := flag.String("db", envOrDefault("VDL2SBS_DB", ""), "Aircraft database: BaseStation .sqb/.sqlite or JSON reg->hex map (.gz/.zst ok)")
	location := flag.String("location", envOrDefault("VDL2SBS_LOCATION", "all"), "Position sources to trust: all, adsc or none")
	noEmpty := flag.Bool("no-empty", envOrDefaultBool("VDL2SBS_NO_EMPTY", false), "Suppress records with no text and no position data")
	noCallsign := flag.Bool("no-callsign", envOrDefaultBool("VDL2SBS_NO_CALLSIGN", false), "Do not copy the flight number into the callsign field")
	debug := flag.Bool("d", false, "Log decoded fields and emitted lines to stderr")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	policy := rules.LocationPolicy(*location)
	if !policy.Valid() {
		logger.Fatalf("invalid -location %q: want all, adsc or none", *location)
	}

	var db *airframes.DB
	if *dbPath != "" {
		var err error
		db, err = airframes.Load(*dbPath)
		if err != nil {
			logger.Fatalf("load aircraft db: %v", err)
		}
		logger.Printf("aircraft db: %d registrations from %s", db.Len(), *dbPath)
	}

	decoder := &decode.Decoder{
		FlightAsCallsign: !*noCallsign,
		Extract:          rules.Extractor{Location: policy, Log: logger},
		Airframes:        db,
		Log:              logger,
	}
	resolver := &airframes.Resolver{DB: db, Log: logger}

	out := &sink.Dispatcher{Log: logger}
	if err := attachSinks(out, *outPath, *tcpAddr, *natsURL, *natsOut); err != nil {
		out.Close()
		logger.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle := func(raw []byte) error {
		rec := decoder.Decode(raw)
		if !rec.Valid {
			return nil
		}
		resolver.Resolve(rec)
		if *noEmpty && rec.Empty {
			return nil
		}
		line := rec.Format()
		if line == "" {
			return nil
		}
		if *debug {
			debugRecord(logger, rec, line)
		}
		out.Dispatch(line)
		return nil
	}

	var err error
	if *natsIn != "" {
		url := *natsURL
		if url == "" {
			url = "nats://localhost:4222"
		}
		err = feed.Subscribe(ctx, url, *natsIn, handle, func(err error) {
			logger.Printf("handle envelope: %v", err)
		})
	} else {
		var r io.Reader = os.Stdin
		if *inPath != "" {
			f, ferr := os.Open(*inPath)
			if ferr != nil {
				logger.Fatalf("open input: %v", ferr)
			}
			defer f.Close()
			r = f
		}
		err = feed.Lines(ctx, r, handle)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		out.Close()
		logger.Fatalf("feed: %v", err)
	}
	// Fatalf exits without running defers, so the sinks are closed
	// explicitly: the file sink needs the flush, NATS the drain.
	if err := out.Close(); err != nil {
		logger.Printf("close sinks: %v", err)
	}
}

func attachSinks(out *sink.Dispatcher, outPath, tcpAddr, natsURL, natsOut string) error {
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		out.Add(&sink.WriterSink{Name: outPath, W: f})
	}
	if tcpAddr != "" {
		out.Add(&sink.TCPSink{Addr: tcpAddr})
	}
	if natsOut != "" {
		url := natsURL
		if url == "" {
			url = "nats://localhost:4222"
		}
		s, err := sink.NewNATSSink(url, natsOut)
		if err != nil {
			return err
		}
		out.Add(s)
	}
	// Nothing configured: write to stdout.
	if out.Len() == 0 {
		out.Add(&sink.WriterSink{Name: "stdout", W: os.Stdout})
	}
	return nil
}

func debugRecord(logger *log.Logger, rec *sbs.Record, line string) {
	logger.Printf("reg=%q flight=%q label=%q text=%q", rec.Registration, rec.Flight, rec.MessageLabel, rec.MessageText)
	logger.Printf("sbs: %s", line)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
