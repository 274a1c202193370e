// Package airframes provides the read-only registration/hex-address lookup
// database and the resolver that reconciles both identifiers on a record.
//
// The database is loaded once at startup and never mutated, so it is safe
// for unsynchronized concurrent reads.
package airframes

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"vdl2sbs/internal/sbs"
)

// BroadcastAddr is the all-ones ICAO address; it identifies no airframe and
// is treated as absent.
const BroadcastAddr = "FFFFFF"

// DB is a bidirectional registration <-> ICAO hex address table with a
// secondary index of hyphen-stripped registration variants.
type DB struct {
	regToHex   map[string]string
	hexToReg   map[string]string
	aliasToHex map[string]string
}

// New builds a DB from a registration -> hex address mapping, deriving the
// reverse and hyphen-stripped alias indexes.
func New(regToHex map[string]string) *DB {
	d := &DB{
		regToHex:   make(map[string]string, len(regToHex)),
		hexToReg:   make(map[string]string, len(regToHex)),
		aliasToHex: make(map[string]string, len(regToHex)),
	}
	for reg, hex := range regToHex {
		hex = strings.ToUpper(hex)
		d.regToHex[reg] = hex
		d.hexToReg[hex] = reg
		if alias := stripHyphens(reg); alias != reg {
			d.aliasToHex[alias] = hex
		}
	}
	return d
}

// Len returns the number of known registrations.
func (d *DB) Len() int { return len(d.regToHex) }

// HexForReg looks up the hex address for a registration, falling back to
// the hyphen-stripped alias index. Returns "" when unknown.
func (d *DB) HexForReg(reg string) string {
	if hex, ok := d.regToHex[reg]; ok {
		return hex
	}
	return d.aliasToHex[stripHyphens(reg)]
}

// RegForHex looks up the canonical registration for a hex address.
// Returns "" when unknown.
func (d *DB) RegForHex(hex string) string {
	return d.hexToReg[strings.ToUpper(hex)]
}

// NormalizeHex canonicalizes an ICAO hex address: uppercase, the broadcast
// value mapped to absent, and 5-digit values zero-padded to 6.
func NormalizeHex(addr string) string {
	addr = strings.ToUpper(strings.TrimSpace(addr))
	if addr == BroadcastAddr {
		return ""
	}
	if len(addr) == 5 {
		addr = "0" + addr
	}
	return addr
}

// Resolver reconciles a record's hex address and registration against the
// database. Resolution is best effort: nothing here invalidates a record.
type Resolver struct {
	DB  *DB
	Log *log.Logger
}

// Resolve fills in whichever of hex address / registration is missing and
// prefers the database's canonical registration when the message disagrees.
func (r *Resolver) Resolve(rec *sbs.Record) {
	rec.HexAddr = NormalizeHex(rec.HexAddr)
	if r == nil || r.DB == nil {
		return
	}

	if rec.HexAddr == "" {
		if rec.Registration == "" {
			return
		}
		if hex := NormalizeHex(r.DB.HexForReg(rec.Registration)); hex != "" {
			rec.HexAddr = hex
		}
		return
	}

	canonical := r.DB.RegForHex(rec.HexAddr)
	if canonical == "" {
		r.logf("unknown hex address %s, keeping registration %q", rec.HexAddr, rec.Registration)
		return
	}
	if rec.Registration != "" && stripHyphens(rec.Registration) != stripHyphens(canonical) {
		r.logf("registration mismatch for %s: message says %q, database says %q",
			rec.HexAddr, rec.Registration, canonical)
	}
	rec.Registration = canonical
}

func (r *Resolver) logf(format string, args ...any) {
	if r != nil && r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

func stripHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Load opens a registration database by path. BaseStation sqlite files are
// selected by extension; anything else is treated as a JSON mapping of
// registration -> hex address, optionally gzip- or zstd-compressed.
func Load(path string) (*DB, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqb", ".sqlite", ".db":
		return OpenBaseStation(path)
	}
	return LoadJSON(path)
}

// LoadJSON loads a registration -> hex address JSON object, decompressing
// .gz and .zst files transparently.
func LoadJSON(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aircraft db: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip aircraft db: %w", err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd aircraft db: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read aircraft db: %w", err)
	}
	var regToHex map[string]string
	if err := json.Unmarshal(data, &regToHex); err != nil {
		return nil, fmt.Errorf("decode aircraft db: %w", err)
	}
	return New(regToHex), nil
}
