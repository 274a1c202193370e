package airframes

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestOpenBaseStation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BaseStation.sqb")

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE Aircraft (AircraftID INTEGER PRIMARY KEY, ModeS TEXT, Registration TEXT)`,
		`INSERT INTO Aircraft (ModeS, Registration) VALUES ('a1b2c3', 'N503DN')`,
		`INSERT INTO Aircraft (ModeS, Registration) VALUES ('406bca', 'G-ZBKK')`,
		`INSERT INTO Aircraft (ModeS, Registration) VALUES ('111111', '')`,
		`INSERT INTO Aircraft (ModeS, Registration) VALUES ('222222', NULL)`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if db.Len() != 2 {
		t.Errorf("len = %d, want 2 (blank registrations skipped)", db.Len())
	}
	if db.HexForReg("N503DN") != "A1B2C3" {
		t.Errorf("hex = %q, want A1B2C3", db.HexForReg("N503DN"))
	}
	if db.RegForHex("406BCA") != "G-ZBKK" {
		t.Errorf("reg = %q, want G-ZBKK", db.RegForHex("406BCA"))
	}
}
