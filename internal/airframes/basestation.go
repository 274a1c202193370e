package airframes

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenBaseStation loads the Aircraft table of a BaseStation.sqb sqlite
// database (the format shared by VRS, tar1090 and friends) into memory.
// The file is only read during load; the connection is closed before
// returning.
func OpenBaseStation(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open basestation db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT ModeS, Registration FROM Aircraft
		 WHERE ModeS IS NOT NULL AND Registration IS NOT NULL AND Registration != ''`)
	if err != nil {
		return nil, fmt.Errorf("query basestation db: %w", err)
	}
	defer rows.Close()

	regToHex := make(map[string]string)
	for rows.Next() {
		var hex, reg string
		if err := rows.Scan(&hex, &reg); err != nil {
			return nil, fmt.Errorf("scan basestation row: %w", err)
		}
		regToHex[reg] = hex
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read basestation db: %w", err)
	}
	return New(regToHex), nil
}
