package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// createSQLiteFile writes a small writable store at path, the way an
// external loader would, so tests can reopen it read-only.
func createSQLiteFile(path string) error {
	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, stmt := range []string{
		`CREATE TABLE station (station TEXT PRIMARY KEY, name TEXT)`,
		`CREATE TABLE measurement (date TEXT, station TEXT, prcp REAL, tobs INTEGER)`,
		`INSERT INTO station (station, name) VALUES ('USC00519397', 'WAIKIKI 717.2, HI US')`,
	} {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
