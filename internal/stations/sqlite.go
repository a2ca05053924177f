package stations

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
)

const createStationsTable = `CREATE TABLE IF NOT EXISTS stations (
	stop_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	lat REAL NOT NULL,
	lon REAL NOT NULL
)`

const selectStations = `SELECT stop_id, name, lat, lon FROM stations ORDER BY stop_id`

const upsertStation = `INSERT INTO stations (stop_id, name, lat, lon) VALUES (?, ?, ?, ?)
ON CONFLICT(stop_id) DO UPDATE SET name = excluded.name, lat = excluded.lat, lon = excluded.lon`

// ReadSQLite reads every row of the stations table.
func ReadSQLite(ctx context.Context, db *sql.DB) ([]StationRecord, error) {
	rows, err := db.QueryContext(ctx, selectStations)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []StationRecord
	for rows.Next() {
		var r StationRecord
		if err := rows.Scan(&r.StopID, &r.Name, &r.Latitude, &r.Longitude); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteSQLite creates the stations table if needed and upserts records in a
// single transaction.
func WriteSQLite(ctx context.Context, db *sql.DB, records []StationRecord) error {
	if _, err := db.ExecContext(ctx, createStationsTable); err != nil {
		return fmt.Errorf("creating stations table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertStation)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.StopID, r.Name, r.Latitude, r.Longitude); err != nil {
			return fmt.Errorf("inserting station %s: %w", r.StopID, err)
		}
	}

	return tx.Commit()
}

// OpenSQLite opens the station database at path. Read-only handles never
// create the file.
func OpenSQLite(path string, readOnly bool) (*sql.DB, error) {
	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro"
	}
	return sql.Open("sqlite3", dsn)
}

func loadSQLite(ctx context.Context, path string) (sourceResult, error) {
	db, err := OpenSQLite(path, true)
	if err != nil {
		return sourceResult{}, err
	}
	defer func() { _ = db.Close() }()

	records, err := ReadSQLite(ctx, db)
	if err != nil {
		return sourceResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return sourceResult{records: records}, nil
}
