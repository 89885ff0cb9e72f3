package sensor

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the sensors schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "sensor-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE sensors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			send_data_time TEXT NOT NULL,
			send_info_time TEXT NOT NULL,
			battery INTEGER NOT NULL,
			date TEXT NOT NULL,
			defective INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE INDEX idx_sensors_external_id ON sensors(external_id);

		CREATE TABLE sensor_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sensor_id INTEGER NOT NULL,
			level REAL NOT NULL,
			volume REAL NOT NULL,
			date TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			temperature INTEGER,
			FOREIGN KEY (sensor_id) REFERENCES sensors(id) ON DELETE CASCADE
		) STRICT;

		CREATE INDEX idx_sensor_data_sensor_id ON sensor_data(sensor_id);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("creating sensors schema: %v", err)
	}

	return db
}

// testSensor returns a valid sensor with the given external ID and one reading.
func testSensor(externalID string) *Sensor {
	temp := 21
	return &Sensor{
		ExternalID:   externalID,
		Name:         "Tank " + externalID,
		Location:     "Roof",
		SendDataTime: "08:00",
		SendInfoTime: "09:00",
		Battery:      80,
		Date:         "2025-01-01T00:00:00",
		Readings: []Reading{
			{Level: 1.5, Volume: 200, Temperature: &temp, Date: "2025-01-01"},
		},
	}
}

// createTestSensor inserts a sensor and fails the test on error.
func createTestSensor(t *testing.T, repo Repository, externalID string) *Sensor {
	t.Helper()

	s := testSensor(externalID)
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create(%s) error = %v", externalID, err)
	}
	return s
}
