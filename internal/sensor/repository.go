package sensor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for sensor persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Create inserts a new sensor together with its readings, atomically.
	// Returns ErrSensorExists if the external ID is already taken.
	Create(ctx context.Context, s *Sensor) error

	// List retrieves sensors in insertion order with offset/limit pagination.
	List(ctx context.Context, skip, limit int) ([]Sensor, error)

	// GetByID retrieves a sensor by its numeric ID.
	// Returns ErrSensorNotFound if the sensor does not exist.
	GetByID(ctx context.Context, id int64) (*Sensor, error)

	// GetByExternalID retrieves a sensor by its caller-supplied external ID.
	// Returns ErrSensorNotFound if the sensor does not exist.
	GetByExternalID(ctx context.Context, externalID string) (*Sensor, error)

	// Update applies a partial update. Fields absent from the patch are
	// left untouched. A non-nil patch.Readings replaces all readings
	// (delete-all-then-insert-all) in the same transaction.
	// Returns ErrSensorNotFound if the sensor does not exist.
	Update(ctx context.Context, id int64, patch *Patch) (*Sensor, error)

	// Delete removes a sensor and all of its readings.
	// Returns ErrSensorNotFound if the sensor does not exist.
	Delete(ctx context.Context, id int64) error

	// CountReadings returns the number of readings stored for a sensor.
	CountReadings(ctx context.Context, sensorID int64) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with foreign keys on.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// sensorColumns is the column list shared by all sensor SELECTs.
const sensorColumns = "id, external_id, name, location, send_data_time, send_info_time, battery, date, defective, created_at, updated_at"

// Create inserts a new sensor together with its readings.
//
// The insert runs in a single transaction: either the sensor row and all
// reading rows commit, or none do. A concurrent create racing on the same
// external ID is arbitrated by the UNIQUE constraint — the loser gets
// ErrSensorExists and the winner's rows are untouched.
func (r *SQLiteRepository) Create(ctx context.Context, s *Sensor) error {
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)
	s.CreatedAt = truncateToSecond(now)
	s.UpdatedAt = s.CreatedAt

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sensors (external_id, name, location, send_data_time, send_info_time, battery, date, defective, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ExternalID, s.Name, s.Location, s.SendDataTime, s.SendInfoTime,
		s.Battery, s.Date, boolToInt(s.Defective), nowStr, nowStr,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSensorExists
		}
		return fmt.Errorf("creating sensor: %w", err)
	}

	s.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading sensor id: %w", err)
	}

	for i := range s.Readings {
		if err := insertReading(ctx, tx, s.ID, &s.Readings[i], nowStr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sensor create: %w", err)
	}
	return nil
}

// List retrieves sensors in insertion (id) order.
func (r *SQLiteRepository) List(ctx context.Context, skip, limit int) ([]Sensor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sensorColumns+" FROM sensors ORDER BY id LIMIT ? OFFSET ?",
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sensors: %w", err)
	}
	defer rows.Close()

	var sensors []Sensor
	for rows.Next() {
		s, err := scanSensor(rows)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensors: %w", err)
	}

	for i := range sensors {
		readings, err := r.loadReadings(ctx, sensors[i].ID)
		if err != nil {
			return nil, err
		}
		sensors[i].Readings = readings
	}

	if sensors == nil {
		sensors = []Sensor{}
	}
	return sensors, nil
}

// GetByID retrieves a sensor by its numeric ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Sensor, error) {
	return r.getSensor(ctx, "SELECT "+sensorColumns+" FROM sensors WHERE id = ?", id)
}

// GetByExternalID retrieves a sensor by its external ID.
func (r *SQLiteRepository) GetByExternalID(ctx context.Context, externalID string) (*Sensor, error) {
	return r.getSensor(ctx, "SELECT "+sensorColumns+" FROM sensors WHERE external_id = ?", externalID)
}

// Update applies a partial update within a single transaction.
//
// Only fields present (non-nil) in the patch are written. When the patch
// carries a readings slice — even an empty one — the sensor's readings are
// fully replaced: delete all, insert all, same transaction. A patch with
// no readings slice leaves existing readings untouched entirely.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch *Patch) (*Sensor, error) {
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	// Read the current row inside the transaction so the patch applies
	// to a consistent snapshot.
	row := tx.QueryRowContext(ctx, "SELECT "+sensorColumns+" FROM sensors WHERE id = ?", id)
	s, err := scanSensor(row)
	if err != nil {
		if errors.Is(err, ErrSensorNotFound) {
			return nil, ErrSensorNotFound
		}
		return nil, err
	}

	applyPatch(s, patch)

	if _, err := tx.ExecContext(ctx,
		`UPDATE sensors SET name = ?, location = ?, send_data_time = ?, send_info_time = ?,
		 battery = ?, date = ?, defective = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Location, s.SendDataTime, s.SendInfoTime,
		s.Battery, s.Date, boolToInt(s.Defective), nowStr, id,
	); err != nil {
		return nil, fmt.Errorf("updating sensor: %w", err)
	}

	if patch.Readings != nil {
		// Full replacement: the supplied collection is the new truth.
		if _, err := tx.ExecContext(ctx, "DELETE FROM sensor_data WHERE sensor_id = ?", id); err != nil {
			return nil, fmt.Errorf("clearing readings: %w", err)
		}
		for i := range *patch.Readings {
			in := (*patch.Readings)[i]
			reading := Reading{
				Level:       in.Level,
				Volume:      in.Volume,
				Temperature: in.Temperature,
				Date:        in.Date,
			}
			if err := insertReading(ctx, tx, id, &reading, nowStr); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sensor update: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a sensor and all of its readings.
//
// The readings are removed as an explicit transactional step rather than
// relying solely on the schema's ON DELETE CASCADE: the parent and its
// children disappear together or not at all.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM sensor_data WHERE sensor_id = ?", id); err != nil {
		return fmt.Errorf("deleting readings: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM sensors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sensor: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrSensorNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sensor delete: %w", err)
	}
	return nil
}

// CountReadings returns the number of readings stored for a sensor.
func (r *SQLiteRepository) CountReadings(ctx context.Context, sensorID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sensor_data WHERE sensor_id = ?", sensorID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return count, nil
}

// getSensor executes a query, scans a single sensor, and loads its readings.
func (r *SQLiteRepository) getSensor(ctx context.Context, query string, args ...any) (*Sensor, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	s, err := scanSensor(row)
	if err != nil {
		return nil, err
	}

	s.Readings, err = r.loadReadings(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// loadReadings fetches all readings for a sensor in insertion order.
func (r *SQLiteRepository) loadReadings(ctx context.Context, sensorID int64) ([]Reading, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, sensor_id, level, volume, temperature, date, created_at FROM sensor_data WHERE sensor_id = ? ORDER BY id",
		sensorID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var rd Reading
		var temperature sql.NullInt64
		var createdAt string

		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.Level, &rd.Volume, &temperature, &rd.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		if temperature.Valid {
			t := int(temperature.Int64)
			rd.Temperature = &t
		}
		rd.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}

	return readings, nil
}

// insertReading inserts a single reading row and populates server-assigned fields.
func insertReading(ctx context.Context, tx *sql.Tx, sensorID int64, rd *Reading, nowStr string) error {
	var temperature sql.NullInt64
	if rd.Temperature != nil {
		temperature = sql.NullInt64{Int64: int64(*rd.Temperature), Valid: true}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sensor_data (sensor_id, level, volume, temperature, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sensorID, rd.Level, rd.Volume, temperature, rd.Date, nowStr,
	)
	if err != nil {
		return fmt.Errorf("creating reading: %w", err)
	}

	rd.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading sensor_data id: %w", err)
	}
	rd.SensorID = sensorID
	rd.CreatedAt, _ = time.Parse(time.RFC3339, nowStr) //nolint:errcheck // format is controlled
	return nil
}

// applyPatch copies the present patch fields onto the sensor.
// The readings replacement is handled separately by Update.
func applyPatch(s *Sensor, p *Patch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.SendDataTime != nil {
		s.SendDataTime = *p.SendDataTime
	}
	if p.SendInfoTime != nil {
		s.SendInfoTime = *p.SendInfoTime
	}
	if p.Battery != nil {
		s.Battery = *p.Battery
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Defective != nil {
		s.Defective = *p.Defective
	}
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanSensor scans a sensor row (without readings) from any scanner.
func scanSensor(sc scanner) (*Sensor, error) {
	var s Sensor
	var defective int
	var createdAt, updatedAt string

	err := sc.Scan(&s.ID, &s.ExternalID, &s.Name, &s.Location,
		&s.SendDataTime, &s.SendInfoTime, &s.Battery, &s.Date,
		&defective, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSensorNotFound
		}
		return nil, fmt.Errorf("scanning sensor: %w", err)
	}

	s.Defective = defective != 0
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	s.Readings = []Reading{}

	return &s, nil
}

// Helper functions.

func truncateToSecond(t time.Time) time.Time {
	return t.Truncate(time.Second)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
