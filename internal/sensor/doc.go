// Package sensor provides the sensor catalogue for Tanksense.
//
// A Sensor is a physical tank-monitoring device identified by a
// caller-supplied external ID. Each sensor owns zero or more Readings
// (level/volume/temperature samples). The sensor is the aggregate root:
// readings are value children that never outlive their sensor and belong
// to exactly one sensor.
//
// # Key Types
//
//   - Sensor: the device record, including its readings
//   - Reading: one time-series sample (sensor_data row)
//   - Patch: a partial update where only non-nil fields are applied
//   - Repository: persistence interface, implemented by SQLiteRepository
//
// # Consistency
//
// Writes that touch a sensor and its readings (create, reading
// replacement on update, delete) run inside a single transaction:
// either all rows commit or none do. Duplicate external IDs are
// arbitrated by the UNIQUE constraint on sensors.external_id — the
// second writer gets ErrSensorExists, never a silent overwrite.
package sensor
