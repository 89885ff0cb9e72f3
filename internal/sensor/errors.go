package sensor

import "errors"

// Domain errors for the sensor package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, sensor.ErrSensorNotFound) {
//	    // handle not found case
//	}
var (
	// ErrSensorNotFound is returned when a sensor ID or external ID does not exist.
	ErrSensorNotFound = errors.New("sensor: not found")

	// ErrSensorExists is returned when creating a sensor whose external ID already exists.
	ErrSensorExists = errors.New("sensor: external id already exists")

	// ErrInvalidSensor is returned when sensor validation fails.
	ErrInvalidSensor = errors.New("sensor: invalid")
)
