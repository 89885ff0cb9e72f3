package sensor

import "fmt"

// Validation constants.
const (
	maxNameLength       = 100
	maxLocationLength   = 200
	maxExternalIDLength = 64
	maxDateLength       = 64

	minBattery = 0
	maxBattery = 100
)

// Validate performs validation on a sensor before it reaches the repository.
// Returns an error wrapping ErrInvalidSensor describing the first failure found.
func Validate(s *Sensor) error {
	if s == nil {
		return ErrInvalidSensor
	}

	if s.ExternalID == "" {
		return fmt.Errorf("%w: external_id is required", ErrInvalidSensor)
	}
	if len(s.ExternalID) > maxExternalIDLength {
		return fmt.Errorf("%w: external_id exceeds %d characters", ErrInvalidSensor, maxExternalIDLength)
	}

	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSensor)
	}
	if len(s.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidSensor, maxNameLength)
	}

	if s.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidSensor)
	}
	if len(s.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidSensor, maxLocationLength)
	}

	if s.SendDataTime == "" {
		return fmt.Errorf("%w: sendDataTime is required", ErrInvalidSensor)
	}
	if s.SendInfoTime == "" {
		return fmt.Errorf("%w: sendInfoTime is required", ErrInvalidSensor)
	}

	if s.Battery < minBattery || s.Battery > maxBattery {
		return fmt.Errorf("%w: battery must be between %d and %d", ErrInvalidSensor, minBattery, maxBattery)
	}

	// Dates are opaque strings by contract; only bound their size.
	if len(s.Date) > maxDateLength {
		return fmt.Errorf("%w: date exceeds %d characters", ErrInvalidSensor, maxDateLength)
	}
	for i := range s.Readings {
		if len(s.Readings[i].Date) > maxDateLength {
			return fmt.Errorf("%w: reading date exceeds %d characters", ErrInvalidSensor, maxDateLength)
		}
	}

	return nil
}

// ValidatePatch checks the fields present in a partial update.
func ValidatePatch(p *Patch) error {
	if p == nil {
		return ErrInvalidSensor
	}

	if p.Name != nil && (*p.Name == "" || len(*p.Name) > maxNameLength) {
		return fmt.Errorf("%w: invalid name", ErrInvalidSensor)
	}
	if p.Location != nil && (*p.Location == "" || len(*p.Location) > maxLocationLength) {
		return fmt.Errorf("%w: invalid location", ErrInvalidSensor)
	}
	if p.SendDataTime != nil && *p.SendDataTime == "" {
		return fmt.Errorf("%w: sendDataTime must not be empty", ErrInvalidSensor)
	}
	if p.SendInfoTime != nil && *p.SendInfoTime == "" {
		return fmt.Errorf("%w: sendInfoTime must not be empty", ErrInvalidSensor)
	}
	if p.Battery != nil && (*p.Battery < minBattery || *p.Battery > maxBattery) {
		return fmt.Errorf("%w: battery must be between %d and %d", ErrInvalidSensor, minBattery, maxBattery)
	}
	if p.Date != nil && len(*p.Date) > maxDateLength {
		return fmt.Errorf("%w: date exceeds %d characters", ErrInvalidSensor, maxDateLength)
	}
	if p.Readings != nil {
		for i := range *p.Readings {
			if len((*p.Readings)[i].Date) > maxDateLength {
				return fmt.Errorf("%w: reading date exceeds %d characters", ErrInvalidSensor, maxDateLength)
			}
		}
	}

	return nil
}
