package sensor

import "time"

// Sensor represents a tank-monitoring device.
//
// The JSON field names are a fixed external contract: the schedule fields
// and the readings collection use camelCase aliases (sendDataTime,
// sendInfoTime, todayData) while everything else is snake_case. Internal
// storage is snake_case throughout; the aliases exist only on the wire.
type Sensor struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Location   string `json:"location"`

	// SendDataTime and SendInfoTime are reporting-cadence strings
	// (e.g. "08:00") supplied by the device fleet management side.
	SendDataTime string `json:"sendDataTime"`
	SendInfoTime string `json:"sendInfoTime"`

	// Battery is the charge level in percent.
	Battery int `json:"battery"`

	// Date is an opaque caller-supplied timestamp string. It is stored
	// and returned verbatim, never parsed.
	Date string `json:"date"`

	// Defective is an inert flag for future fleet maintenance logic.
	Defective bool `json:"defective"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Readings are the sensor's owned samples, serialised as todayData.
	Readings []Reading `json:"todayData"`
}

// Reading is one time-series sample reported by a sensor.
type Reading struct {
	ID       int64   `json:"id"`
	SensorID int64   `json:"sensor_id"`
	Level    float64 `json:"level"`
	Volume   float64 `json:"volume"`

	// Temperature in celsius. Nullable: readings written before the
	// column was introduced carry no value.
	Temperature *int `json:"temperature"`

	// Date is an opaque caller-supplied string, stored verbatim.
	Date string `json:"date"`

	CreatedAt time.Time `json:"created_at"`
}

// ReadingInput is a caller-supplied reading without server-assigned fields.
type ReadingInput struct {
	Level       float64 `json:"level"`
	Volume      float64 `json:"volume"`
	Temperature *int    `json:"temperature"`
	Date        string  `json:"date"`
}

// Patch is a partial sensor update. Only non-nil fields are applied;
// absent fields leave the stored value untouched.
//
// Readings is special: nil leaves the existing readings alone, while a
// non-nil slice (even an empty one) replaces them all.
type Patch struct {
	Name         *string         `json:"name"`
	Location     *string         `json:"location"`
	SendDataTime *string         `json:"sendDataTime"`
	SendInfoTime *string         `json:"sendInfoTime"`
	Battery      *int            `json:"battery"`
	Date         *string         `json:"date"`
	Defective    *bool           `json:"defective"`
	Readings     *[]ReadingInput `json:"todayData"`
}
