package sensor

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Sensor)
		wantErr bool
	}{
		{name: "valid sensor", mutate: func(*Sensor) {}, wantErr: false},
		{name: "missing external id", mutate: func(s *Sensor) { s.ExternalID = "" }, wantErr: true},
		{name: "missing name", mutate: func(s *Sensor) { s.Name = "" }, wantErr: true},
		{name: "missing location", mutate: func(s *Sensor) { s.Location = "" }, wantErr: true},
		{name: "missing sendDataTime", mutate: func(s *Sensor) { s.SendDataTime = "" }, wantErr: true},
		{name: "missing sendInfoTime", mutate: func(s *Sensor) { s.SendInfoTime = "" }, wantErr: true},
		{name: "battery below range", mutate: func(s *Sensor) { s.Battery = -1 }, wantErr: true},
		{name: "battery above range", mutate: func(s *Sensor) { s.Battery = 101 }, wantErr: true},
		{name: "battery at bounds", mutate: func(s *Sensor) { s.Battery = 100 }, wantErr: false},
		{name: "name too long", mutate: func(s *Sensor) { s.Name = strings.Repeat("x", 101) }, wantErr: true},
		{name: "external id too long", mutate: func(s *Sensor) { s.ExternalID = strings.Repeat("x", 65) }, wantErr: true},
		{name: "date too long", mutate: func(s *Sensor) { s.Date = strings.Repeat("9", 65) }, wantErr: true},
		{name: "reading date too long", mutate: func(s *Sensor) { s.Readings[0].Date = strings.Repeat("9", 65) }, wantErr: true},
		{name: "empty date allowed", mutate: func(s *Sensor) { s.Date = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSensor("S1")
			tt.mutate(s)

			err := Validate(s)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSensor) {
				t.Errorf("error should wrap ErrInvalidSensor, got %v", err)
			}
		})
	}
}

func TestValidate_NilSensor(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrInvalidSensor) {
		t.Errorf("Validate(nil) = %v, want ErrInvalidSensor", err)
	}
}

func TestValidatePatch(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name    string
		patch   *Patch
		wantErr bool
	}{
		{name: "empty patch", patch: &Patch{}, wantErr: false},
		{name: "valid name", patch: &Patch{Name: strPtr("Tank")}, wantErr: false},
		{name: "empty name", patch: &Patch{Name: strPtr("")}, wantErr: true},
		{name: "empty location", patch: &Patch{Location: strPtr("")}, wantErr: true},
		{name: "empty sendDataTime", patch: &Patch{SendDataTime: strPtr("")}, wantErr: true},
		{name: "empty sendInfoTime", patch: &Patch{SendInfoTime: strPtr("")}, wantErr: true},
		{name: "battery out of range", patch: &Patch{Battery: intPtr(101)}, wantErr: true},
		{name: "battery in range", patch: &Patch{Battery: intPtr(55)}, wantErr: false},
		{name: "long date", patch: &Patch{Date: strPtr(strings.Repeat("9", 65))}, wantErr: true},
		{
			name:    "valid readings replacement",
			patch:   &Patch{Readings: &[]ReadingInput{{Level: 1, Volume: 2, Date: "2025-01-01"}}},
			wantErr: false,
		},
		{
			name:    "empty readings replacement",
			patch:   &Patch{Readings: &[]ReadingInput{}},
			wantErr: false,
		},
		{
			name:    "long reading date",
			patch:   &Patch{Readings: &[]ReadingInput{{Date: strings.Repeat("9", 65)}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatch(tt.patch)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePatch_Nil(t *testing.T) {
	if err := ValidatePatch(nil); !errors.Is(err, ErrInvalidSensor) {
		t.Errorf("ValidatePatch(nil) = %v, want ErrInvalidSensor", err)
	}
}
