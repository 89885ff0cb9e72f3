package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/tanksense/internal/sensor"
)

// Pagination defaults for GET /sensors/.
const (
	defaultListSkip  = 0
	defaultListLimit = 100
)

// handleCreateSensor registers a new sensor, optionally with its first
// batch of readings. The sensor and its readings are written in one
// transaction, so a duplicate external_id leaves nothing behind.
func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var in sensor.Sensor
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// Server-assigned fields are never taken from the client.
	in.ID = 0
	for i := range in.Readings {
		in.Readings[i].ID = 0
		in.Readings[i].SensorID = 0
	}

	// An omitted todayData means "no readings yet"; responses always
	// render the collection as a list, matching what reads return.
	if in.Readings == nil {
		in.Readings = []sensor.Reading{}
	}

	if err := sensor.Validate(&in); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.sensors.Create(r.Context(), &in); err != nil {
		if errors.Is(err, sensor.ErrSensorExists) {
			writeConflict(w, "sensor with this external_id already registered")
			return
		}
		s.logger.Error("creating sensor", "error", err, "external_id", in.ExternalID)
		writeInternalError(w, "failed to create sensor")
		return
	}

	writeJSON(w, http.StatusCreated, in)
}

// handleListSensors returns a page of sensors in insertion order,
// each with its full set of readings.
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", defaultListSkip)
	if err != nil || skip < 0 {
		writeBadRequest(w, "invalid skip parameter")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 0 {
		writeBadRequest(w, "invalid limit parameter")
		return
	}

	sensors, err := s.sensors.List(r.Context(), skip, limit)
	if err != nil {
		s.logger.Error("listing sensors", "error", err)
		writeInternalError(w, "failed to list sensors")
		return
	}

	writeJSON(w, http.StatusOK, sensors)
}

// handleGetSensor returns one sensor by its numeric id.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	id, ok := sensorID(w, r)
	if !ok {
		return
	}

	sn, err := s.sensors.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sensor.ErrSensorNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		s.logger.Error("getting sensor", "error", err, "id", id)
		writeInternalError(w, "failed to get sensor")
		return
	}

	writeJSON(w, http.StatusOK, sn)
}

// handleGetSensorByExternalID returns one sensor by its device-assigned
// identifier.
func (s *Server) handleGetSensorByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	if externalID == "" {
		writeBadRequest(w, "external_id is required")
		return
	}

	sn, err := s.sensors.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, sensor.ErrSensorNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		s.logger.Error("getting sensor", "error", err, "external_id", externalID)
		writeInternalError(w, "failed to get sensor")
		return
	}

	writeJSON(w, http.StatusOK, sn)
}

// handleUpdateSensor applies a partial update to a sensor.
//
// Only fields present in the body are changed. A todayData key, even with
// an empty array, replaces the sensor's readings wholesale; omitting it
// leaves them untouched.
func (s *Server) handleUpdateSensor(w http.ResponseWriter, r *http.Request) {
	id, ok := sensorID(w, r)
	if !ok {
		return
	}

	var patch sensor.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := sensor.ValidatePatch(&patch); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	sn, err := s.sensors.Update(r.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, sensor.ErrSensorNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		s.logger.Error("updating sensor", "error", err, "id", id)
		writeInternalError(w, "failed to update sensor")
		return
	}

	writeJSON(w, http.StatusOK, sn)
}

// handleDeleteSensor removes a sensor and all of its readings.
func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	id, ok := sensorID(w, r)
	if !ok {
		return
	}

	if err := s.sensors.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sensor.ErrSensorNotFound) {
			writeNotFound(w, "sensor not found")
			return
		}
		s.logger.Error("deleting sensor", "error", err, "id", id)
		writeInternalError(w, "failed to delete sensor")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sensorID parses the {id} route parameter, writing a 400 on failure.
func sensorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid sensor id")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
