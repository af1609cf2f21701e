package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"solarcast/model"
)

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]string{"status": "ok"})
}

// predictRequest uses pointers so a missing field is distinguishable from a
// legitimate zero.
type predictRequest struct {
	DateHour         *float64 `json:"date_hour"`
	WindSpeed        *float64 `json:"wind_speed"`
	Sunshine         *float64 `json:"sunshine"`
	AirPressure      *float64 `json:"air_pressure"`
	Radiation        *float64 `json:"radiation"`
	AirTemperature   *float64 `json:"air_temperature"`
	RelativeHumidity *float64 `json:"relative_humidity"`
}

func (r *predictRequest) vector() (model.FeatureVector, string) {
	named := []struct {
		key   string
		value *float64
	}{
		{"date_hour", r.DateHour},
		{"wind_speed", r.WindSpeed},
		{"sunshine", r.Sunshine},
		{"air_pressure", r.AirPressure},
		{"radiation", r.Radiation},
		{"air_temperature", r.AirTemperature},
		{"relative_humidity", r.RelativeHumidity},
	}
	values := make([]float64, len(named))
	for i, field := range named {
		if field.value == nil {
			return model.FeatureVector{}, field.key
		}
		values[i] = *field.value
	}
	vector, _ := model.FromValues(values)
	return vector, ""
}

func (h *Handlers) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vector, missing := req.vector()
	if missing != "" {
		h.respondError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	result, err := h.svc.Predict(r.Context(), vector)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrArtifactNotFound):
			h.respondError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, model.ErrPrediction):
			h.respondError(w, http.StatusInternalServerError, err.Error())
		default:
			h.respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.respondJSON(w, result)
}

func (h *Handlers) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.svc.Snapshot())
}

func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.respondError(w, http.StatusServiceUnavailable, "history not available")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.history.RecentPredictions(limit)
	if err != nil {
		h.log.Error("history query failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	h.respondJSON(w, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
