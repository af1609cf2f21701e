package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"solarcast/db"
	"solarcast/model"
	"solarcast/predictor"
)

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func getJSON(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

const defaultBody = `{
	"date_hour": 1.00,
	"wind_speed": 3.5,
	"sunshine": 6.0,
	"air_pressure": 1013.0,
	"radiation": 650.0,
	"air_temperature": 28.0,
	"relative_humidity": 45.0
}`

func TestHealthHandler(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := getJSON(mux, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected status %q", payload["status"])
	}
}

func TestAPIPredict(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := postJSON(mux, "/api/predict", defaultBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result predictor.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if result.Prediction != 102 {
		t.Fatalf("expected 102, got %v", result.Prediction)
	}
	if result.DateHour != 1 {
		t.Fatalf("expected date_hour echoed, got %v", result.DateHour)
	}
	if len(result.Features) != model.FeatureCount {
		t.Fatalf("expected the raw vector in the response")
	}
}

func TestAPIPredictMissingField(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := postJSON(mux, "/api/predict", `{"date_hour": 1.0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "wind_speed is required") {
		t.Fatalf("expected missing-field error, got %s", w.Body.String())
	}
}

func TestAPIPredictOutOfBounds(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	body := strings.Replace(defaultBody, `"air_pressure": 1013.0`, `"air_pressure": 1100.5`, 1)
	w := postJSON(mux, "/api/predict", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAPIPredictMissingArtifact(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	svc, err := predictor.New("linear", missing)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	mux := newTestMux(t, svc, nil)

	w := postJSON(mux, "/api/predict", defaultBody)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), missing) {
		t.Fatalf("error should name the attempted path")
	}
}

func TestAPIModelInfo(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := getJSON(mux, "/api/model")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var snap predictor.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap.ModelType != "linear" || !snap.Loaded {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.NumFeatures != model.FeatureCount {
		t.Fatalf("expected %d features, got %d", model.FeatureCount, snap.NumFeatures)
	}
}

func TestAPIHistory(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.Close()
	if err := store.SavePrediction(model.DefaultVector(), 321.5, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}

	mux := newTestMux(t, newTestService(t, 100), store)

	w := getJSON(mux, "/api/history?limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload struct {
		Predictions []db.PredictionRecord `json:"predictions"`
		Count       int                   `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Count != 1 || len(payload.Predictions) != 1 {
		t.Fatalf("expected one record, got %+v", payload)
	}
	if payload.Predictions[0].Prediction != 321.5 {
		t.Fatalf("unexpected prediction %v", payload.Predictions[0].Prediction)
	}
}

func TestAPIHistoryUnavailable(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := getJSON(mux, "/api/history")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
