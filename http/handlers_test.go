package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"solarcast/model"
	"solarcast/predictor"
)

// newTestService builds a service over a real linear artifact with
// prediction = intercept + 2*date_hour.
func newTestService(t *testing.T, intercept float64) *predictor.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	weights := make([]float64, model.FeatureCount)
	weights[0] = 2
	lm := &model.LinearModel{Intercept: intercept, Weights: weights}
	if err := lm.Save(path); err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	svc, err := predictor.New("linear", path)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func newTestMux(t *testing.T, svc *predictor.Service, history HistoryStore) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandlers(svc, history, nil, nil).Register(mux)
	return mux
}

func defaultForm() url.Values {
	form := url.Values{}
	form.Set("date_hour", "1.00")
	form.Set("wind_speed", "3.5")
	form.Set("sunshine", "6.0")
	form.Set("air_pressure", "1013.0")
	form.Set("radiation", "650.0")
	form.Set("air_temperature", "28.0")
	form.Set("relative_humidity", "45.0")
	return form
}

func postForm(mux *http.ServeMux, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`name="date_hour"`,
		`name="wind_speed"`,
		`name="relative_humidity"`,
		`min="0"`,
		`max="50"`,
		`value="1013"`,
		"Predict Solar Energy",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPredictFormSuccess(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	w := postForm(mux, defaultForm())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "102.00") {
		t.Errorf("expected scalar formatted to two decimals, body: %s", body)
	}
	if !strings.Contains(body, "Date-Hour (NMT): 1.00") {
		t.Errorf("expected success notice echoing date_hour")
	}
	if !strings.Contains(body, "View raw input vector") {
		t.Errorf("expected expandable raw input vector")
	}
}

func TestPredictFormGrouping(t *testing.T) {
	// intercept 10000 -> prediction 10,002.00 with thousands grouping
	mux := newTestMux(t, newTestService(t, 10000), nil)

	w := postForm(mux, defaultForm())
	if !strings.Contains(w.Body.String(), "10,002.00") {
		t.Errorf("expected grouped formatting, body: %s", w.Body.String())
	}
}

func TestPredictFormOutOfBounds(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	form := defaultForm()
	form.Set("wind_speed", "50.1")
	w := postForm(mux, form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "wind_speed") {
		t.Errorf("error should name the offending field")
	}
}

func TestPredictFormNonNumeric(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	form := defaultForm()
	form.Set("radiation", "lots")
	w := postForm(mux, form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "must be a number") {
		t.Errorf("expected parse error message")
	}
}

func TestPredictFormMissingField(t *testing.T) {
	mux := newTestMux(t, newTestService(t, 100), nil)

	form := defaultForm()
	form.Del("sunshine")
	w := postForm(mux, form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPredictFormMissingArtifact(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	svc, err := predictor.New("linear", missing)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	mux := newTestMux(t, svc, nil)

	w := postForm(mux, defaultForm())
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, missing) {
		t.Errorf("error should show the attempted path, body: %s", body)
	}
	if strings.Contains(body, "Predicted System / Solar Energy") {
		t.Errorf("no scalar should be shown on artifact errors")
	}
}

func TestPredictFormInferenceFailure(t *testing.T) {
	// Artifact trained on a different feature width: inference rejects the
	// 7-value vector.
	path := filepath.Join(t.TempDir(), "model.json")
	lm := &model.LinearModel{Intercept: 1, Weights: []float64{1, 2}}
	if err := lm.Save(path); err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	svc, err := predictor.New("linear", path)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	mux := newTestMux(t, svc, nil)

	w := postForm(mux, defaultForm())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "An error occurred while generating the prediction.") {
		t.Errorf("expected the generic prediction-failure message")
	}
}
