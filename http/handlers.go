package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"solarcast/db"
	"solarcast/model"
	"solarcast/predictor"
)

// HistoryStore supplies recent predictions for the history endpoint.
type HistoryStore interface {
	RecentPredictions(limit int) ([]db.PredictionRecord, error)
}

// PredictionFeed serves the live prediction WebSocket.
type PredictionFeed interface {
	ServeWS(http.ResponseWriter, *http.Request)
}

// Handlers carries the request-path dependencies: the predictor service
// constructed at startup plus the optional history store and live feed.
type Handlers struct {
	svc     *predictor.Service
	history HistoryStore
	feed    PredictionFeed
	log     *zap.Logger
}

// NewHandlers builds the handler set. history and feed may be nil, which
// disables the corresponding endpoints.
func NewHandlers(svc *predictor.Service, history HistoryStore, feed PredictionFeed, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{svc: svc, history: history, feed: feed, log: log}
}

// Register mounts all routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict", h.handlePredict)

	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /api/predict", h.handleAPIPredict)
	mux.HandleFunc("GET /api/model", h.handleModelInfo)
	mux.HandleFunc("GET /api/history", h.handleHistory)
	if h.feed != nil {
		mux.HandleFunc("GET /api/ws/predictions", h.feed.ServeWS)
	}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(nil)
	data.Notice = "Enter the seven inputs and press Predict."
	h.renderPage(w, data)
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	submitted := make(map[string]string, len(model.Fields))
	values := make([]float64, len(model.Fields))
	for i, field := range model.Fields {
		raw := strings.TrimSpace(r.PostFormValue(field.Key))
		submitted[field.Key] = raw
		if raw == "" {
			data := h.newPageData(submitted)
			data.Error = &errorView{Message: fmt.Sprintf("%s is required.", field.Label)}
			h.renderPageWithStatus(w, data, http.StatusBadRequest)
			return
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			data := h.newPageData(submitted)
			data.Error = &errorView{Message: fmt.Sprintf("%s must be a number.", field.Label)}
			h.renderPageWithStatus(w, data, http.StatusBadRequest)
			return
		}
		values[i] = value
	}

	vector, err := model.FromValues(values)
	if err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Predict(r.Context(), vector)
	if err != nil {
		data := h.newPageData(submitted)
		data.Error = errorViewFor(err)
		h.renderPageWithStatus(w, data, statusFor(err))
		return
	}

	data := h.newPageData(submitted)
	data.Result = &resultView{
		Value:  formatPrediction(result.Prediction),
		Notice: fmt.Sprintf("Prediction generated successfully for Date-Hour (NMT): %.2f", result.DateHour),
		Raw:    rawEntries(vector),
	}
	h.renderPage(w, data)
}

// errorViewFor maps the closed error set onto user-facing messages. The
// missing-artifact message carries the attempted path; inference failures
// show a generic message with the cause tucked into the expandable detail.
func errorViewFor(err error) *errorView {
	switch {
	case errors.Is(err, model.ErrArtifactNotFound):
		return &errorView{Message: err.Error() + ". Make sure the artifact is at the configured path."}
	case errors.Is(err, model.ErrPrediction):
		return &errorView{
			Message: "An error occurred while generating the prediction.",
			Detail:  err.Error(),
		}
	default:
		return &errorView{Message: err.Error()}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrArtifactNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrPrediction):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func rawEntries(v model.FeatureVector) []rawEntry {
	values := v.Values()
	entries := make([]rawEntry, len(model.Fields))
	for i, field := range model.Fields {
		label := field.Label
		if field.Unit != "" {
			label += " (" + field.Unit + ")"
		}
		entries[i] = rawEntry{Label: label, Value: strconv.FormatFloat(values[i], 'f', -1, 64)}
	}
	return entries
}
