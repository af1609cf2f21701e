package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"solarcast/model"
	"solarcast/predictor"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// formatter produces the display form of the scalar: two decimal places with
// thousands grouping, e.g. 1,234.57.
var formatter = message.NewPrinter(language.English)

func formatPrediction(value float64) string {
	return formatter.Sprintf("%.2f", value)
}

type pageData struct {
	Fields []fieldView
	Model  modelView
	Result *resultView
	Error  *errorView
	Notice string
}

type fieldView struct {
	Key     string
	Label   string
	Unit    string
	Value   string
	Min     string
	Max     string
	Step    string
	Bounded bool
}

type modelView struct {
	Type         string
	ArtifactPath string
	Loaded       bool
	NumFeatures  int
}

type resultView struct {
	Value  string
	Notice string
	Raw    []rawEntry
}

type rawEntry struct {
	Label string
	Value string
}

type errorView struct {
	Message string
	Detail  string
}

// newPageData builds the form view. submitted maps field keys to the raw
// strings from the last POST; nil renders the defaults.
func (h *Handlers) newPageData(submitted map[string]string) pageData {
	fields := make([]fieldView, len(model.Fields))
	for i, f := range model.Fields {
		fv := fieldView{
			Key:     f.Key,
			Label:   f.Label,
			Unit:    f.Unit,
			Value:   formatAttr(f.Default),
			Step:    formatAttr(f.Step),
			Bounded: f.Bounded,
		}
		if f.Bounded {
			fv.Min = formatAttr(f.Min)
			fv.Max = formatAttr(f.Max)
		}
		if submitted != nil {
			if raw, ok := submitted[f.Key]; ok && raw != "" {
				fv.Value = raw
			}
		}
		fields[i] = fv
	}

	return pageData{
		Fields: fields,
		Model:  modelViewFor(h.svc.Snapshot()),
	}
}

func modelViewFor(snap predictor.Snapshot) modelView {
	return modelView{
		Type:         snap.ModelType,
		ArtifactPath: snap.ArtifactPath,
		Loaded:       snap.Loaded,
		NumFeatures:  snap.NumFeatures,
	}
}

func formatAttr(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func (h *Handlers) renderPage(w http.ResponseWriter, data pageData) {
	h.renderPageWithStatus(w, data, http.StatusOK)
}

// renderPageWithStatus renders into a buffer first so a template failure
// cannot produce a half-written page.
func (h *Handlers) renderPageWithStatus(w http.ResponseWriter, data pageData, status int) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.log.Error("template render failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
