package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"profitpredict/form"
	"profitpredict/ml"
	"profitpredict/monitoring"
)

var (
	predictor   *form.Predictor
	modelNotice string
	metrics     *monitoring.Metrics
)

// SetPredictor installs the predictor shared by every request.
func SetPredictor(p *form.Predictor) {
	predictor = p
}

// SetModelNotice sets the load notice shown at the top of the page.
func SetModelNotice(notice string) {
	modelNotice = notice
}

func SetMetrics(m *monitoring.Metrics) {
	metrics = m
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /{$}", handleIndex)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", handlePredict)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":       "ok",
		"model_loaded": predictor != nil,
	}
	if predictor != nil {
		resp["cached_predictions"] = predictor.CacheLen()
	}
	if metrics != nil {
		resp["metrics"] = metrics.Snapshot()
	}
	respondJSON(w, http.StatusOK, resp)
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"features": ml.FeatureNames(),
		"fields":   form.Fields(),
		"states":   ml.States(),
		"default":  form.DefaultState,
	})
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	var (
		inputs  ml.Features
		predict bool
	)
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		inputs = form.Parse(r.PostForm)
		predict = r.PostForm.Has(form.KeyPredict)
	} else {
		inputs = form.Parse(r.URL.Query())
	}

	view := render(inputs, predict)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		zap.L().Error("render page", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
	}
}

type predictRequest struct {
	RDSpend        *float64 `json:"rd_spend"`
	Administration *float64 `json:"admin_spend"`
	MarketingSpend *float64 `json:"marketing_spend"`
	State          string   `json:"state"`
}

func (req predictRequest) features() (ml.Features, bool) {
	f := form.Defaults()
	if req.RDSpend != nil {
		f.RDSpend = *req.RDSpend
	}
	if req.Administration != nil {
		f.Administration = *req.Administration
	}
	if req.MarketingSpend != nil {
		f.MarketingSpend = *req.MarketingSpend
	}
	if req.State != "" {
		f.State = ml.State(req.State)
		if _, ok := ml.EncodeState(f.State); !ok {
			return f, false
		}
	}
	return f, true
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	inputs, ok := req.features()
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "state must be one of " + stateList()})
		return
	}

	view := render(inputs, true)
	if view.Outcome == form.Failure {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"features": view.Summary,
			"error":    view.Error,
			"hint":     view.Hint,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"features":   view.Summary,
		"prediction": view.Prediction,
		"formatted":  form.FormatCurrency(view.Prediction),
	})
}

// render runs one form cycle against the shared predictor.
func render(inputs ml.Features, predict bool) form.View {
	view := form.Render(predictor, inputs, predict)
	view.ModelInfo = modelNotice
	if metrics != nil {
		metrics.RecordRender(view.Status)
	}
	return view
}

func stateList() string {
	states := ml.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
