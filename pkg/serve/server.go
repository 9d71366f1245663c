package serve

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/model"
)

// PredictRequest carries one sample of raw feature values keyed by feature
// name. Categorical features take their original string categories.
type PredictRequest struct {
	Features map[string]any `json:"features"`
}

// PredictResponse carries the decoded prediction. Probabilities and
// confidence are present only for classifiers with probability support.
type PredictResponse struct {
	Prediction    any       `json:"prediction"`
	Probabilities []float64 `json:"probabilities,omitempty"`
	Confidence    *float64  `json:"confidence,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server answers health, info and prediction requests for one loaded model.
type Server struct {
	ctx *Context
	log zerolog.Logger
}

// NewServer wraps a loaded deployment context.
func NewServer(ctx *Context, log zerolog.Logger) *Server {
	return &Server{ctx: ctx, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("POST /predict", s.handlePredict)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": s.ctx.Model != nil,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctx.Info)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Features == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'features' in request"})
		return
	}

	row, err := s.vectorize(req.Features)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	preds, err := s.ctx.Model.Predict([][]float64{row})
	if err != nil {
		s.log.Error().Err(err).Msg("prediction failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := PredictResponse{Prediction: preds[0]}
	if s.ctx.TargetEncoder != nil {
		label, err := s.ctx.TargetEncoder.InverseTransform(preds[0])
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		resp.Prediction = label
	}
	if pc, ok := s.ctx.Model.(model.ProbabilityClassifier); ok && s.ctx.Info.ProblemType == model.Classification {
		probas, err := pc.PredictProba([][]float64{row})
		if err == nil && len(probas) == 1 {
			resp.Probabilities = probas[0]
			conf := 0.0
			for _, p := range probas[0] {
				if p > conf {
					conf = p
				}
			}
			resp.Confidence = &conf
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// vectorize arranges the submitted features into the exact column order the
// model was fit on and replays label encoding then scaling.
func (s *Server) vectorize(features map[string]any) ([]float64, error) {
	var missing []string
	for _, name := range s.ctx.Meta.FeatureColumns {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Errorf("missing features: %v", missing)
	}

	row := make([]float64, len(s.ctx.Meta.FeatureColumns))
	for i, name := range s.ctx.Meta.FeatureColumns {
		v, err := s.featureValue(name, features[name])
		if err != nil {
			return nil, err
		}
		row[i] = v
	}

	if s.ctx.Scaler != nil {
		scaled, err := s.ctx.Scaler.Transform([][]float64{row})
		if err != nil {
			return nil, err
		}
		row = scaled[0]
	}
	return row, nil
}

func (s *Server) featureValue(name string, raw any) (float64, error) {
	if enc, ok := s.ctx.Encoders[name]; ok {
		codes, err := enc.Transform([]string{stringify(raw)})
		if err != nil {
			return 0, err
		}
		return codes[0], nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Wrapf(dataprep.ErrTransform, "feature %s: %q is not numeric", name, v)
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.Wrapf(dataprep.ErrTransform, "feature %s: unsupported value type %T", name, raw)
	}
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; an encode failure here has nowhere
	// to go.
	_ = json.NewEncoder(w).Encode(v)
}
