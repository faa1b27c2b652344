package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"incomepredict/ml"
	"incomepredict/prediction"
)

//go:embed predict_request.schema.json
var predictRequestSchema []byte

var requestSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(predictRequestSchema))
	if err != nil {
		panic(fmt.Sprintf("predict request schema: %v", err))
	}
	return schema
}()

// Predictor is the part of prediction.Service the handlers use.
type Predictor interface {
	PredictInput(in ml.RawInput) (prediction.Label, error)
	State() prediction.State
	Options() map[string][]string
}

type Handlers struct {
	predictor Predictor
	log       *zap.Logger
}

func NewHandlers(predictor Predictor, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{predictor: predictor, log: log}
}

type predictResponse struct {
	Label string `json:"label"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RegisterHandlers(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/ready", h.handleReady)
	mux.HandleFunc("GET /api/options", h.handleOptions)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleReady(w http.ResponseWriter, r *http.Request) {
	state := h.predictor.State()
	status := http.StatusOK
	if state != prediction.StateReady {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, map[string]string{"state": state.String()})
}

func (h *Handlers) handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.predictor.Options())
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	in, err := decodePredictRequest(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	label, err := h.predictor.PredictInput(in)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			h.log.Error("prediction failed",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Error(err))
		}
		respondJSON(w, status, errorResponse{Error: userMessage(err), Code: string(ml.CodeOf(err))})
		return
	}
	respondJSON(w, http.StatusOK, predictResponse{Label: string(label)})
}

func decodePredictRequest(body io.Reader) (ml.RawInput, error) {
	payload, err := io.ReadAll(body)
	if err != nil {
		return ml.RawInput{}, fmt.Errorf("read body: %w", err)
	}
	result, err := requestSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return ml.RawInput{}, fmt.Errorf("malformed json: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return ml.RawInput{}, errors.New(strings.Join(msgs, "; "))
	}

	var in ml.RawInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return ml.RawInput{}, fmt.Errorf("malformed json: %w", err)
	}
	in.Workclass = norm.NFC.String(in.Workclass)
	in.Occupation = norm.NFC.String(in.Occupation)
	in.Relationship = norm.NFC.String(in.Relationship)
	return in, nil
}

func statusFor(err error) int {
	switch ml.CodeOf(err) {
	case ml.ErrCodeUnknownCategory, ml.ErrCodeOutOfRange:
		return http.StatusUnprocessableEntity
	case ml.ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage hides internal detail for failures the caller cannot fix.
func userMessage(err error) string {
	switch ml.CodeOf(err) {
	case ml.ErrCodeUnknownCategory, ml.ErrCodeOutOfRange:
		return err.Error()
	case ml.ErrCodeModelUnavailable:
		return "prediction service unavailable"
	default:
		return "prediction failed"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
