package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"incomepredict/ml"
	"incomepredict/prediction"
)

type fakePredictor struct {
	label prediction.Label
	err   error
	state prediction.State
	got   ml.RawInput
}

func (f *fakePredictor) PredictInput(in ml.RawInput) (prediction.Label, error) {
	f.got = in
	return f.label, f.err
}

func (f *fakePredictor) State() prediction.State { return f.state }

func (f *fakePredictor) Options() map[string][]string { return ml.Options() }

const scenarioABody = `{"age":25,"capital_gain":0,"capital_loss":0,"hours_per_week":40,` +
	`"workclass":"Private","occupation":"Tech-support","relationship":"Not-in-family"}`

func newTestHandler(t *testing.T, p Predictor) http.Handler {
	t.Helper()
	log := zaptest.NewLogger(t)
	return NewHandler(DefaultServerConfig(), NewHandlers(p, log), log)
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), w.Body.String())
	return payload
}

func TestHealthHandler(t *testing.T) {
	h := newTestHandler(t, &fakePredictor{state: prediction.StateReady})
	w := doRequest(h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		state  prediction.State
		status int
	}{
		{prediction.StateReady, http.StatusOK},
		{prediction.StateUnavailable, http.StatusServiceUnavailable},
		{prediction.StateUninitialized, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			h := newTestHandler(t, &fakePredictor{state: tt.state})
			w := doRequest(h, http.MethodGet, "/api/ready", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.state.String(), decodeBody(t, w)["state"])
		})
	}
}

func TestOptionsHandler(t *testing.T) {
	h := newTestHandler(t, &fakePredictor{state: prediction.StateReady})
	w := doRequest(h, http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	var options map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Len(t, options["workclass"], 9)
	assert.Len(t, options["occupation"], 15)
	assert.Len(t, options["relationship"], 6)
}

func TestHandlePredict(t *testing.T) {
	fake := &fakePredictor{label: prediction.HighIncome, state: prediction.StateReady}
	h := newTestHandler(t, fake)

	w := doRequest(h, http.MethodPost, "/api/predict", scenarioABody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "High Income", decodeBody(t, w)["label"])
	assert.Equal(t, int64(25), fake.got.Age)
	assert.Equal(t, "Tech-support", fake.got.Occupation)
}

func TestHandlePredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{name: "malformed json", body: `{"age":`, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "missing field", body: `{"age":25}`, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "fractional age", body: strings.Replace(scenarioABody, `"age":25`, `"age":25.5`, 1), status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "extra field", body: strings.Replace(scenarioABody, `{`, `{"race":"x",`, 1), status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "unknown category", body: scenarioABody, err: &ml.UnknownCategoryError{Column: "workclass", Value: "x"}, status: http.StatusUnprocessableEntity, code: "UNKNOWN_CATEGORY"},
		{name: "out of range", body: scenarioABody, err: &ml.OutOfRangeError{Field: "age", Value: -1}, status: http.StatusUnprocessableEntity, code: "OUT_OF_RANGE"},
		{name: "unavailable", body: scenarioABody, err: ml.ErrModelUnavailable, status: http.StatusServiceUnavailable, code: "MODEL_UNAVAILABLE"},
		{name: "shape mismatch", body: scenarioABody, err: &ml.ShapeMismatchError{}, status: http.StatusInternalServerError, code: "SHAPE_MISMATCH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &fakePredictor{err: tt.err, state: prediction.StateReady})
			w := doRequest(h, http.MethodPost, "/api/predict", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			payload := decodeBody(t, w)
			assert.Equal(t, tt.code, payload["code"])
			assert.NotEmpty(t, payload["error"])
			assert.NotContains(t, payload, "label")
		})
	}
}

func TestPredictEndToEnd(t *testing.T) {
	svc := prediction.NewService(zaptest.NewLogger(t), 8)
	require.NoError(t, svc.Load(filepath.Join("testdata", "income_model.json")))
	h := newTestHandler(t, svc)

	w := doRequest(h, http.MethodPost, "/api/predict", scenarioABody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Low Income", decodeBody(t, w)["label"])

	negative := strings.Replace(scenarioABody, `"age":25`, `"age":-1`, 1)
	w = doRequest(h, http.MethodPost, "/api/predict", negative)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	unlisted := strings.Replace(scenarioABody, `"Private"`, `"Freelance"`, 1)
	w = doRequest(h, http.MethodPost, "/api/predict", unlisted)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "UNKNOWN_CATEGORY", decodeBody(t, w)["code"])
}

func TestPredictAfterLoadFailure(t *testing.T) {
	svc := prediction.NewService(zaptest.NewLogger(t), 0)
	require.Error(t, svc.Load(filepath.Join(t.TempDir(), "missing.json")))
	h := newTestHandler(t, svc)

	w := doRequest(h, http.MethodPost, "/api/predict", scenarioABody)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, decodeBody(t, w), "label")

	w = doRequest(h, http.MethodGet, "/api/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	svc := prediction.NewService(zaptest.NewLogger(t), 0)
	require.NoError(t, svc.Load(filepath.Join("testdata", "income_model.json")))
	h := newTestHandler(t, svc)
	doRequest(h, http.MethodPost, "/api/predict", scenarioABody)

	w := doRequest(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "income_predictions_total")
}

func TestRecoveryMiddleware(t *testing.T) {
	log := zaptest.NewLogger(t)
	h := RecoveryMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, &fakePredictor{state: prediction.StateReady})
	req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
}
