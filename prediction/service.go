// Package prediction owns the loaded income classifier and serves predictions from it.
package prediction

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"incomepredict/ml"
	"incomepredict/monitoring"
)

// Label is the human-readable prediction.
type Label string

const (
	LowIncome  Label = "Low Income"
	HighIncome Label = "High Income"
)

var labelTable = map[int]Label{
	0: LowIncome,
	1: HighIncome,
}

// State is the lifecycle of a Service. Load is the only transition.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// Service serves predictions from a model loaded exactly once.
type Service struct {
	log   *zap.Logger
	once  sync.Once
	state atomic.Int32

	model   *ml.Model
	loadErr error
	cache   *lru.Cache[string, Label]
}

// NewService creates an uninitialized service. cacheSize <= 0 disables memoisation.
func NewService(log *zap.Logger, cacheSize int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{log: log.Named("prediction")}
	if cacheSize > 0 {
		// only fails on a non-positive size
		s.cache, _ = lru.New[string, Label](cacheSize)
	}
	return s
}

// Load reads the artifact at path. See LoadFrom.
func (s *Service) Load(path string) error {
	return s.LoadFrom(func() (*ml.Model, error) {
		return ml.LoadModel(path)
	})
}

// LoadFrom runs loader once. A failure leaves the service unavailable for good;
// any later call returns ml.ErrAlreadyLoaded.
func (s *Service) LoadFrom(loader func() (*ml.Model, error)) error {
	ran := false
	s.once.Do(func() {
		ran = true
		model, err := loader()
		if err == nil && model == nil {
			err = errors.New("loader returned no model")
		}
		if err != nil {
			s.loadErr = err
			s.state.Store(int32(StateUnavailable))
			monitoring.ModelReady.Set(0)
			s.log.Error("model load failed, predictions unavailable", zap.Error(err))
			return
		}
		s.model = model
		s.state.Store(int32(StateReady))
		monitoring.ModelReady.Set(1)
		s.log.Info("model loaded", zap.Strings("columns", model.Columns))
	})
	if !ran {
		return ml.ErrAlreadyLoaded
	}
	return s.loadErr
}

// State reports the lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// LoadError returns the error that made the service unavailable, if any.
func (s *Service) LoadError() error {
	if s.State() != StateUnavailable {
		return nil
	}
	return s.loadErr
}

// Options returns the accepted raw labels of every categorical field.
func (s *Service) Options() map[string][]string {
	return ml.Options()
}

// Predict classifies an already encoded vector.
func (s *Service) Predict(vector ml.EncodedVector) (Label, error) {
	started := time.Now()
	label, err := s.predict(vector)
	s.observe(label, err, started)
	return label, err
}

// PredictInput transforms raw form input and classifies it.
func (s *Service) PredictInput(in ml.RawInput) (Label, error) {
	started := time.Now()
	label, err := s.predictInput(in)
	s.observe(label, err, started)
	return label, err
}

func (s *Service) predictInput(in ml.RawInput) (Label, error) {
	if s.State() != StateReady {
		return "", ml.ErrModelUnavailable
	}
	vector, err := s.model.Transformer.Transform(in)
	if err != nil {
		return "", err
	}
	return s.predict(vector)
}

func (s *Service) predict(vector ml.EncodedVector) (Label, error) {
	if s.State() != StateReady {
		return "", ml.ErrModelUnavailable
	}
	if !slices.Equal(vector.Columns, s.model.Columns) || len(vector.Values) != s.model.Classifier.NumFeatures() {
		err := &ml.ShapeMismatchError{Expected: s.model.Columns, Got: vector.Columns}
		s.log.Error("feature vector does not match model",
			zap.Strings("expected", s.model.Columns),
			zap.Strings("got", vector.Columns),
			zap.Int("values", len(vector.Values)))
		return "", err
	}

	key := vectorKey(vector.Values)
	if s.cache != nil {
		if label, ok := s.cache.Get(key); ok {
			monitoring.PredictionCacheHits.Inc()
			return label, nil
		}
	}

	class, err := s.model.Classifier.Predict(vector.Values)
	if err != nil {
		return "", fmt.Errorf("predict: %w", err)
	}
	label, ok := labelTable[class]
	if !ok {
		s.log.Error("classifier returned unknown class", zap.Int("class", class))
		return "", fmt.Errorf("%w: %d", ml.ErrUnexpectedClass, class)
	}
	if s.cache != nil {
		s.cache.Add(key, label)
	}
	return label, nil
}

func (s *Service) observe(label Label, err error, started time.Time) {
	if err != nil {
		code := ml.CodeOf(err)
		monitoring.ObserveError(string(code))
		if ml.IsRequestError(err) {
			s.log.Debug("prediction rejected", zap.String("code", string(code)), zap.Error(err))
		}
		return
	}
	monitoring.ObservePrediction(string(label), started)
}

func vectorKey(values []float64) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
