package ml

import (
	"errors"
	"fmt"
	"sort"
)

// ScaleParams are the frozen statistics of one column.
type ScaleParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Scaler standardises a vector with statistics fitted once on the training data.
type Scaler struct {
	featureStats map[string]ScaleParams
}

// NewScaler freezes the given statistics. Every numeric column must be present.
func NewScaler(stats map[string]ScaleParams) (*Scaler, error) {
	if len(stats) == 0 {
		return nil, errors.New("scaler stats are empty")
	}
	for _, name := range NumericColumns() {
		if _, ok := stats[name]; !ok {
			return nil, fmt.Errorf("missing scaler stats for %s", name)
		}
	}
	frozen := make(map[string]ScaleParams, len(stats))
	for k, v := range stats {
		if v.Std < 0 {
			return nil, fmt.Errorf("negative std for %s", k)
		}
		frozen[k] = v
	}
	return &Scaler{featureStats: frozen}, nil
}

// Scale applies the frozen transform to values laid out by columns.
// Columns without statistics pass through unchanged.
func (s *Scaler) Scale(columns []string, values []float64) ([]float64, error) {
	if len(columns) != len(values) {
		return nil, errors.New("columns/values length mismatch")
	}
	means := make([]float64, len(columns))
	stds := make([]float64, len(columns))
	for i, name := range columns {
		stats, ok := s.featureStats[name]
		if !ok {
			means[i], stds[i] = 0, 1
			continue
		}
		means[i] = stats.Mean
		stds[i] = stats.Std
	}
	return StandardizeVector(values, means, stds)
}

// FeatureStats returns a copy of the frozen statistics.
func (s *Scaler) FeatureStats() map[string]ScaleParams {
	if s.featureStats == nil {
		return nil
	}
	out := make(map[string]ScaleParams, len(s.featureStats))
	keys := make([]string, 0, len(s.featureStats))
	for key := range s.featureStats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out[key] = s.featureStats[key]
	}
	return out
}
