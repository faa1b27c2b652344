package ml

import "errors"

// StandardizeFeature returns (value-mean)/std, or the centred value when std is zero.
func StandardizeFeature(value, mean, std float64) float64 {
	if std == 0 {
		return value - mean
	}
	return (value - mean) / std
}

func StandardizeVector(values []float64, means []float64, stds []float64) ([]float64, error) {
	if len(values) != len(means) || len(values) != len(stds) {
		return nil, errors.New("values/means/stds length mismatch")
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = StandardizeFeature(values[i], means[i], stds[i])
	}
	return result, nil
}
