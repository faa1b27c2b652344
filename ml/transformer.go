package ml

import "fmt"

// FeatureTransformer turns a RawInput into the vector the classifier expects.
// It holds only frozen tables and is safe for concurrent use.
type FeatureTransformer struct {
	columns  []string
	encoders map[string]*LabelEncoder
	scaler   *Scaler
}

// NewFeatureTransformer builds a transformer from frozen encoder classes and scaler statistics.
func NewFeatureTransformer(classes map[string][]string, stats map[string]ScaleParams) (*FeatureTransformer, error) {
	encoders, err := buildEncoders(classes)
	if err != nil {
		return nil, err
	}
	scaler, err := NewScaler(stats)
	if err != nil {
		return nil, err
	}
	return &FeatureTransformer{
		columns:  FeatureNames(),
		encoders: encoders,
		scaler:   scaler,
	}, nil
}

// Columns returns the output column order.
func (t *FeatureTransformer) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Bucket maps a raw label to its canonical bucket.
func (t *FeatureTransformer) Bucket(column, raw string) (string, error) {
	return Bucket(column, raw)
}

// Encode returns the frozen code of a canonical label.
func (t *FeatureTransformer) Encode(column, canonical string) (int, error) {
	enc, ok := t.encoders[column]
	if !ok {
		return 0, &UnknownCategoryError{Column: column, Value: canonical}
	}
	return enc.Encode(canonical)
}

// Scale applies the frozen scaler to values in output column order.
func (t *FeatureTransformer) Scale(values []float64) ([]float64, error) {
	return t.scaler.Scale(t.columns, values)
}

// Transform validates, buckets, encodes and scales one input.
func (t *FeatureTransformer) Transform(in RawInput) (EncodedVector, error) {
	if err := ValidateRange(in); err != nil {
		return EncodedVector{}, err
	}

	values := make([]float64, 0, len(t.columns))
	values = append(values,
		float64(in.Age),
		float64(in.CapitalGain),
		float64(in.CapitalLoss),
		float64(in.HoursPerWeek),
	)
	for _, column := range CategoricalColumns() {
		canonical, err := t.Bucket(column, categoricalValue(in, column))
		if err != nil {
			return EncodedVector{}, err
		}
		code, err := t.Encode(column, canonical)
		if err != nil {
			return EncodedVector{}, err
		}
		values = append(values, float64(code))
	}
	if len(values) != len(t.columns) {
		return EncodedVector{}, fmt.Errorf("built %d values for %d columns", len(values), len(t.columns))
	}

	scaled, err := t.Scale(values)
	if err != nil {
		return EncodedVector{}, err
	}
	return EncodedVector{Columns: t.Columns(), Values: scaled}, nil
}

// ValidateRange rejects negative numeric fields.
func ValidateRange(in RawInput) error {
	for _, f := range numericFields(in) {
		if f.value < 0 {
			return &OutOfRangeError{Field: f.name, Value: f.value}
		}
	}
	return nil
}
