package ml

// Column names as they appear in the training frame.
const (
	ColumnAge          = "age"
	ColumnCapitalGain  = "capital.gain"
	ColumnCapitalLoss  = "capital.loss"
	ColumnHoursPerWeek = "hours.per.week"
	ColumnWorkclass    = "workclass"
	ColumnOccupation   = "occupation"
	ColumnRelationship = "relationship"
)

// RawInput is one prediction request as collected from the form.
type RawInput struct {
	Age          int64  `json:"age"`
	CapitalGain  int64  `json:"capital_gain"`
	CapitalLoss  int64  `json:"capital_loss"`
	HoursPerWeek int64  `json:"hours_per_week"`
	Workclass    string `json:"workclass"`
	Occupation   string `json:"occupation"`
	Relationship string `json:"relationship"`
}

// EncodedVector is the ordered numeric input of the classifier.
type EncodedVector struct {
	Columns []string
	Values  []float64
}

// Len returns the number of features.
func (v EncodedVector) Len() int {
	return len(v.Values)
}

// FeatureNames returns the column order the classifier was trained on.
func FeatureNames() []string {
	return []string{
		ColumnAge,
		ColumnCapitalGain,
		ColumnCapitalLoss,
		ColumnHoursPerWeek,
		ColumnWorkclass,
		ColumnOccupation,
		ColumnRelationship,
	}
}

// NumericColumns returns the columns taken directly from integer inputs.
func NumericColumns() []string {
	return []string{ColumnAge, ColumnCapitalGain, ColumnCapitalLoss, ColumnHoursPerWeek}
}

// CategoricalColumns returns the columns that go through bucket and encode.
func CategoricalColumns() []string {
	return []string{ColumnWorkclass, ColumnOccupation, ColumnRelationship}
}

func numericFields(in RawInput) []struct {
	name  string
	value int64
} {
	return []struct {
		name  string
		value int64
	}{
		{"age", in.Age},
		{"capital_gain", in.CapitalGain},
		{"capital_loss", in.CapitalLoss},
		{"hours_per_week", in.HoursPerWeek},
	}
}

func categoricalValue(in RawInput, column string) string {
	switch column {
	case ColumnWorkclass:
		return in.Workclass
	case ColumnOccupation:
		return in.Occupation
	case ColumnRelationship:
		return in.Relationship
	}
	return ""
}
