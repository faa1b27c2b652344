package ml

import (
	"errors"
	"fmt"
	"sort"
)

// LabelEncoder is a frozen canonical label -> integer code table.
// Codes are positions in the class list fixed at training time.
type LabelEncoder struct {
	column  string
	classes []string
	codes   map[string]int
}

// NewLabelEncoder freezes classes in the given order.
func NewLabelEncoder(column string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %s: no classes", column)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("encoder %s: duplicate class %q", column, c)
		}
		codes[c] = i
	}
	return &LabelEncoder{
		column:  column,
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

// Encode returns the code of a canonical label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, &UnknownCategoryError{Column: e.column, Value: label}
	}
	return code, nil
}

// Classes returns the frozen class order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// DefaultEncoders builds encoders whose classes are the sorted buckets of each category table,
// the order a label encoder fitted on the full training column produces.
func DefaultEncoders() map[string][]string {
	out := make(map[string][]string, len(categoryMaps))
	for column, m := range categoryMaps {
		classes := m.Buckets()
		sort.Strings(classes)
		out[column] = classes
	}
	return out
}

func buildEncoders(classes map[string][]string) (map[string]*LabelEncoder, error) {
	encoders := make(map[string]*LabelEncoder, len(classes))
	for _, column := range CategoricalColumns() {
		list, ok := classes[column]
		if !ok {
			return nil, fmt.Errorf("missing encoder for %s", column)
		}
		enc, err := NewLabelEncoder(column, list)
		if err != nil {
			return nil, err
		}
		// every bucket reachable from the form must have a code
		m, _ := CategoryMapFor(column)
		for _, b := range m.Buckets() {
			if _, err := enc.Encode(b); err != nil {
				return nil, errors.Join(fmt.Errorf("encoder %s does not cover bucket %q", column, b), err)
			}
		}
		encoders[column] = enc
	}
	return encoders, nil
}
