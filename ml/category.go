package ml

import "sort"

// CategoryMap collapses raw form labels into the coarser buckets the model was trained on.
type CategoryMap struct {
	column string
	order  []string
	bucket map[string]string
}

func newCategoryMap(column string, pairs [][2]string) *CategoryMap {
	m := &CategoryMap{
		column: column,
		order:  make([]string, 0, len(pairs)),
		bucket: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		m.order = append(m.order, p[0])
		m.bucket[p[0]] = p[1]
	}
	return m
}

func identityMap(column string, labels ...string) *CategoryMap {
	pairs := make([][2]string, len(labels))
	for i, l := range labels {
		pairs[i] = [2]string{l, l}
	}
	return newCategoryMap(column, pairs)
}

var (
	workclassMap = newCategoryMap(ColumnWorkclass, [][2]string{
		{"Federal-gov", "Government"},
		{"State-gov", "Government"},
		{"Local-gov", "Government"},
		{"Self-emp-inc", "Self-Employed"},
		{"Self-emp-not-inc", "Self-Employed"},
		{"Private", "Private"},
		{"?", "?"},
		{"Without-pay", "Unemployed"},
		{"Never-worked", "Unemployed"},
	})

	occupationMap = newCategoryMap(ColumnOccupation, [][2]string{
		{"Prof-specialty", "Management & Professional"},
		{"Craft-repair", "Technical & skilled trades"},
		{"Exec-managerial", "Management & Professional"},
		{"Machine-op-inspct", "Technical & skilled trades"},
		{"Tech-support", "Technical & skilled trades"},
		{"Transport-moving", "Technical & skilled trades"},
		{"Other-service", "Services & Sales"},
		{"Handlers-cleaners", "Services & Sales"},
		{"Sales", "Services & Sales"},
		{"Protective-serv", "Services & Sales"},
		{"Priv-house-serv", "Services & Sales"},
		{"Farming-fishing", "Agriculture"},
		{"Adm-clerical", "Management & Professional"},
		{"Armed-Forces", "Defence Service"},
		{"?", "?"},
	})

	// relationship is not collapsed, the table only restricts the accepted labels.
	relationshipMap = identityMap(ColumnRelationship,
		"Not-in-family", "Husband", "Wife", "Own-child", "Unmarried", "Other-relative")

	categoryMaps = map[string]*CategoryMap{
		ColumnWorkclass:    workclassMap,
		ColumnOccupation:   occupationMap,
		ColumnRelationship: relationshipMap,
	}
)

// Lookup returns the bucket for a raw label.
func (m *CategoryMap) Lookup(raw string) (string, error) {
	canonical, ok := m.bucket[raw]
	if !ok {
		return "", &UnknownCategoryError{Column: m.column, Value: raw}
	}
	return canonical, nil
}

// RawLabels returns the accepted raw labels in form order.
func (m *CategoryMap) RawLabels() []string {
	return append([]string(nil), m.order...)
}

// Buckets returns the distinct canonical labels, sorted.
func (m *CategoryMap) Buckets() []string {
	seen := make(map[string]struct{}, len(m.bucket))
	out := make([]string, 0, len(m.bucket))
	for _, raw := range m.order {
		c := m.bucket[raw]
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryMapFor returns the table of a categorical column.
func CategoryMapFor(column string) (*CategoryMap, bool) {
	m, ok := categoryMaps[column]
	return m, ok
}

// Bucket maps a raw label of column to its canonical bucket.
func Bucket(column, raw string) (string, error) {
	m, ok := categoryMaps[column]
	if !ok {
		return "", &UnknownCategoryError{Column: column, Value: raw}
	}
	return m.Lookup(raw)
}

// Options returns the accepted raw labels per categorical column, in form order.
func Options() map[string][]string {
	out := make(map[string][]string, len(categoryMaps))
	for column, m := range categoryMaps {
		out[column] = m.RawLabels()
	}
	return out
}
