package ml

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed artifact.schema.json
var artifactSchema []byte

// Artifact is the serialized bundle shipped by training: column order, frozen
// preprocessing tables and the classifier itself.
type Artifact struct {
	Version   int                    `json:"version"`
	ModelType string                 `json:"model_type"`
	Columns   []string               `json:"columns"`
	Encoders  map[string][]string    `json:"encoders"`
	Scaler    map[string]ScaleParams `json:"scaler"`
	Tree      []TreeNode             `json:"tree,omitempty"`
	Boosted   *BoostedSpec           `json:"boosted,omitempty"`
}

type BoostedSpec struct {
	BaseScore float64      `json:"base_score"`
	Threshold float64      `json:"threshold,omitempty"`
	Trees     [][]TreeNode `json:"trees"`
}

// Model is a loaded artifact ready to serve.
type Model struct {
	Columns     []string
	Transformer *FeatureTransformer
	Classifier  Classifier
}

// LoadModel reads and validates the artifact at path.
// Any failure is returned as *ModelLoadError.
func LoadModel(path string) (*Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	model, err := ParseModel(payload)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return model, nil
}

// ParseModel builds a Model from artifact bytes.
func ParseModel(payload []byte) (*Model, error) {
	if err := validateArtifact(payload); err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return artifact.Build()
}

// Build checks the artifact against the transformer's contract and instantiates it.
func (a *Artifact) Build() (*Model, error) {
	if !slices.Equal(a.Columns, FeatureNames()) {
		return nil, &ShapeMismatchError{Expected: FeatureNames(), Got: a.Columns}
	}
	transformer, err := NewFeatureTransformer(a.Encoders, a.Scaler)
	if err != nil {
		return nil, err
	}

	var classifier Classifier
	switch a.ModelType {
	case ModelTypeDecisionTree:
		classifier, err = NewDecisionTree(a.Tree, len(a.Columns))
	case ModelTypeGradientBoosting:
		if a.Boosted == nil {
			return nil, errors.New("gradient_boosting artifact without boosted section")
		}
		classifier, err = NewBoostedTrees(a.Boosted.BaseScore, a.Boosted.Threshold, a.Boosted.Trees, len(a.Columns))
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.ModelType)
	}
	if err != nil {
		return nil, err
	}

	return &Model{
		Columns:     append([]string(nil), a.Columns...),
		Transformer: transformer,
		Classifier:  classifier,
	}, nil
}

func validateArtifact(payload []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(artifactSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("validate artifact: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("artifact schema: %s", strings.Join(msgs, "; "))
}
