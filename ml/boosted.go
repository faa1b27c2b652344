package ml

import (
	"fmt"
	"math"
)

// BoostedTrees is an additive ensemble of regression trees with a logistic link.
// The positive class is predicted when the probability reaches Threshold.
type BoostedTrees struct {
	baseScore   float64
	threshold   float64
	trees       [][]TreeNode
	numFeatures int
}

// NewBoostedTrees validates every tree. A zero threshold defaults to 0.5.
func NewBoostedTrees(baseScore, threshold float64, trees [][]TreeNode, numFeatures int) (*BoostedTrees, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("ensemble has no trees")
	}
	if threshold == 0 {
		threshold = 0.5
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0,1)", threshold)
	}
	copied := make([][]TreeNode, len(trees))
	for i, t := range trees {
		if err := validateNodes(t, numFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		copied[i] = append([]TreeNode(nil), t...)
	}
	return &BoostedTrees{
		baseScore:   baseScore,
		threshold:   threshold,
		trees:       copied,
		numFeatures: numFeatures,
	}, nil
}

// Margin returns the raw additive score before the link function.
func (b *BoostedTrees) Margin(features []float64) (float64, error) {
	margin := b.baseScore
	for _, tree := range b.trees {
		leaf, err := walkTree(tree, features)
		if err != nil {
			return 0, err
		}
		margin += leaf.Value
	}
	return margin, nil
}

// Probability returns P(class 1).
func (b *BoostedTrees) Probability(features []float64) (float64, error) {
	margin, err := b.Margin(features)
	if err != nil {
		return 0, err
	}
	return 1 / (1 + math.Exp(-margin)), nil
}

func (b *BoostedTrees) Predict(features []float64) (int, error) {
	p, err := b.Probability(features)
	if err != nil {
		return 0, err
	}
	if p >= b.threshold {
		return 1, nil
	}
	return 0, nil
}

func (b *BoostedTrees) NumFeatures() int {
	return b.numFeatures
}
