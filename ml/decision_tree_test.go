package ml

import "testing"

func leaf(class int, value float64) TreeNode {
	return TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: class, Value: value, IsLeaf: true}
}

func TestDecisionTreePredict(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		leaf(0, 0),
		leaf(1, 0),
	}
	model, err := NewDecisionTree(nodes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
	label, err = model.Predict([]float64{0.9, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 {
		t.Fatalf("expected label 1, got %d", label)
	}
	if model.NumFeatures() != 2 {
		t.Fatalf("expected 2 features, got %d", model.NumFeatures())
	}
}

func TestNewDecisionTreeRejectsBadLayout(t *testing.T) {
	tests := []struct {
		name  string
		nodes []TreeNode
	}{
		{name: "empty", nodes: nil},
		{name: "feature out of range", nodes: []TreeNode{
			{FeatureIdx: 5, LeftChild: 1, RightChild: 2}, leaf(0, 0), leaf(1, 0),
		}},
		{name: "child points back", nodes: []TreeNode{
			{FeatureIdx: 0, LeftChild: 0, RightChild: 1}, leaf(0, 0),
		}},
		{name: "child past end", nodes: []TreeNode{
			{FeatureIdx: 0, LeftChild: 1, RightChild: 9}, leaf(0, 0),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDecisionTree(tt.nodes, 2); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBoostedTreesPredict(t *testing.T) {
	trees := [][]TreeNode{
		{
			{FeatureIdx: 0, Threshold: 0, LeftChild: 1, RightChild: 2},
			leaf(0, -2),
			leaf(0, 2),
		},
		{leaf(0, 0.5)},
	}
	model, err := NewBoostedTrees(0, 0, trees, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	margin, err := model.Margin([]float64{-1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if margin != -1.5 {
		t.Fatalf("expected margin -1.5, got %f", margin)
	}
	label, err := model.Predict([]float64{-1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected 0, got %d", label)
	}
	label, err = model.Predict([]float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 {
		t.Fatalf("expected 1, got %d", label)
	}
}

func TestNewBoostedTreesErrors(t *testing.T) {
	if _, err := NewBoostedTrees(0, 0.5, nil, 1); err == nil {
		t.Fatal("expected error for empty ensemble")
	}
	if _, err := NewBoostedTrees(0, 1.5, [][]TreeNode{{leaf(0, 1)}}, 1); err == nil {
		t.Fatal("expected error for threshold")
	}
}
