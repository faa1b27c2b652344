package ml

// Classifier is a trained binary model consumed through its decision function.
type Classifier interface {
	// Predict returns the class index for one scaled feature vector.
	Predict(features []float64) (int, error)
	// NumFeatures is the vector length the model was trained with.
	NumFeatures() int
}

const (
	ModelTypeDecisionTree     = "decision_tree"
	ModelTypeGradientBoosting = "gradient_boosting"
)
