package ml

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a failure class across the transformer, the service and the HTTP layer.
type ErrorCode string

const (
	ErrCodeModelLoadFailed  ErrorCode = "MODEL_LOAD_FAILED"
	ErrCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeUnknownCategory  ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeOutOfRange       ErrorCode = "OUT_OF_RANGE"
	ErrCodeShapeMismatch    ErrorCode = "SHAPE_MISMATCH"
	ErrCodeUnexpectedClass  ErrorCode = "UNEXPECTED_CLASS"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

var (
	// ErrModelUnavailable is returned by every prediction once loading failed or before it ran.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrAlreadyLoaded is returned by a second Load call.
	ErrAlreadyLoaded = errors.New("model already loaded")
	// ErrUnexpectedClass means the classifier produced an index outside the label table.
	ErrUnexpectedClass = errors.New("classifier returned unexpected class")
)

// UnknownCategoryError reports a categorical value with no entry in its lookup table.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category %q", e.Column, e.Value)
}

// OutOfRangeError reports a numeric input that violates its lower bound.
type OutOfRangeError struct {
	Field string
	Value int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be non-negative, got %d", e.Field, e.Value)
}

// ShapeMismatchError reports a vector whose columns differ from what the model was trained on.
type ShapeMismatchError struct {
	Expected []string
	Got      []string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature shape mismatch: expected [%s], got [%s]",
		strings.Join(e.Expected, ","), strings.Join(e.Got, ","))
}

// ModelLoadError wraps any failure while reading or validating the artifact.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// CodeOf maps an error from this package to its ErrorCode.
func CodeOf(err error) ErrorCode {
	var (
		unknown *UnknownCategoryError
		rng     *OutOfRangeError
		shape   *ShapeMismatchError
		load    *ModelLoadError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &unknown):
		return ErrCodeUnknownCategory
	case errors.As(err, &rng):
		return ErrCodeOutOfRange
	case errors.As(err, &shape):
		return ErrCodeShapeMismatch
	case errors.As(err, &load):
		return ErrCodeModelLoadFailed
	case errors.Is(err, ErrModelUnavailable):
		return ErrCodeModelUnavailable
	case errors.Is(err, ErrUnexpectedClass):
		return ErrCodeUnexpectedClass
	default:
		return ErrCodeInternal
	}
}

// IsRequestError reports whether err was caused by the caller's input rather than the service.
func IsRequestError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUnknownCategory, ErrCodeOutOfRange:
		return true
	}
	return false
}
