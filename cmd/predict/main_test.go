package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

var modelPath = filepath.Join("..", "..", "models", "income_model.json")

func TestRunPredicts(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-model", modelPath,
		"-age", "25",
		"-workclass", "Private",
		"-occupation", "Tech-support",
		"-relationship", "Not-in-family",
	}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Predicted Income Category: Low Income\n", stdout.String())
}

func TestRunRejectsUnknownLabel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-model", modelPath, "-workclass", "Freelance"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown workclass category")
	assert.Empty(t, stdout.String())
}

func TestRunMissingModel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-model", filepath.Join(t.TempDir(), "none.json")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error loading model")
}

func TestRunListsOptions(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-options"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Never-worked")
	assert.Contains(t, stdout.String(), "Other-relative")
}
