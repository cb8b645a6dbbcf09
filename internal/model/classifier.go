// internal/model/classifier.go
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
)

// Classifier is a trained binary model. For every input row it returns a
// two-element distribution [P(legitimate), P(phishing)].
type Classifier interface {
	PredictProba(rows [][]float64) ([][]float64, error)
}

// Type identifies the model family stored in an artifact.
type Type string

const (
	TypeLogistic         Type = "logistic"
	TypeRandomForest     Type = "random_forest"
	TypeGradientBoosting Type = "gradient_boosting"
)

var (
	ErrUnknownType     = errors.New("unknown model type")
	ErrFeatureMismatch = errors.New("feature names do not match")
	ErrRowWidth        = errors.New("row width does not match model")
)

// Artifact is the on-disk JSON form of a trained model.
type Artifact struct {
	Type         Type      `json:"type"`
	Version      string    `json:"version,omitempty"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Logistic     *Logistic `json:"logistic,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
	BaseScore    float64   `json:"base_score,omitempty"`
}

// Load reads the artifact at path and builds its classifier. featureNames is
// the vector layout the caller will feed; an artifact declaring a different
// layout is rejected.
func Load(path string, featureNames []string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}

	c, err := art.Build(featureNames)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return c, nil
}

// Build validates the artifact against featureNames and returns the classifier.
func (a *Artifact) Build(featureNames []string) (Classifier, error) {
	if len(a.FeatureNames) > 0 && !slices.Equal(a.FeatureNames, featureNames) {
		return nil, fmt.Errorf("%w: artifact %v, expected %v", ErrFeatureMismatch, a.FeatureNames, featureNames)
	}
	width := len(featureNames)

	switch a.Type {
	case TypeLogistic:
		if a.Logistic == nil {
			return nil, errors.New("logistic model without coefficients")
		}
		if len(a.Logistic.Coefficients) != width {
			return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrFeatureMismatch, len(a.Logistic.Coefficients), width)
		}
		return a.Logistic, nil

	case TypeRandomForest:
		if err := validateTrees(a.Trees, width, 2); err != nil {
			return nil, err
		}
		return &RandomForest{Trees: a.Trees, Width: width}, nil

	case TypeGradientBoosting:
		if err := validateTrees(a.Trees, width, 1); err != nil {
			return nil, err
		}
		return &GradientBoosting{Trees: a.Trees, BaseScore: a.BaseScore, Width: width}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, a.Type)
	}
}

func checkWidth(rows [][]float64, width int) error {
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(row), width)
		}
	}
	return nil
}
