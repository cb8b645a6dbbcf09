// internal/detection/result.go
package detection

import (
	"errors"
	"fmt"
	"math"
)

// Label is the verdict for a URL.
type Label string

const (
	LabelPhishing   Label = "Phishing"
	LabelLegitimate Label = "Legitimate"
)

// Confidence is a two-level band derived from the distance of the
// probability to the 0.5 decision boundary. There is no low band.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
)

var (
	ErrModelNotLoaded   = errors.New("model not loaded")
	ErrPredictionFailed = errors.New("prediction failed")
)

// PredictionError describes why a prediction could not be produced.
// Kind is ErrModelNotLoaded or ErrPredictionFailed.
type PredictionError struct {
	Kind  error
	Cause error
}

func (e *PredictionError) Error() string {
	if e.Kind == ErrModelNotLoaded {
		return "Model not loaded"
	}
	return fmt.Sprintf("Prediction failed: %v", e.Cause)
}

func (e *PredictionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Prediction is a successful verdict.
type Prediction struct {
	URL         string     `json:"url"`
	Label       Label      `json:"prediction"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
}

// Result carries either a Prediction or an error description. It encodes to
// {"url","prediction","probability","confidence"} or {"error"}.
type Result struct {
	*Prediction
	Error string `json:"error,omitempty"`

	err *PredictionError
}

func success(p *Prediction) Result {
	return Result{Prediction: p}
}

func failure(kind, cause error) Result {
	pe := &PredictionError{Kind: kind, Cause: cause}
	return Result{Error: pe.Error(), err: pe}
}

// OK reports whether the result holds a prediction.
func (r Result) OK() bool { return r.Prediction != nil }

// Err returns the typed error of a failed result, or nil.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// verdict applies the strict 0.5 threshold and the confidence band.
func verdict(p float64) (Label, Confidence) {
	label := LabelLegitimate
	if p > 0.5 {
		label = LabelPhishing
	}
	conf := ConfidenceMedium
	if math.Abs(p-0.5) > 0.3 {
		conf = ConfidenceHigh
	}
	return label, conf
}
