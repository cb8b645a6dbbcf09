// internal/detection/detector.go
package detection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"phishguard/internal/features"
	"phishguard/internal/metrics"
	"phishguard/internal/model"
)

// Detector classifies URLs with a loaded model. It starts without a model;
// Predict reports ErrModelNotLoaded until LoadModel or SetClassifier succeeds.
type Detector struct {
	featureNames []string
	logger       *slog.Logger

	mu    sync.RWMutex
	model model.Classifier
}

// NewPhishingDetector returns an unloaded detector. A nil logger means
// slog.Default().
func NewPhishingDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		featureNames: features.Names(),
		logger:       logger,
	}
}

// FeatureNames returns the vector layout fed to the model.
func (d *Detector) FeatureNames() []string {
	return append([]string(nil), d.featureNames...)
}

// LoadModel reads a model artifact from path. A failure is logged and
// returned; the detector keeps whatever model it had before.
func (d *Detector) LoadModel(path string) error {
	c, err := model.Load(path, d.featureNames)
	if err != nil {
		metrics.ModelLoadFailures.Inc()
		d.logger.Error("error loading model", "path", path, "err", err)
		return err
	}
	d.SetClassifier(c)
	d.logger.Info("model loaded", "path", path)
	return nil
}

// SetClassifier attaches an already constructed classifier.
func (d *Detector) SetClassifier(c model.Classifier) {
	if c == nil {
		return
	}
	d.mu.Lock()
	d.model = c
	d.mu.Unlock()
	metrics.ModelLoaded.Set(1)
}

// Loaded reports whether a classifier is attached.
func (d *Detector) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model != nil
}

// Predict classifies rawURL. It never panics and never returns a Go error:
// failures are reported through Result.Error.
func (d *Detector) Predict(ctx context.Context, rawURL string) (res Result) {
	start := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(start).Seconds())
		if res.OK() {
			metrics.Predictions.WithLabelValues(string(res.Label), string(res.Confidence)).Inc()
		} else {
			metrics.PredictionErrors.WithLabelValues(errorKind(res.err)).Inc()
		}
	}()

	d.mu.RLock()
	clf := d.model
	d.mu.RUnlock()

	if clf == nil {
		return failure(ErrModelNotLoaded, nil)
	}

	p, err := d.phishingProbability(ctx, clf, rawURL)
	if err != nil {
		d.logger.Debug("prediction failed", "url", rawURL, "err", err)
		return failure(ErrPredictionFailed, err)
	}

	label, conf := verdict(p)
	return success(&Prediction{
		URL:         rawURL,
		Label:       label,
		Probability: p,
		Confidence:  conf,
	})
}

func (d *Detector) phishingProbability(ctx context.Context, clf model.Classifier, rawURL string) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	vec, err := features.Vector(features.Extract(rawURL), d.featureNames)
	if err != nil {
		return 0, err
	}

	probs, err := clf.PredictProba([][]float64{vec})
	if err != nil {
		return 0, err
	}
	if len(probs) != 1 || len(probs[0]) != 2 {
		return 0, fmt.Errorf("classifier returned shape %dx%d, want 1x2", len(probs), rowLen(probs))
	}
	return probs[0][1], nil
}

func rowLen(probs [][]float64) int {
	if len(probs) == 0 {
		return 0
	}
	return len(probs[0])
}

func errorKind(e *PredictionError) string {
	if e != nil && e.Kind == ErrModelNotLoaded {
		return "model_not_loaded"
	}
	return "prediction_failed"
}
