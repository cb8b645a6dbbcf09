// internal/model/logistic.go
package model

import "math"

// Logistic is a linear model with a sigmoid link.
type Logistic struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (l *Logistic) PredictProba(rows [][]float64) ([][]float64, error) {
	if err := checkWidth(rows, len(l.Coefficients)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		z := l.Intercept
		for j, x := range row {
			z += l.Coefficients[j] * x
		}
		p := sigmoid(z)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
