package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Scaler applies the standard-scaling transform the classifier was trained
// with: (x - mean) / scale per feature. Immutable after load.
type Scaler struct {
	mean  []float64
	scale []float64
}

type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads a scaler artifact from disk.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scaler %s: %w", path, err)
	}
	var artifact scalerArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("load scaler %s: parse: %w", path, err)
	}
	if len(artifact.Mean) == 0 || len(artifact.Mean) != len(artifact.Scale) {
		return nil, fmt.Errorf("load scaler %s: mean/scale lengths %d/%d",
			path, len(artifact.Mean), len(artifact.Scale))
	}
	scale := make([]float64, len(artifact.Scale))
	for i, s := range artifact.Scale {
		// Zero-variance features scale by 1, matching the training transform.
		if s == 0 {
			s = 1
		}
		scale[i] = s
	}
	return &Scaler{mean: artifact.Mean, scale: scale}, nil
}

// NumFeatures returns the feature count the scaler was fitted on.
func (s *Scaler) NumFeatures() int {
	return len(s.mean)
}

// Transform scales a feature vector. Missing values (NaN) pass through so the
// classifier's default branches can handle them.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.mean), len(features))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
