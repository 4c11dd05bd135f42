package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier is a pre-trained gradient-boosted tree ensemble loaded from a
// JSON dump. It is immutable after load and safe for concurrent use.
type Classifier struct {
	numFeatures int
	baseScore   float64
	trees       []tree
	importances []float64
}

type tree struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	Feature     int      `json:"feature"`
	Threshold   float64  `json:"threshold"`
	Left        int      `json:"left"`
	Right       int      `json:"right"`
	DefaultLeft bool     `json:"default_left"`
	Leaf        *float64 `json:"leaf,omitempty"`
}

type classifierArtifact struct {
	Version           int       `json:"version"`
	NumFeatures       int       `json:"num_features"`
	BaseScore         float64   `json:"base_score"`
	Trees             []tree    `json:"trees"`
	FeatureImportance []float64 `json:"feature_importance,omitempty"`
}

// LoadClassifier reads a classifier artifact from disk.
func LoadClassifier(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load classifier %s: %w", path, err)
	}
	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("load classifier %s: parse: %w", path, err)
	}
	if err := validateArtifact(artifact); err != nil {
		return nil, fmt.Errorf("load classifier %s: %w", path, err)
	}
	return &Classifier{
		numFeatures: artifact.NumFeatures,
		baseScore:   artifact.BaseScore,
		trees:       artifact.Trees,
		importances: artifact.FeatureImportance,
	}, nil
}

func validateArtifact(a classifierArtifact) error {
	if a.Version != 1 {
		return fmt.Errorf("unsupported artifact version %d", a.Version)
	}
	if a.NumFeatures <= 0 {
		return fmt.Errorf("num_features must be positive")
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact contains no trees")
	}
	if len(a.FeatureImportance) != 0 && len(a.FeatureImportance) != a.NumFeatures {
		return fmt.Errorf("feature_importance length %d does not match num_features %d",
			len(a.FeatureImportance), a.NumFeatures)
	}
	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Feature < 0 || n.Feature >= a.NumFeatures {
				return fmt.Errorf("tree %d node %d references feature %d", ti, ni, n.Feature)
			}
			if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}
	return nil
}

// NumFeatures returns the feature count the model was trained on.
func (c *Classifier) NumFeatures() int {
	return c.numFeatures
}

// FeatureImportances returns per-feature importance scores if the artifact
// carries them.
func (c *Classifier) FeatureImportances() ([]float64, bool) {
	if len(c.importances) == 0 {
		return nil, false
	}
	out := make([]float64, len(c.importances))
	copy(out, c.importances)
	return out, true
}

// Margin returns the raw ensemble score before the logistic link.
func (c *Classifier) Margin(features []float64) (float64, error) {
	if len(features) != c.numFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", c.numFeatures, len(features))
	}
	sum := c.baseScore
	for i := range c.trees {
		sum += c.trees[i].score(features)
	}
	return sum, nil
}

// Predict classifies a scaled feature vector, returning 1 for churn and 0
// otherwise. Missing features (NaN) follow each split's default branch.
func (c *Classifier) Predict(features []float64) (int, error) {
	margin, err := c.Margin(features)
	if err != nil {
		return 0, err
	}
	if sigmoid(margin) > 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (t *tree) score(features []float64) float64 {
	idx := 0
	for {
		n := &t.Nodes[idx]
		if n.Leaf != nil {
			return *n.Leaf
		}
		val := features[n.Feature]
		switch {
		case math.IsNaN(val):
			if n.DefaultLeft {
				idx = n.Left
			} else {
				idx = n.Right
			}
		case val < n.Threshold:
			idx = n.Left
		default:
			idx = n.Right
		}
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
