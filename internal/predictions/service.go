package predictions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"churn-backend/internal/features"
	"churn-backend/internal/recommendations"
	"churn-backend/internal/shared/metrics"
	"churn-backend/internal/shared/telemetry"
	"churn-backend/internal/tabular"
)

// Messages embedded in prediction responses.
const (
	churnMessage  = "The customer is likely to churn."
	retainMessage = "The customer is not likely to churn."
	loyalMessage  = "This customer appears loyal. Continue providing excellent service!"
)

// Classifier scores a scaled feature vector into a churn class.
type Classifier interface {
	Predict(vector []float64) (int, error)
}

// Scaler standardizes an unscaled feature vector.
type Scaler interface {
	Transform(vector []float64) ([]float64, error)
}

// Recommender turns a churn-positive customer profile into retention advice.
type Recommender interface {
	Recommend(ctx context.Context, profile []recommendations.ProfileEntry, apiKey string) recommendations.Result
}

// Service scores customers and, for churn-positive singles, fetches retention
// recommendations. History writes are best effort and never fail a request.
type Service struct {
	Classifier  Classifier
	Scaler      Scaler
	TopFeatures []string
	Recommender Recommender
	Repo        Repo
}

// PredictOne scores a single customer. When the model predicts churn, the
// unscaled values of the most important features are sent to the recommender
// with the caller's credential; recommender failures become a message string
// in the same response field, never an HTTP failure.
func (s *Service) PredictOne(ctx context.Context, req CustomerRequest) (PredictResponse, error) {
	vector := req.Vector()
	scaled, err := s.Scaler.Transform(vector)
	if err != nil {
		return PredictResponse{}, fmt.Errorf("scale features: %w", err)
	}
	class, err := s.Classifier.Predict(scaled)
	if err != nil {
		return PredictResponse{}, fmt.Errorf("score features: %w", err)
	}

	metrics.PredictionsTotal.WithLabelValues(outcomeLabel(class)).Inc()
	s.record(ctx, Prediction{
		ID:        uuid.NewString(),
		Source:    SourceSingle,
		Churn:     class == 1,
		CreatedAt: time.Now().UTC(),
	})

	if class != 1 {
		return PredictResponse{
			Prediction:               retainMessage,
			RetentionRecommendations: loyalMessage,
		}, nil
	}

	result := s.Recommender.Recommend(ctx, s.profileFor(vector), req.APIKey)
	resp := PredictResponse{Prediction: churnMessage}
	if result.OK() {
		resp.RetentionRecommendations = result.Recommendations
	} else {
		resp.RetentionRecommendations = result.Message()
	}
	return resp, nil
}

// profileFor projects the unscaled vector onto the ranked top features.
func (s *Service) profileFor(vector []float64) []recommendations.ProfileEntry {
	profile := make([]recommendations.ProfileEntry, 0, len(s.TopFeatures))
	for _, name := range s.TopFeatures {
		idx, ok := features.Index(name)
		if !ok {
			continue
		}
		profile = append(profile, recommendations.ProfileEntry{Name: name, Value: vector[idx]})
	}
	return profile
}

// PredictBatch scores every row of an uploaded table and returns the
// identifiers predicted to churn, in upload order. Missing numeric values are
// imputed with per-batch medians; unknown categorical labels score as missing.
func (s *Service) PredictBatch(ctx context.Context, table *tabular.Table) (BatchResponse, error) {
	if !table.HasColumn("CustomerID") {
		return BatchResponse{}, ErrMissingIDColumn
	}
	ids, _ := table.Column("CustomerID")

	columns, err := buildColumns(table)
	if err != nil {
		return BatchResponse{}, err
	}
	for _, name := range features.ImputedColumns {
		idx, _ := features.Index(name)
		columns[idx] = features.ImputeMedians(columns[idx])
	}

	rowCount := table.RowCount()
	churned := make([]CustomerID, 0)
	history := make([]Prediction, 0, rowCount)
	now := time.Now().UTC()

	for row := 0; row < rowCount; row++ {
		vector := make([]float64, features.Count)
		for col := range columns {
			vector[col] = columns[col][row]
		}
		scaled, err := s.Scaler.Transform(vector)
		if err != nil {
			return BatchResponse{}, fmt.Errorf("scale row %d: %w", row+1, err)
		}
		class, err := s.Classifier.Predict(scaled)
		if err != nil {
			return BatchResponse{}, fmt.Errorf("score row %d: %w", row+1, err)
		}
		metrics.PredictionsTotal.WithLabelValues(outcomeLabel(class)).Inc()
		if class == 1 {
			churned = append(churned, CustomerID(ids[row]))
		}
		history = append(history, Prediction{
			ID:         uuid.NewString(),
			Source:     SourceBatch,
			CustomerID: ids[row],
			Churn:      class == 1,
			CreatedAt:  now,
		})
	}

	metrics.BatchRowsScoredTotal.Add(float64(rowCount))
	s.recordBatch(ctx, history)
	return BatchResponse{Count: len(churned), CustomerIDs: churned}, nil
}

// buildColumns extracts the feature matrix column by column. Categorical
// columns accept either pre-encoded numeric codes or labels; unknown labels
// become missing values. A missing feature column aborts the batch.
func buildColumns(table *tabular.Table) ([][]float64, error) {
	columns := make([][]float64, features.Count)
	for idx, name := range features.Names {
		raw, ok := table.Column(name)
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		cat, isCategorical := features.CategoricalByName(name)
		column := make([]float64, len(raw))
		for row, cell := range raw {
			if cell == "" {
				column[row] = features.Missing()
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				column[row] = v
				continue
			}
			if !isCategorical {
				return nil, fmt.Errorf("column %q row %d: cannot parse %q as a number", name, row+1, cell)
			}
			code, known := cat.MapLabel(cell)
			if !known {
				metrics.UnmappedCategoryTotal.WithLabelValues(name).Inc()
			}
			column[row] = code
		}
		columns[idx] = column
	}
	return columns, nil
}

func (s *Service) record(ctx context.Context, prediction Prediction) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Create(ctx, prediction); err != nil {
		telemetry.Error("predictions.history_write_failed", map[string]any{
			"err": err.Error(),
		})
	}
}

func (s *Service) recordBatch(ctx context.Context, history []Prediction) {
	if s.Repo == nil || len(history) == 0 {
		return
	}
	if err := s.Repo.CreateBatch(ctx, history); err != nil {
		telemetry.Error("predictions.history_write_failed", map[string]any{
			"err":  err.Error(),
			"rows": len(history),
		})
	}
}

func outcomeLabel(class int) string {
	if class == 1 {
		return "churn"
	}
	return "retain"
}

// ListRecent returns the newest history records, capped at maxRecentLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Prediction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	if s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListRecent(ctx, limit)
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 50
)
