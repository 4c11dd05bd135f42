package predictions

import "context"

// Repo defines persistence operations for the prediction history.
type Repo interface {
	Create(ctx context.Context, prediction Prediction) error
	CreateBatch(ctx context.Context, predictions []Prediction) error
	ListRecent(ctx context.Context, limit int) ([]Prediction, error)
}
