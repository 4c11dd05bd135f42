package health

import (
	"context"
	"database/sql"
	"time"
)

// Service reports process readiness: whether the model artifacts loaded and
// whether the configured database answers pings.
type Service struct {
	ModelReady bool
	DB         *sql.DB
}

// NewService constructs a health service.
func NewService(modelReady bool, db *sql.DB) *Service {
	return &Service{ModelReady: modelReady, DB: db}
}

// Status returns the health payload. A missing database is reported as
// "memory" storage rather than a failure.
func (s *Service) Status(ctx context.Context) map[string]any {
	payload := map[string]any{
		"ok":    true,
		"model": s.ModelReady,
	}
	if s.DB == nil {
		payload["storage"] = "memory"
		return payload
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		payload["ok"] = false
		payload["storage"] = "postgres_unreachable"
		return payload
	}
	payload["storage"] = "postgres"
	return payload
}
