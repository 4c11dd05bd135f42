package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"churn-backend/internal/features"
	"churn-backend/internal/model"
	"churn-backend/internal/predictions"
	"churn-backend/internal/recommendations"
	"churn-backend/internal/services/health"
	"churn-backend/internal/shared/config"
	"churn-backend/internal/shared/server"
	"churn-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Classifier         *model.Classifier
	Scaler             *model.Scaler
	PredictionsRepo    predictions.Repo
	PredictionsService *predictions.Service
	PredictionsHandler *predictions.Handler
	Recommender        *recommendations.Client
	Health             *health.Service
}

// Build prepares shared dependencies and wires the router. Missing model
// artifacts are fatal; a missing database falls back to in-memory history in
// dev-like environments.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	classifier, err := model.LoadClassifier(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier %s: %w", cfg.ModelPath, err)
	}
	scaler, err := model.LoadScaler(cfg.ScalerPath)
	if err != nil {
		return nil, fmt.Errorf("load scaler %s: %w", cfg.ScalerPath, err)
	}
	if classifier.NumFeatures() != features.Count || scaler.NumFeatures() != features.Count {
		return nil, fmt.Errorf("model artifacts expect %d/%d features, want %d",
			classifier.NumFeatures(), scaler.NumFeatures(), features.Count)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo predictions.Repo
	if sqlDB != nil {
		repo = &predictions.PGRepo{DB: sqlDB}
	} else {
		repo = predictions.NewMemoryRepo()
	}

	importances, _ := classifier.FeatureImportances()
	recommender := recommendations.NewClient(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMMaxTokens, cfg.LLMTimeout)
	svc := &predictions.Service{
		Classifier:  classifier,
		Scaler:      scaler,
		TopFeatures: features.TopFeatures(importances),
		Recommender: recommender,
		Repo:        repo,
	}

	app := &App{
		Config:             cfg,
		DB:                 sqlDB,
		Classifier:         classifier,
		Scaler:             scaler,
		PredictionsRepo:    repo,
		PredictionsService: svc,
		PredictionsHandler: predictions.NewHandler(svc),
		Recommender:        recommender,
		Health:             health.NewService(true, sqlDB),
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		PredictionsHandler: app.PredictionsHandler,
		Health:             app.Health,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory prediction history")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory prediction history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory prediction history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
