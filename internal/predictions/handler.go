package predictions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"churn-backend/internal/shared/server/respond"
	"churn-backend/internal/tabular"
)

// Handler wires HTTP handlers to the predictions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prediction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.welcome)
	rg.POST("/predict", h.predict)
	rg.POST("/predict-file", h.predictFile)
	rg.GET("/predictions/recent", h.recent)
}

func (h *Handler) welcome(c *gin.Context) {
	respond.OK(c, gin.H{"message": "Welcome to the Customer Churn Prediction API!"})
}

func (h *Handler) predict(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "request body failed validation", err.Error())
		return
	}

	resp, err := h.Svc.PredictOne(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	c.Set("predictionOutcome", resp.Prediction)
	respond.OK(c, resp)
}

func (h *Handler) predictFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "A file upload named 'file' is required.", nil)
		return
	}
	if !tabular.SupportedExtension(fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file type. Please upload a .csv or .xlsx file.", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "An error occurred during file processing: "+err.Error(), nil)
		return
	}
	defer f.Close()

	table, err := tabular.Parse(fileHeader.Filename, f)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "An error occurred during file processing: "+err.Error(), nil)
		return
	}

	resp, err := h.Svc.PredictBatch(c.Request.Context(), table)
	if err != nil {
		if errors.Is(err, ErrMissingIDColumn) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "The uploaded file must contain a 'CustomerID' column.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "An error occurred during file processing: "+err.Error(), nil)
		return
	}
	c.Set("batchRows", table.RowCount())
	respond.OK(c, resp)
}

func (h *Handler) recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	records, err := h.Svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list predictions", nil)
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, p := range records {
		entry := gin.H{
			"id":         p.ID,
			"source":     p.Source,
			"churn":      p.Churn,
			"created_at": p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if p.CustomerID != "" {
			entry["customer_id"] = p.CustomerID
		}
		out = append(out, entry)
	}
	respond.OK(c, gin.H{"predictions": out})
}
