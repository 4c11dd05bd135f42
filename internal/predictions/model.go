package predictions

import (
	"encoding/json"
	"strconv"
	"time"
)

// CustomerRequest is the single-record prediction payload: the 18 model
// features, individually typed, plus the caller's LLM credential. Categorical
// features arrive already encoded as integer codes. Every feature is
// required; pointers distinguish absent fields from legitimate zero values.
// The credential is optional: without it the prediction still succeeds and
// the recommendations field carries the missing-key message.
type CustomerRequest struct {
	APIKey                      string   `json:"api_key"`
	Tenure                      *float64 `json:"Tenure" binding:"required"`
	PreferredLoginDevice        *int     `json:"PreferredLoginDevice" binding:"required"`
	CityTier                    *int     `json:"CityTier" binding:"required"`
	WarehouseToHome             *float64 `json:"WarehouseToHome" binding:"required"`
	PreferredPaymentMode        *int     `json:"PreferredPaymentMode" binding:"required"`
	Gender                      *int     `json:"Gender" binding:"required"`
	HourSpendOnApp              *float64 `json:"HourSpendOnApp" binding:"required"`
	NumberOfDeviceRegistered    *int     `json:"NumberOfDeviceRegistered" binding:"required"`
	PreferedOrderCat            *int     `json:"PreferedOrderCat" binding:"required"`
	SatisfactionScore           *int     `json:"SatisfactionScore" binding:"required"`
	MaritalStatus               *int     `json:"MaritalStatus" binding:"required"`
	NumberOfAddress             *int     `json:"NumberOfAddress" binding:"required"`
	Complain                    *int     `json:"Complain" binding:"required"`
	OrderAmountHikeFromlastYear *float64 `json:"OrderAmountHikeFromlastYear" binding:"required"`
	CouponUsed                  *float64 `json:"CouponUsed" binding:"required"`
	OrderCount                  *float64 `json:"OrderCount" binding:"required"`
	DaySinceLastOrder           *float64 `json:"DaySinceLastOrder" binding:"required"`
	CashbackAmount              *float64 `json:"CashbackAmount" binding:"required"`
}

// Vector assembles the unscaled feature vector in the canonical order.
func (r CustomerRequest) Vector() []float64 {
	return []float64{
		*r.Tenure,
		float64(*r.PreferredLoginDevice),
		float64(*r.CityTier),
		*r.WarehouseToHome,
		float64(*r.PreferredPaymentMode),
		float64(*r.Gender),
		*r.HourSpendOnApp,
		float64(*r.NumberOfDeviceRegistered),
		float64(*r.PreferedOrderCat),
		float64(*r.SatisfactionScore),
		float64(*r.MaritalStatus),
		float64(*r.NumberOfAddress),
		float64(*r.Complain),
		*r.OrderAmountHikeFromlastYear,
		*r.CouponUsed,
		*r.OrderCount,
		*r.DaySinceLastOrder,
		*r.CashbackAmount,
	}
}

// PredictResponse is the single-record response. RetentionRecommendations is
// either an ordered list of suggestion strings or a single message string.
type PredictResponse struct {
	Prediction               string `json:"prediction"`
	RetentionRecommendations any    `json:"retention_recommendations"`
}

// CustomerID preserves the identifier exactly as uploaded while rendering
// integer identifiers as JSON numbers.
type CustomerID string

// MarshalJSON emits a bare number for integer identifiers, a string
// otherwise. The raw cell is used only when it round-trips canonically;
// forms like "0101" or "+101" are not valid JSON numbers and fall back to
// the quoted string.
func (id CustomerID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// BatchResponse reports which uploaded customers are predicted to churn.
type BatchResponse struct {
	Count       int          `json:"no_of_customers_to_churn"`
	CustomerIDs []CustomerID `json:"customers_likely_to_churn"`
}

// Prediction is one scored record kept in the prediction history.
type Prediction struct {
	ID         string
	Source     string
	CustomerID string
	Churn      bool
	CreatedAt  time.Time
}

// Sources for history records.
const (
	SourceSingle = "single"
	SourceBatch  = "batch"
)
