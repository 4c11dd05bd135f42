// Package features owns the canonical feature contract of the churn model:
// the fixed feature order, the categorical label tables, missing-value
// semantics, and the importance ranking used for recommendation prompts.
package features

import (
	"math"
	"sort"
)

// Count is the number of features the model consumes.
const Count = 18

// Names lists the model features in the exact order the scaler and classifier
// were trained on. Vectors are always assembled in this order; reordering
// silently corrupts predictions.
var Names = []string{
	"Tenure",
	"PreferredLoginDevice",
	"CityTier",
	"WarehouseToHome",
	"PreferredPaymentMode",
	"Gender",
	"HourSpendOnApp",
	"NumberOfDeviceRegistered",
	"PreferedOrderCat",
	"SatisfactionScore",
	"MaritalStatus",
	"NumberOfAddress",
	"Complain",
	"OrderAmountHikeFromlastYear",
	"CouponUsed",
	"OrderCount",
	"DaySinceLastOrder",
	"CashbackAmount",
}

var nameIndex = func() map[string]int {
	m := make(map[string]int, len(Names))
	for i, n := range Names {
		m[n] = i
	}
	return m
}()

// Index returns the canonical position of a feature name.
func Index(name string) (int, bool) {
	i, ok := nameIndex[name]
	return i, ok
}

// Missing is the marker for absent or unmappable feature values.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether a value is the missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// topFeatureCount is how many features feed the recommendation prompt.
const topFeatureCount = 10

// fallbackTopFeatures is used when the model artifact carries no importances.
var fallbackTopFeatures = []string{
	"Tenure",
	"Complain",
	"SatisfactionScore",
	"DaySinceLastOrder",
	"OrderCount",
	"CashbackAmount",
	"WarehouseToHome",
	"HourSpendOnApp",
	"CouponUsed",
	"PreferedOrderCat",
}

// TopFeatures ranks feature names by importance, highest first, and returns
// the top ten. A nil or mis-sized importance slice yields the fallback list.
func TopFeatures(importances []float64) []string {
	if len(importances) != Count {
		out := make([]string, len(fallbackTopFeatures))
		copy(out, fallbackTopFeatures)
		return out
	}
	idx := make([]int, Count)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return importances[idx[a]] > importances[idx[b]]
	})
	out := make([]string, 0, topFeatureCount)
	for _, i := range idx[:topFeatureCount] {
		out = append(out, Names[i])
	}
	return out
}
