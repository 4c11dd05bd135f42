package features

import "sort"

// ImputedColumns are the numeric features whose missing values are filled
// with the per-batch median on the file path.
var ImputedColumns = []string{
	"WarehouseToHome",
	"CouponUsed",
	"OrderCount",
	"DaySinceLastOrder",
	"CashbackAmount",
}

// Median returns the median of the non-missing values. All-missing input
// returns the missing marker.
func Median(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return Missing()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

// ImputeMedians fills missing values with the column's median, computed over
// this batch only. Imputation is batch-composition-dependent: the same row
// can receive different fills depending on the rows uploaded with it.
func ImputeMedians(column []float64) []float64 {
	med := Median(column)
	out := make([]float64, len(column))
	for i, v := range column {
		if IsMissing(v) {
			out[i] = med
		} else {
			out[i] = v
		}
	}
	return out
}
