package features

import "strings"

// Categorical maps human-readable labels for one feature to the integer codes
// the model was trained on. Lookup is total: an unknown label yields the
// missing marker, never an error, and the row is still scored.
type Categorical struct {
	Name  string
	codes map[string]float64
}

// Categoricals lists the five label-encoded features in canonical order.
// Table keys are stored title-cased; MapLabel normalizes input the same way.
var Categoricals = []Categorical{
	{
		Name: "PreferredLoginDevice",
		codes: map[string]float64{
			"Mobile Phone": 0,
			"Phone":        0,
			"Computer":     1,
		},
	},
	{
		Name: "PreferredPaymentMode",
		codes: map[string]float64{
			"Debit Card":       1,
			"Credit Card":      1,
			"Cc":               1,
			"Upi":              1,
			"E Wallet":         1,
			"Cash On Delivery": 0,
			"Cod":              0,
		},
	},
	{
		Name: "Gender",
		codes: map[string]float64{
			"Female": 0,
			"Male":   1,
		},
	},
	{
		Name: "PreferedOrderCat",
		codes: map[string]float64{
			"Laptop & Accessory": 0,
			"Mobile Phone":       0,
			"Fashion":            1,
			"Grocery":            2,
			"Others":             3,
		},
	},
	{
		Name: "MaritalStatus",
		codes: map[string]float64{
			"Divorced": 0,
			"Single":   1,
			"Married":  2,
		},
	},
}

// CategoricalByName looks up a label table by feature name.
func CategoricalByName(name string) (Categorical, bool) {
	for _, c := range Categoricals {
		if c.Name == name {
			return c, true
		}
	}
	return Categorical{}, false
}

// MapLabel converts a label to its integer code. The second return reports
// whether the label was known; unknown labels map to the missing marker.
func (c Categorical) MapLabel(label string) (float64, bool) {
	code, ok := c.codes[titleCase(label)]
	if !ok {
		return Missing(), false
	}
	return code, true
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest, matching how batch uploads are normalized.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteString(strings.ToUpper(string(r)))
			startOfWord = false
		default:
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}
