package features

import (
	"testing"
)

func TestNamesOrderIsFixed(t *testing.T) {
	if len(Names) != Count {
		t.Fatalf("expected %d names, got %d", Count, len(Names))
	}
	if Names[0] != "Tenure" {
		t.Fatalf("expected Tenure first, got %s", Names[0])
	}
	if Names[Count-1] != "CashbackAmount" {
		t.Fatalf("expected CashbackAmount last, got %s", Names[Count-1])
	}
	idx, ok := Index("PreferedOrderCat")
	if !ok || idx != 8 {
		t.Fatalf("expected PreferedOrderCat at 8, got %d (ok=%v)", idx, ok)
	}
}

func TestTopFeaturesRanksByImportance(t *testing.T) {
	importances := make([]float64, Count)
	for i := range importances {
		importances[i] = float64(i)
	}

	top := TopFeatures(importances)
	if len(top) != 10 {
		t.Fatalf("expected 10 top features, got %d", len(top))
	}
	if top[0] != Names[Count-1] {
		t.Fatalf("expected most important %s first, got %s", Names[Count-1], top[0])
	}
	if top[9] != Names[Count-10] {
		t.Fatalf("expected %s tenth, got %s", Names[Count-10], top[9])
	}
}

func TestTopFeaturesFallsBackWithoutImportances(t *testing.T) {
	for _, imp := range [][]float64{nil, make([]float64, 3)} {
		top := TopFeatures(imp)
		if len(top) != 10 {
			t.Fatalf("expected 10 fallback features, got %d", len(top))
		}
		if top[0] != "Tenure" || top[1] != "Complain" {
			t.Fatalf("unexpected fallback head: %v", top[:2])
		}
	}
}

func TestMapLabelKnownAndUnknown(t *testing.T) {
	tests := []struct {
		feature string
		label   string
		want    float64
		ok      bool
	}{
		{"PreferredLoginDevice", "Mobile Phone", 0, true},
		{"PreferredLoginDevice", "mobile phone", 0, true},
		{"PreferredLoginDevice", "Computer", 1, true},
		{"PreferredPaymentMode", "UPI", 1, true},
		{"PreferredPaymentMode", "cash on delivery", 0, true},
		{"Gender", "FEMALE", 0, true},
		{"PreferedOrderCat", "Laptop & Accessory", 0, true},
		{"MaritalStatus", "Married", 2, true},
		{"MaritalStatus", "It's Complicated", 0, false},
		{"Gender", "", 0, false},
	}

	for _, tt := range tests {
		cat, found := CategoricalByName(tt.feature)
		if !found {
			t.Fatalf("missing categorical %s", tt.feature)
		}
		got, ok := cat.MapLabel(tt.label)
		if ok != tt.ok {
			t.Fatalf("%s %q: ok=%v, want %v", tt.feature, tt.label, ok, tt.ok)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("%s %q: got %v, want %v", tt.feature, tt.label, got, tt.want)
		}
		if !tt.ok && !IsMissing(got) {
			t.Fatalf("%s %q: expected missing marker, got %v", tt.feature, tt.label, got)
		}
	}
}

func TestMedianAndImpute(t *testing.T) {
	col := []float64{4, Missing(), 1, 3, Missing()}
	if med := Median(col); med != 3 {
		t.Fatalf("expected median 3, got %v", med)
	}

	filled := ImputeMedians(col)
	want := []float64{4, 3, 1, 3, 3}
	for i := range want {
		if filled[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, filled[i], want[i])
		}
	}
}

func TestMedianEvenCount(t *testing.T) {
	if med := Median([]float64{1, 2, 3, 4}); med != 2.5 {
		t.Fatalf("expected 2.5, got %v", med)
	}
}

func TestMedianAllMissing(t *testing.T) {
	if med := Median([]float64{Missing(), Missing()}); !IsMissing(med) {
		t.Fatalf("expected missing marker, got %v", med)
	}
	filled := ImputeMedians([]float64{Missing()})
	if !IsMissing(filled[0]) {
		t.Fatalf("expected missing to survive all-missing column, got %v", filled[0])
	}
}
