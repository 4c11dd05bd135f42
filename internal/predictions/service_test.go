package predictions

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"churn-backend/internal/features"
	"churn-backend/internal/recommendations"
	"churn-backend/internal/tabular"
)

// identityScaler passes vectors through unchanged so tests can reason about
// raw feature values.
type identityScaler struct {
	err error
}

func (s identityScaler) Transform(vector []float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(vector))
	copy(out, vector)
	return out, nil
}

// complainClassifier predicts churn exactly when the Complain feature is set.
type complainClassifier struct {
	seen [][]float64
}

func (c *complainClassifier) Predict(vector []float64) (int, error) {
	snapshot := make([]float64, len(vector))
	copy(snapshot, vector)
	c.seen = append(c.seen, snapshot)
	idx, _ := features.Index("Complain")
	if vector[idx] == 1 {
		return 1, nil
	}
	return 0, nil
}

type stubRecommender struct {
	result  recommendations.Result
	calls   int
	profile []recommendations.ProfileEntry
	apiKey  string
}

func (r *stubRecommender) Recommend(_ context.Context, profile []recommendations.ProfileEntry, apiKey string) recommendations.Result {
	r.calls++
	r.profile = profile
	r.apiKey = apiKey
	return r.result
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func testRequest(complain int) CustomerRequest {
	return CustomerRequest{
		APIKey:                      "key-1",
		Tenure:                      fp(2),
		PreferredLoginDevice:        ip(0),
		CityTier:                    ip(3),
		WarehouseToHome:             fp(18),
		PreferredPaymentMode:        ip(1),
		Gender:                      ip(1),
		HourSpendOnApp:              fp(3),
		NumberOfDeviceRegistered:    ip(4),
		PreferedOrderCat:            ip(0),
		SatisfactionScore:           ip(2),
		MaritalStatus:               ip(1),
		NumberOfAddress:             ip(2),
		Complain:                    ip(complain),
		OrderAmountHikeFromlastYear: fp(15),
		CouponUsed:                  fp(1),
		OrderCount:                  fp(4),
		DaySinceLastOrder:           fp(7),
		CashbackAmount:              fp(120.5),
	}
}

func newTestService(rec *stubRecommender) (*Service, *complainClassifier, *MemoryRepo) {
	clf := &complainClassifier{}
	repo := NewMemoryRepo()
	svc := &Service{
		Classifier:  clf,
		Scaler:      identityScaler{},
		TopFeatures: []string{"Tenure", "Complain", "CashbackAmount"},
		Recommender: rec,
		Repo:        repo,
	}
	return svc, clf, repo
}

func TestPredictOneChurnBuildsUnscaledProfile(t *testing.T) {
	rec := &stubRecommender{result: recommendations.Result{
		Kind:            recommendations.KindOK,
		Recommendations: []string{"Offer a discount"},
	}}
	svc, _, repo := newTestService(rec)

	resp, err := svc.PredictOne(context.Background(), testRequest(1))
	if err != nil {
		t.Fatalf("PredictOne: %v", err)
	}
	if resp.Prediction != "The customer is likely to churn." {
		t.Fatalf("unexpected prediction %q", resp.Prediction)
	}
	list, ok := resp.RetentionRecommendations.([]string)
	if !ok || len(list) != 1 || list[0] != "Offer a discount" {
		t.Fatalf("unexpected recommendations %#v", resp.RetentionRecommendations)
	}

	if rec.calls != 1 {
		t.Fatalf("expected one recommender call, got %d", rec.calls)
	}
	if rec.apiKey != "key-1" {
		t.Fatalf("unexpected api key %q", rec.apiKey)
	}
	wantProfile := []recommendations.ProfileEntry{
		{Name: "Tenure", Value: 2},
		{Name: "Complain", Value: 1},
		{Name: "CashbackAmount", Value: 120.5},
	}
	if len(rec.profile) != len(wantProfile) {
		t.Fatalf("unexpected profile %#v", rec.profile)
	}
	for i, want := range wantProfile {
		if rec.profile[i] != want {
			t.Fatalf("profile[%d] = %#v, want %#v", i, rec.profile[i], want)
		}
	}

	history, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(history) != 1 || history[0].Source != SourceSingle || !history[0].Churn {
		t.Fatalf("unexpected history %#v", history)
	}
}

func TestPredictOneRetainSkipsRecommender(t *testing.T) {
	rec := &stubRecommender{}
	svc, _, _ := newTestService(rec)

	resp, err := svc.PredictOne(context.Background(), testRequest(0))
	if err != nil {
		t.Fatalf("PredictOne: %v", err)
	}
	if resp.Prediction != "The customer is not likely to churn." {
		t.Fatalf("unexpected prediction %q", resp.Prediction)
	}
	if resp.RetentionRecommendations != "This customer appears loyal. Continue providing excellent service!" {
		t.Fatalf("unexpected recommendations %#v", resp.RetentionRecommendations)
	}
	if rec.calls != 0 {
		t.Fatalf("recommender should not be called for retained customers, got %d calls", rec.calls)
	}
}

func TestPredictOneEmbedsRecommenderFailureMessage(t *testing.T) {
	rec := &stubRecommender{result: recommendations.Result{Kind: recommendations.KindMissingKey}}
	svc, _, _ := newTestService(rec)

	req := testRequest(1)
	req.APIKey = ""
	resp, err := svc.PredictOne(context.Background(), req)
	if err != nil {
		t.Fatalf("PredictOne: %v", err)
	}
	msg, ok := resp.RetentionRecommendations.(string)
	if !ok || msg != "Error: API key was not provided in the request." {
		t.Fatalf("unexpected recommendations %#v", resp.RetentionRecommendations)
	}
}

func TestPredictOneScalerFailureIsError(t *testing.T) {
	svc, _, _ := newTestService(&stubRecommender{})
	svc.Scaler = identityScaler{err: errors.New("boom")}

	if _, err := svc.PredictOne(context.Background(), testRequest(1)); err == nil {
		t.Fatal("expected error from failing scaler")
	}
}

func batchTable(t *testing.T, csvBody string) *tabular.Table {
	t.Helper()
	table, err := tabular.Parse("upload.csv", strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return table
}

const batchHeader = "CustomerID,Tenure,PreferredLoginDevice,CityTier,WarehouseToHome,PreferredPaymentMode,Gender," +
	"HourSpendOnApp,NumberOfDeviceRegistered,PreferedOrderCat,SatisfactionScore,MaritalStatus,NumberOfAddress," +
	"Complain,OrderAmountHikeFromlastYear,CouponUsed,OrderCount,DaySinceLastOrder,CashbackAmount\n"

func batchRow(id string, complain string, overrides map[string]string) string {
	cells := map[string]string{
		"CustomerID":                  id,
		"Tenure":                      "4",
		"PreferredLoginDevice":        "Mobile Phone",
		"CityTier":                    "1",
		"WarehouseToHome":             "12",
		"PreferredPaymentMode":        "Debit Card",
		"Gender":                      "Male",
		"HourSpendOnApp":              "3",
		"NumberOfDeviceRegistered":    "4",
		"PreferedOrderCat":            "Fashion",
		"SatisfactionScore":           "3",
		"MaritalStatus":               "Single",
		"NumberOfAddress":             "2",
		"Complain":                    complain,
		"OrderAmountHikeFromlastYear": "14",
		"CouponUsed":                  "1",
		"OrderCount":                  "5",
		"DaySinceLastOrder":           "6",
		"CashbackAmount":              "130",
	}
	for k, v := range overrides {
		cells[k] = v
	}
	order := append([]string{"CustomerID"}, features.Names...)
	row := make([]string, len(order))
	for i, name := range order {
		row[i] = cells[name]
	}
	return strings.Join(row, ",") + "\n"
}

func TestPredictBatchReportsChurnedIDs(t *testing.T) {
	svc, _, repo := newTestService(&stubRecommender{})
	csvBody := batchHeader +
		batchRow("101", "1", nil) +
		batchRow("102", "0", nil) +
		batchRow("103", "0", nil)

	resp, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody))
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 churned customer, got %d", resp.Count)
	}
	if len(resp.CustomerIDs) != 1 || resp.CustomerIDs[0] != "101" {
		t.Fatalf("unexpected churned ids %#v", resp.CustomerIDs)
	}

	history, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history rows, got %d", len(history))
	}
	for _, p := range history {
		if p.Source != SourceBatch || p.CustomerID == "" {
			t.Fatalf("unexpected history record %#v", p)
		}
	}
}

func TestPredictBatchRequiresCustomerIDColumn(t *testing.T) {
	svc, _, _ := newTestService(&stubRecommender{})
	csvBody := strings.Replace(batchHeader, "CustomerID", "ID", 1) +
		batchRow("101", "0", nil)

	_, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody))
	if !errors.Is(err, ErrMissingIDColumn) {
		t.Fatalf("expected ErrMissingIDColumn, got %v", err)
	}
}

func TestPredictBatchImputesMediansPerBatch(t *testing.T) {
	svc, clf, _ := newTestService(&stubRecommender{})
	csvBody := batchHeader +
		batchRow("201", "0", map[string]string{"WarehouseToHome": "10"}) +
		batchRow("202", "0", map[string]string{"WarehouseToHome": ""}) +
		batchRow("203", "0", map[string]string{"WarehouseToHome": "30"})

	if _, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody)); err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}

	idx, _ := features.Index("WarehouseToHome")
	if got := clf.seen[1][idx]; got != 20 {
		t.Fatalf("expected median 20 imputed for row 2, got %v", got)
	}
}

func TestPredictBatchUnknownLabelScoresAsMissing(t *testing.T) {
	svc, clf, _ := newTestService(&stubRecommender{})
	csvBody := batchHeader +
		batchRow("301", "0", map[string]string{"MaritalStatus": "It's Complicated"})

	resp, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody))
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("expected no churn, got %d", resp.Count)
	}

	idx, _ := features.Index("MaritalStatus")
	if !math.IsNaN(clf.seen[0][idx]) {
		t.Fatalf("expected missing marker for unknown label, got %v", clf.seen[0][idx])
	}
}

func TestPredictBatchMapsLabelsAndNumericCodes(t *testing.T) {
	svc, clf, _ := newTestService(&stubRecommender{})
	csvBody := batchHeader +
		batchRow("401", "0", map[string]string{"Gender": "female", "PreferredPaymentMode": "UPI"}) +
		batchRow("402", "0", map[string]string{"Gender": "1", "PreferredPaymentMode": "0"})

	if _, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody)); err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}

	genderIdx, _ := features.Index("Gender")
	payIdx, _ := features.Index("PreferredPaymentMode")
	if clf.seen[0][genderIdx] != 0 || clf.seen[0][payIdx] != 1 {
		t.Fatalf("labels mapped incorrectly: gender=%v pay=%v", clf.seen[0][genderIdx], clf.seen[0][payIdx])
	}
	if clf.seen[1][genderIdx] != 1 || clf.seen[1][payIdx] != 0 {
		t.Fatalf("numeric codes should pass through: gender=%v pay=%v", clf.seen[1][genderIdx], clf.seen[1][payIdx])
	}
}

func TestPredictBatchMissingFeatureColumnFails(t *testing.T) {
	svc, _, _ := newTestService(&stubRecommender{})
	csvBody := "CustomerID,Tenure\n101,4\n"

	_, err := svc.PredictBatch(context.Background(), batchTable(t, csvBody))
	if err == nil || !strings.Contains(err.Error(), "missing required column") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestListRecentCapsLimit(t *testing.T) {
	svc, _, repo := newTestService(&stubRecommender{})
	for i := 0; i < 60; i++ {
		if err := repo.Create(context.Background(), Prediction{ID: "p", Source: SourceSingle}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	records, err := svc.ListRecent(context.Background(), 1000)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("expected cap of 50, got %d", len(records))
	}
}
