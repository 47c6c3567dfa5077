package service

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/split"
)

func dinnerBillRequest() map[string]any {
	return map[string]any{
		"title":             "Team Dinner",
		"merchant":          "Warung Sari",
		"date":              1700000000,
		"taxPercent":        "10",
		"serviceFeePercent": "5",
		"items": []map[string]any{
			{
				"description": "Nasi Goreng",
				"price":       20000,
				"quantities":  map[string]int64{"Alice": 1, "Bob": 1},
			},
			{
				"description": "Juice",
				"price":       10000,
				"quantities":  map[string]int64{"Alice": 1},
			},
		},
		"participants": []map[string]any{
			{"name": "Alice"},
			{"name": "Bob"},
		},
	}
}

func TestSplitBillSaveComputesShares(t *testing.T) {
	server, _ := setupServer(t)
	base := server.URL

	var saved models.SplitBill
	doJSON(t, http.MethodPost, base+"/api/split-bills", dinnerBillRequest(), http.StatusCreated, &saved)
	if saved.ID == "" {
		t.Fatal("expected bill id")
	}

	var bill models.SplitBill
	doJSON(t, http.MethodGet, base+"/api/split-bills/"+saved.ID, nil, http.StatusOK, &bill)

	shares := make(map[string]int64, len(bill.Participants))
	for _, p := range bill.Participants {
		shares[p.Name] = p.ShareAmount
	}
	// Alice 30000, Bob 20000, both surcharged by 15%.
	if shares["Alice"] != 34500 || shares["Bob"] != 23000 {
		t.Errorf("shares = %v, want Alice=34500 Bob=23000", shares)
	}
}

func TestSplitBillAllocatePreview(t *testing.T) {
	server, _ := setupServer(t)

	var out struct {
		Shares          map[string]split.Share `json:"shares"`
		SurchargedTotal int64                  `json:"surchargedTotal"`
	}
	doJSON(t, http.MethodPost, server.URL+"/api/split-bills/allocate", dinnerBillRequest(), http.StatusOK, &out)

	if out.Shares["Alice"].Total != 34500 {
		t.Errorf("Alice total = %d, want 34500", out.Shares["Alice"].Total)
	}
	if out.SurchargedTotal != 57500 {
		t.Errorf("surcharged total = %d, want 57500", out.SurchargedTotal)
	}

	var bills []models.SplitBill
	doJSON(t, http.MethodGet, server.URL+"/api/split-bills", nil, http.StatusOK, &bills)
	if len(bills) != 0 {
		t.Errorf("preview persisted %d bills", len(bills))
	}
}

func TestSplitBillValidation(t *testing.T) {
	server, _ := setupServer(t)
	base := server.URL

	tests := []struct {
		name   string
		mutate func(req map[string]any)
	}{
		{"missing title", func(req map[string]any) { req["title"] = "" }},
		{"duplicate participant", func(req map[string]any) {
			req["participants"] = []map[string]any{{"name": "Alice"}, {"name": "Alice"}}
		}},
		{"negative price", func(req map[string]any) {
			req["items"] = []map[string]any{{"description": "x", "price": -1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dinnerBillRequest()
			tt.mutate(req)
			doJSON(t, http.MethodPost, base+"/api/split-bills", req, http.StatusBadRequest, nil)
		})
	}
}

func TestSplitBillExportCreatesRecord(t *testing.T) {
	server, _ := setupServer(t)
	base := server.URL

	var saved models.SplitBill
	doJSON(t, http.MethodPost, base+"/api/split-bills", dinnerBillRequest(), http.StatusCreated, &saved)

	var out struct {
		RecordID string `json:"recordId"`
	}
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/split-bills/%s/export/Alice", base, saved.ID),
		nil, http.StatusCreated, &out)
	if out.RecordID == "" {
		t.Fatal("expected record id")
	}

	var records []models.LedgerRecord
	doJSON(t, http.MethodGet, base+"/api/records", nil, http.StatusOK, &records)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Title != "Team Dinner – Alice's share" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Kind != models.KindExpense || rec.Amount != 34500 {
		t.Errorf("record = %+v, want EXPENSE of 34500", rec)
	}

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/split-bills/%s/export/Mallory", base, saved.ID),
		nil, http.StatusNotFound, nil)
}

func TestSplitBillDeleteCascades(t *testing.T) {
	server, _ := setupServer(t)
	base := server.URL

	var saved models.SplitBill
	doJSON(t, http.MethodPost, base+"/api/split-bills", dinnerBillRequest(), http.StatusCreated, &saved)

	doJSON(t, http.MethodDelete, base+"/api/split-bills/"+saved.ID, nil, http.StatusNoContent, nil)
	doJSON(t, http.MethodGet, base+"/api/split-bills/"+saved.ID, nil, http.StatusNotFound, nil)
}
