package service

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/split"
	"github.com/onevault/onevault/internal/storage"
)

// SplitService handles split bills: persistence through the bill lifecycle,
// allocation previews, and exporting a participant's share into the ledger.
type SplitService struct {
	store storage.Store
	bills *split.BillLifecycle
}

// NewSplitService creates a SplitService.
func NewSplitService(store storage.Store, bills *split.BillLifecycle) *SplitService {
	return &SplitService{store: store, bills: bills}
}

// Register mounts the split-bill routes on mux.
func (s *SplitService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/split-bills", s.handleList)
	mux.HandleFunc("POST /api/split-bills", s.handleSave)
	mux.HandleFunc("GET /api/split-bills/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/split-bills/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/split-bills/allocate", s.handleAllocate)
	mux.HandleFunc("POST /api/split-bills/{id}/export/{participant}", s.handleExport)
}

type splitItemRequest struct {
	Description string           `json:"description"`
	Price       int64            `json:"price"`
	Quantities  map[string]int64 `json:"quantities"`
}

type splitBillRequest struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Merchant          string             `json:"merchant"`
	Date              int64              `json:"date"`
	TaxPercent        decimal.Decimal    `json:"taxPercent"`
	ServiceFeePercent decimal.Decimal    `json:"serviceFeePercent"`
	TotalAmount       int64              `json:"totalAmount"`
	Items             []splitItemRequest `json:"items"`
	Participants      []struct {
		Name string `json:"name"`
		Note string `json:"note"`
	} `json:"participants"`
}

// toBill converts the request, clamping negative quantities to zero; the
// allocation engine assumes non-negative input and this is its gate.
func (req *splitBillRequest) toBill() *models.SplitBill {
	bill := &models.SplitBill{
		ID:                req.ID,
		Title:             req.Title,
		Merchant:          req.Merchant,
		Date:              req.Date,
		TaxPercent:        req.TaxPercent,
		ServiceFeePercent: req.ServiceFeePercent,
		TotalAmount:       req.TotalAmount,
	}
	for _, it := range req.Items {
		quantities := make(map[string]int64, len(it.Quantities))
		for name, qty := range it.Quantities {
			if qty > 0 {
				quantities[name] = qty
			}
		}
		bill.Items = append(bill.Items, models.SplitItem{
			Description: it.Description,
			Price:       it.Price,
			Quantities:  quantities,
		})
	}
	for _, p := range req.Participants {
		bill.Participants = append(bill.Participants, models.SplitParticipant{
			Name: p.Name,
			Note: p.Note,
		})
	}
	return bill
}

func (req *splitBillRequest) validate() error {
	if req.Title == "" {
		return badRequestf("title is required")
	}
	seen := make(map[string]bool, len(req.Participants))
	for _, p := range req.Participants {
		if p.Name == "" {
			return badRequestf("participant name is required")
		}
		if seen[p.Name] {
			return badRequestf("duplicate participant %q", p.Name)
		}
		seen[p.Name] = true
	}
	for _, it := range req.Items {
		if it.Price < 0 {
			return badRequestf("item price must not be negative")
		}
	}
	return nil
}

func (s *SplitService) handleList(w http.ResponseWriter, r *http.Request) {
	bills, err := s.store.ListSplitBills(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if bills == nil {
		bills = []models.SplitBill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (s *SplitService) handleGet(w http.ResponseWriter, r *http.Request) {
	bill, err := s.store.GetSplitBill(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (s *SplitService) handleSave(w http.ResponseWriter, r *http.Request) {
	var req splitBillRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	bill := req.toBill()
	if _, err := s.bills.Save(r.Context(), bill); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (s *SplitService) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAllocate computes shares for a bill without persisting anything,
// for live preview while editing.
func (s *SplitService) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req splitBillRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}

	bill := req.toBill()
	names := make([]string, len(bill.Participants))
	for i, p := range bill.Participants {
		names[i] = p.Name
	}
	shares := split.Allocate(bill.Items, names, bill.TaxPercent, bill.ServiceFeePercent)
	writeJSON(w, http.StatusOK, map[string]any{
		"shares":          shares,
		"surchargedTotal": split.SurchargedTotal(bill.Items, bill.TaxPercent, bill.ServiceFeePercent),
	})
}

func (s *SplitService) handleExport(w http.ResponseWriter, r *http.Request) {
	recordID, err := s.bills.ExportParticipantShare(r.Context(), r.PathValue("id"), r.PathValue("participant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"recordId": recordID})
}
