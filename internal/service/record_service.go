package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/onevault/onevault/internal/feed"
	"github.com/onevault/onevault/internal/ledger"
	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// RecordService handles ledger records and categories. All record mutations
// go through the RecordLifecycle so balances stay consistent.
type RecordService struct {
	store     storage.Store
	lifecycle *ledger.RecordLifecycle
	recordsFd *feed.Hub[models.LedgerRecord]
}

// NewRecordService creates a RecordService. recordsFd may be nil if no
// subscription endpoint is wanted (tests).
func NewRecordService(store storage.Store, lifecycle *ledger.RecordLifecycle, recordsFd *feed.Hub[models.LedgerRecord]) *RecordService {
	return &RecordService{store: store, lifecycle: lifecycle, recordsFd: recordsFd}
}

// Register mounts the record and category routes on mux.
func (s *RecordService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/records", s.handleList)
	mux.HandleFunc("POST /api/records", s.handleCreate)
	mux.HandleFunc("PUT /api/records/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/records/watch", s.handleWatch)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
}

type recordRequest struct {
	Title      string            `json:"title"`
	Amount     int64             `json:"amount"`
	Kind       models.RecordKind `json:"kind"`
	Date       int64             `json:"date"`
	CategoryID *string           `json:"categoryId"`
	AccountID  *string           `json:"accountId"`
}

func (req *recordRequest) validate() error {
	if req.Title == "" {
		return badRequestf("title is required")
	}
	if req.Amount <= 0 {
		return badRequestf("amount must be positive")
	}
	if req.Kind != models.KindExpense && req.Kind != models.KindIncome {
		return badRequestf("kind must be EXPENSE or INCOME")
	}
	return nil
}

func (req *recordRequest) toRecord() *models.LedgerRecord {
	return &models.LedgerRecord{
		Title:      req.Title,
		Amount:     req.Amount,
		Kind:       req.Kind,
		Date:       req.Date,
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
	}
}

func (s *RecordService) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []models.LedgerRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *RecordService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	rec := req.toRecord()
	if _, err := s.lifecycle.Create(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *RecordService) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	rec := req.toRecord()
	rec.ID = r.PathValue("id")
	if err := s.lifecycle.Update(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	// The request-built record has no CreatedAt; respond with the row as
	// persisted.
	updated, err := s.store.GetRecord(r.Context(), rec.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *RecordService) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.lifecycle.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWatch streams record snapshots as server-sent events: the current
// snapshot immediately, then a fresh one after every committed mutation.
func (s *RecordService) handleWatch(w http.ResponseWriter, r *http.Request) {
	if s.recordsFd == nil {
		http.Error(w, "watch not enabled", http.StatusNotFound)
		return
	}
	rc := http.NewResponseController(w)

	snapshots, err := s.recordsFd.Subscribe(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for snapshot := range snapshots {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (s *RecordService) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *RecordService) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if req.Name == "" {
		writeError(w, badRequestf("name is required"))
		return
	}

	category := &models.Category{Name: req.Name}
	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *RecordService) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
