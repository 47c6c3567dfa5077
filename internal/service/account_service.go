package service

import (
	"net/http"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/storage"
)

// AccountService handles account CRUD. Balances are read-only here; they
// move only through the ledger's balance adjuster.
type AccountService struct {
	store storage.Store
}

// NewAccountService creates an AccountService with the given storage backend.
func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

// Register mounts the account routes on mux.
func (s *AccountService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/accounts", s.handleList)
	mux.HandleFunc("POST /api/accounts", s.handleCreate)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDelete)
}

func (s *AccountService) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

type accountRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	InitialBalance int64  `json:"initialBalance"`
}

func (s *AccountService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if req.Name == "" {
		writeError(w, badRequestf("name is required"))
		return
	}

	account := &models.Account{
		Name:        req.Name,
		Description: req.Description,
		Balance:     req.InitialBalance,
		Editable:    true,
	}
	if err := s.store.CreateAccount(r.Context(), account); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (s *AccountService) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	account, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !account.Editable {
		writeError(w, badRequestf("account %s is not editable", id))
		return
	}

	var req accountRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if req.Name != "" {
		account.Name = req.Name
	}
	account.Description = req.Description

	if err := s.store.UpdateAccount(r.Context(), account); err != nil {
		writeError(w, err)
		return
	}

	// Re-read so the response carries the current balance, not the one from
	// before the metadata write.
	updated, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *AccountService) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	account, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !account.Editable {
		writeError(w, badRequestf("account %s is not editable", id))
		return
	}

	// Records keep their stale account id; subsequent adjustments against
	// it are silently skipped by the ledger.
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
