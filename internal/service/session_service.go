package service

import (
	"net/http"

	"github.com/onevault/onevault/internal/auth"
)

// SessionService handles master-password setup and vault unlock. Its routes
// are the only API surface reachable without a session token.
type SessionService struct {
	manager *auth.Manager
}

// NewSessionService creates a SessionService.
func NewSessionService(manager *auth.Manager) *SessionService {
	return &SessionService{manager: manager}
}

// Register mounts the session routes on mux.
func (s *SessionService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/session/status", s.handleStatus)
	mux.HandleFunc("POST /api/session/password", s.handleSetPassword)
	mux.HandleFunc("POST /api/session/unlock", s.handleUnlock)
}

func (s *SessionService) handleStatus(w http.ResponseWriter, r *http.Request) {
	set, err := s.manager.PasswordSet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"passwordSet": set})
}

func (s *SessionService) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}

	if err := s.manager.SetMasterPassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *SessionService) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}

	token, err := s.manager.Unlock(r.Context(), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
