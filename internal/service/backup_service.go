package service

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/onevault/onevault/internal/backup"
)

// maxBackupSize caps how much of an upload the import endpoint will read.
const maxBackupSize = 64 << 20

// BackupService handles encrypted vault export and import.
type BackupService struct {
	manager *backup.Manager
}

// NewBackupService creates a BackupService.
func NewBackupService(manager *backup.Manager) *BackupService {
	return &BackupService{manager: manager}
}

// Register mounts the backup routes on mux.
func (s *BackupService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/backup/export", s.handleExport)
	mux.HandleFunc("POST /api/backup/import", s.handleImport)
}

func (s *BackupService) handleExport(w http.ResponseWriter, r *http.Request) {
	blob, err := s.manager.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("vault-%s%s", time.Now().Format("2006-01-02"), backup.FileExtension)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(blob)
}

func (s *BackupService) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := backup.ImportMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = backup.ModeRaw
	}

	blob, err := io.ReadAll(io.LimitReader(r.Body, maxBackupSize))
	if err != nil {
		writeError(w, badRequestf("failed to read body: %v", err))
		return
	}

	if err := s.manager.Import(r.Context(), blob, mode); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
