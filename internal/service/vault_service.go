package service

import (
	"net/http"

	"github.com/onevault/onevault/internal/models"
	"github.com/onevault/onevault/internal/rules"
	"github.com/onevault/onevault/internal/secrets"
	"github.com/onevault/onevault/internal/storage"
)

// VaultService handles stored credentials, encrypted files, and password
// generation from template rules. Credential secrets and file contents are
// ciphertext at rest; this service is the encryption edge.
type VaultService struct {
	store  storage.Store
	cipher *secrets.Cipher
}

// NewVaultService creates a VaultService.
func NewVaultService(store storage.Store, cipher *secrets.Cipher) *VaultService {
	return &VaultService{store: store, cipher: cipher}
}

// Register mounts the credential, vault-file, and password routes on mux.
func (s *VaultService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/credentials", s.handleListCredentials)
	mux.HandleFunc("POST /api/credentials", s.handleCreateCredential)
	mux.HandleFunc("DELETE /api/credentials/{id}", s.handleDeleteCredential)
	mux.HandleFunc("POST /api/passwords", s.handleGeneratePassword)

	mux.HandleFunc("GET /api/vault-files", s.handleListFiles)
	mux.HandleFunc("POST /api/vault-files", s.handleCreateFile)
	mux.HandleFunc("GET /api/vault-files/{id}", s.handleDownloadFile)
	mux.HandleFunc("DELETE /api/vault-files/{id}", s.handleDeleteFile)
}

type credentialResponse struct {
	ID          string `json:"id"`
	ServiceName string `json:"serviceName"`
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	CreatedAt   int64  `json:"createdAt"`
}

func (s *VaultService) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := s.store.ListCredentials(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// Undecryptable secrets come back empty rather than failing the whole
	// listing.
	out := make([]credentialResponse, 0, len(creds))
	for _, c := range creds {
		out = append(out, credentialResponse{
			ID:          c.ID,
			ServiceName: c.ServiceName,
			Username:    c.Username,
			Secret:      s.cipher.DecryptString(c.Secret),
			CreatedAt:   c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type credentialRequest struct {
	ServiceName string `json:"serviceName"`
	Username    string `json:"username"`
	Secret      string `json:"secret"`
}

func (s *VaultService) handleCreateCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if req.ServiceName == "" {
		writeError(w, badRequestf("serviceName is required"))
		return
	}

	ciphertext, err := s.cipher.Encrypt([]byte(req.Secret))
	if err != nil {
		writeError(w, err)
		return
	}
	cred := &models.Credential{
		ServiceName: req.ServiceName,
		Username:    req.Username,
		Secret:      ciphertext,
	}
	if err := s.store.PutCredential(r.Context(), cred); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, credentialResponse{
		ID:          cred.ID,
		ServiceName: cred.ServiceName,
		Username:    cred.Username,
		Secret:      req.Secret,
		CreatedAt:   cred.CreatedAt,
	})
}

func (s *VaultService) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCredential(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type passwordRequest struct {
	ServiceName string       `json:"serviceName"`
	Username    string       `json:"username"`
	Rules       []rules.Rule `json:"rules"`
}

// handleGeneratePassword evaluates the template rules in order against the
// given credential fields. Nothing is stored.
func (s *VaultService) handleGeneratePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if len(req.Rules) == 0 {
		writeError(w, badRequestf("at least one rule is required"))
		return
	}

	password := rules.Password(req.Rules, rules.Input{
		ServiceName: req.ServiceName,
		Username:    req.Username,
	})
	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}

type vaultFileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"createdAt"`
}

func (s *VaultService) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListVaultFiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]vaultFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, vaultFileResponse{ID: f.ID, Name: f.Name, Size: f.Size, CreatedAt: f.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

type vaultFileRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

func (s *VaultService) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req vaultFileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, badRequestf("%v", err))
		return
	}
	if req.Name == "" {
		writeError(w, badRequestf("name is required"))
		return
	}

	ciphertext, err := s.cipher.Encrypt(req.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	// Size reflects the plaintext the caller uploaded, not the ciphertext.
	file := &models.VaultFile{Name: req.Name, Size: int64(len(req.Data)), Data: ciphertext}
	if err := s.store.PutVaultFile(r.Context(), file); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vaultFileResponse{
		ID: file.ID, Name: file.Name, Size: file.Size, CreatedAt: file.CreatedAt,
	})
}

func (s *VaultService) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	files, err := s.store.ListVaultFiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, f := range files {
		if f.ID != id {
			continue
		}
		plaintext, err := s.cipher.Decrypt(f.Data)
		if err != nil {
			writeError(w, badRequestf("failed to decrypt file: %v", err))
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(plaintext)
		return
	}
	writeError(w, storage.ErrNotFound)
}

func (s *VaultService) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVaultFile(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
