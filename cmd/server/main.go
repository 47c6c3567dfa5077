package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/onevault/onevault/internal/auth"
	"github.com/onevault/onevault/internal/backup"
	"github.com/onevault/onevault/internal/feed"
	"github.com/onevault/onevault/internal/ledger"
	"github.com/onevault/onevault/internal/middleware"
	"github.com/onevault/onevault/internal/secrets"
	"github.com/onevault/onevault/internal/service"
	"github.com/onevault/onevault/internal/split"
	"github.com/onevault/onevault/internal/storage/sqlite"
	"github.com/onevault/onevault/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/vault.db")
	port := getEnv("PORT", "8080")

	vaultSecret := os.Getenv("VAULT_SECRET")
	if vaultSecret == "" {
		// Random per-boot secret: sessions and backups made with it do
		// not survive a restart.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("Failed to generate vault secret", "error", err)
			os.Exit(1)
		}
		vaultSecret = hex.EncodeToString(buf)
		slog.Warn("VAULT_SECRET not set, using a random per-boot secret")
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Record mutations publish to the feed so watchers always see a fresh,
	// complete snapshot.
	recordFeed := feed.NewHub(store.ListRecords)
	records := ledger.NewRecordLifecycle(store)
	records.SetNotify(recordFeed.Notify)

	bills := split.NewBillLifecycle(store, records)
	cipher := secrets.NewCipher(vaultSecret)
	backups := backup.NewManager(store, records, bills, cipher)
	sessions := auth.NewManager(store, vaultSecret, 24*time.Hour)

	// Everything except session setup/unlock sits behind the unlock token.
	protected := http.NewServeMux()
	service.NewAccountService(store).Register(protected)
	service.NewRecordService(store, records, recordFeed).Register(protected)
	service.NewSplitService(store, bills).Register(protected)
	service.NewBackupService(backups).Register(protected)
	service.NewVaultService(store, cipher).Register(protected)

	mux := http.NewServeMux()
	service.NewSessionService(sessions).Register(mux)
	mux.Handle("/api/", middleware.RequireUnlock(sessions)(protected))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)))
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
