package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docsite/internal/contextutil"
	"docsite/internal/storage"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	outDir             string
	documents          storage.DocumentStore
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. documents may be nil when no
// search database is configured.
func NewHealthHandler(outDir string, documents storage.DocumentStore) *HealthHandler {
	return &HealthHandler{
		outDir:             outDir,
		documents:          documents,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns 200 OK when the site has been built, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkOutput(ctx, logger) {
		checks["output"] = "ok"
	} else {
		checks["output"] = "error"
		issues = append(issues, "site_not_built")
	}

	if h.documents != nil {
		if h.checkSearchDB(checkCtx, logger) {
			checks["search_db"] = "ok"
		} else {
			checks["search_db"] = "error"
			issues = append(issues, "search_db_unavailable")
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkOutput reports whether the output directory holds a built site.
func (h *HealthHandler) checkOutput(ctx context.Context, logger *slog.Logger) bool {
	if _, err := os.Stat(filepath.Join(h.outDir, "index.html")); err != nil {
		logger.WarnContext(ctx, "output health check failed", "error", err)
		return false
	}
	return true
}

func (h *HealthHandler) checkSearchDB(ctx context.Context, logger *slog.Logger) bool {
	if _, err := h.documents.Count(ctx); err != nil {
		logger.WarnContext(ctx, "search database health check failed", "error", err)
		return false
	}
	return true
}
