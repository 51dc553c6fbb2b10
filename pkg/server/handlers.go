package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/store"
	"veredito-hq/veredito/pkg/verify"
)

// handlers bundles the dependencies the HTTP handlers need.
type handlers struct {
	verifier *verify.Verifier
	batch    *verify.BatchCoordinator
	cache    *verify.ResultCache
	store    store.Store
	logger   *slog.Logger
}

// verifyResponse wraps a decision with cache provenance.
type verifyResponse struct {
	Decision  *process.DecisionResult `json:"decision"`
	FromCache bool                    `json:"from_cache"`
}

// handleVerify decides a single record.
// POST /verify
func (h *handlers) handleVerify(w http.ResponseWriter, r *http.Request) {
	var record process.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON: "+err.Error())
		return
	}

	decision, fromCache, err := h.verifier.Verify(r.Context(), &record)
	if err != nil {
		writeVerifyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Decision:  decision,
		FromCache: fromCache,
	})
}

// batchRequest is the body of a batch verification request.
type batchRequest struct {
	Records []*process.Record `json:"records"`
}

// handleVerifyBatch decides a batch of records.
// POST /verify/batch
func (h *handlers) handleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "empty_batch", "records must not be empty")
		return
	}

	result, err := h.batch.VerifyBatch(r.Context(), req.Records)
	if err != nil {
		writeVerifyError(w, err)
		return
	}

	status := http.StatusOK
	if result.Aborted() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

// handleListProcesses lists stored decisions, most recent first.
// GET /process
func (h *handlers) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "store_disabled", "decision store is not configured")
		return
	}

	decisions, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(decisions),
		"decisions": decisions,
	})
}

// handleGetProcess returns the stored decision for one process.
// GET /process/{number}
func (h *handlers) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "store_disabled", "decision store is not configured")
		return
	}

	number := chi.URLParam(r, "number")
	decision, err := h.store.FindByProcessNumber(r.Context(), number)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if decision == nil {
		writeError(w, http.StatusNotFound, "not_found", "no decision for process "+number)
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

// handleAnalytics returns aggregate decision statistics.
// GET /analytics
func (h *handlers) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "store_disabled", "decision store is not configured")
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleCacheStats reports result cache contents.
// GET /monitoring/cache
func (h *handlers) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, http.StatusNotImplemented, "cache_disabled", "result cache is not configured")
		return
	}

	writeJSON(w, http.StatusOK, h.cache.Stats())
}

// handleCacheClear empties the result cache.
// DELETE /monitoring/cache
func (h *handlers) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, http.StatusNotImplemented, "cache_disabled", "result cache is not configured")
		return
	}

	removed := h.cache.Size()
	h.cache.Clear()
	h.logger.Info("result cache cleared", "removed", removed)

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleHealth is a liveness probe.
// GET /health
func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
