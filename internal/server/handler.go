// Package server implements the HTTP API over the search engine.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avelichko/searchcore/internal/analytics"
	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/engine/document"
	"github.com/avelichko/searchcore/internal/requests"
	pkgerrors "github.com/avelichko/searchcore/pkg/errors"
	"github.com/avelichko/searchcore/pkg/logger"
	"github.com/avelichko/searchcore/pkg/metrics"
	"github.com/avelichko/searchcore/pkg/paginate"
)

const defaultPageSize = engine.MaxResultDocuments

// Handler implements the search service's HTTP endpoints.
type Handler struct {
	engine    *engine.Server
	queue     *requests.Queue
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler. collector may be nil when event publishing is
// disabled.
func New(srv *engine.Server, queue *requests.Queue, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:    srv,
		queue:     queue,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "http-handler"),
	}
}

type addDocumentRequest struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Status  string `json:"status"`
	Ratings []int  `json:"ratings"`
}

// AddDocument handles POST /api/v1/documents.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status := document.StatusActual
	if req.Status != "" {
		parsed, err := document.ParseStatus(req.Status)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = parsed
	}
	if err := h.engine.AddDocument(req.ID, req.Text, status, req.Ratings); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	h.metrics.DocsIndexedTotal.Inc()
	h.metrics.LiveDocuments.Set(float64(h.engine.DocumentCount()))
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": req.ID, "status": status.String()})
}

type searchResponse struct {
	Query     string            `json:"query"`
	Results   []document.Scored `json:"results"`
	Count     int               `json:"count"`
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
}

// Search handles GET /api/v1/search. Queries run through the request queue so
// the no-result metric covers API traffic.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.FromContext(r.Context())

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	var (
		results []document.Scored
		err     error
	)
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status, parseErr := document.ParseStatus(statusParam)
		if parseErr != nil {
			h.writeError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		results, err = h.queue.AddFindRequestByStatus(query, status)
	} else {
		results, err = h.queue.AddFindRequest(query)
	}
	if err != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
		h.writeEngineError(w, r, err)
		return
	}

	latency := time.Since(start)
	resultType := "hit"
	if len(results) == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(results)))

	log.Info("search completed",
		"query", query,
		"returned", len(results),
		"latency_ms", latency.Milliseconds(),
	)
	if h.collector != nil {
		h.collector.Track(analytics.QueryEvent{
			Query:      query,
			Returned:   len(results),
			ZeroResult: len(results) == 0,
			LatencyMs:  latency.Milliseconds(),
			RequestID:  logger.RequestID(r.Context()),
			Timestamp:  time.Now().UTC(),
		})
	}

	page, pageSize, ok := h.pageParams(w, r)
	if !ok {
		return
	}
	paginator, err := paginate.New(results, pageSize)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	pageResults := []document.Scored{}
	if page < paginator.PageCount() {
		pageResults, _ = paginator.Page(page)
	}
	h.writeJSON(w, http.StatusOK, searchResponse{
		Query:     query,
		Results:   pageResults,
		Count:     len(results),
		Page:      page,
		PageCount: paginator.PageCount(),
	})
}

// MatchDocument handles GET /api/v1/documents/{id}/match.
func (h *Handler) MatchDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	words, status, err := h.engine.MatchDocument(query, id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"words":  words,
		"status": status.String(),
	})
}

// WordFrequencies handles GET /api/v1/documents/{id}/frequencies.
func (h *Handler) WordFrequencies(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"frequencies": h.engine.WordFrequencies(id),
	})
}

// RemoveDocument handles DELETE /api/v1/documents/{id}.
func (h *Handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.engine.RemoveDocument(id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	h.metrics.DocsRemovedTotal.Inc()
	h.metrics.LiveDocuments.Set(float64(h.engine.DocumentCount()))
	w.WriteHeader(http.StatusNoContent)
}

// Deduplicate handles POST /api/v1/documents/deduplicate.
func (h *Handler) Deduplicate(w http.ResponseWriter, r *http.Request) {
	removed := h.engine.RemoveDuplicates()
	h.metrics.DuplicatesRemoved.Add(float64(len(removed)))
	h.metrics.DocsRemovedTotal.Add(float64(len(removed)))
	h.metrics.LiveDocuments.Set(float64(h.engine.DocumentCount()))
	if removed == nil {
		removed = []int{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"document_count":     h.engine.DocumentCount(),
		"no_result_requests": h.queue.NoResultRequests(),
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "document id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) pageParams(w http.ResponseWriter, r *http.Request) (page, pageSize int, ok bool) {
	page, pageSize = 0, defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "page must be a non-negative integer")
			return 0, 0, false
		}
		page = parsed
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return 0, 0, false
		}
		pageSize = parsed
	}
	return page, pageSize, true
}

func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := pkgerrors.HTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		h.writeError(w, status, "internal error")
		return
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
