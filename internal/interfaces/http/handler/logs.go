package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opsdash/backend/internal/domain/order"
	"github.com/opsdash/backend/internal/interfaces/http/dto"
	"github.com/opsdash/backend/internal/interfaces/http/middleware"
)

// LogsHandler exposes sync run history
type LogsHandler struct {
	BaseHandler
	runs   order.SyncRunRepository
	logger *zap.Logger
}

// NewLogsHandler creates a new LogsHandler
func NewLogsHandler(runs order.SyncRunRepository, logger *zap.Logger) *LogsHandler {
	return &LogsHandler{runs: runs, logger: logger}
}

// SyncRunResponse represents one sync run in API responses
type SyncRunResponse struct {
	ID            string `json:"id"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at"`
	DurationMS    int64  `json:"duration_ms"`
	Status        string `json:"status"`
	Fetched       int    `json:"fetched"`
	Upserted      int    `json:"upserted"`
	DemoGenerated int    `json:"demo_generated"`
	Error         string `json:"error,omitempty"`
}

// SyncRunListResponse wraps the run list with its total
type SyncRunListResponse struct {
	Runs  []SyncRunResponse `json:"runs"`
	Count int               `json:"count"`
}

// ListSyncRuns returns recent sync runs, newest first
func (h *LogsHandler) ListSyncRuns(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+middleware.ValidationMessage(err))
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = 20
	}

	runs, err := h.runs.FindRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list sync runs", zap.Error(err))
		h.InternalError(c, "Failed to list sync runs")
		return
	}

	items := make([]SyncRunResponse, 0, len(runs))
	for i := range runs {
		r := &runs[i]
		items = append(items, SyncRunResponse{
			ID:            r.ID.String(),
			StartedAt:     r.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt:    r.FinishedAt.UTC().Format(time.RFC3339),
			DurationMS:    r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
			Status:        string(r.Status),
			Fetched:       r.Fetched,
			Upserted:      r.Upserted,
			DemoGenerated: r.DemoGenerated,
			Error:         r.Error,
		})
	}
	h.Success(c, SyncRunListResponse{Runs: items, Count: len(items)})
}
