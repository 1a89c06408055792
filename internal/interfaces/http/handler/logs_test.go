package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdash/backend/internal/domain/order"
	"github.com/opsdash/backend/internal/interfaces/http/dto"
)

type fakeSyncRunRepo struct {
	runs []order.SyncRun
	err  error
}

func (f *fakeSyncRunRepo) Save(context.Context, *order.SyncRun) error { return nil }

func (f *fakeSyncRunRepo) FindRecent(_ context.Context, limit int) ([]order.SyncRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func TestLogsHandler_ListSyncRuns(t *testing.T) {
	startedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	ok := order.NewSyncRun(startedAt, startedAt.Add(1200*time.Millisecond), &order.SyncResult{Fetched: 2, Upserted: 3, DemoGenerated: 1}, nil)
	failed := order.NewSyncRun(startedAt.Add(-time.Hour), startedAt.Add(-time.Hour).Add(time.Second), nil, errors.New("upstream unreachable"))

	h := NewLogsHandler(&fakeSyncRunRepo{runs: []order.SyncRun{*ok, *failed}}, zap.NewNop())

	run := func(target string) *httptest.ResponseRecorder {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		h.ListSyncRuns(c)
		return w
	}

	t.Run("returns runs with durations", func(t *testing.T) {
		w := run("/api/v1/logs")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["count"])

		runs := data["runs"].([]interface{})
		first := runs[0].(map[string]interface{})
		assert.Equal(t, "SUCCESS", first["status"])
		assert.Equal(t, float64(1200), first["duration_ms"])
		assert.Equal(t, float64(3), first["upserted"])
		assert.Nil(t, first["error"])

		second := runs[1].(map[string]interface{})
		assert.Equal(t, "FAILED", second["status"])
		assert.Equal(t, "upstream unreachable", second["error"])
	})

	t.Run("respects limit", func(t *testing.T) {
		w := run("/api/v1/logs?limit=1")
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["count"])
	})

	t.Run("repository failure is an internal error", func(t *testing.T) {
		failing := NewLogsHandler(&fakeSyncRunRepo{err: errors.New("db down")}, zap.NewNop())
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
		failing.ListSyncRuns(c)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
