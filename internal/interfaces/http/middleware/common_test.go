package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func() *gin.Engine {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("request_id"))
		})
		return engine
	}

	t.Run("generates an ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates a caller-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "caller-id-1")

		w := httptest.NewRecorder()
		newEngine().ServeHTTP(w, req)

		assert.Equal(t, "caller-id-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "caller-id-1", w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(cfg CORSConfig) *gin.Engine {
		engine := gin.New()
		engine.Use(CORS(cfg))
		engine.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return engine
	}

	cfg := CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
	}

	t.Run("allows configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		w := httptest.NewRecorder()
		newEngine(cfg).ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("ignores unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example.com")

		w := httptest.NewRecorder()
		newEngine(cfg).ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		w := httptest.NewRecorder()
		newEngine(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://anywhere.example.com")

		w := httptest.NewRecorder()
		newEngine(CORSConfig{AllowOrigins: []string{"*"}}).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
