package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	t.Parallel()
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/notes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/notes/1", "/api/notes/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `inotebook_http_requests_total{method="GET",route="/api/notes/:id",status="204"} 2`)
	assert.Contains(t, body, `inotebook_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `inotebook_http_request_duration_seconds_count{method="GET",route="/api/notes/:id"} 2`)
	assert.NotContains(t, body, "/nowhere")
}

func TestAuthEvent(t *testing.T) {
	t.Parallel()
	m := New()

	m.AuthEvent("login")
	m.AuthEvent("login")
	m.AuthEvent("login_failed")

	body := scrape(t, m)
	assert.Contains(t, body, `inotebook_auth_events_total{event="login"} 2`)
	assert.Contains(t, body, `inotebook_auth_events_total{event="login_failed"} 1`)
}

func TestHandler_IncludesRuntimeCollectors(t *testing.T) {
	t.Parallel()
	assert.Contains(t, scrape(t, New()), "go_goroutines")
}
