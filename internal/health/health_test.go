package health

import (
	"context"
	"encoding/json"
	"errors"
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

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantStatus int
		wantHealth Status
	}{
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantHealth: StatusHealthy,
		},
		{
			name: "healthy dependency",
			opts: []Option{
				WithCheck("redis", func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantHealth: StatusHealthy,
		},
		{
			name: "one failing dependency",
			opts: []Option{
				WithCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
				WithCheck("queue", func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker("v1.2.3", tt.opts...)

			r := gin.New()
			r.GET("/health/ready", checker.ReadyHandler())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var body HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantHealth, body.Status)
			assert.Equal(t, "v1.2.3", body.Version)
		})
	}
}

func TestCheckReportsFailure(t *testing.T) {
	checker := NewChecker("dev", WithCheck("redis", func(context.Context) error {
		return errors.New("connection refused")
	}))

	status := checker.Check(context.Background())

	require.Contains(t, status.Checks, "redis")
	assert.Equal(t, StatusUnhealthy, status.Checks["redis"].Status)
	assert.Equal(t, "connection refused", status.Checks["redis"].Error)
}

func TestLiveHandler(t *testing.T) {
	r := gin.New()
	r.GET("/health/live", NewChecker("dev").LiveHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
