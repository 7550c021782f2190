package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vanotis720/SampleTaskAPI/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecoveryWithLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		handler  gin.HandlerFunc
		wantCode int
		wantBody string
		wantLogs int
	}{
		{
			name:     "passes through",
			handler:  func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantCode: http.StatusOK,
			wantBody: "ok",
		},
		{
			name:     "panic becomes server error",
			handler:  func(c *gin.Context) { panic("task store exploded") },
			wantCode: http.StatusInternalServerError,
			wantBody: `{"status":"Error","message":"Server Error","data":null}`,
			wantLogs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			restore := zap.ReplaceGlobals(zap.New(core))
			defer restore()

			router := gin.New()
			router.Use(middleware.RecoveryWithLog())
			router.GET("/api/tasks", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
			require.Equal(t, tt.wantLogs, logs.Len())
			if tt.wantLogs > 0 {
				entry := logs.All()[0]
				assert.Equal(t, "panic recovered", entry.Message)
				assert.Equal(t, "/api/tasks", entry.ContextMap()["path"])
			}
		})
	}
}
