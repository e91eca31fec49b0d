package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	return NewRouter(&Dependencies{
		InstanceName: "Piggy",
		Commands:     &MockUpdateDispatcher{},
		Monitor: &MockMonitorClient{
			StatusFunc: func(ctx context.Context) (models.Status, error) {
				return models.Status{}, nil
			},
			LastUpdateFunc: func() time.Time { return time.Unix(0, 0) },
		},
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/status", http.StatusOK},
		{http.MethodGet, "/donations_updates", http.StatusOK},
		{http.MethodGet, "/static/donations.js", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
		{http.MethodGet, "/static/missing.js", http.StatusNotFound},
		{http.MethodPost, "/webhook", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_StaticScript(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/static/donations.js", nil)
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "/donations_updates"))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := LoggingMiddleware(next)

	t.Run("generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	})
}
