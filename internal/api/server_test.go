package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetupRouter_Health(t *testing.T) {
	router := SetupRouter("/telegram/webhook", nil, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSetupRouter_Webhook(t *testing.T) {
	var calls int
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	router := SetupRouter("/telegram/webhook", webhook, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestSetupRouter_NoWebhookInPolling(t *testing.T) {
	router := SetupRouter("/telegram/webhook", nil, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
