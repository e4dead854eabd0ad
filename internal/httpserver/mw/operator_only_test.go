package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

func TestOperatorOnly(t *testing.T) {
	log, logs := logger.Observed(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.With(OperatorOnly([]string{"10.0.0.0/8"}, false, log)).
		Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name   string
		remote string
		want   int
	}{
		{"inside network", "10.1.2.3:4000", http.StatusOK},
		{"outside network", "192.0.2.1:4000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	refused := logs.FilterMessage("operator route refused").All()
	require.Len(t, refused, 1)
	assert.Equal(t, "/readyz", refused[0].ContextMap()["route"])
	assert.Equal(t, "192.0.2.1", refused[0].ContextMap()["client_ip"])
}

func TestOperatorOnly_NoNetworksIsPassthrough(t *testing.T) {
	h := OperatorOnly(nil, false, logger.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
