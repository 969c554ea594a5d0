package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name           string
		statusCodes    []int
		expectedStatus int
	}{
		{name: "single call", statusCodes: []int{http.StatusCreated}, expectedStatus: http.StatusCreated},
		{name: "second call ignored", statusCodes: []int{http.StatusBadRequest, http.StatusOK}, expectedStatus: http.StatusBadRequest},
		{name: "service unavailable", statusCodes: []int{http.StatusServiceUnavailable}, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := &responseWriter{ResponseWriter: rr}

			for _, code := range tt.statusCodes {
				w.WriteHeader(code)
			}

			assert.True(t, w.wroteHeader)
			assert.Equal(t, tt.expectedStatus, w.status)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestResponseWriter_Write(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	n, err := w.Write([]byte(`{"a":`))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	_, err = w.Write([]byte(`1}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 7, w.size)
	assert.Equal(t, `{"a":1}`, rr.Body.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	var flusher http.Flusher = w
	flusher.Flush()

	assert.True(t, rr.Flushed)
	assert.Equal(t, http.StatusOK, w.status)
}

func TestResponseWriter_ProxiesHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
}
