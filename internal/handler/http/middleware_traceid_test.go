package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeWithTraceID(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	return executeWithLogger(t, logger.Nop(), headers)
}

func executeWithLogger(t *testing.T, l *logger.Logger, headers map[string]string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	h := &Handler{logger: l}

	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/players.json", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rr, req)

	require.NotNil(t, captured)
	return rr, captured
}

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		wantID    string
		wantUUIDs bool
	}{
		{
			name:    "trace id header is reused",
			headers: map[string]string{traceIDHeader: "my-trace"},
			wantID:  "my-trace",
		},
		{
			name:    "request id from the campaign client is reused",
			headers: map[string]string{requestIDHeader: "req-1"},
			wantID:  "req-1",
		},
		{
			name:    "trace id wins over request id",
			headers: map[string]string{traceIDHeader: "trace", requestIDHeader: "req"},
			wantID:  "trace",
		},
		{
			name:      "generated when absent",
			headers:   nil,
			wantUUIDs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := executeWithTraceID(t, tt.headers)

			got := rr.Header().Get(traceIDHeader)
			if tt.wantUUIDs {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestWithTraceID_LoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	l := &logger.Logger{Logger: zerolog.New(&buf)}

	_, r := executeWithLogger(t, l, map[string]string{traceIDHeader: "ctx-trace"})
	log.Ctx(r.Context()).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"trace_id":"ctx-trace"`)
}

func TestWithTraceID_GeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		rr, _ := executeWithTraceID(t, nil)
		id := rr.Header().Get(traceIDHeader)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
