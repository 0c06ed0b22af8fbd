package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs swaps the default slog handler for one writing to a buffer,
// with DEBUG enabled, and restores it when the test ends.
func captureLogs(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestRespondWithJSON(t *testing.T) {
	t.Run("encodes payload with status and content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()

		RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{
			"task_number": 7,
			"title":       "buy milk",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["task_number"])
		assert.Equal(t, "buy milk", body["title"])
	})

	t.Run("nil payload encodes as null", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()

		RespondWithJSON(w, req, http.StatusOK, nil)

		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("unencodable payload is logged", func(t *testing.T) {
		logBuf := captureLogs(t)
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()

		type circular struct {
			Self *circular
		}
		data := &circular{}
		data.Self = data

		RespondWithJSON(w, req, http.StatusOK, data)

		// The status was already written, so all we can do is log.
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, logBuf.String(), "failed to encode JSON response")
	})
}

func TestRespondWithError(t *testing.T) {
	t.Run("includes trace ID from context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), TraceIDKey, "trace-abc")
		req := httptest.NewRequest(http.MethodGet, "/todos", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid request", resp.Error)
		assert.Equal(t, "trace-abc", resp.TraceID)
	})

	t.Run("omits trace ID when none set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Unauthorized", resp.Error)
		assert.Empty(t, resp.TraceID)
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		message   string
		err       error
		opts      []ResponseOption
		wantLevel string
	}{
		{
			name:      "server error logs at ERROR",
			status:    http.StatusInternalServerError,
			message:   "Internal server error",
			err:       errors.New("database connection failed"),
			wantLevel: "ERROR",
		},
		{
			name:      "client error logs at DEBUG by default",
			status:    http.StatusBadRequest,
			message:   "Bad request",
			err:       errors.New("invalid input"),
			wantLevel: "DEBUG",
		},
		{
			name:      "elevated client error logs at WARN",
			status:    http.StatusBadRequest,
			message:   "Bad request",
			err:       errors.New("invalid input"),
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "WARN",
		},
		{
			name:      "rate limit always logs at WARN",
			status:    http.StatusTooManyRequests,
			message:   "Too many requests",
			err:       errors.New("rate limit exceeded"),
			wantLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logBuf := captureLogs(t)
			ctx := context.WithValue(context.Background(), TraceIDKey, "trace-abc")
			req := httptest.NewRequest(http.MethodGet, "/todos", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, tc.message, tc.err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.message, resp.Error)
			assert.Equal(t, "trace-abc", resp.TraceID)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, tc.wantLevel)
			assert.Contains(t, logOutput, tc.message)
			assert.Contains(t, logOutput, "trace_id=trace-abc")
			assert.Contains(t, logOutput, "error_type=")
		})
	}
}
