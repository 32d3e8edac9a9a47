package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-service/internal/data"
)

var bookColumns = []string{"id", "title", "author", "record_timestamp"}

// newTestApplication builds an application backed by sqlmock with the rate
// limiter switched off.
func newTestApplication(t *testing.T) (*applicationDependencies, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})

	var cfg serverConfig
	cfg.Probe = "Probe test ok...."
	cfg.Environment = "testing"
	cfg.CORS.TrustedOrigins = "http://localhost:3000"

	app := &applicationDependencies{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: data.NewModels(sqlx.NewDb(mockDB, "sqlmock")),
		done:   make(chan struct{}),
	}
	t.Cleanup(func() {
		select {
		case <-app.done:
		default:
			close(app.done)
		}
	})
	return app, mock
}

// do sends a request through the full route table and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got), "body: %s", rr.Body.String())
	return got
}

// decodeList unmarshals a JSON array response body.
func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []any {
	t.Helper()

	var got []any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got), "body: %s", rr.Body.String())
	return got
}
