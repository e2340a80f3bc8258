package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generates id when header is missing"},
		{name: "keeps incoming id", incoming: "req-42"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			h := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-Id", tc.incoming)
			}
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, req)

			// then
			require.NotEmpty(t, seen)
			assert.NotEqual(t, "unknown", seen)
			assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			}
		})
	}
}

func Test_Recoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recoverer(logger)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "Panic recovered")
}

func Test_StructuredLogger(t *testing.T) {
	testCases := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{name: "success logs at info", status: http.StatusOK, expectedLevel: "INFO"},
		{name: "rejection logs at warn", status: http.StatusBadRequest, expectedLevel: "WARN"},
		{name: "failure logs at error", status: http.StatusInternalServerError, expectedLevel: "ERROR"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			mux := chi.NewRouter()
			mux.Use(RequestIDInjector, StructuredLogger(logger))
			mux.Post("/api/products/{id}/sell", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			})
			req := httptest.NewRequest(http.MethodPost, "/api/products/7/sell", nil)
			req.Header.Set("X-Request-Id", "req-7")

			// when
			mux.ServeHTTP(httptest.NewRecorder(), req)

			// then
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.expectedLevel, entry["level"])
			assert.Equal(t, "/api/products/{id}/sell", entry["route"])
			assert.Equal(t, "/api/products/7/sell", entry["path"])
			assert.Equal(t, "req-7", entry["request_id"])
			assert.EqualValues(t, tc.status, entry["status"])
		})
	}
}

func Test_ParseID(t *testing.T) {
	testCases := []struct {
		name       string
		pathValue  string
		expectedID int64
		expectedOK bool
	}{
		{name: "valid id", pathValue: "12", expectedID: 12, expectedOK: true},
		{name: "zero id", pathValue: "0"},
		{name: "negative id", pathValue: "-3"},
		{name: "not a number", pathValue: "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.pathValue)
			rr := httptest.NewRecorder()

			id, ok := ParseID(rr, req, discardLogger())

			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedID, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, `{"error":"Invalid ID: `+tc.pathValue+`"}`, rr.Body.String())
			}
		})
	}
}

type payload struct {
	Name  string `json:"name" validate:"required"`
	Count *int   `json:"count" validate:"required"`
}

func Test_DecodeAndValidate(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedOK   bool
		expectedBody string
	}{
		{name: "valid body", body: `{"name":"a","count":0}`, expectedOK: true},
		{name: "malformed json", body: `{"name":`, expectedBody: `{"error":"Invalid request body"}`},
		{
			name:         "missing fields",
			body:         `{}`,
			expectedBody: `{"validation_errors":{"Name":"failed on rule: required","Count":"failed on rule: required"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			var dst payload

			ok := DecodeAndValidate(rr, req, discardLogger(), validator.New(), &dst)

			assert.Equal(t, tc.expectedOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
