// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/solo"
)

type fixedHead struct {
	head *solo.Head
}

func (f *fixedHead) Head() *solo.Head { return f.head }

type TestCase struct {
	name               string
	method             string
	path               string
	body               string
	expectedStatusCode int
	expectedBody       string
}

func newAdmin(level slog.Level, logs bool) (*Admin, *slog.LevelVar, *atomic.Bool) {
	var logLevel slog.LevelVar
	logLevel.Set(level)
	var enabled atomic.Bool
	enabled.Store(logs)
	health := NewHealth(&fixedHead{&solo.Head{Number: 1, Time: 1000}}, 30*time.Second)
	health.now = func() time.Time { return time.Unix(1010, 0) }
	return New(&logLevel, &enabled, health), &logLevel, &enabled
}

func TestAdmin(t *testing.T) {
	tests := []TestCase{
		{
			name:               "get log level",
			method:             http.MethodGet,
			path:               "/admin/loglevel",
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"currentLevel":"INFO"}`,
		},
		{
			name:               "set log level",
			method:             http.MethodPost,
			path:               "/admin/loglevel",
			body:               `{"level":"debug"}`,
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"currentLevel":"DEBUG"}`,
		},
		{
			name:               "invalid log level",
			method:             http.MethodPost,
			path:               "/admin/loglevel",
			body:               `{"level":"invalid_body"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "invalid verbosity level: invalid_body",
		},
		{
			name:               "get api logs",
			method:             http.MethodGet,
			path:               "/admin/apilogs",
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"enabled":false}`,
		},
		{
			name:               "enable api logs",
			method:             http.MethodPost,
			path:               "/admin/apilogs",
			body:               `{"enabled":true}`,
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"enabled":true}`,
		},
		{
			name:               "missing enabled",
			method:             http.MethodPost,
			path:               "/admin/apilogs",
			body:               `{}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "missing 'enabled' field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, _, _ := newAdmin(slog.LevelInfo, false)
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			admin.HTTPHandler().ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			assert.Equal(t, tt.expectedBody, string(bytes.TrimSpace(rr.Body.Bytes())))
		})
	}
}

func TestAdminUpdatesSharedState(t *testing.T) {
	admin, level, enabled := newAdmin(slog.LevelInfo, false)
	handler := admin.HTTPHandler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/loglevel", bytes.NewBufferString(`{"level":"warn"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, slog.LevelWarn, level.Level())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", bytes.NewBufferString(`{"enabled":true}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, enabled.Load())
}

func TestHealth(t *testing.T) {
	admin, _, _ := newAdmin(slog.LevelInfo, false)

	rr := httptest.NewRecorder()
	admin.HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(1), status.Head.Number)

	admin.health.now = func() time.Time { return time.Unix(1031, 0) }
	rr = httptest.NewRecorder()
	admin.HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.False(t, status.Healthy)
}
