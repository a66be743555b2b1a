// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/log"
)

type Admin struct {
	logLevel    *slog.LevelVar
	logRequests *atomic.Bool
	health      *Health
}

func New(logLevel *slog.LevelVar, logRequests *atomic.Bool, health *Health) *Admin {
	return &Admin{
		logLevel:    logLevel,
		logRequests: logRequests,
		health:      health,
	}
}

// HTTPHandler returns the admin router mounted at /admin.
func (a *Admin) HTTPHandler() http.Handler {
	router := mux.NewRouter()
	a.Mount(router, "/admin")
	return handlers.CompressHandler(router)
}

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type apiLogsStatus struct {
	Enabled *bool `json:"enabled"`
}

func (a *Admin) getLogLevelHandler(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

func (a *Admin) postLogLevelHandler(w http.ResponseWriter, r *http.Request) error {
	var req logLevelRequest

	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
	}

	switch req.Level {
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	case "trace":
		a.logLevel.Set(log.LevelTrace)
	case "crit":
		a.logLevel.Set(log.LevelCrit)
	default:
		return utils.BadRequest(fmt.Errorf("invalid verbosity level: %s", req.Level))
	}

	log.Warn("admin changed the log level", "level", log.LevelString(a.logLevel.Level()))

	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

func (a *Admin) getAPILogsHandler(w http.ResponseWriter, _ *http.Request) error {
	enabled := a.logRequests.Load()
	return utils.WriteJSON(w, apiLogsStatus{Enabled: &enabled})
}

func (a *Admin) postAPILogsHandler(w http.ResponseWriter, r *http.Request) error {
	var req apiLogsStatus

	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
	}
	if req.Enabled == nil {
		return utils.BadRequest(errors.New("missing 'enabled' field"))
	}

	log.Warn("admin changed the request logger", "enabled", *req.Enabled)
	a.logRequests.Store(*req.Enabled)

	return utils.WriteJSON(w, req)
}

func (a *Admin) getHealthHandler(w http.ResponseWriter, _ *http.Request) error {
	status := a.health.Status()
	if !status.Healthy {
		return utils.WriteJSONStatus(w, http.StatusServiceUnavailable, status)
	}
	return utils.WriteJSON(w, status)
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.getLogLevelHandler))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.postLogLevelHandler))

	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.getAPILogsHandler))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.postAPILogsHandler))

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.getHealthHandler))
}
