// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/gravis-finance/incentives/api/chef"
	"github.com/gravis-finance/incentives/api/master"
	"github.com/gravis-finance/incentives/api/node"
	"github.com/gravis-finance/incentives/api/subscriptions"
	"github.com/gravis-finance/incentives/api/tokens"
	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/solo"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger *atomic.Bool
	EnableMetrics   bool
	Network         string
	BlockInterval   uint64
}

// New return api router
func New(chain *solo.Chain, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	node.New(chain, node.Info{Network: opts.Network, BlockInterval: opts.BlockInterval}).
		Mount(router, "/node")
	chef.New(chain).
		Mount(router, "/chef")
	master.New(chain).
		Mount(router, "/master")
	tokens.New(chain).
		Mount(router, "/tokens")
	router.Path("/calls").
		Methods(http.MethodPost).
		Name("post_calls").
		HandlerFunc(utils.WrapHandlerFunc(utils.HandleCalls(chain, gravis.Address{})))
	subs := subscriptions.New(chain, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
