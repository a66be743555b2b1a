// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/co"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/solo"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// Chain is the view of the chain the subscriptions need.
type Chain interface {
	Head() *solo.Head
	BlocksAfter(n uint32) []*solo.Block
	NewBlockWaiter() co.Waiter
}

type Subscriptions struct {
	chain    Chain
	upgrader *websocket.Upgrader
	done     chan struct{}
	readers  co.Goes
}

func New(chain Chain, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		chain: chain,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePos parses the block number to stream after. It defaults to the head.
func (s *Subscriptions) parsePos(req *http.Request) (uint32, error) {
	pos := req.URL.Query().Get("pos")
	if pos == "" {
		return s.chain.Head().Number, nil
	}
	n, err := strconv.ParseUint(pos, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	return uint32(n), nil
}

func (s *Subscriptions) handleSubscribeBlocks(w http.ResponseWriter, req *http.Request) error {
	pos, err := s.parsePos(req)
	if err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied to the client
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	// the reader exits once conn is closed, after pipe has returned
	closed := make(chan struct{})
	s.readers.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	if err := s.pipe(conn, pos, closed); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

// pipe writes every sealed block after pos to conn until the client or the server goes away.
func (s *Subscriptions) pipe(conn *websocket.Conn, pos uint32, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		waiter := s.chain.NewBlockWaiter()
		for _, blk := range s.chain.BlocksAfter(pos) {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(blk); err != nil {
				return err
			}
			pos = blk.Head.Number
		}

		select {
		case <-s.done:
			return conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter.C():
		}
	}
}

// Close disconnects all subscribers.
func (s *Subscriptions) Close() {
	close(s.done)
	select {
	case <-s.readers.Done():
	case <-time.After(2 * writeWait):
		logger.Warn("subscribers did not disconnect in time")
	}
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/block").
		Methods(http.MethodGet).
		Name("subscriptions_block").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeBlocks))
}
