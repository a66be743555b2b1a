// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/genesis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/solo"
)

func newChain(t *testing.T) *solo.Chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	chain, err := solo.New(db, genesis.NewDevnet(), solo.Options{BlockInterval: 10, Clock: func() uint64 { return 0 }})
	require.NoError(t, err)
	return chain
}

func TestCloseWithoutSubscribers(t *testing.T) {
	subs := New(newChain(t), []string{"*"})

	done := make(chan struct{})
	go func() {
		subs.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close blocked")
	}
}

func TestCloseDisconnectsSubscribers(t *testing.T) {
	chain := newChain(t)
	subs := New(chain, []string{"*"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/block"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	blk, err := chain.Seal()
	require.NoError(t, err)

	var got solo.Block
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, blk.Head.Number, got.Head.Number)

	subs.Close()

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}
