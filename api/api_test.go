// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/api/chef"
	"github.com/gravis-finance/incentives/api/master"
	"github.com/gravis-finance/incentives/api/tokens"
	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/genesis"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/solo"
)

var (
	ts      *httptest.Server
	chain   *solo.Chain
	owner   = genesis.DevAccounts()[0].Address
	user    = genesis.DevAccounts()[3].Address
	lpWETH  = gravis.BytesToAddress([]byte("GRVX-WETH"))
	unknown = gravis.BytesToAddress([]byte("unknown"))
)

// receipt mirrors the json of a call receipt.
type receipt struct {
	BlockNumber  uint32 `json:"blockNumber"`
	Reverted     bool   `json:"reverted"`
	RevertKind   string `json:"revertKind"`
	RevertReason string `json:"revertReason"`
	Events       []struct {
		Name string `json:"name"`
	} `json:"events"`
}

func TestAPI(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	chain, err = solo.New(db, genesis.NewDevnet(), solo.Options{BlockInterval: 10, Clock: func() uint64 { return 0 }})
	require.NoError(t, err)

	handler, closeFunc := New(chain, Options{
		AllowedOrigins: "*",
		EnableMetrics:  true,
		Network:        "devnet",
		BlockInterval:  10,
	})
	ts = httptest.NewServer(handler)
	defer func() {
		closeFunc()
		ts.Close()
	}()

	t.Run("node", testNode)
	t.Run("chef", testChef)
	t.Run("chefCalls", testChefCalls)
	t.Run("master", testMaster)
	t.Run("tokens", testTokens)
	t.Run("subscription", testSubscription)
}

func testNode(t *testing.T) {
	var head solo.Head
	httpGetAndDecode(t, "/node/head", &head)
	assert.Equal(t, chain.Head().Number, head.Number)
	assert.Equal(t, chain.Head().Root, head.Root)

	info := map[string]any{}
	httpGetAndDecode(t, "/node/info", &info)
	assert.Equal(t, "devnet", info["network"])
}

func testChef(t *testing.T) {
	var globals chef.Globals
	httpGetAndDecode(t, "/chef", &globals)
	assert.Equal(t, builtin.Chef.Address, globals.Address)
	assert.Equal(t, owner, globals.Owner)
	assert.Equal(t, uint64(3), globals.PoolLength)
	assert.Equal(t, uint64(2500), globals.TotalAllocPoint)
	assert.Equal(t, []uint64{2500, 1000, 500, 250, 100}, globals.FeeBps)
	assert.Equal(t, gravis.Tokens(30), (*big.Int)(globals.TokenPerBlock))

	var pools []*chef.Pool
	httpGetAndDecode(t, "/chef/pools", &pools)
	require.Len(t, pools, 3)
	assert.Equal(t, lpWETH, pools[1].Asset)
	assert.Equal(t, uint32(100), pools[2].LockBlocks)

	var pool chef.Pool
	httpGetAndDecode(t, "/chef/pools/2", &pool)
	assert.Equal(t, uint64(500), pool.AllocPoint)

	_, status := httpGet(t, "/chef/pools/7")
	assert.Equal(t, http.StatusNotFound, status)
	_, status = httpGet(t, "/chef/pools/abc")
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpGet(t, "/chef/pools/1/users/0xzz")
	assert.Equal(t, http.StatusBadRequest, status)
}

func testChefCalls(t *testing.T) {
	var r receipt
	status := httpPostAndDecode(t, "/calls", map[string]any{
		"caller": user,
		"to":     lpWETH,
		"method": "approve",
		"args":   map[string]any{"spender": builtin.Chef.Address, "amount": gravis.Tokens(100).String()},
	}, &r)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, r.Reverted)

	r = receipt{}
	status = httpPostAndDecode(t, "/chef/calls", map[string]any{
		"caller": user,
		"method": "deposit",
		"args":   map[string]any{"poolId": 1, "amount": gravis.Tokens(10).String()},
	}, &r)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, r.Reverted)
	assert.NotEmpty(t, r.Events)
	depositBlock := r.BlockNumber

	r = receipt{}
	status = httpPostAndDecode(t, "/chef/calls", map[string]any{
		"caller": user,
		"method": "setMultiplier",
		"args":   map[string]any{"multiplier": 2},
	}, &r)
	assert.Equal(t, http.StatusForbidden, status)
	assert.True(t, r.Reverted)
	assert.Equal(t, "authorization", r.RevertKind)

	r = receipt{}
	status = httpPostAndDecode(t, "/chef/calls", map[string]any{
		"caller": owner,
		"method": "setMultiplier",
		"args":   map[string]any{"multiplier": 0},
	}, &r)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", r.RevertKind)

	r = receipt{}
	status = httpPostAndDecode(t, "/chef/calls", map[string]any{
		"caller": user,
		"method": "withdraw",
		"args":   map[string]any{"poolId": 1, "amount": gravis.Tokens(11).String()},
	}, &r)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "state", r.RevertKind)

	// malformed bodies never reach the chain
	_, status = httpPost(t, "/chef/calls", map[string]any{"caller": user, "method": "deposit", "extra": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpPost(t, "/chef/calls", map[string]any{"caller": user})
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpPost(t, "/chef/calls", map[string]any{"caller": user, "to": lpWETH, "method": "deposit"})
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpPost(t, "/calls", map[string]any{"caller": user, "method": "approve"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := chain.Seal()
	require.NoError(t, err)
	_, err = chain.Seal()
	require.NoError(t, err)

	var u chef.User
	httpGetAndDecode(t, "/chef/pools/1/users/"+user.String(), &u)
	assert.Equal(t, gravis.Tokens(10), (*big.Int)(u.Amount))
	assert.Equal(t, depositBlock, u.LastDepositBlock)
	assert.Equal(t, depositBlock+2, u.BlockNumber)
	// 1000 of 2500 alloc at 30 tokens per block
	assert.Equal(t, gravis.Tokens(24), (*big.Int)(u.Pending))
	assert.Equal(t, uint64(2500), u.FeeBps)
}

func testMaster(t *testing.T) {
	var globals master.Globals
	httpGetAndDecode(t, "/master", &globals)
	assert.Equal(t, builtin.Master.Address, globals.Address)
	assert.Equal(t, builtin.Collection.Address, globals.Collection)
	assert.False(t, globals.ClaimAllowed)

	var pool master.Pool
	httpGetAndDecode(t, "/master/pools/1", &pool)
	assert.Equal(t, "Advocate", pool.Name)

	_, status := httpGet(t, "/master/pools/3")
	assert.Equal(t, http.StatusNotFound, status)

	var r receipt
	status = httpPostAndDecode(t, "/calls", map[string]any{
		"caller": user,
		"to":     builtin.Collection.Address,
		"method": "setApprovalForAll",
		"args":   map[string]any{"operator": builtin.Master.Address, "approved": true},
	}, &r)
	require.Equal(t, http.StatusOK, status)

	r = receipt{}
	status = httpPostAndDecode(t, "/master/calls", map[string]any{
		"caller": user,
		"method": "deposit",
		"args":   map[string]any{"poolId": 2, "amount": "1"},
	}, &r)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, r.Reverted)

	r = receipt{}
	status = httpPostAndDecode(t, "/master/calls", map[string]any{
		"caller": user,
		"method": "claimRewards",
		"args":   map[string]any{"poolId": 2},
	}, &r)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "claim not allowed", r.RevertReason)

	var u master.User
	httpGetAndDecode(t, "/master/pools/2/users/"+user.String(), &u)
	require.Len(t, u.Deposits, 1)
	assert.Equal(t, big.NewInt(1), (*big.Int)(u.Deposits[0].Amount))
	assert.Equal(t, u.StartTime, u.Deposits[0].Timestamp)
	assert.Equal(t, u.BlockTime, u.StartTime)

	_, status = httpGet(t, "/master/pools/5/users/"+user.String())
	assert.Equal(t, http.StatusNotFound, status)
}

func testTokens(t *testing.T) {
	var token tokens.Token
	httpGetAndDecode(t, "/tokens/"+builtin.RewardToken.Address.String(), &token)
	assert.Equal(t, "GRVX", token.Symbol)
	assert.Equal(t, uint8(18), token.Decimals)

	var acc tokens.Account
	httpGetAndDecode(t, "/tokens/"+builtin.RewardToken.Address.String()+"/accounts/"+genesis.DevAccounts()[1].Address.String(), &acc)
	assert.Equal(t, 1, (*big.Int)(acc.Balance).Sign())

	_, status := httpGet(t, "/tokens/"+unknown.String())
	assert.Equal(t, http.StatusNotFound, status)
}

func testSubscription(t *testing.T) {
	pos := chain.Head().Number
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/block?pos=" + strconv.FormatUint(uint64(pos), 10)
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	sealed, err := chain.Seal()
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var blk struct {
		Head solo.Head `json:"head"`
	}
	require.NoError(t, conn.ReadJSON(&blk))
	assert.Equal(t, sealed.Head.Number, blk.Head.Number)
	assert.Equal(t, sealed.Head.Root, blk.Head.Root)
}

func httpGet(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func httpGetAndDecode(t *testing.T, path string, v any) {
	data, status := httpGet(t, path)
	require.Equal(t, http.StatusOK, status, string(data))
	require.NoError(t, json.Unmarshal(data, v))
}

func httpPost(t *testing.T, path string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPostAndDecode(t *testing.T, path string, body, v any) int {
	data, status := httpPost(t, path, body)
	require.NoError(t, json.Unmarshal(data, v), string(data))
	return status
}
