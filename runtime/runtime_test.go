// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/chef"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/token"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var (
	owner = gravis.BytesToAddress([]byte("owner"))
	alice = gravis.BytesToAddress([]byte("alice"))
	lp    = gravis.BytesToAddress([]byte("LP"))
)

func setup(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db, nil)

	env := xenv.New(st, &xenv.BlockContext{}, owner)
	require.NoError(t, builtin.RewardToken.WithState(st).Deploy(&token.Meta{Name: "Gravis", Symbol: "GRVX", Decimals: 18, Admin: owner}))
	require.NoError(t, builtin.Chef.WithState(st).Deploy(env, &chef.Params{
		Owner:         owner,
		RewardToken:   builtin.RewardToken.Address,
		FeeRecipient:  owner,
		TokenPerBlock: gravis.Tokens(30),
		FeeBps:        []uint64{2500, 0},
		FeeThresholds: []uint64{0, 100},
	}))
	require.NoError(t, builtin.RewardToken.WithState(st).GrantMinter(env, builtin.Chef.Address))

	lpToken := builtin.TokenAt(lp, st)
	require.NoError(t, lpToken.Deploy(&token.Meta{Name: "LP", Symbol: "LP", Decimals: 18, Admin: owner}))
	require.NoError(t, lpToken.GrantMinter(env, owner))
	require.NoError(t, lpToken.Mint(env, alice, gravis.Tokens(10)))
	_, err = builtin.Chef.WithState(st).AddPool(env, 1000, lp, 0, false)
	require.NoError(t, err)
	return st
}

func args(format string, a ...any) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, a...))
}

func TestExecute(t *testing.T) {
	st := setup(t)
	rt := New(st, 5, 50)

	receipt, err := rt.Execute(&Call{Caller: alice, To: lp, Method: "approve", Args: args(`{"spender":"%v","amount":"%v"}`, builtin.Chef.Address, gravis.Tokens(5))})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Approval", receipt.Events[0].Name)

	receipt, err = rt.Execute(&Call{Caller: alice, To: builtin.Chef.Address, Method: "deposit", Args: args(`{"poolId":1,"amount":"%v"}`, gravis.Tokens(2))})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint32(5), receipt.BlockNumber)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, "Transfer", receipt.Events[0].Name)
	assert.Equal(t, "Deposit", receipt.Events[1].Name)
	assert.Equal(t, builtin.Chef.Address, receipt.Events[1].Address)

	data, err := json.Marshal(receipt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Deposit"`)
	assert.NotContains(t, string(data), "revertKind")
}

func TestExecuteRevertsAllChanges(t *testing.T) {
	st := setup(t)
	rt := New(st, 5, 50)

	// no allowance: the farm books the deposit before pulling the tokens, the pull fails
	receipt, err := rt.Execute(&Call{Caller: alice, To: builtin.Chef.Address, Method: "deposit", Args: args(`{"poolId":1,"amount":"%v"}`, gravis.Tokens(2))})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, reverts.KindState, receipt.RevertKind)
	assert.Equal(t, "insufficient allowance", receipt.RevertReason)
	assert.Empty(t, receipt.Events)

	c := builtin.Chef.WithState(st)
	u, err := c.UserInfo(1, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Amount.Sign())
	pool, err := c.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, 0, pool.TotalDeposited.Sign())

	bal, err := builtin.TokenAt(lp, st).BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, gravis.Tokens(10), bal)
}

func TestExecuteRejects(t *testing.T) {
	st := setup(t)
	rt := New(st, 5, 50)

	for _, tc := range []struct {
		call *Call
		kind reverts.Kind
	}{
		{&Call{Caller: alice, To: builtin.Chef.Address, Method: "setMultiplier", Args: args(`{"multiplier":2}`)}, reverts.KindAuthorization},
		{&Call{Caller: owner, To: builtin.Chef.Address, Method: "setMultiplier", Args: args(`{"multiplier":0}`)}, reverts.KindValidation},
		{&Call{Caller: owner, To: builtin.Chef.Address, Method: "removePool", Args: args(`{"poolId":0}`)}, reverts.KindState},
		{&Call{Caller: owner, To: builtin.Chef.Address, Method: "nope"}, reverts.KindValidation},
	} {
		receipt, err := rt.Execute(tc.call)
		require.NoError(t, err)
		assert.True(t, receipt.Reverted)
		assert.Equal(t, tc.kind, receipt.RevertKind, tc.call.Method)
	}

	cfg, err := builtin.Chef.WithState(st).Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.BonusMultiplier)
}
