// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var (
	admin  = gravis.BytesToAddress([]byte("admin"))
	minter = gravis.BytesToAddress([]byte("minter"))
	alice  = gravis.BytesToAddress([]byte("alice"))
	bob    = gravis.BytesToAddress([]byte("bob"))
)

func newTestToken(t *testing.T) (*Token, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	tok := New(gravis.BytesToAddress([]byte("GRVX")), st)
	require.NoError(t, tok.Deploy(&Meta{Name: "Gravis", Symbol: "GRVX", Decimals: 18, Admin: admin}))
	return tok, st
}

func env(st *state.State, caller gravis.Address) *xenv.Environment {
	return xenv.New(st, &xenv.BlockContext{Number: 1, Time: 1}, caller)
}

func TestDeploy(t *testing.T) {
	tok, st := newTestToken(t)

	err := tok.Deploy(&Meta{Admin: admin})
	assert.EqualError(t, err, "token already deployed")

	meta, err := tok.Meta()
	require.NoError(t, err)
	assert.Equal(t, "GRVX", meta.Symbol)

	other := New(gravis.BytesToAddress([]byte("none")), st)
	_, err = other.Meta()
	assert.EqualError(t, err, "token not deployed")
	assert.Error(t, other.Transfer(env(st, alice), bob, big.NewInt(1)))
	assert.EqualError(t, other.Deploy(&Meta{}), "zero address")
}

func TestMint(t *testing.T) {
	tok, st := newTestToken(t)

	err := tok.Mint(env(st, minter), alice, big.NewInt(10))
	assert.True(t, reverts.IsAuthorization(err))

	assert.True(t, reverts.IsAuthorization(tok.GrantMinter(env(st, alice), minter)))
	require.NoError(t, tok.GrantMinter(env(st, admin), minter))

	e := env(st, minter)
	require.NoError(t, tok.Mint(e, alice, big.NewInt(10)))

	bal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), bal)

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), supply)

	require.Len(t, e.Logs(), 1)
	assert.Equal(t, &EventTransfer{From: gravis.ZeroAddress, To: alice, Value: big.NewInt(10)}, e.Logs()[0].Event)
}

func TestTransfer(t *testing.T) {
	tok, st := newTestToken(t)
	require.NoError(t, tok.GrantMinter(env(st, admin), minter))
	require.NoError(t, tok.Mint(env(st, minter), alice, big.NewInt(10)))

	assert.EqualError(t, tok.Transfer(env(st, alice), bob, big.NewInt(11)), "transfer amount exceeds balance")
	assert.EqualError(t, tok.Transfer(env(st, alice), gravis.ZeroAddress, big.NewInt(1)), "zero address")

	require.NoError(t, tok.Transfer(env(st, alice), bob, big.NewInt(4)))
	require.NoError(t, tok.Transfer(env(st, alice), alice, big.NewInt(6)))

	a, _ := tok.BalanceOf(alice)
	b, _ := tok.BalanceOf(bob)
	assert.Equal(t, big.NewInt(6), a)
	assert.Equal(t, big.NewInt(4), b)
}

func TestTransferFrom(t *testing.T) {
	tok, st := newTestToken(t)
	require.NoError(t, tok.GrantMinter(env(st, admin), minter))
	require.NoError(t, tok.Mint(env(st, minter), alice, big.NewInt(10)))

	assert.EqualError(t, tok.TransferFrom(env(st, bob), alice, bob, big.NewInt(1)), "insufficient allowance")

	require.NoError(t, tok.Approve(env(st, alice), bob, big.NewInt(5)))
	require.NoError(t, tok.TransferFrom(env(st, bob), alice, bob, big.NewInt(3)))

	allowance, err := tok.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), allowance)

	require.NoError(t, tok.Approve(env(st, alice), bob, solidity.MaxUint256))
	require.NoError(t, tok.TransferFrom(env(st, bob), alice, bob, big.NewInt(7)))
	allowance, err = tok.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, solidity.MaxUint256, allowance)

	assert.True(t, reverts.IsValidation(tok.Approve(env(st, alice), bob, big.NewInt(-1))))
}
