// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var (
	admin    = gravis.BytesToAddress([]byte("admin"))
	alice    = gravis.BytesToAddress([]byte("alice"))
	operator = gravis.BytesToAddress([]byte("operator"))
)

func setup(t *testing.T) (*Collection, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	c := New(gravis.BytesToAddress([]byte("nft")), st)
	require.NoError(t, c.Deploy(&Meta{Name: "Gravis Heroes", Admin: admin}))
	return c, st
}

func env(st *state.State, caller gravis.Address) *xenv.Environment {
	return xenv.New(st, &xenv.BlockContext{}, caller)
}

func TestMintAndTransfer(t *testing.T) {
	c, st := setup(t)

	assert.True(t, reverts.IsAuthorization(c.Mint(env(st, alice), alice, 1, big.NewInt(3))))
	require.NoError(t, c.Mint(env(st, admin), alice, 1, big.NewInt(3)))
	assert.EqualError(t, c.Deploy(&Meta{Admin: admin}), "collection already deployed")

	bal, err := c.BalanceOf(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), bal)

	bal, err = c.BalanceOf(alice, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())

	err = c.SafeTransferFrom(env(st, operator), alice, operator, 1, big.NewInt(1))
	assert.EqualError(t, err, "caller is not owner nor approved")

	e := env(st, alice)
	require.NoError(t, c.SetApprovalForAll(e, operator, true))
	ok, err := c.IsApprovedForAll(alice, operator)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.SafeTransferFrom(env(st, operator), alice, operator, 1, big.NewInt(2)))
	assert.EqualError(t, c.SafeTransferFrom(env(st, alice), alice, operator, 1, big.NewInt(2)), "insufficient balance for transfer")

	bal, _ = c.BalanceOf(operator, 1)
	assert.Equal(t, big.NewInt(2), bal)
	bal, _ = c.BalanceOf(alice, 1)
	assert.Equal(t, big.NewInt(1), bal)

	require.Len(t, e.Logs(), 1)
	assert.Equal(t, "ApprovalForAll", e.Logs()[0].Event.EventName())
}
