// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/state"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  gravis.Address
	Bytes1 gravis.Bytes32
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(gravis.Address{1}, state.New(db, nil))
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[gravis.Address, *TestStruct](ctx, gravis.Bytes32{1})
	key := gravis.BytesToAddress([]byte("user"))

	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)

	exists, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	in := &TestStruct{Field1: 5, Amount: big.NewInt(123), Addr1: key, Bytes1: gravis.Bytes32{9}}
	require.NoError(t, m.Set(key, in))

	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, in, v)

	exists, err = m.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	m.Clear(key)
	exists, err = m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMappingSeparatesBasePositions(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[gravis.Bytes32, uint64](ctx, gravis.Bytes32{1})
	b := NewMapping[gravis.Bytes32, uint64](ctx, gravis.Bytes32{2})

	require.NoError(t, a.Set(gravis.Bytes32{7}, 1))
	require.NoError(t, b.Set(gravis.Bytes32{7}, 2))

	va, err := a.Get(gravis.Bytes32{7})
	require.NoError(t, err)
	vb, err := b.Get(gravis.Bytes32{7})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestRawAndAddress(t *testing.T) {
	ctx := newTestContext(t)

	flag := NewRaw[bool](ctx, gravis.BytesToBytes32([]byte("flag")))
	v, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, v)
	require.NoError(t, flag.Set(true))
	v, err = flag.Get()
	require.NoError(t, err)
	assert.True(t, v)

	owner := NewAddress(ctx, gravis.BytesToBytes32([]byte("owner")))
	addr, err := owner.Get()
	require.NoError(t, err)
	assert.True(t, addr.IsZero())

	owner.Set(gravis.BytesToAddress([]byte("admin")))
	addr, err = owner.Get()
	require.NoError(t, err)
	assert.Equal(t, gravis.BytesToAddress([]byte("admin")), addr)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, gravis.BytesToBytes32([]byte("supply")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(30)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), v)

	u.Set(MaxUint256)
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, MaxUint256, v)

	assert.Panics(t, func() { u.Set(new(big.Int).Add(MaxUint256, big.NewInt(1))) })
	assert.Panics(t, func() { u.Set(big.NewInt(-1)) })
}

func TestArray(t *testing.T) {
	ctx := newTestContext(t)
	arr := NewArray[*TestStruct](ctx, gravis.Bytes32{3})

	n, err := arr.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	for i := range uint64(3) {
		idx, err := arr.Push(&TestStruct{Field1: i, Amount: big.NewInt(int64(i))})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	require.NoError(t, arr.Set(1, &TestStruct{Field1: 10, Amount: big.NewInt(10)}))

	all, err := arr.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(0), all[0].Field1)
	assert.Equal(t, uint64(10), all[1].Field1)
	assert.Equal(t, uint64(2), all[2].Field1)

	missing, err := arr.Get(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), missing.Field1)
}
