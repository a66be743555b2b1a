// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/cache"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB, *cache.LRU) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := cache.NewLRU(64)
	require.NoError(t, err)
	return New(db, c), db, c
}

func TestStateStorage(t *testing.T) {
	st, _, _ := newTestState(t)
	addr := gravis.BytesToAddress([]byte("contract"))
	key := gravis.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, key, gravis.BytesToBytes32([]byte{1, 2}))
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, gravis.BytesToBytes32([]byte{1, 2}), v)

	st.SetStorage(addr, key, gravis.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateEncodeDecode(t *testing.T) {
	st, _, _ := newTestState(t)
	addr := gravis.BytesToAddress([]byte("contract"))
	key := gravis.BytesToBytes32([]byte("list"))

	type pair struct {
		A uint64
		B string
	}
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&pair{7, "x"})
	}))

	var out pair
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &out)
	}))
	assert.Equal(t, pair{7, "x"}, out)

	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.False(t, h.IsZero())

	err = st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, errors.New("enc") })
	assert.EqualError(t, err, "state: enc")

	err = st.DecodeStorage(addr, key, func([]byte) error { return errors.New("dec") })
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
}

func TestStateCheckpoint(t *testing.T) {
	st, _, _ := newTestState(t)
	addr := gravis.BytesToAddress([]byte("contract"))
	key := gravis.BytesToBytes32([]byte("slot"))

	st.SetStorage(addr, key, gravis.BytesToBytes32([]byte{1}))
	rev := st.NewCheckpoint()
	st.SetStorage(addr, key, gravis.BytesToBytes32([]byte{2}))
	st.NewCheckpoint()
	st.SetStorage(addr, key, gravis.BytesToBytes32([]byte{3}))

	st.RevertTo(rev)
	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, gravis.BytesToBytes32([]byte{1}), v)
}

func TestStageCommit(t *testing.T) {
	st, db, c := newTestState(t)
	addr := gravis.BytesToAddress([]byte("contract"))
	k1 := gravis.BytesToBytes32([]byte("k1"))
	k2 := gravis.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, gravis.BytesToBytes32([]byte{1}))
	st.SetStorage(addr, k2, gravis.BytesToBytes32([]byte{2}))
	st.SetStorage(addr, k1, gravis.BytesToBytes32([]byte{3}))

	stage := st.Stage(gravis.Bytes32{})
	assert.Equal(t, 2, stage.Len())

	root, err := stage.Commit(db.NewBatch())
	require.NoError(t, err)
	assert.Equal(t, stage.Hash(), root)
	assert.NotEqual(t, st.Stage(gravis.Bytes32{1}).Hash(), root)

	// a fresh state over the same db sees the committed values
	st2 := New(db, c)
	v, err := st2.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, gravis.BytesToBytes32([]byte{3}), v)

	// deleting commits as a removal
	st2.SetStorage(addr, k2, gravis.Bytes32{})
	_, err = st2.Stage(root).Commit(db.NewBatch())
	require.NoError(t, err)

	st3 := New(db, nil)
	v, err = st3.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	has, err := StorageBucket.NewGetter(db).Has(storageKey{addr, k2}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStageHashDeterministic(t *testing.T) {
	a, _, _ := newTestState(t)
	b, _, _ := newTestState(t)
	addr := gravis.BytesToAddress([]byte("contract"))

	for i := byte(0); i < 5; i++ {
		a.SetStorage(addr, gravis.BytesToBytes32([]byte{i}), gravis.BytesToBytes32([]byte{i + 1}))
	}
	for i := byte(5); i > 0; i-- {
		b.SetStorage(addr, gravis.BytesToBytes32([]byte{i - 1}), gravis.BytesToBytes32([]byte{i}))
	}
	assert.Equal(t, a.Stage(gravis.Bytes32{}).Hash(), b.Stage(gravis.Bytes32{}).Hash())
}
