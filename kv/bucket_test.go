// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/kv"
	"github.com/gravis-finance/incentives/lvldb"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b1 := kv.Bucket("a")
	b2 := kv.Bucket("b")

	require.NoError(t, b1.NewPutter(db).Put([]byte("k"), []byte("v1")))
	require.NoError(t, b2.NewPutter(db).Put([]byte("k"), []byte("v2")))

	v, err := b1.NewGetter(db).Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	v, err = db.Get([]byte("bk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	has, err := b2.NewGetter(db).Has([]byte("x"))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = b2.NewGetter(db).Get([]byte("x"))
	assert.True(t, b2.NewGetter(db).IsNotFound(err))

	require.NoError(t, b1.NewPutter(db).Delete([]byte("k")))
	has, err = db.Has([]byte("ak"))
	require.NoError(t, err)
	assert.False(t, has)

	it := db.Iterate(b2.Range())
	defer it.Release()
	n := 0
	for it.Next() {
		n++
		assert.Equal(t, []byte("bk"), it.Key())
	}
	assert.Equal(t, 1, n)
}
