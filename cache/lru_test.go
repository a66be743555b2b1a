// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(int) * 10, nil
	}

	v, err := c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad(2, func(any) (any, error) { return nil, errors.New("load failed") })
	assert.EqualError(t, err, "load failed")
	assert.False(t, c.Contains(2))

	hit, miss := c.Stats().Counts()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)
	assert.InDelta(t, 1.0/3, c.Stats().HitRate(), 1e-9)
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.Equal(t, 2, c.Len())
}

func TestStatsEmpty(t *testing.T) {
	var s Stats
	assert.Equal(t, float64(0), s.HitRate())
}
