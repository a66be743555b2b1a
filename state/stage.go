// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/gravis-finance/incentives/cache"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/kv"
)

type change struct {
	key   storageKey
	value rlp.RawValue
}

// Stage abstracts changes of a state ready to be committed.
type Stage struct {
	parent  gravis.Bytes32
	changes []change
	cache   *cache.LRU
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the root of the staged state, chaining the parent root with the
// ordered changes.
func (s *Stage) Hash() gravis.Bytes32 {
	data := make([][]byte, 0, len(s.changes)*2+1)
	data = append(data, s.parent.Bytes())
	for _, c := range s.changes {
		data = append(data, c.key.dbKey(), c.value)
	}
	return gravis.Blake2b(data...)
}

// Commit writes the changes into the batch and returns the new root.
// Shared cache entries are refreshed once the batch is written.
func (s *Stage) Commit(batch kv.Batch) (gravis.Bytes32, error) {
	putter := StorageBucket.NewPutter(batch)
	for _, c := range s.changes {
		var err error
		if len(c.value) == 0 {
			err = putter.Delete(c.key.dbKey())
		} else {
			err = putter.Put(c.key.dbKey(), c.value)
		}
		if err != nil {
			return gravis.Bytes32{}, &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return gravis.Bytes32{}, &Error{err}
	}
	if s.cache != nil {
		for _, c := range s.changes {
			s.cache.Add(c.key, c.value)
		}
	}
	metricStorageCommits().Add(int64(len(s.changes)))
	return s.Hash(), nil
}
