// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/gravis-finance/incentives/cache"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/kv"
	"github.com/gravis-finance/incentives/stackedmap"
)

// StorageBucket is the kv bucket holding committed contract storage.
const StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.cause }

type storageKey struct {
	addr gravis.Address
	key  gravis.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, gravis.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages contract storage of all built-in contracts.
// Changes are journaled in memory and only reach the kv store via Stage.
type State struct {
	getter kv.Getter
	cache  *cache.LRU // cache of committed storage, may be nil
	sm     *stackedmap.StackedMap
}

// New create state object over committed storage in db.
// The cache is shared between states created over the same db and is kept coherent by Stage.Commit.
func New(db kv.Getter, c *cache.LRU) *State {
	s := &State{
		getter: StorageBucket.NewGetter(db),
		cache:  c,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	k, ok := key.(storageKey)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	if s.cache == nil {
		v, err := s.load(k)
		return v, true, err
	}
	v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
		return s.load(k)
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *State) load(k storageKey) (rlp.RawValue, error) {
	v, err := s.getter.Get(k.dbKey())
	if err != nil {
		if s.getter.IsNotFound(err) {
			return rlp.RawValue(nil), nil
		}
		return nil, err
	}
	return rlp.RawValue(v), nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr gravis.Address, key gravis.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. Empty raw deletes the slot.
func (s *State) SetRawStorage(addr gravis.Address, key gravis.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr gravis.Address, key gravis.Bytes32) (gravis.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return gravis.Bytes32{}, err
	}
	if len(raw) == 0 {
		return gravis.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return gravis.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return gravis.Blake2b(raw), nil
	}
	return gravis.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr gravis.Address, key, value gravis.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr gravis.Address, key gravis.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr gravis.Address, key gravis.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the journaled changes on top of the parent root.
// The returned stage is not affected by later changes to the state.
func (s *State) Stage(parentRoot gravis.Bytes32) *Stage {
	latest := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		latest[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})

	changes := make([]change, 0, len(latest))
	for k, v := range latest {
		changes = append(changes, change{k, v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].key.dbKey(), changes[j].key.dbKey()) < 0
	})
	return &Stage{parent: parentRoot, changes: changes, cache: s.cache}
}
