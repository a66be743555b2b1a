// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/gravis-finance/incentives/gravis"
)

// Array is an append-only dynamic array, similar to a storage array in Solidity.
// The length lives at the base position, element i at blake2b(i, base).
type Array[V any] struct {
	context *Context
	basePos gravis.Bytes32
	length  *Raw[uint64]
}

func NewArray[V any](context *Context, pos gravis.Bytes32) *Array[V] {
	return &Array[V]{
		context: context,
		basePos: pos,
		length:  NewRaw[uint64](context, pos),
	}
}

func (a *Array[V]) position(index uint64) gravis.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	return gravis.Blake2b(b[:], a.basePos.Bytes())
}

func (a *Array[V]) Len() (uint64, error) {
	return a.length.Get()
}

// Get returns the element at index. Indexes out of range decode to the zero value.
func (a *Array[V]) Get(index uint64) (V, error) {
	return decodeSlot[V](a.context, a.position(index))
}

// Set overwrites the element at an existing index.
func (a *Array[V]) Set(index uint64, value V) error {
	return encodeSlot(a.context, a.position(index), value)
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	if err := encodeSlot(a.context, a.position(n), value); err != nil {
		return 0, err
	}
	if err := a.length.Set(n + 1); err != nil {
		return 0, err
	}
	return n, nil
}

// All returns all elements in order.
func (a *Array[V]) All() ([]V, error) {
	n, err := a.length.Get()
	if err != nil {
		return nil, err
	}
	values := make([]V, 0, n)
	for i := range n {
		v, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
