// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/gravis-finance/incentives/gravis"

// Raw is a single storage slot holding an rlp encoded value.
type Raw[V any] struct {
	context *Context
	pos     gravis.Bytes32
}

func NewRaw[V any](context *Context, pos gravis.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (V, error) {
	return decodeSlot[V](r.context, r.pos)
}

func (r *Raw[V]) Set(value V) error {
	return encodeSlot(r.context, r.pos, value)
}
