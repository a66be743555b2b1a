// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/gravis-finance/incentives/gravis"

// Address is a storage slot holding an address.
type Address struct {
	context *Context
	pos     gravis.Bytes32
}

func NewAddress(context *Context, pos gravis.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (gravis.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return gravis.Address{}, err
	}
	return gravis.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr gravis.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, gravis.BytesToBytes32(addr.Bytes()))
}
