// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package master

import (
	"math/big"

	"github.com/gravis-finance/incentives/gravis"
)

type EventDeposit struct {
	User   gravis.Address `json:"user"`
	PoolID uint64         `json:"poolId"`
	Amount *big.Int       `json:"amount"`
}

type EventClaim struct {
	User   gravis.Address `json:"user"`
	PoolID uint64         `json:"poolId"`
	Amount *big.Int       `json:"amount"`
}

type EventPaused struct {
	Admin gravis.Address `json:"admin"`
}

type EventUnpaused struct {
	Admin gravis.Address `json:"admin"`
}

func (*EventDeposit) EventName() string  { return "Deposit" }
func (*EventClaim) EventName() string    { return "Claim" }
func (*EventPaused) EventName() string   { return "Paused" }
func (*EventUnpaused) EventName() string { return "Unpaused" }
