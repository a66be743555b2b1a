// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"math/big"

	"github.com/gravis-finance/incentives/gravis"
)

type EventPoolAdd struct {
	Asset  gravis.Address `json:"asset"`
	PoolID uint64         `json:"poolId"`
}

type EventPoolUpdate struct {
	PoolID     uint64 `json:"poolId"`
	AllocPoint uint64 `json:"allocPoint"`
}

type EventPoolLockUpdate struct {
	PoolID     uint64 `json:"poolId"`
	LockBlocks uint32 `json:"lockBlocks"`
}

type EventPoolRemoved struct {
	PoolID uint64 `json:"poolId"`
}

type EventDeposit struct {
	User   gravis.Address `json:"user"`
	PoolID uint64         `json:"poolId"`
	Amount *big.Int       `json:"amount"`
}

// EventWithdraw carries the requested principal, before the withdrawal fee.
type EventWithdraw struct {
	User   gravis.Address `json:"user"`
	PoolID uint64         `json:"poolId"`
	Amount *big.Int       `json:"amount"`
}

// EventEmergencyWithdraw carries the amount paid out, after the withdrawal fee.
type EventEmergencyWithdraw struct {
	User   gravis.Address `json:"user"`
	PoolID uint64         `json:"poolId"`
	Amount *big.Int       `json:"amount"`
}

func (*EventPoolAdd) EventName() string           { return "PoolAdd" }
func (*EventPoolUpdate) EventName() string        { return "PoolUpdate" }
func (*EventPoolLockUpdate) EventName() string    { return "PoolLockUpdate" }
func (*EventPoolRemoved) EventName() string       { return "PoolRemoved" }
func (*EventDeposit) EventName() string           { return "Deposit" }
func (*EventWithdraw) EventName() string          { return "Withdraw" }
func (*EventEmergencyWithdraw) EventName() string { return "EmergencyWithdraw" }
