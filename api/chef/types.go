// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/gravis-finance/incentives/builtin/chef"
	"github.com/gravis-finance/incentives/gravis"
)

// Globals are the farm wide settings.
type Globals struct {
	Address         gravis.Address        `json:"address"`
	Owner           gravis.Address        `json:"owner"`
	RewardToken     gravis.Address        `json:"rewardToken"`
	FeeRecipient    gravis.Address        `json:"feeRecipient"`
	TokenPerBlock   *math.HexOrDecimal256 `json:"tokenPerBlock"`
	BonusMultiplier uint64                `json:"bonusMultiplier"`
	StartBlock      uint32                `json:"startBlock"`
	TotalAllocPoint uint64                `json:"totalAllocPoint"`
	PoolLength      uint64                `json:"poolLength"`
	FeeBps          []uint64              `json:"feeBps"`
	FeeBlocks       []uint64              `json:"feeBlocks"`
	BlockNumber     uint32                `json:"blockNumber"`
}

// Pool is a live reward pool.
type Pool struct {
	ID                uint64                `json:"id"`
	Asset             gravis.Address        `json:"asset"`
	AllocPoint        uint64                `json:"allocPoint"`
	LastRewardBlock   uint32                `json:"lastRewardBlock"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	LockBlocks        uint32                `json:"lockBlocks"`
	TotalDeposited    *math.HexOrDecimal256 `json:"totalDeposited"`
}

// User is the position of a user, evaluated at the pending block.
type User struct {
	PoolID           uint64                `json:"poolId"`
	Address          gravis.Address        `json:"address"`
	Amount           *math.HexOrDecimal256 `json:"amount"`
	RewardDebt       *math.HexOrDecimal256 `json:"rewardDebt"`
	UnlockBlock      uint32                `json:"unlockBlock"`
	LastDepositBlock uint32                `json:"lastDepositBlock"`
	Pending          *math.HexOrDecimal256 `json:"pending"`
	FeeBps           uint64                `json:"feeBps"`
	BlockNumber      uint32                `json:"blockNumber"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertPool(pid uint64, p *chef.Pool) *Pool {
	return &Pool{
		ID:                pid,
		Asset:             p.Asset,
		AllocPoint:        p.AllocPoint,
		LastRewardBlock:   p.LastRewardBlock,
		AccRewardPerShare: hex(p.AccRewardPerShare),
		LockBlocks:        p.LockBlocks,
		TotalDeposited:    hex(p.TotalDeposited),
	}
}
