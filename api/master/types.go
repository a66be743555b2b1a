// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package master

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/gravis-finance/incentives/builtin/master"
	"github.com/gravis-finance/incentives/builtin/speedtier"
	"github.com/gravis-finance/incentives/gravis"
)

// Globals are the settings and flags of the staking pool.
type Globals struct {
	Address           gravis.Address `json:"address"`
	Owner             gravis.Address `json:"owner"`
	Token             gravis.Address `json:"token"`
	TokenProvider     gravis.Address `json:"tokenProvider"`
	Collection        gravis.Address `json:"collection"`
	ClaimAllowed      bool           `json:"claimAllowed"`
	Paused            bool           `json:"paused"`
	BonusDeadlineTime uint64         `json:"bonusDeadlineTime"`
	DepositIDs        uint64         `json:"depositIds"`
	BlockTime         uint64         `json:"blockTime"`
}

// Pool is the schedule of a pool.
type Pool struct {
	ID              uint64                `json:"id"`
	Name            string                `json:"name"`
	NominalSpeed    *math.HexOrDecimal256 `json:"nominalSpeed"`
	SpeedMultiplier *math.HexOrDecimal256 `json:"speedMultiplier"`
	NominalAmount   *math.HexOrDecimal256 `json:"nominalAmount"`
	StartBonus      *math.HexOrDecimal256 `json:"startBonus"`
	BonusSpeed      *math.HexOrDecimal256 `json:"bonusSpeed"`
	BonusAmount     *math.HexOrDecimal256 `json:"bonusAmount"`
}

// Accrual splits the entitlement of a lineage.
type Accrual struct {
	Nominal      *math.HexOrDecimal256 `json:"nominal"`
	StartBonus   *math.HexOrDecimal256 `json:"startBonus"`
	Bonus        *math.HexOrDecimal256 `json:"bonus"`
	BonusSeconds uint64                `json:"bonusSeconds"`
}

// Deposit is one deposit of a lineage.
type Deposit struct {
	ID        uint64                `json:"id"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Timestamp uint64                `json:"timestamp"`
}

// User is the lineage of a user in a pool, evaluated at the pending block time.
type User struct {
	PoolID         uint64                `json:"poolId"`
	Address        gravis.Address        `json:"address"`
	StartTime      uint64                `json:"startTime"`
	LastCheckpoint uint64                `json:"lastCheckpoint"`
	Claimed        *math.HexOrDecimal256 `json:"claimed"`
	Pending        *math.HexOrDecimal256 `json:"pending"`
	Accrual        *Accrual              `json:"accrual"`
	Deposits       []*Deposit            `json:"deposits"`
	BlockTime      uint64                `json:"blockTime"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertPool(pid uint64, p *master.StakePool) *Pool {
	return &Pool{
		ID:              pid,
		Name:            p.Name,
		NominalSpeed:    hex(p.NominalSpeed),
		SpeedMultiplier: hex(p.SpeedMultiplier),
		NominalAmount:   hex(p.NominalAmount),
		StartBonus:      hex(p.StartBonus),
		BonusSpeed:      hex(p.BonusSpeed),
		BonusAmount:     hex(p.BonusAmount),
	}
}

func convertAccrual(a *speedtier.Accrual) *Accrual {
	return &Accrual{
		Nominal:      hex(a.Nominal),
		StartBonus:   hex(a.StartBonus),
		Bonus:        hex(a.Bonus),
		BonusSeconds: a.BonusSeconds,
	}
}

func convertDeposits(deposits []*master.Deposit) []*Deposit {
	out := make([]*Deposit, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, &Deposit{ID: d.ID, Amount: hex(d.Amount), Timestamp: d.Timestamp})
	}
	return out
}
