// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package speedtier computes the reward entitlement of a staking lineage: a stepped
// nominal phase capped by amount, followed by a bonus phase capped by amount and by an
// optional deadline.
package speedtier

import (
	"math/big"

	"github.com/pkg/errors"
)

const (
	// TierWidth is the length of one speed tier in seconds.
	TierWidth uint64 = 10 * 24 * 60 * 60
	// MaxTier is the last tier index; its speed applies until the nominal cap.
	MaxTier uint64 = 3
)

// Params configures the emission schedule of a pool. Speeds are in wei per second.
type Params struct {
	NominalSpeed    *big.Int
	SpeedMultiplier *big.Int
	NominalAmount   *big.Int
	StartBonus      *big.Int
	BonusSpeed      *big.Int
	BonusAmount     *big.Int
}

// Validate checks all fields are set and not negative.
func (p *Params) Validate() error {
	for _, f := range []struct {
		name  string
		value *big.Int
	}{
		{"nominal speed", p.NominalSpeed},
		{"speed multiplier", p.SpeedMultiplier},
		{"nominal amount", p.NominalAmount},
		{"start bonus", p.StartBonus},
		{"bonus speed", p.BonusSpeed},
		{"bonus amount", p.BonusAmount},
	} {
		if f.value == nil {
			return errors.Errorf("%s not set", f.name)
		}
		if f.value.Sign() < 0 {
			return errors.Errorf("negative %s", f.name)
		}
	}
	return nil
}

// Accrual is the cumulative entitlement of a lineage at some instant.
type Accrual struct {
	Nominal    *big.Int
	StartBonus *big.Int
	Bonus      *big.Int
	// BonusSeconds is the duration that accrued bonus, before the bonus amount cap.
	BonusSeconds uint64
}

// Total returns the sum of all parts.
func (a *Accrual) Total() *big.Int {
	total := new(big.Int).Add(a.Nominal, a.StartBonus)
	return total.Add(total, a.Bonus)
}

// speed returns the nominal speed of tier k.
func (p *Params) speed(k uint64) *big.Int {
	s := new(big.Int).Mul(p.SpeedMultiplier, new(big.Int).SetUint64(k))
	return s.Add(s, p.NominalSpeed)
}

// integral returns the uncapped nominal emission over the first elapsed seconds.
func (p *Params) integral(elapsed uint64) *big.Int {
	sum := new(big.Int)
	for k := uint64(0); k <= MaxTier; k++ {
		from := k * TierWidth
		if elapsed <= from {
			break
		}
		to := elapsed
		if k < MaxTier && to > from+TierWidth {
			to = from + TierWidth
		}
		seg := new(big.Int).SetUint64(to - from)
		sum.Add(sum, seg.Mul(seg, p.speed(k)))
	}
	return sum
}

// capTime returns the first second, counted from the start, at which the nominal
// emission reaches NominalAmount. ok is false if it never does.
func (p *Params) capTime() (t uint64, ok bool) {
	if p.NominalAmount.Sign() == 0 {
		return 0, true
	}
	remaining := new(big.Int).Set(p.NominalAmount)
	for k := uint64(0); k <= MaxTier; k++ {
		speed := p.speed(k)
		from := k * TierWidth
		if k < MaxTier {
			full := new(big.Int).Mul(speed, new(big.Int).SetUint64(TierWidth))
			if full.Cmp(remaining) < 0 {
				remaining.Sub(remaining, full)
				continue
			}
		}
		if speed.Sign() == 0 {
			return 0, false
		}
		// ceil(remaining / speed)
		secs := new(big.Int).Add(remaining, speed)
		secs.Sub(secs, big.NewInt(1))
		secs.Div(secs, speed)
		if !secs.IsUint64() {
			return 0, false
		}
		return from + secs.Uint64(), true
	}
	return 0, false
}

// Accrued returns the entitlement at now of a lineage started at start.
// A zero deadline means no deadline; otherwise no bonus accrues after it.
// The nominal phase is not affected by the deadline.
func (p *Params) Accrued(start, now, deadline uint64) *Accrual {
	a := &Accrual{
		Nominal:    new(big.Int),
		StartBonus: new(big.Int),
		Bonus:      new(big.Int),
	}
	if now <= start {
		return a
	}
	elapsed := now - start
	a.StartBonus.Set(p.StartBonus)

	capAt, capped := p.capTime()
	if !capped || capAt >= elapsed {
		a.Nominal = p.integral(elapsed)
		if a.Nominal.Cmp(p.NominalAmount) > 0 {
			a.Nominal.Set(p.NominalAmount)
		}
		return a
	}
	a.Nominal.Set(p.NominalAmount)

	bonusEnd := elapsed
	if deadline != 0 {
		if deadline <= start {
			return a
		}
		if dl := deadline - start; dl < bonusEnd {
			bonusEnd = dl
		}
	}
	if bonusEnd <= capAt {
		return a
	}
	a.BonusSeconds = bonusEnd - capAt
	a.Bonus.Mul(p.BonusSpeed, new(big.Int).SetUint64(a.BonusSeconds))
	if a.Bonus.Cmp(p.BonusAmount) > 0 {
		a.Bonus.Set(p.BonusAmount)
	}
	return a
}

// Pending returns the entitlement at now minus what was already claimed, never negative.
func (p *Params) Pending(start, now, deadline uint64, claimed *big.Int) *big.Int {
	pending := p.Accrued(start, now, deadline).Total()
	pending.Sub(pending, claimed)
	if pending.Sign() < 0 {
		return new(big.Int)
	}
	return pending
}
