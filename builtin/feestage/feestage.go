// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feestage resolves the withdrawal fee of a farm position from the blocks
// elapsed since its reference deposit.
package feestage

import (
	"math/big"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
)

var (
	errBpsMismatch       = reverts.Validation("fee stage array mismatch")
	errThresholdMismatch = reverts.Validation("block delta fee stage array mismatch")
	errEmpty             = reverts.Validation("empty fee stage")
	errBpsTooHigh        = reverts.Validation("fee stage exceeds fee base")
	errNotIncreasing     = reverts.Validation("block delta fee stage not increasing")
)

// Stage is one tier of the schedule: from Threshold elapsed blocks on, the fee is Bps.
type Stage struct {
	Threshold uint64
	Bps       uint64
}

// Schedule is the ordered tier table. Its cardinality is fixed once created.
type Schedule []Stage

// New creates a schedule from paired fee and threshold columns.
func New(bps []uint64, thresholds []uint64) (Schedule, error) {
	if len(bps) == 0 {
		return nil, errEmpty
	}
	if len(bps) != len(thresholds) {
		return nil, errBpsMismatch
	}
	s := make(Schedule, len(bps))
	for i := range bps {
		s[i] = Stage{Threshold: thresholds[i], Bps: bps[i]}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s Schedule) validate() error {
	for i, stage := range s {
		if stage.Bps > gravis.FeeBase {
			return errBpsTooHigh
		}
		if i > 0 && stage.Threshold <= s[i-1].Threshold {
			return errNotIncreasing
		}
	}
	return nil
}

// WithBps returns a copy with the fee column replaced.
func (s Schedule) WithBps(bps []uint64) (Schedule, error) {
	if len(bps) != len(s) {
		return nil, errBpsMismatch
	}
	n := make(Schedule, len(s))
	for i := range s {
		n[i] = Stage{Threshold: s[i].Threshold, Bps: bps[i]}
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// WithThresholds returns a copy with the threshold column replaced.
func (s Schedule) WithThresholds(thresholds []uint64) (Schedule, error) {
	if len(thresholds) != len(s) {
		return nil, errThresholdMismatch
	}
	n := make(Schedule, len(s))
	for i := range s {
		n[i] = Stage{Threshold: thresholds[i], Bps: s[i].Bps}
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Bps returns the fee column.
func (s Schedule) Bps() []uint64 {
	out := make([]uint64, len(s))
	for i, stage := range s {
		out[i] = stage.Bps
	}
	return out
}

// Thresholds returns the threshold column.
func (s Schedule) Thresholds() []uint64 {
	out := make([]uint64, len(s))
	for i, stage := range s {
		out[i] = stage.Threshold
	}
	return out
}

// Rate returns the fee in basis points for a withdrawal at block current of a position
// whose reference deposit happened at block reference.
// Past the last threshold the fee is 0. Before the first threshold the first tier applies.
func (s Schedule) Rate(reference, current uint64) uint64 {
	if len(s) == 0 {
		return 0
	}
	var elapsed uint64
	if current > reference {
		elapsed = current - reference
	}
	if elapsed > s[len(s)-1].Threshold {
		return 0
	}
	i := 0
	for j := len(s) - 1; j > 0; j-- {
		if elapsed >= s[j].Threshold {
			i = j
			break
		}
	}
	return s[i].Bps
}

// Fee splits amount into the fee charged at bps and the net remainder.
func Fee(amount *big.Int, bps uint64) (fee, net *big.Int) {
	fee = new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	fee.Div(fee, big.NewInt(gravis.FeeBase))
	return fee, new(big.Int).Sub(amount, fee)
}
