// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gravis

import "math/big"

// Constants shared by the reward ledgers.
const (
	FeeBase = 10000 // basis points denominator of withdrawal fees

	StakingPoolID = 0 // the farm pool that holds the reward token itself

	DefaultStakingAllocPoint = 1000
)

var (
	// AccRewardPrecision scales the farm's reward-per-share accumulator.
	AccRewardPrecision = big.NewInt(1e12)

	// Ether is 1 token with 18 decimals.
	Ether = big.NewInt(1e18)
)

// Tokens returns n whole tokens in the smallest unit.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}

// ZeroAddress is the address with all zero bytes.
var ZeroAddress = Address{}
