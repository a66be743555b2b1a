// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/gravis-finance/incentives/gravis"
)

type EventTransfer struct {
	From  gravis.Address `json:"from"`
	To    gravis.Address `json:"to"`
	Value *big.Int       `json:"value"`
}

func (*EventTransfer) EventName() string { return "Transfer" }

type EventApproval struct {
	Owner   gravis.Address `json:"owner"`
	Spender gravis.Address `json:"spender"`
	Value   *big.Int       `json:"value"`
}

func (*EventApproval) EventName() string { return "Approval" }
