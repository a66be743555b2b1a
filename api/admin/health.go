// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"time"

	"github.com/gravis-finance/incentives/solo"
)

// Chain is the view of the chain the health check needs.
type Chain interface {
	Head() *solo.Head
}

type Status struct {
	Healthy      bool       `json:"healthy"`
	Head         *solo.Head `json:"head"`
	HeadSealedAt time.Time  `json:"headSealedAt"`
}

// Health reports whether blocks are still being sealed.
type Health struct {
	chain  Chain
	maxLag time.Duration
	now    func() time.Time
}

// NewHealth returns a health check that fails once the head is older than maxLag.
func NewHealth(chain Chain, maxLag time.Duration) *Health {
	return &Health{chain: chain, maxLag: maxLag, now: time.Now}
}

func (h *Health) Status() *Status {
	head := h.chain.Head()
	sealedAt := time.Unix(int64(head.Time), 0)

	return &Status{
		Healthy:      h.now().Sub(sealedAt) <= h.maxLag,
		Head:         head,
		HeadSealedAt: sealedAt,
	}
}
