// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import "github.com/gravis-finance/incentives/metrics"

var (
	metricHeadNumber  = metrics.LazyLoadGauge("solo_head_number")
	metricSealedCalls = metrics.LazyLoadCounter("solo_sealed_calls_count")
)
