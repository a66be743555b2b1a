// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/gravis-finance/incentives/metrics"

var (
	metricCallCount    = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"method", "outcome"})
	metricCallDuration = metrics.LazyLoadHistogram("runtime_call_duration_ms", metrics.BucketCalls)
)
