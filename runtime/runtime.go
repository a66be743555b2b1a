// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// Call is a request to run a method of a built-in contract.
type Call struct {
	Caller gravis.Address  `json:"caller"`
	To     gravis.Address  `json:"to"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Event is an event emitted during a call.
type Event struct {
	Address gravis.Address `json:"address"`
	Name    string         `json:"name"`
	Data    xenv.Event     `json:"data"`
}

// Receipt is the outcome of a call.
type Receipt struct {
	BlockNumber  uint32       `json:"blockNumber"`
	BlockTime    uint64       `json:"blockTime"`
	Reverted     bool         `json:"reverted"`
	RevertKind   reverts.Kind `json:"revertKind,omitempty"`
	RevertReason string       `json:"revertReason,omitempty"`
	Output       any          `json:"output,omitempty"`
	Events       []*Event     `json:"events"`
}

// Runtime executes calls against a state within one block context.
type Runtime struct {
	state    *state.State
	blockCtx *xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state:    state,
		blockCtx: &xenv.BlockContext{Number: blockNumber, Time: blockTime},
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockCtx.Number }
func (rt *Runtime) BlockTime() uint64   { return rt.blockCtx.Time }

// Execute runs call atomically: either all of its state changes apply or none.
// A failed call with a revert error yields a reverted receipt; other errors are returned.
func (rt *Runtime) Execute(call *Call) (*Receipt, error) {
	start := time.Now()
	checkpoint := rt.state.NewCheckpoint()
	env := xenv.New(rt.state, rt.blockCtx, call.Caller)

	output, err := builtin.Call(env, call.To, call.Method, call.Args)

	receipt := &Receipt{
		BlockNumber: rt.blockCtx.Number,
		BlockTime:   rt.blockCtx.Time,
		Events:      []*Event{},
	}
	outcome := "success"
	defer func() {
		metricCallCount().AddWithLabel(1, map[string]string{"method": call.Method, "outcome": outcome})
		metricCallDuration().Observe(time.Since(start).Milliseconds())
	}()

	if err != nil {
		rt.state.RevertTo(checkpoint)
		var revert *reverts.Error
		if !errors.As(err, &revert) {
			outcome = "error"
			logger.Warn("call failed", "to", call.To, "method", call.Method, "err", err)
			return nil, errors.WithMessage(err, "execute "+call.Method)
		}
		outcome = "reverted"
		receipt.Reverted = true
		receipt.RevertKind = revert.Kind()
		receipt.RevertReason = revert.Error()
		logger.Debug("call reverted", "to", call.To, "method", call.Method, "caller", call.Caller, "reason", revert.Error())
		return receipt, nil
	}

	receipt.Output = output
	for _, l := range env.Logs() {
		receipt.Events = append(receipt.Events, &Event{Address: l.Address, Name: l.Event.EventName(), Data: l.Event})
	}
	logger.Debug("call executed", "to", call.To, "method", call.Method, "caller", call.Caller, "events", len(receipt.Events))
	return receipt, nil
}
