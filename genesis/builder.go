// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/runtime"
	"github.com/gravis-finance/incentives/state"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []*runtime.Call
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(to gravis.Address, method string, args any, caller gravis.Address) *Builder {
	b.calls = append(b.calls, &runtime.Call{
		Caller: caller,
		To:     to,
		Method: method,
		Args:   mustEncodeArgs(args),
	})
	return b
}

// Build runs the state processes and then the calls, as block 0 at the timestamp.
// Any reverted call fails the build.
func (b *Builder) Build(st *state.State) (events []*runtime.Event, err error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, 0, b.timestamp)
	for _, call := range b.calls {
		receipt, err := rt.Execute(call)
		if err != nil {
			return nil, err
		}
		if receipt.Reverted {
			return nil, errors.Errorf("genesis call %v.%v reverted: %v", call.To, call.Method, receipt.RevertReason)
		}
		events = append(events, receipt.Events...)
	}
	return events, nil
}

func mustEncodeArgs(args any) json.RawMessage {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return data
}
