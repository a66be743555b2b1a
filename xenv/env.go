// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/state"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Event is a typed event emitted by a built-in contract.
type Event interface {
	EventName() string
}

// Log is an event together with the address of its emitter.
type Log struct {
	Address gravis.Address
	Event   Event
}

// Environment an env to execute a built-in contract call.
// Nested calls share the state, block context and log buffer of their parent.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	caller   gravis.Address
	logs     *[]*Log
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, caller gravis.Address) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		caller:   caller,
		logs:     new([]*Log),
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Caller() gravis.Address      { return env.caller }

// Call returns the env of a nested call issued by the contract at addr.
func (env *Environment) Call(addr gravis.Address) *Environment {
	return &Environment{
		state:    env.state,
		blockCtx: env.blockCtx,
		caller:   addr,
		logs:     env.logs,
	}
}

// Log emits an event from address.
func (env *Environment) Log(address gravis.Address, event Event) {
	*env.logs = append(*env.logs, &Log{Address: address, Event: event})
}

// Logs returns emitted logs in emission order.
func (env *Environment) Logs() []*Log {
	return *env.logs
}
