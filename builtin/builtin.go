// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/gravis-finance/incentives/builtin/chef"
	"github.com/gravis-finance/incentives/builtin/collection"
	"github.com/gravis-finance/incentives/builtin/master"
	"github.com/gravis-finance/incentives/builtin/token"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/state"
)

// Builtin contracts binding.
var (
	RewardToken = &tokenContract{newContract("GravisToken")}
	Collection  = &collectionContract{newContract("GravisCollection")}
	Chef        = &chefContract{newContract("Chef")}
	Master      = &masterContract{newContract("Master")}
)

type contract struct {
	name    string
	Address gravis.Address
}

func newContract(name string) *contract {
	return &contract{name, gravis.BytesToAddress([]byte(name))}
}

func (c *contract) Name() string { return c.name }

type (
	tokenContract      struct{ *contract }
	collectionContract struct{ *contract }
	chefContract       struct{ *contract }
	masterContract     struct{ *contract }
)

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

func (c *collectionContract) WithState(state *state.State) *collection.Collection {
	return collection.New(c.Address, state)
}

func (c *chefContract) WithState(state *state.State) *chef.Chef {
	return chef.New(c.Address, state, func(addr gravis.Address) chef.Token {
		return token.New(addr, state)
	})
}

func (m *masterContract) WithState(state *state.State) *master.Master {
	return master.New(m.Address, state, master.Resolvers{
		Token: func(addr gravis.Address) master.Token {
			return token.New(addr, state)
		},
		Collection: func(addr gravis.Address) master.Collection {
			return collection.New(addr, state)
		},
	})
}

// TokenAt binds a token deployed at an arbitrary address, such as a farm deposit asset.
func TokenAt(addr gravis.Address, state *state.State) *token.Token {
	return token.New(addr, state)
}
