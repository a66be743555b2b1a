// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/state"
)

// Chain is the view of the chain the farm API needs.
type Chain interface {
	utils.Submitter
	View(fn func(st *state.State, blockNumber uint32, blockTime uint64) error) error
}

type Chef struct {
	chain Chain
}

func New(chain Chain) *Chef {
	return &Chef{chain}
}

func (c *Chef) handleGetGlobals(w http.ResponseWriter, _ *http.Request) error {
	var globals *Globals
	err := c.chain.View(func(st *state.State, number uint32, _ uint64) error {
		farm := builtin.Chef.WithState(st)
		cfg, err := farm.Config()
		if err != nil {
			return err
		}
		schedule, err := farm.FeeSchedule()
		if err != nil {
			return err
		}
		n, err := farm.PoolLength()
		if err != nil {
			return err
		}
		globals = &Globals{
			Address:         farm.Address(),
			Owner:           cfg.Owner,
			RewardToken:     cfg.RewardToken,
			FeeRecipient:    cfg.FeeRecipient,
			TokenPerBlock:   hex(cfg.TokenPerBlock),
			BonusMultiplier: cfg.BonusMultiplier,
			StartBlock:      cfg.StartBlock,
			TotalAllocPoint: cfg.TotalAllocPoint,
			PoolLength:      n,
			FeeBps:          schedule.Bps(),
			FeeBlocks:       schedule.Thresholds(),
			BlockNumber:     number,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, globals)
}

func (c *Chef) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools := []*Pool{}
	err := c.chain.View(func(st *state.State, _ uint32, _ uint64) error {
		farm := builtin.Chef.WithState(st)
		ids, err := farm.PoolIDs()
		if err != nil {
			return err
		}
		for _, pid := range ids {
			pool, err := farm.Pool(pid)
			if err != nil {
				return err
			}
			pools = append(pools, convertPool(pid, pool))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools)
}

func (c *Chef) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var pool *Pool
	err = c.chain.View(func(st *state.State, _ uint32, _ uint64) error {
		p, err := builtin.Chef.WithState(st).Pool(pid)
		if err != nil {
			return err
		}
		pool = convertPool(pid, p)
		return nil
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (c *Chef) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	addr, err := utils.Address(req, "address")
	if err != nil {
		return err
	}
	var user *User
	err = c.chain.View(func(st *state.State, number uint32, _ uint64) error {
		farm := builtin.Chef.WithState(st)
		if _, err := farm.Pool(pid); err != nil {
			return err
		}
		u, err := farm.UserInfo(pid, addr)
		if err != nil {
			return err
		}
		pending, err := farm.PendingRewards(pid, addr, number)
		if err != nil {
			return err
		}
		bps, err := farm.WithdrawalFee(pid, addr, number)
		if err != nil {
			return err
		}
		user = &User{
			PoolID:           pid,
			Address:          addr,
			Amount:           hex(u.Amount),
			RewardDebt:       hex(u.RewardDebt),
			UnlockBlock:      u.UnlockBlock,
			LastDepositBlock: u.LastDepositBlock,
			Pending:          hex(pending),
			FeeBps:           bps,
			BlockNumber:      number,
		}
		return nil
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, user)
}

func (c *Chef) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("chef_get_globals").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetGlobals))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("chef_get_pools").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPools))
	sub.Path("/pools/{id}").
		Methods(http.MethodGet).
		Name("chef_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPool))
	sub.Path("/pools/{id}/users/{address}").
		Methods(http.MethodGet).
		Name("chef_get_user").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetUser))
	sub.Path("/calls").
		Methods(http.MethodPost).
		Name("chef_post_calls").
		HandlerFunc(utils.WrapHandlerFunc(utils.HandleCalls(c.chain, builtin.Chef.Address)))
}
