// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package master

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/speedtier"
	"github.com/gravis-finance/incentives/state"
)

// Chain is the view of the chain the staking pool API needs.
type Chain interface {
	utils.Submitter
	View(fn func(st *state.State, blockNumber uint32, blockTime uint64) error) error
}

type Master struct {
	chain Chain
}

func New(chain Chain) *Master {
	return &Master{chain}
}

func (m *Master) handleGetGlobals(w http.ResponseWriter, _ *http.Request) error {
	var globals *Globals
	err := m.chain.View(func(st *state.State, _ uint32, now uint64) error {
		staking := builtin.Master.WithState(st)
		cfg, err := staking.Config()
		if err != nil {
			return err
		}
		globals = &Globals{
			Address:           staking.Address(),
			Owner:             cfg.Owner,
			Token:             cfg.Token,
			TokenProvider:     cfg.TokenProvider,
			Collection:        cfg.Collection,
			ClaimAllowed:      cfg.ClaimAllowed,
			Paused:            cfg.Paused,
			BonusDeadlineTime: cfg.BonusDeadlineTime,
			DepositIDs:        cfg.DepositIDs,
			BlockTime:         now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, globals)
}

func (m *Master) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var pool *Pool
	err = m.chain.View(func(st *state.State, _ uint32, _ uint64) error {
		p, err := builtin.Master.WithState(st).Pool(pid)
		if err != nil {
			return err
		}
		pool = convertPool(pid, p)
		return nil
	})
	if err != nil {
		if reverts.IsValidation(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (m *Master) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	addr, err := utils.Address(req, "address")
	if err != nil {
		return err
	}
	var user *User
	err = m.chain.View(func(st *state.State, _ uint32, now uint64) error {
		staking := builtin.Master.WithState(st)
		cfg, err := staking.Config()
		if err != nil {
			return err
		}
		pool, err := staking.Pool(pid)
		if err != nil {
			return err
		}
		u, err := staking.UserPool(pid, addr)
		if err != nil {
			return err
		}
		pending, err := staking.PoolUserRewards(pid, addr, now)
		if err != nil {
			return err
		}
		deposits, err := staking.DepositsByUser(pid, addr)
		if err != nil {
			return err
		}
		accrual := &speedtier.Accrual{}
		if u.Deposits > 0 {
			accrual = pool.Params().Accrued(u.StartTime, now, cfg.BonusDeadlineTime)
		}
		user = &User{
			PoolID:         pid,
			Address:        addr,
			StartTime:      u.StartTime,
			LastCheckpoint: u.LastCheckpoint,
			Claimed:        hex(u.Claimed),
			Pending:        hex(pending),
			Accrual:        convertAccrual(accrual),
			Deposits:       convertDeposits(deposits),
			BlockTime:      now,
		}
		return nil
	})
	if err != nil {
		if reverts.IsValidation(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, user)
}

func (m *Master) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("master_get_globals").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetGlobals))
	sub.Path("/pools/{id}").
		Methods(http.MethodGet).
		Name("master_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetPool))
	sub.Path("/pools/{id}/users/{address}").
		Methods(http.MethodGet).
		Name("master_get_user").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetUser))
	sub.Path("/calls").
		Methods(http.MethodPost).
		Name("master_post_calls").
		HandlerFunc(utils.WrapHandlerFunc(utils.HandleCalls(m.chain, builtin.Master.Address)))
}
