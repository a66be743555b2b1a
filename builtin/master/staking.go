// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package master

import (
	"math/big"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/xenv"
)

// Deposit stakes amount collection tokens of id pid. Pending reward of the lineage is
// settled first when claiming is allowed and the provider can cover it.
func (m *Master) Deposit(env *xenv.Environment, pid uint64, amount *big.Int) error {
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	if cfg.Paused {
		return errPaused
	}
	if pid >= PoolCount {
		return errInvalidPool
	}
	if amount.Sign() <= 0 {
		return errZeroAmount
	}
	pool, err := m.pools.Get(pid)
	if err != nil {
		return err
	}

	caller := env.Caller()
	now := env.BlockContext().Time
	key := userKey{pid, caller}
	u, err := m.UserPool(pid, caller)
	if err != nil {
		return err
	}

	settle := new(big.Int)
	if u.Deposits == 0 {
		u.StartTime = now
	} else if cfg.ClaimAllowed {
		reward := pendingOf(cfg, pool, u, now)
		if reward.Sign() > 0 {
			covered, err := m.providerCovers(cfg, reward)
			if err != nil {
				return err
			}
			if covered {
				settle = reward
				u.Claimed.Add(u.Claimed, reward)
			}
		}
	}
	if _, err := m.deposits(key).Push(&Deposit{ID: cfg.DepositIDs, Amount: new(big.Int).Set(amount), Timestamp: now}); err != nil {
		return err
	}
	u.Deposits++
	u.LastCheckpoint = now
	if err := m.users.Set(key, u); err != nil {
		return err
	}
	cfg.DepositIDs++
	if err := m.config.Set(cfg); err != nil {
		return err
	}

	if err := m.resolvers.Collection(cfg.Collection).SafeTransferFrom(env.Call(m.addr), caller, m.addr, pid, amount); err != nil {
		return err
	}
	if settle.Sign() > 0 {
		if err := m.pay(env, cfg, caller, settle); err != nil {
			return err
		}
		env.Log(m.addr, &EventClaim{User: caller, PoolID: pid, Amount: settle})
	}
	logger.Debug("deposit", "pool", pid, "user", caller, "amount", amount, "settled", settle)
	env.Log(m.addr, &EventDeposit{User: caller, PoolID: pid, Amount: amount})
	return nil
}

// ClaimRewards pays the caller's pending reward of pool pid from the token provider.
func (m *Master) ClaimRewards(env *xenv.Environment, pid uint64) error {
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	if cfg.Paused {
		return errPaused
	}
	if !cfg.ClaimAllowed {
		return errClaimNotAllowed
	}
	if pid >= PoolCount {
		return errInvalidPool
	}
	pool, err := m.pools.Get(pid)
	if err != nil {
		return err
	}

	caller := env.Caller()
	now := env.BlockContext().Time
	u, err := m.UserPool(pid, caller)
	if err != nil {
		return err
	}
	if u.Deposits == 0 {
		return errNoDeposits
	}
	reward := pendingOf(cfg, pool, u, now)
	if reward.Sign() == 0 {
		return errZeroRewards
	}
	covered, err := m.providerCovers(cfg, reward)
	if err != nil {
		return err
	}
	if !covered {
		return errNotEnoughTokens
	}

	u.Claimed.Add(u.Claimed, reward)
	u.LastCheckpoint = now
	if err := m.users.Set(userKey{pid, caller}, u); err != nil {
		return err
	}
	if err := m.pay(env, cfg, caller, reward); err != nil {
		return err
	}
	logger.Debug("claim", "pool", pid, "user", caller, "amount", reward)
	env.Log(m.addr, &EventClaim{User: caller, PoolID: pid, Amount: reward})
	return nil
}

func (m *Master) providerCovers(cfg *Config, amount *big.Int) (bool, error) {
	balance, err := m.resolvers.Token(cfg.Token).BalanceOf(cfg.TokenProvider)
	if err != nil {
		return false, err
	}
	return balance.Cmp(amount) >= 0, nil
}

// pay moves amount from the provider to to, spending the provider's allowance.
func (m *Master) pay(env *xenv.Environment, cfg *Config, to gravis.Address, amount *big.Int) error {
	return m.resolvers.Token(cfg.Token).TransferFrom(env.Call(m.addr), cfg.TokenProvider, to, amount)
}

func (m *Master) onlyOwner(env *xenv.Environment) (*Config, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	if env.Caller() != cfg.Owner {
		return nil, reverts.Unauthorized()
	}
	return cfg, nil
}

// AllowClaim enables claiming. It cannot be undone.
func (m *Master) AllowClaim(env *xenv.Environment) error {
	cfg, err := m.onlyOwner(env)
	if err != nil {
		return err
	}
	if cfg.ClaimAllowed {
		return nil
	}
	cfg.ClaimAllowed = true
	logger.Info("claim allowed")
	return m.config.Set(cfg)
}

// SetBonusDeadlineTime ends the bonus phase of every lineage at the current time.
// Once set the deadline does not move.
func (m *Master) SetBonusDeadlineTime(env *xenv.Environment) error {
	cfg, err := m.onlyOwner(env)
	if err != nil {
		return err
	}
	if cfg.BonusDeadlineTime != 0 {
		return nil
	}
	cfg.BonusDeadlineTime = env.BlockContext().Time
	logger.Info("bonus deadline set", "time", cfg.BonusDeadlineTime)
	return m.config.Set(cfg)
}

func (m *Master) Pause(env *xenv.Environment) error {
	cfg, err := m.onlyOwner(env)
	if err != nil {
		return err
	}
	if cfg.Paused {
		return errAlreadyPaused
	}
	cfg.Paused = true
	if err := m.config.Set(cfg); err != nil {
		return err
	}
	logger.Info("paused")
	env.Log(m.addr, &EventPaused{Admin: env.Caller()})
	return nil
}

func (m *Master) Unpause(env *xenv.Environment) error {
	cfg, err := m.onlyOwner(env)
	if err != nil {
		return err
	}
	if !cfg.Paused {
		return errNotPaused
	}
	cfg.Paused = false
	if err := m.config.Set(cfg); err != nil {
		return err
	}
	logger.Info("unpaused")
	env.Log(m.addr, &EventUnpaused{Admin: env.Caller()})
	return nil
}
