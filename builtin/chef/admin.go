// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"math/big"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/xenv"
)

// onlyOwner loads the config and rejects callers other than the owner.
func (c *Chef) onlyOwner(env *xenv.Environment) (*Config, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	if env.Caller() != cfg.Owner {
		return nil, reverts.Unauthorized()
	}
	return cfg, nil
}

// AddPool creates a pool for asset and returns its id.
func (c *Chef) AddPool(env *xenv.Environment, allocPoint uint64, asset gravis.Address, lockBlocks uint32, withUpdate bool) (uint64, error) {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return 0, err
	}
	if asset.IsZero() {
		return 0, errZeroAddress
	}
	exists, err := c.poolIndex.Exists(asset)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errPoolExists
	}
	if withUpdate {
		if err := c.massUpdatePools(env, cfg); err != nil {
			return 0, err
		}
	}
	cfg.TotalAllocPoint += allocPoint
	if err := c.config.Set(cfg); err != nil {
		return 0, err
	}
	pid, err := c.pushPool(env, cfg, asset, allocPoint, lockBlocks)
	if err != nil {
		return 0, err
	}
	logger.Info("pool added", "pool", pid, "asset", asset, "allocPoint", allocPoint, "lockBlocks", lockBlocks)
	return pid, nil
}

// SetPool changes the allocation points of pool pid.
func (c *Chef) SetPool(env *xenv.Environment, pid uint64, allocPoint uint64, withUpdate bool) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if _, err := c.Pool(pid); err != nil {
		return err
	}
	if withUpdate {
		if err := c.massUpdatePools(env, cfg); err != nil {
			return err
		}
	}
	// reload, the mass update may have moved the accumulator
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	cfg.TotalAllocPoint = cfg.TotalAllocPoint - pool.AllocPoint + allocPoint
	pool.AllocPoint = allocPoint
	if err := c.config.Set(cfg); err != nil {
		return err
	}
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}
	logger.Info("pool updated", "pool", pid, "allocPoint", allocPoint)
	env.Log(c.addr, &EventPoolUpdate{PoolID: pid, AllocPoint: allocPoint})
	return nil
}

// SetLock changes the lock window of pool pid. Existing unlock blocks are kept.
func (c *Chef) SetLock(env *xenv.Environment, pid uint64, lockBlocks uint32, withUpdate bool) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if _, err := c.Pool(pid); err != nil {
		return err
	}
	if withUpdate {
		if err := c.massUpdatePools(env, cfg); err != nil {
			return err
		}
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	pool.LockBlocks = lockBlocks
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}
	logger.Info("pool lock updated", "pool", pid, "lockBlocks", lockBlocks)
	env.Log(c.addr, &EventPoolLockUpdate{PoolID: pid, LockBlocks: lockBlocks})
	return nil
}

// RemovePool retires an inactive and empty pool. Its id is never reused.
func (c *Chef) RemovePool(env *xenv.Environment, pid uint64, withUpdate bool) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if pid == gravis.StakingPoolID {
		return errStakingPool
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	if pool.AllocPoint != 0 {
		return errPoolActive
	}
	if pool.TotalDeposited.Sign() != 0 {
		return errPoolNotEmpty
	}
	if withUpdate {
		if err := c.massUpdatePools(env, cfg); err != nil {
			return err
		}
	}
	pool.Exists = false
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}
	c.poolIndex.Clear(pool.Asset)
	live, err := c.livePools.Get()
	if err != nil {
		return err
	}
	if err := c.livePools.Set(live - 1); err != nil {
		return err
	}
	logger.Info("pool removed", "pool", pid, "asset", pool.Asset)
	env.Log(c.addr, &EventPoolRemoved{PoolID: pid})
	return nil
}

// SetMultiplier changes the bonus multiplier. Blocks before the change keep the old rate.
func (c *Chef) SetMultiplier(env *xenv.Environment, multiplier uint64) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if multiplier == 0 {
		return errZeroMultiplier
	}
	if err := c.massUpdatePools(env, cfg); err != nil {
		return err
	}
	cfg.BonusMultiplier = multiplier
	logger.Info("multiplier updated", "multiplier", multiplier)
	return c.config.Set(cfg)
}

// SetTokenPerBlock changes the emission rate. Blocks before the change keep the old rate.
func (c *Chef) SetTokenPerBlock(env *xenv.Environment, tokenPerBlock *big.Int) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if tokenPerBlock.Sign() <= 0 {
		return errZeroPerBlock
	}
	if err := c.massUpdatePools(env, cfg); err != nil {
		return err
	}
	cfg.TokenPerBlock = new(big.Int).Set(tokenPerBlock)
	logger.Info("token per block updated", "tokenPerBlock", tokenPerBlock)
	return c.config.Set(cfg)
}

func (c *Chef) SetFeeRecipient(env *xenv.Environment, recipient gravis.Address) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if recipient.IsZero() {
		return errZeroRecipient
	}
	cfg.FeeRecipient = recipient
	logger.Info("fee recipient updated", "recipient", recipient)
	return c.config.Set(cfg)
}

// SetFeeStage replaces the fee column of the schedule.
func (c *Chef) SetFeeStage(env *xenv.Environment, bps []uint64) error {
	if _, err := c.onlyOwner(env); err != nil {
		return err
	}
	schedule, err := c.schedule.Get()
	if err != nil {
		return err
	}
	next, err := schedule.WithBps(bps)
	if err != nil {
		return err
	}
	logger.Info("fee stage updated", "bps", bps)
	return c.schedule.Set(next)
}

// SetBlockDeltaFeeStage replaces the threshold column of the schedule.
func (c *Chef) SetBlockDeltaFeeStage(env *xenv.Environment, blocks []uint64) error {
	if _, err := c.onlyOwner(env); err != nil {
		return err
	}
	schedule, err := c.schedule.Get()
	if err != nil {
		return err
	}
	next, err := schedule.WithThresholds(blocks)
	if err != nil {
		return err
	}
	logger.Info("block delta fee stage updated", "blocks", blocks)
	return c.schedule.Set(next)
}

func (c *Chef) TransferOwnership(env *xenv.Environment, owner gravis.Address) error {
	cfg, err := c.onlyOwner(env)
	if err != nil {
		return err
	}
	if owner.IsZero() {
		return errZeroAddress
	}
	cfg.Owner = owner
	logger.Info("ownership transferred", "owner", owner)
	return c.config.Set(cfg)
}
