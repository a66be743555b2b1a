// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"math/big"

	"github.com/gravis-finance/incentives/builtin/feestage"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/xenv"
)

// Deposit adds amount of the pool asset to the caller's position in pool pid, harvesting
// pending reward first. A zero amount only harvests.
func (c *Chef) Deposit(env *xenv.Environment, pid uint64, amount *big.Int) error {
	if pid == gravis.StakingPoolID {
		return errDepositStaking
	}
	return c.deposit(env, pid, amount)
}

// Withdraw takes amount of the pool asset out of the caller's position in pool pid.
// The withdrawal fee is charged on amount and sent to the fee recipient.
func (c *Chef) Withdraw(env *xenv.Environment, pid uint64, amount *big.Int) error {
	if pid == gravis.StakingPoolID {
		return errWithdrawStaking
	}
	return c.withdraw(env, pid, amount, errWithdrawExceeds)
}

// Stake deposits reward tokens into the staking pool.
func (c *Chef) Stake(env *xenv.Environment, amount *big.Int) error {
	return c.deposit(env, gravis.StakingPoolID, amount)
}

// Unstake withdraws reward tokens from the staking pool.
func (c *Chef) Unstake(env *xenv.Environment, amount *big.Int) error {
	return c.withdraw(env, gravis.StakingPoolID, amount, errUnstakeExceeds)
}

func (c *Chef) deposit(env *xenv.Environment, pid uint64, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	if err := c.updatePool(env, cfg, pid, pool); err != nil {
		return err
	}

	caller := env.Caller()
	block := env.BlockContext().Number
	u, err := c.UserInfo(pid, caller)
	if err != nil {
		return err
	}
	reward := pending(u, pool.AccRewardPerShare)
	if amount.Sign() > 0 {
		if u.Amount.Sign() == 0 {
			u.UnlockBlock = block + pool.LockBlocks
		}
		u.Amount.Add(u.Amount, amount)
		u.LastDepositBlock = block
		pool.TotalDeposited.Add(pool.TotalDeposited, amount)
	}
	u.RewardDebt = accrued(u.Amount, pool.AccRewardPerShare)
	if err := c.users.Set(userKey{pid, caller}, u); err != nil {
		return err
	}
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}

	if err := c.payReward(env, cfg, caller, reward); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if err := c.tokens(pool.Asset).TransferFrom(env.Call(c.addr), caller, c.addr, amount); err != nil {
			return err
		}
	}
	logger.Debug("deposit", "pool", pid, "user", caller, "amount", amount, "reward", reward)
	env.Log(c.addr, &EventDeposit{User: caller, PoolID: pid, Amount: amount})
	return nil
}

func (c *Chef) withdraw(env *xenv.Environment, pid uint64, amount *big.Int, errExceeds error) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}

	caller := env.Caller()
	block := env.BlockContext().Number
	u, err := c.UserInfo(pid, caller)
	if err != nil {
		return err
	}
	if u.Amount.Cmp(amount) < 0 {
		return errExceeds
	}
	if amount.Sign() > 0 && block < u.UnlockBlock {
		return errWithdrawLocked
	}
	if err := c.updatePool(env, cfg, pid, pool); err != nil {
		return err
	}

	reward := pending(u, pool.AccRewardPerShare)
	if amount.Sign() > 0 {
		u.Amount.Sub(u.Amount, amount)
		pool.TotalDeposited.Sub(pool.TotalDeposited, amount)
	}
	u.RewardDebt = accrued(u.Amount, pool.AccRewardPerShare)
	if err := c.users.Set(userKey{pid, caller}, u); err != nil {
		return err
	}
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}

	if err := c.payReward(env, cfg, caller, reward); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		schedule, err := c.schedule.Get()
		if err != nil {
			return err
		}
		bps := schedule.Rate(uint64(u.LastDepositBlock), uint64(block))
		if err := c.payOut(env, cfg, pool.Asset, caller, amount, bps); err != nil {
			return err
		}
	}
	logger.Debug("withdraw", "pool", pid, "user", caller, "amount", amount, "reward", reward)
	env.Log(c.addr, &EventWithdraw{User: caller, PoolID: pid, Amount: amount})
	return nil
}

// ClaimRewards harvests the caller's pending reward of all listed pools in one mint.
// No withdrawal fee applies.
func (c *Chef) ClaimRewards(env *xenv.Environment, pids []uint64) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	caller := env.Caller()
	total := new(big.Int)
	for _, pid := range pids {
		pool, err := c.Pool(pid)
		if err != nil {
			return err
		}
		if err := c.updatePool(env, cfg, pid, pool); err != nil {
			return err
		}
		u, err := c.UserInfo(pid, caller)
		if err != nil {
			return err
		}
		total.Add(total, pending(u, pool.AccRewardPerShare))
		u.RewardDebt = accrued(u.Amount, pool.AccRewardPerShare)
		if err := c.users.Set(userKey{pid, caller}, u); err != nil {
			return err
		}
	}
	if err := c.payReward(env, cfg, caller, total); err != nil {
		return err
	}
	logger.Debug("claim rewards", "user", caller, "pools", pids, "reward", total)
	return nil
}

// EmergencyWithdraw returns the caller's whole principal of pool pid minus the current
// withdrawal fee and forfeits pending reward. The lock window does not apply.
func (c *Chef) EmergencyWithdraw(env *xenv.Environment, pid uint64) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	if err := c.updatePool(env, cfg, pid, pool); err != nil {
		return err
	}

	caller := env.Caller()
	u, err := c.UserInfo(pid, caller)
	if err != nil {
		return err
	}
	amount := u.Amount
	pool.TotalDeposited.Sub(pool.TotalDeposited, amount)
	u.Amount = new(big.Int)
	u.RewardDebt = new(big.Int)
	if err := c.users.Set(userKey{pid, caller}, u); err != nil {
		return err
	}
	if err := c.pools.Set(pid, pool); err != nil {
		return err
	}

	schedule, err := c.schedule.Get()
	if err != nil {
		return err
	}
	bps := schedule.Rate(uint64(u.LastDepositBlock), uint64(env.BlockContext().Number))
	_, net := feestage.Fee(amount, bps)
	if amount.Sign() > 0 {
		if err := c.payOut(env, cfg, pool.Asset, caller, amount, bps); err != nil {
			return err
		}
	}
	logger.Debug("emergency withdraw", "pool", pid, "user", caller, "amount", amount, "net", net)
	env.Log(c.addr, &EventEmergencyWithdraw{User: caller, PoolID: pid, Amount: net})
	return nil
}

func (c *Chef) payReward(env *xenv.Environment, cfg *Config, to gravis.Address, reward *big.Int) error {
	if reward.Sign() == 0 {
		return nil
	}
	return c.tokens(cfg.RewardToken).Mint(env.Call(c.addr), to, reward)
}

// payOut sends amount of asset to to, less the fee at bps which goes to the fee recipient.
func (c *Chef) payOut(env *xenv.Environment, cfg *Config, asset, to gravis.Address, amount *big.Int, bps uint64) error {
	fee, net := feestage.Fee(amount, bps)
	tok := c.tokens(asset)
	if fee.Sign() > 0 {
		if err := tok.Transfer(env.Call(c.addr), cfg.FeeRecipient, fee); err != nil {
			return err
		}
	}
	if net.Sign() > 0 {
		return tok.Transfer(env.Call(c.addr), to, net)
	}
	return nil
}
