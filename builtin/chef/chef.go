// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chef implements the reward farm: allocation weighted pools paid per block
// from a minted reward token, with lock windows and fee decayed withdrawals.
package chef

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/builtin/feestage"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var logger = log.WithContext("pkg", "chef")

var (
	slotConfig    = nameToSlot("config")
	slotSchedule  = nameToSlot("fee-schedule")
	slotPools     = nameToSlot("pools")
	slotPoolIndex = nameToSlot("pool-index")
	slotLivePools = nameToSlot("live-pools")
	slotUsers     = nameToSlot("users")
)

var (
	errNotDeployed     = reverts.State("chef not deployed")
	errAlreadyDeployed = reverts.State("chef already deployed")
	errZeroAddress     = reverts.Validation("zero address")
	errPoolExists      = reverts.State("pool already exists")
	errStakingPool     = reverts.State("staking pool")
	errPoolNotExists   = reverts.State("pool not exists")
	errPoolActive      = reverts.State("pool is active")
	errPoolNotEmpty    = reverts.State("pool not empty")
	errDepositStaking  = reverts.State("deposit to the staking pool")
	errWithdrawStaking = reverts.State("withdraw from the staking pool")
	errWithdrawExceeds = reverts.State("withdraw amount exceeds user amount")
	errUnstakeExceeds  = reverts.State("unstake amount exceeds user amount")
	errWithdrawLocked  = reverts.State("withdraw locked")
	errZeroMultiplier  = reverts.Validation("zero multiplier")
	errZeroRecipient   = reverts.Validation("zero fee recipient")
	errZeroPerBlock    = reverts.Validation("zero token per block")
	errNegativeAmount  = reverts.Validation("negative amount")
)

func nameToSlot(name string) gravis.Bytes32 {
	return gravis.BytesToBytes32([]byte("chef/" + name))
}

// Token is the view of a fungible token the farm calls into.
type Token interface {
	BalanceOf(owner gravis.Address) (*big.Int, error)
	Mint(env *xenv.Environment, to gravis.Address, amount *big.Int) error
	Transfer(env *xenv.Environment, to gravis.Address, amount *big.Int) error
	TransferFrom(env *xenv.Environment, from, to gravis.Address, amount *big.Int) error
}

// TokenResolver binds the token at an address.
type TokenResolver func(addr gravis.Address) Token

// Config holds the farm wide settings.
type Config struct {
	Owner           gravis.Address
	RewardToken     gravis.Address
	FeeRecipient    gravis.Address
	TokenPerBlock   *big.Int
	BonusMultiplier uint64
	StartBlock      uint32
	TotalAllocPoint uint64
}

// Pool is one reward pool. Removed pools keep their id with Exists cleared.
type Pool struct {
	Asset             gravis.Address
	AllocPoint        uint64
	LastRewardBlock   uint32
	AccRewardPerShare *big.Int
	LockBlocks        uint32
	TotalDeposited    *big.Int
	Exists            bool
}

// UserInfo is the position of a user in a pool.
type UserInfo struct {
	Amount           *big.Int
	RewardDebt       *big.Int
	UnlockBlock      uint32
	LastDepositBlock uint32
}

type userKey struct {
	pid  uint64
	user gravis.Address
}

func (k userKey) Bytes() []byte {
	b := make([]byte, 8, 8+gravis.AddressLength)
	binary.BigEndian.PutUint64(b, k.pid)
	return append(b, k.user[:]...)
}

// Params are the deployment arguments.
type Params struct {
	Owner         gravis.Address
	RewardToken   gravis.Address
	FeeRecipient  gravis.Address
	TokenPerBlock *big.Int
	StartBlock    uint32
	FeeBps        []uint64
	FeeThresholds []uint64
}

// Chef is the reward farm at an address.
type Chef struct {
	addr      gravis.Address
	tokens    TokenResolver
	config    *solidity.Raw[*Config]
	schedule  *solidity.Raw[feestage.Schedule]
	pools     *solidity.Array[*Pool]
	poolIndex *solidity.Mapping[gravis.Address, uint64]
	livePools *solidity.Raw[uint64]
	users     *solidity.Mapping[userKey, *UserInfo]
}

// New binds the farm at addr to the state. Tokens are resolved with tokens.
func New(addr gravis.Address, st *state.State, tokens TokenResolver) *Chef {
	ctx := solidity.NewContext(addr, st)
	return &Chef{
		addr:      addr,
		tokens:    tokens,
		config:    solidity.NewRaw[*Config](ctx, slotConfig),
		schedule:  solidity.NewRaw[feestage.Schedule](ctx, slotSchedule),
		pools:     solidity.NewArray[*Pool](ctx, slotPools),
		poolIndex: solidity.NewMapping[gravis.Address, uint64](ctx, slotPoolIndex),
		livePools: solidity.NewRaw[uint64](ctx, slotLivePools),
		users:     solidity.NewMapping[userKey, *UserInfo](ctx, slotUsers),
	}
}

func (c *Chef) Address() gravis.Address { return c.addr }

// Deploy initializes the farm and creates the staking pool for the reward token.
func (c *Chef) Deploy(env *xenv.Environment, p *Params) error {
	current, err := c.config.Get()
	if err != nil {
		return err
	}
	if !current.Owner.IsZero() {
		return errAlreadyDeployed
	}
	if p.Owner.IsZero() || p.RewardToken.IsZero() {
		return errZeroAddress
	}
	if p.FeeRecipient.IsZero() {
		return errZeroRecipient
	}
	if p.TokenPerBlock == nil || p.TokenPerBlock.Sign() <= 0 {
		return errZeroPerBlock
	}
	schedule, err := feestage.New(p.FeeBps, p.FeeThresholds)
	if err != nil {
		return err
	}
	if err := c.schedule.Set(schedule); err != nil {
		return err
	}

	cfg := &Config{
		Owner:           p.Owner,
		RewardToken:     p.RewardToken,
		FeeRecipient:    p.FeeRecipient,
		TokenPerBlock:   new(big.Int).Set(p.TokenPerBlock),
		BonusMultiplier: 1,
		StartBlock:      p.StartBlock,
		TotalAllocPoint: gravis.DefaultStakingAllocPoint,
	}
	if err := c.config.Set(cfg); err != nil {
		return err
	}
	if _, err := c.pushPool(env, cfg, p.RewardToken, gravis.DefaultStakingAllocPoint, 0); err != nil {
		return err
	}
	logger.Info("chef deployed", "address", c.addr, "rewardToken", p.RewardToken, "tokenPerBlock", p.TokenPerBlock)
	return nil
}

// Config returns the farm settings.
func (c *Chef) Config() (*Config, error) {
	cfg, err := c.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Owner.IsZero() {
		return nil, errNotDeployed
	}
	return cfg, nil
}

func (c *Chef) FeeSchedule() (feestage.Schedule, error) {
	return c.schedule.Get()
}

// PoolLength returns the number of live pools.
func (c *Chef) PoolLength() (uint64, error) {
	return c.livePools.Get()
}

// PoolIDs returns the ids of live pools in creation order.
func (c *Chef) PoolIDs() ([]uint64, error) {
	pools, err := c.pools.All()
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for pid, pool := range pools {
		if pool.Exists {
			ids = append(ids, uint64(pid))
		}
	}
	return ids, nil
}

// Pool returns the live pool pid.
func (c *Chef) Pool(pid uint64) (*Pool, error) {
	n, err := c.pools.Len()
	if err != nil {
		return nil, err
	}
	if pid >= n {
		return nil, errPoolNotExists
	}
	pool, err := c.pools.Get(pid)
	if err != nil {
		return nil, err
	}
	if !pool.Exists {
		return nil, errPoolNotExists
	}
	return pool, nil
}

// UserInfo returns the position of user in pool pid. Unknown positions are zero.
func (c *Chef) UserInfo(pid uint64, user gravis.Address) (*UserInfo, error) {
	u, err := c.users.Get(userKey{pid, user})
	if err != nil {
		return nil, err
	}
	if u.Amount == nil {
		u.Amount = new(big.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(big.Int)
	}
	return u, nil
}

// PendingRewards returns the reward user could harvest from pool pid at block.
// It is zero for unknown pools.
func (c *Chef) PendingRewards(pid uint64, user gravis.Address, block uint32) (*big.Int, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	pool, err := c.Pool(pid)
	if err != nil {
		if errors.Is(err, errPoolNotExists) {
			return new(big.Int), nil
		}
		return nil, err
	}
	u, err := c.UserInfo(pid, user)
	if err != nil {
		return nil, err
	}
	acc := new(big.Int).Set(pool.AccRewardPerShare)
	if block > pool.LastRewardBlock && pool.TotalDeposited.Sign() > 0 {
		acc.Add(acc, accIncrement(cfg, pool, block))
	}
	return pending(u, acc), nil
}

// WithdrawalFee returns the fee in basis points user would pay withdrawing from pool pid at block.
func (c *Chef) WithdrawalFee(pid uint64, user gravis.Address, block uint32) (uint64, error) {
	schedule, err := c.schedule.Get()
	if err != nil {
		return 0, err
	}
	u, err := c.UserInfo(pid, user)
	if err != nil {
		return 0, err
	}
	return schedule.Rate(uint64(u.LastDepositBlock), uint64(block)), nil
}

// accIncrement is the growth of accRewardPerShare of pool from its last reward block to block.
func accIncrement(cfg *Config, pool *Pool, block uint32) *big.Int {
	if cfg.TotalAllocPoint == 0 || pool.AllocPoint == 0 || pool.TotalDeposited.Sign() == 0 {
		return new(big.Int)
	}
	reward := new(big.Int).SetUint64(uint64(block - pool.LastRewardBlock))
	reward.Mul(reward, cfg.TokenPerBlock)
	reward.Mul(reward, new(big.Int).SetUint64(cfg.BonusMultiplier))
	reward.Mul(reward, new(big.Int).SetUint64(pool.AllocPoint))
	reward.Div(reward, new(big.Int).SetUint64(cfg.TotalAllocPoint))

	reward.Mul(reward, gravis.AccRewardPrecision)
	return reward.Div(reward, pool.TotalDeposited)
}

func pending(u *UserInfo, acc *big.Int) *big.Int {
	p := accrued(u.Amount, acc)
	p.Sub(p, u.RewardDebt)
	if p.Sign() < 0 {
		return new(big.Int)
	}
	return p
}

func accrued(amount, acc *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, acc)
	return v.Div(v, gravis.AccRewardPrecision)
}

// updatePool brings the accumulator of pool pid to the current block.
func (c *Chef) updatePool(env *xenv.Environment, cfg *Config, pid uint64, pool *Pool) error {
	block := env.BlockContext().Number
	if block <= pool.LastRewardBlock {
		return nil
	}
	pool.AccRewardPerShare.Add(pool.AccRewardPerShare, accIncrement(cfg, pool, block))
	pool.LastRewardBlock = block
	return c.pools.Set(pid, pool)
}

func (c *Chef) massUpdatePools(env *xenv.Environment, cfg *Config) error {
	pools, err := c.pools.All()
	if err != nil {
		return err
	}
	for pid, pool := range pools {
		if !pool.Exists {
			continue
		}
		if err := c.updatePool(env, cfg, uint64(pid), pool); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chef) pushPool(env *xenv.Environment, cfg *Config, asset gravis.Address, allocPoint uint64, lockBlocks uint32) (uint64, error) {
	lastRewardBlock := env.BlockContext().Number
	if lastRewardBlock < cfg.StartBlock {
		lastRewardBlock = cfg.StartBlock
	}
	pid, err := c.pools.Push(&Pool{
		Asset:             asset,
		AllocPoint:        allocPoint,
		LastRewardBlock:   lastRewardBlock,
		AccRewardPerShare: new(big.Int),
		LockBlocks:        lockBlocks,
		TotalDeposited:    new(big.Int),
		Exists:            true,
	})
	if err != nil {
		return 0, err
	}
	if err := c.poolIndex.Set(asset, pid+1); err != nil {
		return 0, err
	}
	live, err := c.livePools.Get()
	if err != nil {
		return 0, err
	}
	if err := c.livePools.Set(live + 1); err != nil {
		return 0, err
	}
	env.Log(c.addr, &EventPoolAdd{Asset: asset, PoolID: pid})
	return pid, nil
}
