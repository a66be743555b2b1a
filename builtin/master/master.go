// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package master implements the staged staking pool: collection tokens are staked into a
// fixed set of pools whose reward follows a stepped speed schedule with a bonus phase.
package master

import (
	"encoding/binary"
	"math/big"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/builtin/speedtier"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var logger = log.WithContext("pkg", "master")

// Pool ids. The collection token id staked into a pool equals the pool id.
const (
	Evangelist uint64 = iota
	Advocate
	Believer

	PoolCount = 3
)

var (
	slotConfig   = nameToSlot("config")
	slotPools    = nameToSlot("pools")
	slotUsers    = nameToSlot("users")
	slotDeposits = nameToSlot("deposits")
)

var (
	errNotDeployed     = reverts.State("master not deployed")
	errAlreadyDeployed = reverts.State("master already deployed")
	errZeroAddress     = reverts.Validation("zero address")
	errPoolCount       = reverts.Validation("invalid pool count")
	errInvalidPool     = reverts.Validation("invalid pool id")
	errZeroAmount      = reverts.Validation("zero amount")
	errPaused          = reverts.State("paused")
	errAlreadyPaused   = reverts.State("already paused")
	errNotPaused       = reverts.State("not paused")
	errClaimNotAllowed = reverts.State("claim not allowed")
	errNoDeposits      = reverts.State("no deposits")
	errZeroRewards     = reverts.State("zero rewards")
	errNotEnoughTokens = reverts.State("not enough tokens")
)

func nameToSlot(name string) gravis.Bytes32 {
	return gravis.BytesToBytes32([]byte("master/" + name))
}

// Token is the view of the reward token the pool calls into.
type Token interface {
	BalanceOf(owner gravis.Address) (*big.Int, error)
	TransferFrom(env *xenv.Environment, from, to gravis.Address, amount *big.Int) error
}

// Collection is the view of the staked collection.
type Collection interface {
	SafeTransferFrom(env *xenv.Environment, from, to gravis.Address, id uint64, amount *big.Int) error
}

// Resolvers bind collaborators at an address.
type Resolvers struct {
	Token      func(addr gravis.Address) Token
	Collection func(addr gravis.Address) Collection
}

// Config holds the pool wide settings and flags.
type Config struct {
	Owner             gravis.Address
	Token             gravis.Address
	TokenProvider     gravis.Address
	Collection        gravis.Address
	ClaimAllowed      bool
	Paused            bool
	BonusDeadlineTime uint64 // 0 when unset
	DepositIDs        uint64
}

// StakePool is the emission schedule of one pool. Speeds are in wei per second.
type StakePool struct {
	Name            string
	NominalSpeed    *big.Int
	SpeedMultiplier *big.Int
	NominalAmount   *big.Int
	StartBonus      *big.Int
	BonusSpeed      *big.Int
	BonusAmount     *big.Int
}

// Params returns the schedule parameters.
func (p *StakePool) Params() *speedtier.Params {
	return &speedtier.Params{
		NominalSpeed:    p.NominalSpeed,
		SpeedMultiplier: p.SpeedMultiplier,
		NominalAmount:   p.NominalAmount,
		StartBonus:      p.StartBonus,
		BonusSpeed:      p.BonusSpeed,
		BonusAmount:     p.BonusAmount,
	}
}

// UserPool is the staking lineage of a user in a pool.
type UserPool struct {
	StartTime      uint64 // time of the first deposit
	LastCheckpoint uint64
	Claimed        *big.Int
	Deposits       uint64
}

// Deposit is one entry of the append-only deposit history.
type Deposit struct {
	ID        uint64
	Amount    *big.Int
	Timestamp uint64
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
	Token         gravis.Address
	TokenProvider gravis.Address
	Collection    gravis.Address
	Pools         []*StakePool
}

// Master is the staged staking pool at an address.
type Master struct {
	addr      gravis.Address
	ctx       *solidity.Context
	resolvers Resolvers
	config    *solidity.Raw[*Config]
	pools     *solidity.Array[*StakePool]
	users     *solidity.Mapping[userKey, *UserPool]
}

// New binds the staking pool at addr to the state.
func New(addr gravis.Address, st *state.State, resolvers Resolvers) *Master {
	ctx := solidity.NewContext(addr, st)
	return &Master{
		addr:      addr,
		ctx:       ctx,
		resolvers: resolvers,
		config:    solidity.NewRaw[*Config](ctx, slotConfig),
		pools:     solidity.NewArray[*StakePool](ctx, slotPools),
		users:     solidity.NewMapping[userKey, *UserPool](ctx, slotUsers),
	}
}

func (m *Master) Address() gravis.Address { return m.addr }

// deposits is the deposit history array of a lineage.
func (m *Master) deposits(key userKey) *solidity.Array[*Deposit] {
	return solidity.NewArray[*Deposit](m.ctx, gravis.Blake2b(key.Bytes(), slotDeposits.Bytes()))
}

// Deploy initializes the staking pool with exactly PoolCount pools.
func (m *Master) Deploy(p *Params) error {
	current, err := m.config.Get()
	if err != nil {
		return err
	}
	if !current.Owner.IsZero() {
		return errAlreadyDeployed
	}
	if p.Owner.IsZero() || p.Token.IsZero() || p.TokenProvider.IsZero() || p.Collection.IsZero() {
		return errZeroAddress
	}
	if len(p.Pools) != PoolCount {
		return errPoolCount
	}
	for _, pool := range p.Pools {
		if err := pool.Params().Validate(); err != nil {
			return reverts.Validation(err.Error())
		}
	}
	for _, pool := range p.Pools {
		if _, err := m.pools.Push(pool); err != nil {
			return err
		}
	}
	logger.Info("master deployed", "address", m.addr, "token", p.Token, "provider", p.TokenProvider)
	return m.config.Set(&Config{
		Owner:         p.Owner,
		Token:         p.Token,
		TokenProvider: p.TokenProvider,
		Collection:    p.Collection,
	})
}

// Config returns the settings and flags.
func (m *Master) Config() (*Config, error) {
	cfg, err := m.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Owner.IsZero() {
		return nil, errNotDeployed
	}
	return cfg, nil
}

// Pool returns the schedule of pool pid.
func (m *Master) Pool(pid uint64) (*StakePool, error) {
	if pid >= PoolCount {
		return nil, errInvalidPool
	}
	if _, err := m.Config(); err != nil {
		return nil, err
	}
	return m.pools.Get(pid)
}

// UserPool returns the lineage of user in pool pid. Unknown lineages are zero.
func (m *Master) UserPool(pid uint64, user gravis.Address) (*UserPool, error) {
	u, err := m.users.Get(userKey{pid, user})
	if err != nil {
		return nil, err
	}
	if u.Claimed == nil {
		u.Claimed = new(big.Int)
	}
	return u, nil
}

// DepositsByUser lists the deposits of user in pool pid, oldest first.
// It is empty for an invalid pool id.
func (m *Master) DepositsByUser(pid uint64, user gravis.Address) ([]*Deposit, error) {
	if pid >= PoolCount {
		return []*Deposit{}, nil
	}
	return m.deposits(userKey{pid, user}).All()
}

// PoolUserRewards returns the reward user could claim from pool pid at time now.
// It is zero for an invalid pool id.
func (m *Master) PoolUserRewards(pid uint64, user gravis.Address, now uint64) (*big.Int, error) {
	if pid >= PoolCount {
		return new(big.Int), nil
	}
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	pool, err := m.pools.Get(pid)
	if err != nil {
		return nil, err
	}
	u, err := m.UserPool(pid, user)
	if err != nil {
		return nil, err
	}
	return pendingOf(cfg, pool, u, now), nil
}

func pendingOf(cfg *Config, pool *StakePool, u *UserPool, now uint64) *big.Int {
	if u.Deposits == 0 {
		return new(big.Int)
	}
	return pool.Params().Pending(u.StartTime, now, cfg.BonusDeadlineTime, u.Claimed)
}
