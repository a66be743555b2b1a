// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/master"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/state"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db, nil)
}

func TestDevAccounts(t *testing.T) {
	accs := DevAccounts()
	require.Len(t, accs, 8)
	assert.Equal(t, gravis.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), accs[0].Address)
	assert.Equal(t, accs, DevAccounts())
}

func TestDevnet(t *testing.T) {
	st := newState(t)
	gen := NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Equal(t, uint64(1735689600), gen.LaunchTime())

	events, err := gen.Build(st)
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	accs := DevAccounts()
	c := builtin.Chef.WithState(st)
	n, err := c.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	cfg, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(gravis.DefaultStakingAllocPoint+1000+500), cfg.TotalAllocPoint)
	assert.Equal(t, accs[2].Address, cfg.FeeRecipient)
	pool, err := c.Pool(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), pool.LockBlocks)

	ok, err := builtin.RewardToken.WithState(st).IsMinter(builtin.Chef.Address)
	require.NoError(t, err)
	assert.True(t, ok)

	allowance, err := builtin.RewardToken.WithState(st).Allowance(accs[1].Address, builtin.Master.Address)
	require.NoError(t, err)
	assert.Equal(t, solidity.MaxUint256, allowance)

	funds, err := builtin.RewardToken.WithState(st).BalanceOf(accs[1].Address)
	require.NoError(t, err)
	assert.Equal(t, gravis.Tokens(10_000_000), funds)

	m := builtin.Master.WithState(st)
	mcfg, err := m.Config()
	require.NoError(t, err)
	assert.False(t, mcfg.ClaimAllowed)
	assert.Equal(t, accs[1].Address, mcfg.TokenProvider)
	believer, err := m.Pool(master.Believer)
	require.NoError(t, err)
	assert.Equal(t, "Believer", believer.Name)
	assert.Equal(t, micro(78_500_592), believer.NominalAmount)

	for _, a := range accs[3:] {
		bal, err := builtin.TokenAt(gravis.BytesToAddress([]byte("GRVX-USDT")), st).BalanceOf(a.Address)
		require.NoError(t, err)
		assert.Equal(t, gravis.Tokens(1000), bal)

		items, err := builtin.Collection.WithState(st).BalanceOf(a.Address, master.Advocate)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(5), items)
	}
}

const sampleConfig = `
launchTime: 1000
owner: "0x000000000000000000000000000000000000a001"
rewardToken:
  name: Gravis
  symbol: GRVX
  decimals: 18
collection: Heroes
chef:
  tokenPerBlock: "0x1e"
  startBlock: 5
  feeBps: [2500, 0]
  feeBlocks: [0, 100]
  pools:
    - asset:
        address: "0x000000000000000000000000000000000000b001"
        symbol: LP
      allocPoint: 200
master:
  tokenProvider: "0x000000000000000000000000000000000000a002"
  providerFunds: "1000000"
  claimAllowed: true
  pools:
    - {name: A, nominalSpeed: "3", speedMultiplier: "1", nominalAmount: "100", startBonus: "5", bonusSpeed: "1", bonusAmount: "10"}
    - {name: B, nominalSpeed: "2", speedMultiplier: "1", nominalAmount: "100", startBonus: "5", bonusSpeed: "1", bonusAmount: "10"}
    - {name: C, nominalSpeed: "1", speedMultiplier: "1", nominalAmount: "100", startBonus: "5", bonusSpeed: "1", bonusAmount: "10"}
accounts:
  - address: "0x000000000000000000000000000000000000c001"
    lpTokens: "500"
    items: [0, 0, 2]
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cfg.LaunchTime)
	assert.Equal(t, big.NewInt(30), bigOf(cfg.Chef.TokenPerBlock))
	assert.Equal(t, gravis.MustParseAddress("0x000000000000000000000000000000000000b001"), cfg.Chef.Pools[0].Asset.ResolvedAddress())
	require.Len(t, cfg.Master.Pools, 3)
	assert.Equal(t, big.NewInt(100), bigOf(cfg.Master.Pools[1].NominalAmount))

	st := newState(t)
	_, err = New(cfg, "custom").Build(st)
	require.NoError(t, err)

	mcfg, err := builtin.Master.WithState(st).Config()
	require.NoError(t, err)
	assert.True(t, mcfg.ClaimAllowed)

	// fee recipient defaults to the owner
	ccfg, err := builtin.Chef.WithState(st).Config()
	require.NoError(t, err)
	assert.Equal(t, cfg.Owner, ccfg.FeeRecipient)
	assert.Equal(t, uint32(5), ccfg.StartBlock)

	items, err := builtin.Collection.WithState(st).BalanceOf(gravis.MustParseAddress("0x000000000000000000000000000000000000c001"), master.Believer)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), items)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"owner", func(c *Config) { c.Owner = gravis.Address{} }, "owner is required"},
		{"per block", func(c *Config) { c.Chef.TokenPerBlock = nil }, "chef token per block is required"},
		{"provider", func(c *Config) { c.Master.TokenProvider = gravis.Address{} }, "master token provider is required"},
		{"pools", func(c *Config) { c.Master.Pools = c.Master.Pools[:2] }, "master requires 3 pools, got 2"},
		{"duplicated asset", func(c *Config) { c.Chef.Pools[1].Asset = c.Chef.Pools[0].Asset }, "duplicated farm asset " + gravis.BytesToAddress([]byte("GRVX-WETH")).String()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DevConfig()
			tc.mutate(cfg)
			assert.EqualError(t, cfg.Validate(), tc.err)
		})
	}
	assert.NoError(t, DevConfig().Validate())
}

func TestConfigRoundTrip(t *testing.T) {
	data, err := DevConfig().Marshal()
	require.NoError(t, err)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, DevConfig().Owner, cfg.Owner)
	assert.Equal(t, gravis.Tokens(30), bigOf(cfg.Chef.TokenPerBlock))
}

func TestBuildFailsOnRevert(t *testing.T) {
	cfg := DevConfig()
	// the staking pool already holds the reward token
	cfg.Chef.Pools[0].Asset.Address = builtin.RewardToken.Address
	_, err := New(cfg, "bad").Build(newState(t))
	assert.Error(t, err)
}
