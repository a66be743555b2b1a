// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gravis-finance/incentives/builtin/master"
	"github.com/gravis-finance/incentives/gravis"
)

// Config describes the initial deployment of the ledgers.
type Config struct {
	LaunchTime  uint64         `yaml:"launchTime"`
	Owner       gravis.Address `yaml:"owner"`
	RewardToken TokenConfig    `yaml:"rewardToken"`
	Collection  string         `yaml:"collection"`
	Chef        ChefConfig     `yaml:"chef"`
	Master      MasterConfig   `yaml:"master"`
	Accounts    []Account      `yaml:"accounts"`
}

// TokenConfig describes a fungible token. A zero address is derived from the symbol.
type TokenConfig struct {
	Address  gravis.Address `yaml:"address"`
	Name     string         `yaml:"name"`
	Symbol   string         `yaml:"symbol"`
	Decimals uint8          `yaml:"decimals"`
}

// ResolvedAddress returns the address the token is deployed at.
func (t *TokenConfig) ResolvedAddress() gravis.Address {
	if t.Address.IsZero() {
		return gravis.BytesToAddress([]byte(t.Symbol))
	}
	return t.Address
}

// ChefConfig describes the farm.
type ChefConfig struct {
	TokenPerBlock *math.HexOrDecimal256 `yaml:"tokenPerBlock"`
	StartBlock    uint32                `yaml:"startBlock"`
	FeeRecipient  gravis.Address        `yaml:"feeRecipient"`
	FeeBps        []uint64              `yaml:"feeBps"`
	FeeBlocks     []uint64              `yaml:"feeBlocks"`
	Pools         []FarmPool            `yaml:"pools"`
}

// FarmPool is a deposit pool added after deployment, along with its asset.
type FarmPool struct {
	Asset      TokenConfig `yaml:"asset"`
	AllocPoint uint64      `yaml:"allocPoint"`
	LockBlocks uint32      `yaml:"lockBlocks"`
}

// MasterConfig describes the staged staking pool.
type MasterConfig struct {
	TokenProvider gravis.Address        `yaml:"tokenProvider"`
	ProviderFunds *math.HexOrDecimal256 `yaml:"providerFunds"`
	ClaimAllowed  bool                  `yaml:"claimAllowed"`
	Pools         []StakePool           `yaml:"pools"`
}

// StakePool holds the tier parameters of one Master pool.
type StakePool struct {
	Name            string                `yaml:"name"`
	NominalSpeed    *math.HexOrDecimal256 `yaml:"nominalSpeed"`
	SpeedMultiplier *math.HexOrDecimal256 `yaml:"speedMultiplier"`
	NominalAmount   *math.HexOrDecimal256 `yaml:"nominalAmount"`
	StartBonus      *math.HexOrDecimal256 `yaml:"startBonus"`
	BonusSpeed      *math.HexOrDecimal256 `yaml:"bonusSpeed"`
	BonusAmount     *math.HexOrDecimal256 `yaml:"bonusAmount"`
}

func (p *StakePool) toPool() *master.StakePool {
	return &master.StakePool{
		Name:            p.Name,
		NominalSpeed:    bigOf(p.NominalSpeed),
		SpeedMultiplier: bigOf(p.SpeedMultiplier),
		NominalAmount:   bigOf(p.NominalAmount),
		StartBonus:      bigOf(p.StartBonus),
		BonusSpeed:      bigOf(p.BonusSpeed),
		BonusAmount:     bigOf(p.BonusAmount),
	}
}

// Account is a prefunded account. Items[i] is the number of collection tokens of id i.
type Account struct {
	Address      gravis.Address        `yaml:"address"`
	RewardTokens *math.HexOrDecimal256 `yaml:"rewardTokens"`
	LPTokens     *math.HexOrDecimal256 `yaml:"lpTokens"`
	Items        []uint64              `yaml:"items"`
}

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

// LoadConfig reads a YAML deployment description.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML deployment description.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parts the ledgers cannot check themselves at deploy time.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner is required")
	}
	if c.RewardToken.Symbol == "" {
		return errors.New("reward token symbol is required")
	}
	if c.Collection == "" {
		return errors.New("collection name is required")
	}
	if c.Chef.TokenPerBlock == nil {
		return errors.New("chef token per block is required")
	}
	seen := make(map[gravis.Address]bool)
	for i := range c.Chef.Pools {
		addr := c.Chef.Pools[i].Asset.ResolvedAddress()
		if seen[addr] {
			return errors.Errorf("duplicated farm asset %v", addr)
		}
		seen[addr] = true
	}
	if c.Master.TokenProvider.IsZero() {
		return errors.New("master token provider is required")
	}
	if len(c.Master.Pools) != master.PoolCount {
		return errors.Errorf("master requires %d pools, got %d", master.PoolCount, len(c.Master.Pools))
	}
	for _, a := range c.Accounts {
		if len(a.Items) > master.PoolCount {
			return errors.Errorf("account %v: item ids beyond %d", a.Address, master.PoolCount-1)
		}
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
