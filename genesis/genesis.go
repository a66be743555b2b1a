// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/chef"
	"github.com/gravis-finance/incentives/builtin/collection"
	"github.com/gravis-finance/incentives/builtin/master"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/builtin/token"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/runtime"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	config  *Config
	name    string
}

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	return New(DevConfig(), "devnet")
}

// New creates the genesis of a validated deployment description.
func New(cfg *Config, name string) *Genesis {
	owner := cfg.Owner
	builder := new(Builder).
		Timestamp(cfg.LaunchTime).
		State(func(st *state.State) error {
			env := xenv.New(st, &xenv.BlockContext{Time: cfg.LaunchTime}, owner)

			if err := builtin.RewardToken.WithState(st).Deploy(&token.Meta{
				Name:     cfg.RewardToken.Name,
				Symbol:   cfg.RewardToken.Symbol,
				Decimals: cfg.RewardToken.Decimals,
				Admin:    owner,
			}); err != nil {
				return err
			}
			if err := builtin.Collection.WithState(st).Deploy(&collection.Meta{Name: cfg.Collection, Admin: owner}); err != nil {
				return err
			}
			for i := range cfg.Chef.Pools {
				asset := &cfg.Chef.Pools[i].Asset
				if err := builtin.TokenAt(asset.ResolvedAddress(), st).Deploy(&token.Meta{
					Name:     asset.Name,
					Symbol:   asset.Symbol,
					Decimals: asset.Decimals,
					Admin:    owner,
				}); err != nil {
					return err
				}
			}

			feeRecipient := cfg.Chef.FeeRecipient
			if feeRecipient.IsZero() {
				feeRecipient = owner
			}
			if err := builtin.Chef.WithState(st).Deploy(env, &chef.Params{
				Owner:         owner,
				RewardToken:   builtin.RewardToken.Address,
				FeeRecipient:  feeRecipient,
				TokenPerBlock: bigOf(cfg.Chef.TokenPerBlock),
				StartBlock:    cfg.Chef.StartBlock,
				FeeBps:        cfg.Chef.FeeBps,
				FeeThresholds: cfg.Chef.FeeBlocks,
			}); err != nil {
				return err
			}

			pools := make([]*master.StakePool, 0, len(cfg.Master.Pools))
			for i := range cfg.Master.Pools {
				pools = append(pools, cfg.Master.Pools[i].toPool())
			}
			return builtin.Master.WithState(st).Deploy(&master.Params{
				Owner:         owner,
				Token:         builtin.RewardToken.Address,
				TokenProvider: cfg.Master.TokenProvider,
				Collection:    builtin.Collection.Address,
				Pools:         pools,
			})
		})

	reward := builtin.RewardToken.Address
	builder.
		Call(reward, "grantMinter", map[string]any{"account": builtin.Chef.Address}, owner).
		Call(reward, "grantMinter", map[string]any{"account": owner}, owner)

	for i := range cfg.Chef.Pools {
		p := &cfg.Chef.Pools[i]
		addr := p.Asset.ResolvedAddress()
		builder.
			Call(addr, "grantMinter", map[string]any{"account": owner}, owner).
			Call(builtin.Chef.Address, "addPool", map[string]any{
				"allocPoint": p.AllocPoint,
				"asset":      addr,
				"lockBlocks": p.LockBlocks,
				"withUpdate": false,
			}, owner)
	}

	provider := cfg.Master.TokenProvider
	if funds := bigOf(cfg.Master.ProviderFunds); funds.Sign() > 0 {
		builder.Call(reward, "mint", mintArgs(provider, funds), owner)
	}
	builder.Call(reward, "approve", map[string]any{
		"spender": builtin.Master.Address,
		"amount":  amount(solidity.MaxUint256),
	}, provider)
	if cfg.Master.ClaimAllowed {
		builder.Call(builtin.Master.Address, "allowClaim", nil, owner)
	}

	for _, a := range cfg.Accounts {
		if v := bigOf(a.RewardTokens); v.Sign() > 0 {
			builder.Call(reward, "mint", mintArgs(a.Address, v), owner)
		}
		if v := bigOf(a.LPTokens); v.Sign() > 0 {
			for i := range cfg.Chef.Pools {
				builder.Call(cfg.Chef.Pools[i].Asset.ResolvedAddress(), "mint", mintArgs(a.Address, v), owner)
			}
		}
		for id, n := range a.Items {
			if n == 0 {
				continue
			}
			builder.Call(builtin.Collection.Address, "mint", map[string]any{
				"to":     a.Address,
				"id":     id,
				"amount": amount(new(big.Int).SetUint64(n)),
			}, owner)
		}
	}

	return &Genesis{builder, cfg, name}
}

func mintArgs(to gravis.Address, v *big.Int) map[string]any {
	return map[string]any{"to": to, "amount": amount(v)}
}

// Build builds the genesis state.
func (g *Genesis) Build(st *state.State) ([]*runtime.Event, error) {
	return g.builder.Build(st)
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the time of block 0.
func (g *Genesis) LaunchTime() uint64 {
	return g.config.LaunchTime
}

// Config returns the deployment description.
func (g *Genesis) Config() *Config {
	return g.config
}
