// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/hex"
	"math/big"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/gravis-finance/incentives/gravis"
)

// DevAccount account for development.
type DevAccount struct {
	Address    gravis.Address
	PrivateKey *secp256k1.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
// Account 0 owns the ledgers, account 1 provides the Master rewards, account 2 receives fees.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
	}
	for _, str := range privKeys {
		b, err := hex.DecodeString(str)
		if err != nil {
			panic(err)
		}
		pk := secp256k1.PrivKeyFromBytes(b)
		accs = append(accs, DevAccount{addressOf(pk.PubKey()), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// addressOf derives the account address of a public key, the last 20 bytes of the
// keccak256 hash of its uncompressed form.
func addressOf(pub *secp256k1.PublicKey) gravis.Address {
	hash := crypto.Keccak256(pub.SerializeUncompressed()[1:])
	return gravis.BytesToAddress(hash[12:])
}

// micro returns n units of 1e12, the granularity of the Master tier parameters.
func micro(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e12))
}

// DevConfig returns the reference deployment used in solo mode.
func DevConfig() *Config {
	accs := DevAccounts()
	cfg := &Config{
		LaunchTime: 1735689600, // 2025-01-01 00:00:00 UTC
		Owner:      accs[0].Address,
		RewardToken: TokenConfig{
			Name:     "Gravis Finance",
			Symbol:   "GRVX",
			Decimals: 18,
		},
		Collection: "Gravis Heroes",
		Chef: ChefConfig{
			TokenPerBlock: amount(gravis.Tokens(30)),
			StartBlock:    1,
			FeeRecipient:  accs[2].Address,
			FeeBps:        []uint64{2500, 1000, 500, 250, 100},
			FeeBlocks:     []uint64{0, 100, 200, 300, 400},
			Pools: []FarmPool{
				{Asset: TokenConfig{Name: "GRVX-WETH LP", Symbol: "GRVX-WETH", Decimals: 18}, AllocPoint: 1000, LockBlocks: 0},
				{Asset: TokenConfig{Name: "GRVX-USDT LP", Symbol: "GRVX-USDT", Decimals: 18}, AllocPoint: 500, LockBlocks: 100},
			},
		},
		Master: MasterConfig{
			TokenProvider: accs[1].Address,
			ProviderFunds: amount(gravis.Tokens(10_000_000)),
			Pools: []StakePool{
				{
					Name:            "Evangelist",
					NominalSpeed:    amount(micro(30)),
					SpeedMultiplier: amount(micro(10)),
					NominalAmount:   amount(micro(253_440_000)),
					StartBonus:      amount(gravis.Tokens(50)),
					BonusSpeed:      amount(micro(20)),
					BonusAmount:     amount(micro(50_000_000)),
				},
				{
					Name:            "Advocate",
					NominalSpeed:    amount(micro(20)),
					SpeedMultiplier: amount(micro(5)),
					NominalAmount:   amount(micro(132_840_000)),
					StartBonus:      amount(gravis.Tokens(25)),
					BonusSpeed:      amount(micro(10)),
					BonusAmount:     amount(micro(15_552_020)),
				},
				{
					Name:            "Believer",
					NominalSpeed:    amount(micro(10)),
					SpeedMultiplier: amount(micro(2)),
					NominalAmount:   amount(micro(78_500_592)),
					StartBonus:      amount(gravis.Tokens(10)),
					BonusSpeed:      amount(micro(5)),
					BonusAmount:     amount(micro(10_000_000)),
				},
			},
		},
	}
	for _, a := range accs[3:] {
		cfg.Accounts = append(cfg.Accounts, Account{
			Address:      a.Address,
			RewardTokens: amount(gravis.Tokens(1000)),
			LPTokens:     amount(gravis.Tokens(1000)),
			Items:        []uint64{5, 5, 5},
		})
	}
	return cfg
}
