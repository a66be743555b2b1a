// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/gravis-finance/incentives/builtin/collection"
	"github.com/gravis-finance/incentives/gravis"
)

var (
	internalMethods   = make(map[addressAndMethod]*nativeMethod)
	tokenMethods      = make(map[string]*nativeMethod)
	collectionMethods = make(map[string]*nativeMethod)
	contracts         = map[gravis.Address]*contract{
		Chef.Address:   Chef.contract,
		Master.Address: Master.contract,
	}
)

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}

type poolAmountArgs struct {
	PoolID uint64                `json:"poolId"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type poolArgs struct {
	PoolID uint64 `json:"poolId"`
}

func init() {
	chefMethods := []*nativeMethod{
		Chef.impl("addPool", func(env *env) (any, error) {
			var args struct {
				AllocPoint uint64         `json:"allocPoint"`
				Asset      gravis.Address `json:"asset"`
				LockBlocks uint32         `json:"lockBlocks"`
				WithUpdate bool           `json:"withUpdate"`
			}
			env.Args(&args)
			pid, err := Chef.WithState(env.State()).AddPool(env.Environment, args.AllocPoint, args.Asset, args.LockBlocks, args.WithUpdate)
			if err != nil {
				return nil, err
			}
			return map[string]uint64{"poolId": pid}, nil
		}),
		Chef.impl("setPool", func(env *env) (any, error) {
			var args struct {
				PoolID     uint64 `json:"poolId"`
				AllocPoint uint64 `json:"allocPoint"`
				WithUpdate bool   `json:"withUpdate"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetPool(env.Environment, args.PoolID, args.AllocPoint, args.WithUpdate)
		}),
		Chef.impl("setLock", func(env *env) (any, error) {
			var args struct {
				PoolID     uint64 `json:"poolId"`
				LockBlocks uint32 `json:"lockBlocks"`
				WithUpdate bool   `json:"withUpdate"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetLock(env.Environment, args.PoolID, args.LockBlocks, args.WithUpdate)
		}),
		Chef.impl("removePool", func(env *env) (any, error) {
			var args struct {
				PoolID     uint64 `json:"poolId"`
				WithUpdate bool   `json:"withUpdate"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).RemovePool(env.Environment, args.PoolID, args.WithUpdate)
		}),
		Chef.impl("deposit", func(env *env) (any, error) {
			var args poolAmountArgs
			env.Args(&args)
			return nil, Chef.WithState(env.State()).Deposit(env.Environment, args.PoolID, bigOf(args.Amount))
		}),
		Chef.impl("withdraw", func(env *env) (any, error) {
			var args poolAmountArgs
			env.Args(&args)
			return nil, Chef.WithState(env.State()).Withdraw(env.Environment, args.PoolID, bigOf(args.Amount))
		}),
		Chef.impl("stake", func(env *env) (any, error) {
			var args struct {
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).Stake(env.Environment, bigOf(args.Amount))
		}),
		Chef.impl("unstake", func(env *env) (any, error) {
			var args struct {
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).Unstake(env.Environment, bigOf(args.Amount))
		}),
		Chef.impl("claimRewards", func(env *env) (any, error) {
			var args struct {
				PoolIDs []uint64 `json:"poolIds"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).ClaimRewards(env.Environment, args.PoolIDs)
		}),
		Chef.impl("emergencyWithdraw", func(env *env) (any, error) {
			var args poolArgs
			env.Args(&args)
			return nil, Chef.WithState(env.State()).EmergencyWithdraw(env.Environment, args.PoolID)
		}),
		Chef.impl("setMultiplier", func(env *env) (any, error) {
			var args struct {
				Multiplier uint64 `json:"multiplier"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetMultiplier(env.Environment, args.Multiplier)
		}),
		Chef.impl("setFeeRecipient", func(env *env) (any, error) {
			var args struct {
				Recipient gravis.Address `json:"recipient"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetFeeRecipient(env.Environment, args.Recipient)
		}),
		Chef.impl("setTokenPerBlock", func(env *env) (any, error) {
			var args struct {
				TokenPerBlock *math.HexOrDecimal256 `json:"tokenPerBlock"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetTokenPerBlock(env.Environment, bigOf(args.TokenPerBlock))
		}),
		Chef.impl("setFeeStage", func(env *env) (any, error) {
			var args struct {
				Bps []uint64 `json:"bps"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetFeeStage(env.Environment, args.Bps)
		}),
		Chef.impl("setBlockDeltaFeeStage", func(env *env) (any, error) {
			var args struct {
				Blocks []uint64 `json:"blocks"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).SetBlockDeltaFeeStage(env.Environment, args.Blocks)
		}),
		Chef.impl("transferOwnership", func(env *env) (any, error) {
			var args struct {
				Owner gravis.Address `json:"owner"`
			}
			env.Args(&args)
			return nil, Chef.WithState(env.State()).TransferOwnership(env.Environment, args.Owner)
		}),
	}

	masterMethods := []*nativeMethod{
		Master.impl("deposit", func(env *env) (any, error) {
			var args poolAmountArgs
			env.Args(&args)
			return nil, Master.WithState(env.State()).Deposit(env.Environment, args.PoolID, bigOf(args.Amount))
		}),
		Master.impl("claimRewards", func(env *env) (any, error) {
			var args poolArgs
			env.Args(&args)
			return nil, Master.WithState(env.State()).ClaimRewards(env.Environment, args.PoolID)
		}),
		Master.impl("allowClaim", func(env *env) (any, error) {
			return nil, Master.WithState(env.State()).AllowClaim(env.Environment)
		}),
		Master.impl("setBonusDeadlineTime", func(env *env) (any, error) {
			return nil, Master.WithState(env.State()).SetBonusDeadlineTime(env.Environment)
		}),
		Master.impl("pause", func(env *env) (any, error) {
			return nil, Master.WithState(env.State()).Pause(env.Environment)
		}),
		Master.impl("unpause", func(env *env) (any, error) {
			return nil, Master.WithState(env.State()).Unpause(env.Environment)
		}),
	}

	for _, m := range append(chefMethods, masterMethods...) {
		internalMethods[addressAndMethod{m.addr, m.name}] = m
	}

	// token and collection methods are bound to the called address, not a fixed one
	for _, m := range []*nativeMethod{
		{name: "transfer", run: func(env *env) (any, error) {
			var args struct {
				To     gravis.Address        `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, TokenAt(env.addr, env.State()).Transfer(env.Environment, args.To, bigOf(args.Amount))
		}},
		{name: "transferFrom", run: func(env *env) (any, error) {
			var args struct {
				From   gravis.Address        `json:"from"`
				To     gravis.Address        `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, TokenAt(env.addr, env.State()).TransferFrom(env.Environment, args.From, args.To, bigOf(args.Amount))
		}},
		{name: "approve", run: func(env *env) (any, error) {
			var args struct {
				Spender gravis.Address        `json:"spender"`
				Amount  *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, TokenAt(env.addr, env.State()).Approve(env.Environment, args.Spender, bigOf(args.Amount))
		}},
		{name: "mint", run: func(env *env) (any, error) {
			var args struct {
				To     gravis.Address        `json:"to"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, TokenAt(env.addr, env.State()).Mint(env.Environment, args.To, bigOf(args.Amount))
		}},
		{name: "grantMinter", run: func(env *env) (any, error) {
			var args struct {
				Account gravis.Address `json:"account"`
			}
			env.Args(&args)
			return nil, TokenAt(env.addr, env.State()).GrantMinter(env.Environment, args.Account)
		}},
	} {
		tokenMethods[m.name] = m
	}

	for _, m := range []*nativeMethod{
		{name: "setApprovalForAll", run: func(env *env) (any, error) {
			var args struct {
				Operator gravis.Address `json:"operator"`
				Approved bool           `json:"approved"`
			}
			env.Args(&args)
			return nil, collection.New(env.addr, env.State()).SetApprovalForAll(env.Environment, args.Operator, args.Approved)
		}},
		{name: "safeTransferFrom", run: func(env *env) (any, error) {
			var args struct {
				From   gravis.Address        `json:"from"`
				To     gravis.Address        `json:"to"`
				ID     uint64                `json:"id"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, collection.New(env.addr, env.State()).SafeTransferFrom(env.Environment, args.From, args.To, args.ID, bigOf(args.Amount))
		}},
		{name: "mint", run: func(env *env) (any, error) {
			var args struct {
				To     gravis.Address        `json:"to"`
				ID     uint64                `json:"id"`
				Amount *math.HexOrDecimal256 `json:"amount"`
			}
			env.Args(&args)
			return nil, collection.New(env.addr, env.State()).Mint(env.Environment, args.To, args.ID, bigOf(args.Amount))
		}},
	} {
		collectionMethods[m.name] = m
	}
}
