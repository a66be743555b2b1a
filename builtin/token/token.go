// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible token living in contract storage, used both as
// the reward token and as deposit assets of the farm.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var logger = log.WithContext("pkg", "token")

var (
	slotMeta        = nameToSlot("meta")
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
	slotMinters     = nameToSlot("minters")

	errNotDeployed      = reverts.State("token not deployed")
	errAlreadyDeployed  = reverts.State("token already deployed")
	errZeroAddress      = reverts.Validation("zero address")
	errExceedsBalance   = reverts.State("transfer amount exceeds balance")
	errExceedsAllowance = reverts.State("insufficient allowance")
	errNotMinter        = reverts.Authorization("caller is not a minter")
	errNegative         = reverts.Validation("negative amount")
)

func nameToSlot(name string) gravis.Bytes32 {
	return gravis.BytesToBytes32([]byte("token/" + name))
}

// Meta describes a deployed token.
type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
	Admin    gravis.Address
}

type allowanceKey struct {
	owner, spender gravis.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*gravis.AddressLength), k.owner[:]...), k.spender[:]...)
}

// Token is the fungible token at an address.
type Token struct {
	addr        gravis.Address
	meta        *solidity.Raw[*Meta]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[gravis.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
	minters     *solidity.Mapping[gravis.Address, bool]
}

// New binds the token at addr to the state.
func New(addr gravis.Address, st *state.State) *Token {
	ctx := solidity.NewContext(addr, st)
	return &Token{
		addr:        addr,
		meta:        solidity.NewRaw[*Meta](ctx, slotMeta),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[gravis.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](ctx, slotAllowances),
		minters:     solidity.NewMapping[gravis.Address, bool](ctx, slotMinters),
	}
}

func (t *Token) Address() gravis.Address { return t.addr }

// Deploy initializes the token. The admin may grant the minter role.
func (t *Token) Deploy(meta *Meta) error {
	exists, err := t.Exists()
	if err != nil {
		return err
	}
	if exists {
		return errAlreadyDeployed
	}
	if meta.Admin.IsZero() {
		return errZeroAddress
	}
	logger.Debug("deploy token", "address", t.addr, "symbol", meta.Symbol)
	return t.meta.Set(meta)
}

// Exists returns whether the token was deployed.
func (t *Token) Exists() (bool, error) {
	meta, err := t.meta.Get()
	if err != nil {
		return false, err
	}
	return !meta.Admin.IsZero(), nil
}

// Meta returns the token description.
func (t *Token) Meta() (*Meta, error) {
	meta, err := t.meta.Get()
	if err != nil {
		return nil, err
	}
	if meta.Admin.IsZero() {
		return nil, errNotDeployed
	}
	return meta, nil
}

func (t *Token) mustExist() error {
	exists, err := t.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return errNotDeployed
	}
	return nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(owner gravis.Address) (*big.Int, error) {
	return t.balances.Get(owner)
}

func (t *Token) Allowance(owner, spender gravis.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

func (t *Token) IsMinter(account gravis.Address) (bool, error) {
	return t.minters.Get(account)
}

// GrantMinter gives account the right to mint. Only the admin may call it.
func (t *Token) GrantMinter(env *xenv.Environment, account gravis.Address) error {
	meta, err := t.Meta()
	if err != nil {
		return err
	}
	if env.Caller() != meta.Admin {
		return reverts.Unauthorized()
	}
	if account.IsZero() {
		return errZeroAddress
	}
	return t.minters.Set(account, true)
}

// Mint creates amount tokens for to. The caller must be a minter.
func (t *Token) Mint(env *xenv.Environment, to gravis.Address, amount *big.Int) error {
	if err := t.mustExist(); err != nil {
		return err
	}
	ok, err := t.minters.Get(env.Caller())
	if err != nil {
		return err
	}
	if !ok {
		return errNotMinter
	}
	if to.IsZero() {
		return errZeroAddress
	}
	if amount.Sign() < 0 {
		return errNegative
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.add(to, amount); err != nil {
		return err
	}
	env.Log(t.addr, &EventTransfer{From: gravis.ZeroAddress, To: to, Value: amount})
	return nil
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(env *xenv.Environment, to gravis.Address, amount *big.Int) error {
	return t.transfer(env, env.Caller(), to, amount)
}

// TransferFrom moves amount from from to to, spending the caller's allowance.
// An allowance of 2^256-1 is never decreased.
func (t *Token) TransferFrom(env *xenv.Environment, from, to gravis.Address, amount *big.Int) error {
	if err := t.mustExist(); err != nil {
		return err
	}
	key := allowanceKey{from, env.Caller()}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return errExceedsAllowance
	}
	if allowance.Cmp(solidity.MaxUint256) != 0 {
		if err := t.allowances.Set(key, new(big.Int).Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.transfer(env, from, to, amount)
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(env *xenv.Environment, spender gravis.Address, amount *big.Int) error {
	if err := t.mustExist(); err != nil {
		return err
	}
	if spender.IsZero() {
		return errZeroAddress
	}
	if amount.Sign() < 0 || amount.Cmp(solidity.MaxUint256) > 0 {
		return reverts.Validation("invalid allowance")
	}
	if err := t.allowances.Set(allowanceKey{env.Caller(), spender}, amount); err != nil {
		return err
	}
	env.Log(t.addr, &EventApproval{Owner: env.Caller(), Spender: spender, Value: amount})
	return nil
}

func (t *Token) transfer(env *xenv.Environment, from, to gravis.Address, amount *big.Int) error {
	if err := t.mustExist(); err != nil {
		return err
	}
	if to.IsZero() {
		return errZeroAddress
	}
	if amount.Sign() < 0 {
		return errNegative
	}
	balance, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errExceedsBalance
	}
	if err := t.balances.Set(from, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	if err := t.add(to, amount); err != nil {
		return err
	}
	env.Log(t.addr, &EventTransfer{From: from, To: to, Value: amount})
	return nil
}

func (t *Token) add(to gravis.Address, amount *big.Int) error {
	balance, err := t.balances.Get(to)
	if err != nil {
		return errors.WithMessage(err, "get balance")
	}
	return t.balances.Set(to, balance.Add(balance, amount))
}
