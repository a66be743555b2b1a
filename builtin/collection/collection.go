// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collection implements a semi-fungible collection: every token id has a
// fungible supply, balances are kept per (id, owner).
package collection

import (
	"encoding/binary"
	"math/big"

	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/builtin/solidity"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/state"
	"github.com/gravis-finance/incentives/xenv"
)

var (
	slotMeta      = nameToSlot("meta")
	slotBalances  = nameToSlot("balances")
	slotOperators = nameToSlot("operators")

	errNotDeployed     = reverts.State("collection not deployed")
	errAlreadyDeployed = reverts.State("collection already deployed")
	errZeroAddress     = reverts.Validation("zero address")
	errNotApproved     = reverts.Authorization("caller is not owner nor approved")
	errInsufficient    = reverts.State("insufficient balance for transfer")
	errNegative        = reverts.Validation("negative amount")
)

func nameToSlot(name string) gravis.Bytes32 {
	return gravis.BytesToBytes32([]byte("collection/" + name))
}

// Meta describes a deployed collection. The admin mints.
type Meta struct {
	Name  string
	Admin gravis.Address
}

type balanceKey struct {
	id    uint64
	owner gravis.Address
}

func (k balanceKey) Bytes() []byte {
	b := make([]byte, 8, 8+gravis.AddressLength)
	binary.BigEndian.PutUint64(b, k.id)
	return append(b, k.owner[:]...)
}

type operatorKey struct {
	owner, operator gravis.Address
}

func (k operatorKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*gravis.AddressLength), k.owner[:]...), k.operator[:]...)
}

// Collection is the semi-fungible collection at an address.
type Collection struct {
	addr      gravis.Address
	meta      *solidity.Raw[*Meta]
	balances  *solidity.Mapping[balanceKey, *big.Int]
	operators *solidity.Mapping[operatorKey, bool]
}

// New binds the collection at addr to the state.
func New(addr gravis.Address, st *state.State) *Collection {
	ctx := solidity.NewContext(addr, st)
	return &Collection{
		addr:      addr,
		meta:      solidity.NewRaw[*Meta](ctx, slotMeta),
		balances:  solidity.NewMapping[balanceKey, *big.Int](ctx, slotBalances),
		operators: solidity.NewMapping[operatorKey, bool](ctx, slotOperators),
	}
}

func (c *Collection) Address() gravis.Address { return c.addr }

// Deploy initializes the collection.
func (c *Collection) Deploy(meta *Meta) error {
	current, err := c.meta.Get()
	if err != nil {
		return err
	}
	if !current.Admin.IsZero() {
		return errAlreadyDeployed
	}
	if meta.Admin.IsZero() {
		return errZeroAddress
	}
	return c.meta.Set(meta)
}

// Exists returns whether the collection was deployed.
func (c *Collection) Exists() (bool, error) {
	meta, err := c.meta.Get()
	if err != nil {
		return false, err
	}
	return !meta.Admin.IsZero(), nil
}

// Meta returns the collection description.
func (c *Collection) Meta() (*Meta, error) {
	meta, err := c.meta.Get()
	if err != nil {
		return nil, err
	}
	if meta.Admin.IsZero() {
		return nil, errNotDeployed
	}
	return meta, nil
}

func (c *Collection) BalanceOf(owner gravis.Address, id uint64) (*big.Int, error) {
	return c.balances.Get(balanceKey{id, owner})
}

func (c *Collection) IsApprovedForAll(owner, operator gravis.Address) (bool, error) {
	return c.operators.Get(operatorKey{owner, operator})
}

// SetApprovalForAll lets operator move all tokens of the caller.
func (c *Collection) SetApprovalForAll(env *xenv.Environment, operator gravis.Address, approved bool) error {
	if _, err := c.Meta(); err != nil {
		return err
	}
	if operator.IsZero() {
		return errZeroAddress
	}
	if err := c.operators.Set(operatorKey{env.Caller(), operator}, approved); err != nil {
		return err
	}
	env.Log(c.addr, &EventApprovalForAll{Owner: env.Caller(), Operator: operator, Approved: approved})
	return nil
}

// Mint creates amount units of id for to. Only the admin may mint.
func (c *Collection) Mint(env *xenv.Environment, to gravis.Address, id uint64, amount *big.Int) error {
	meta, err := c.Meta()
	if err != nil {
		return err
	}
	if env.Caller() != meta.Admin {
		return reverts.Unauthorized()
	}
	if to.IsZero() {
		return errZeroAddress
	}
	if amount.Sign() < 0 {
		return errNegative
	}
	if err := c.add(balanceKey{id, to}, amount); err != nil {
		return err
	}
	env.Log(c.addr, &EventTransferSingle{Operator: env.Caller(), To: to, ID: id, Value: amount})
	return nil
}

// SafeTransferFrom moves amount units of id from from to to.
// The caller must be from or an approved operator of from.
func (c *Collection) SafeTransferFrom(env *xenv.Environment, from, to gravis.Address, id uint64, amount *big.Int) error {
	if _, err := c.Meta(); err != nil {
		return err
	}
	if to.IsZero() {
		return errZeroAddress
	}
	if amount.Sign() < 0 {
		return errNegative
	}
	if env.Caller() != from {
		approved, err := c.operators.Get(operatorKey{from, env.Caller()})
		if err != nil {
			return err
		}
		if !approved {
			return errNotApproved
		}
	}
	fromKey := balanceKey{id, from}
	balance, err := c.balances.Get(fromKey)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errInsufficient
	}
	if err := c.balances.Set(fromKey, balance.Sub(balance, amount)); err != nil {
		return err
	}
	if err := c.add(balanceKey{id, to}, amount); err != nil {
		return err
	}
	env.Log(c.addr, &EventTransferSingle{Operator: env.Caller(), From: from, To: to, ID: id, Value: amount})
	return nil
}

func (c *Collection) add(key balanceKey, amount *big.Int) error {
	balance, err := c.balances.Get(key)
	if err != nil {
		return err
	}
	return c.balances.Set(key, balance.Add(balance, amount))
}

type EventTransferSingle struct {
	Operator gravis.Address `json:"operator"`
	From     gravis.Address `json:"from"`
	To       gravis.Address `json:"to"`
	ID       uint64         `json:"id"`
	Value    *big.Int       `json:"value"`
}

func (*EventTransferSingle) EventName() string { return "TransferSingle" }

type EventApprovalForAll struct {
	Owner    gravis.Address `json:"owner"`
	Operator gravis.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

func (*EventApprovalForAll) EventName() string { return "ApprovalForAll" }
