// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/builtin"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/state"
)

type Chain interface {
	View(fn func(st *state.State, blockNumber uint32, blockTime uint64) error) error
}

// Token is a deployed fungible token.
type Token struct {
	Address     gravis.Address        `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

// Account is the holding of an owner.
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Tokens struct {
	chain Chain
}

func New(chain Chain) *Tokens {
	return &Tokens{chain}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.Address(req, "address")
	if err != nil {
		return err
	}
	var token *Token
	err = t.chain.View(func(st *state.State, _ uint32, _ uint64) error {
		tk := builtin.TokenAt(addr, st)
		meta, err := tk.Meta()
		if err != nil {
			return err
		}
		supply, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		token = &Token{
			Address:     addr,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    meta.Decimals,
			TotalSupply: (*math.HexOrDecimal256)(supply),
		}
		return nil
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, token)
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.Address(req, "address")
	if err != nil {
		return err
	}
	owner, err := utils.Address(req, "owner")
	if err != nil {
		return err
	}
	var acc *Account
	err = t.chain.View(func(st *state.State, _ uint32, _ uint64) error {
		balance, err := builtin.TokenAt(addr, st).BalanceOf(owner)
		if err != nil {
			return err
		}
		acc = &Account{Balance: (*math.HexOrDecimal256)(balance)}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/accounts/{owner}").
		Methods(http.MethodGet).
		Name("tokens_get_account").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
}
