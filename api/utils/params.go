// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/runtime"
)

// PoolID parses the pool id path variable.
func PoolID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

// Address parses the address path variable name.
func Address(req *http.Request, name string) (gravis.Address, error) {
	addr, err := gravis.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return gravis.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// CallRequest is the body of a call submission.
type CallRequest struct {
	Caller gravis.Address  `json:"caller"`
	To     *gravis.Address `json:"to,omitempty"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Submitter executes calls in the pending block.
type Submitter interface {
	Submit(call *runtime.Call) (*runtime.Receipt, error)
}

// HandleCalls returns a handler submitting calls to the contract at to, or to the
// address named in the body when to is zero.
// A reverted receipt is responded with the status of its revert kind.
func HandleCalls(s Submitter, to gravis.Address) HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body CallRequest
		if err := ParseJSON(req.Body, &body); err != nil {
			return BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Method == "" {
			return BadRequest(errors.New("body: method required"))
		}
		target := to
		if target.IsZero() {
			if body.To == nil {
				return BadRequest(errors.New("body: to required"))
			}
			target = *body.To
		} else if body.To != nil && *body.To != target {
			return BadRequest(errors.New("body: to mismatch"))
		}
		receipt, err := s.Submit(&runtime.Call{
			Caller: body.Caller,
			To:     target,
			Method: body.Method,
			Args:   body.Args,
		})
		if err != nil {
			return err
		}
		status := http.StatusOK
		if receipt.Reverted {
			status = RevertStatus(receipt.RevertKind)
		}
		return WriteJSONStatus(w, status, receipt)
	}
}
