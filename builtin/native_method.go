// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/builtin/collection"
	"github.com/gravis-finance/incentives/builtin/reverts"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/xenv"
)

var (
	errUnknownMethod   = reverts.Validation("unknown method")
	errUnknownContract = reverts.Validation("no contract at address")
)

type addressAndMethod struct {
	gravis.Address
	name string
}

// nativeMethod describes a callable method of a built-in contract.
type nativeMethod struct {
	addr gravis.Address
	name string
	run  func(env *env) (any, error)
}

// env env of native call invocation.
type env struct {
	*xenv.Environment
	addr gravis.Address
	args json.RawMessage
}

type argsError struct{ cause error }

// Args unpack json args into v. Unknown fields are rejected.
func (e *env) Args(v any) {
	if len(e.args) == 0 {
		return
	}
	dec := json.NewDecoder(bytes.NewReader(e.args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		// Call will handle it
		panic(argsError{err})
	}
}

func (c *contract) impl(name string, run func(env *env) (any, error)) *nativeMethod {
	return &nativeMethod{addr: c.Address, name: name, run: run}
}

// Call runs method of the contract at addr on behalf of env's caller.
// Token and collection methods apply to any address where such a contract is deployed.
func Call(xe *xenv.Environment, addr gravis.Address, method string, args json.RawMessage) (output any, err error) {
	m, err := lookup(xe, addr, method)
	if err != nil {
		return nil, err
	}

	defer func() {
		if e := recover(); e != nil {
			if ae, ok := e.(argsError); ok {
				err = reverts.Validation("invalid args: " + ae.cause.Error())
				return
			}
			err = errors.Errorf("native: %v", e)
		}
	}()
	return m.run(&env{xe, addr, args})
}

func lookup(xe *xenv.Environment, addr gravis.Address, method string) (*nativeMethod, error) {
	if m, ok := internalMethods[addressAndMethod{addr, method}]; ok {
		return m, nil
	}
	if _, ok := contracts[addr]; ok {
		return nil, errUnknownMethod
	}

	isToken, err := TokenAt(addr, xe.State()).Exists()
	if err != nil {
		return nil, err
	}
	if isToken {
		if m, ok := tokenMethods[method]; ok {
			return m, nil
		}
		return nil, errUnknownMethod
	}
	isCollection, err := collection.New(addr, xe.State()).Exists()
	if err != nil {
		return nil, err
	}
	if isCollection {
		if m, ok := collectionMethods[method]; ok {
			return m, nil
		}
		return nil, errUnknownMethod
	}
	return nil, errUnknownContract
}
