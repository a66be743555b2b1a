// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
)

// Kind classifies why a call was rejected.
type Kind uint8

const (
	// KindValidation rejects malformed input: invalid ids, zero amounts or addresses, mismatched arrays.
	KindValidation Kind = iota + 1
	// KindAuthorization rejects a caller that is not allowed to invoke the operation.
	KindAuthorization
	// KindState rejects a call whose precondition on the current ledger state does not hold.
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a revert: the call is rejected and none of its effects are kept.
type Error struct {
	kind    Kind
	message string
}

func newError(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Validation returns a validation revert.
func Validation(message string) *Error { return newError(KindValidation, message) }

// State returns a state revert.
func State(message string) *Error { return newError(KindState, message) }

// Authorization returns an authorization revert.
func Authorization(message string) *Error { return newError(KindAuthorization, message) }

// Unauthorized returns the authorization revert of owner-gated operations.
func Unauthorized() *Error { return Authorization("caller is not the owner") }

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Bytes returns the revert reason abi encoded as Error(string).
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}

	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	msgBytes := []byte(e.message)
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, selector)
	// offset of the string is always 0x20
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msgBytes)))
	copy(encoded[4+64:], msgBytes)
	return encoded
}

// Is reports errors of the same kind and message as equal, so sentinel reverts work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind && t.message == e.message
}

// IsRevertErr returns whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var re *Error
	return errors.As(err, &re) && re != nil
}

// KindOf returns the kind of a revert, 0 for other errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) && re != nil {
		return re.kind
	}
	return 0
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsState(err error) bool         { return KindOf(err) == KindState }
