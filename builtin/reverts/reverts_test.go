// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.True(t, IsValidation(Validation("zero amount")))
	assert.True(t, IsState(State("withdraw locked")))
	assert.True(t, IsAuthorization(Unauthorized()))
	assert.Equal(t, "caller is not the owner", Unauthorized().Error())

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("io")))
	assert.Equal(t, Kind(0), KindOf(errors.New("io")))
	assert.Equal(t, "state", KindState.String())
}

func TestWrapped(t *testing.T) {
	err := errors.WithMessage(State("pool not exists"), "chef")
	assert.True(t, IsRevertErr(err))
	assert.True(t, IsState(err))
	assert.True(t, errors.Is(err, State("pool not exists")))
	assert.False(t, errors.Is(err, Validation("pool not exists")))
}

func TestBytes(t *testing.T) {
	var nilErr *Error
	assert.Nil(t, nilErr.Bytes())

	b := State("paused").Bytes()
	assert.Len(t, b, 4+32+32+32)
	assert.Equal(t, "08c379a0", hex.EncodeToString(b[:4]))
	assert.Equal(t, byte(0x20), b[4+31])
	assert.Equal(t, byte(6), b[4+63])
	assert.Equal(t, "paused", string(b[68:74]))
}
