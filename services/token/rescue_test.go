// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"testing"

	"github.com/kindora-project/kindora-go/services/token/adapter/memory"
	"github.com/kindora-project/kindora-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRescueTokens_SendsForeignTokensToOwner(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)
		var stray *memory.ERC20
		h.mustExecute("deploy stray token", func() (err error) {
			if stray, err = memory.DeployERC20(h.machine, alice, "Stray", "STRAY", tokens(100)); err != nil {
				return err
			}
			return stray.Transfer(alice, h.token.Address(), tokens(40))
		})

		_, err := h.execute("too much", func() error {
			return h.token.RescueTokens(owner, stray.Address(), tokens(41))
		})
		require.True(t, errors.Is(err, ErrInvariantViolation), "got %v", err)

		receipt := h.mustExecute("rescue", func() error {
			return h.token.RescueTokens(owner, stray.Address(), tokens(40))
		})
		requireEvent(t, receipt, h.token.Address(), TOKENS_RESCUED)
		require.Equal(t, tokens(40), stray.BalanceOf(owner))
		require.True(t, stray.BalanceOf(h.token.Address()).IsZero())
	})
}

func TestRescueTokens_RejectsOwnToken(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)
		h.mustExecute("include owner", func() error {
			return h.token.ExcludeFromFees(owner, owner, false)
		})
		h.mustTransfer(owner, h.token.Pair(), tokens(10000))

		_, err := h.execute("rescue own token", func() error {
			return h.token.RescueTokens(owner, h.token.Address(), tokens(1))
		})
		require.True(t, errors.Is(err, ErrInvariantViolation), "got %v", err)

		_, err = h.execute("rescue zero", func() error {
			return h.token.RescueTokens(owner, h.weth.Address(), tokens(0))
		})
		require.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		require.Equal(t, tokens(400), h.token.BalanceOf(h.token.Address()))
	})
}

func TestRescueNative_BoundedByBalance(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)
		h.mustExecute("send native", func() error {
			return h.token.Receive(owner, native(5))
		})

		_, err := h.execute("too much", func() error {
			return h.token.RescueNative(owner, native(6))
		})
		require.True(t, errors.Is(err, ErrInvariantViolation), "got %v", err)

		receipt := h.mustExecute("rescue", func() error {
			return h.token.RescueNative(owner, native(5))
		})
		requireEvent(t, receipt, h.token.Address(), NATIVE_RESCUED)
		require.True(t, h.nativeBalance(h.token.Address()).IsZero())
		require.Equal(t, native(1000), h.nativeBalance(owner))
	})
}
