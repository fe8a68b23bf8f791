// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestApproveAndTransferFrom(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)

		receipt := h.mustExecute("approve", func() error {
			return h.token.Approve(owner, alice, tokens(100))
		})
		approval := requireEvent(t, receipt, h.token.Address(), events.APPROVAL)
		require.Equal(t, owner, events.IndexedAddress(approval, 0))
		require.Equal(t, alice, events.IndexedAddress(approval, 1))

		h.mustExecute("transfer from", func() error {
			return h.token.TransferFrom(alice, owner, bob, tokens(60))
		})
		require.Equal(t, tokens(60), h.token.BalanceOf(bob))
		require.Equal(t, tokens(40), h.token.Allowance(owner, alice))

		_, err := h.execute("transfer from", func() error {
			return h.token.TransferFrom(alice, owner, bob, tokens(41))
		})
		require.True(t, errors.Is(err, ErrInsufficientAllowance), "got %v", err)
		require.Equal(t, tokens(40), h.token.Allowance(owner, alice), "failed transfer spent nothing")
	})
}

func TestTransferFrom_UnlimitedAllowanceIsNotSpent(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)
		unlimited := new(uint256.Int).SetAllOne()

		h.mustExecute("approve and spend", func() error {
			if err := h.token.Approve(owner, alice, unlimited); err != nil {
				return err
			}
			return h.token.TransferFrom(alice, owner, bob, tokens(1000))
		})

		require.Equal(t, unlimited, h.token.Allowance(owner, alice))
	})
}

func TestIncreaseAndDecreaseAllowance(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)

		h.mustExecute("increase", func() error {
			if err := h.token.IncreaseAllowance(owner, alice, tokens(10)); err != nil {
				return err
			}
			return h.token.IncreaseAllowance(owner, alice, tokens(5))
		})
		require.Equal(t, tokens(15), h.token.Allowance(owner, alice))

		h.mustExecute("decrease", func() error {
			return h.token.DecreaseAllowance(owner, alice, tokens(15))
		})
		require.True(t, h.token.Allowance(owner, alice).IsZero())

		_, err := h.execute("decrease below zero", func() error {
			return h.token.DecreaseAllowance(owner, alice, uint256.NewInt(1))
		})
		require.True(t, errors.Is(err, ErrInsufficientAllowance), "got %v", err)
	})
}

func TestApprove_RejectsZeroSpender(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)

		_, err := h.execute("approve", func() error {
			return h.token.Approve(owner, common.Address{}, tokens(1))
		})
		require.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
	})
}

func TestReceive_CreditsNativeToTheContract(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newHarnessWithCharity(t, parent.Logger, 0)

		h.mustExecute("send native", func() error {
			return h.token.Receive(owner, native(3))
		})

		require.Equal(t, native(3), h.nativeBalance(h.token.Address()))
		require.Equal(t, native(997), h.nativeBalance(owner))
	})
}
