// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/pkg/errors"
)

// RescueTokens sends amount of another token held by this contract to the owner.
func (t *Token) RescueTokens(sender common.Address, tokenAddress common.Address, amount *uint256.Int) error {
	return t.ownerCall(sender, func() error {
		if tokenAddress == (common.Address{}) {
			return errors.Wrap(ErrInvalidArgument, "token is the zero address")
		}
		if tokenAddress == t.address {
			return errors.Wrap(ErrInvariantViolation, "cannot rescue the token itself")
		}
		if amount.IsZero() {
			return errors.Wrap(ErrInvalidArgument, "rescue amount is zero")
		}

		foreign, ok := adapter.ResolveFungibleToken(t.env, tokenAddress)
		if !ok {
			return errors.Wrapf(ErrInvalidArgument, "no token at %s", tokenAddress.Hex())
		}
		if balance := foreign.BalanceOf(t.address); balance.Lt(amount) {
			return errors.Wrapf(ErrInvariantViolation, "rescue of %s exceeds the balance of %s", amount.ToBig(), balance.ToBig())
		}

		owner := t.Owner()
		if err := foreign.Transfer(t.address, owner, amount); err != nil {
			return errors.Wrapf(ErrExternalCallFailure, "rescue transfer: %s", err)
		}
		t.emit(TOKENS_RESCUED, []common.Address{tokenAddress, owner}, amount)
		t.logger.Info("tokens rescued", logfields.Address("token", tokenAddress), logfields.Amount("amount", amount))
		return nil
	})
}

// RescueNative sends amount of the native currency held by this contract to the owner.
func (t *Token) RescueNative(sender common.Address, amount *uint256.Int) error {
	return t.ownerCall(sender, func() error {
		if amount.IsZero() {
			return errors.Wrap(ErrInvalidArgument, "rescue amount is zero")
		}
		if balance := t.state.NativeBalance(t.address); balance.Lt(amount) {
			return errors.Wrapf(ErrInvariantViolation, "rescue of %s exceeds the native balance of %s", amount.ToBig(), balance.ToBig())
		}

		owner := t.Owner()
		if err := t.state.TransferNative(t.address, owner, amount); err != nil {
			return err
		}
		t.emit(NATIVE_RESCUED, []common.Address{owner}, amount)
		t.logger.Info("native currency rescued", logfields.Amount("amount", amount))
		return nil
	})
}
