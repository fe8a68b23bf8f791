// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/pkg/errors"
)

func (t *Token) Transfer(sender common.Address, to common.Address, amount *uint256.Int) error {
	return t.state.Atomically(func() error {
		return t.transfer(sender, to, amount)
	})
}

// TransferFrom spends the allowance of sender over from's tokens. An allowance of max uint256 is
// never decreased.
func (t *Token) TransferFrom(sender common.Address, from common.Address, to common.Address, amount *uint256.Int) error {
	return t.state.Atomically(func() error {
		if err := t._spendAllowance(from, sender, amount); err != nil {
			return err
		}
		return t.transfer(from, to, amount)
	})
}

func (t *Token) Approve(sender common.Address, spender common.Address, amount *uint256.Int) error {
	return t.state.Atomically(func() error {
		return t._approve(sender, spender, amount)
	})
}

func (t *Token) IncreaseAllowance(sender common.Address, spender common.Address, addedValue *uint256.Int) error {
	return t.state.Atomically(func() error {
		allowance, overflow := new(uint256.Int).AddOverflow(t.Allowance(sender, spender), addedValue)
		if overflow {
			return errors.Wrap(ErrInvalidArgument, "allowance overflows")
		}
		return t._approve(sender, spender, allowance)
	})
}

func (t *Token) DecreaseAllowance(sender common.Address, spender common.Address, subtractedValue *uint256.Int) error {
	return t.state.Atomically(func() error {
		current := t.Allowance(sender, spender)
		if current.Lt(subtractedValue) {
			return errors.Wrap(ErrInsufficientAllowance, "decreased allowance below zero")
		}
		return t._approve(sender, spender, new(uint256.Int).Sub(current, subtractedValue))
	})
}

// Receive accepts native currency sent to the token; the router pays swap proceeds this way.
func (t *Token) Receive(sender common.Address, value *uint256.Int) error {
	return t.state.TransferNative(sender, t.address, value)
}

func (t *Token) _move(from common.Address, to common.Address, amount *uint256.Int) error {
	balance := t.BalanceOf(from)
	if balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %s, needs %s", from.Hex(), balance.ToBig(), amount.ToBig())
	}
	t.state.WriteUint256(t.address, balanceKey(from), new(uint256.Int).Sub(balance, amount))
	t.state.WriteUint256(t.address, balanceKey(to), new(uint256.Int).Add(t.BalanceOf(to), amount))
	t.state.AddLog(events.Transfer(t.address, from, to, amount))
	return nil
}

func (t *Token) _mint(to common.Address, amount *uint256.Int) {
	t.state.WriteUint256(t.address, TOTAL_SUPPLY_KEY, new(uint256.Int).Add(t.TotalSupply(), amount))
	t.state.WriteUint256(t.address, balanceKey(to), new(uint256.Int).Add(t.BalanceOf(to), amount))
	t.state.AddLog(events.Transfer(t.address, common.Address{}, to, amount))
}

func (t *Token) _burn(from common.Address, amount *uint256.Int) error {
	balance := t.BalanceOf(from)
	if balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "burn of %s from %s", amount.ToBig(), from.Hex())
	}
	t.state.WriteUint256(t.address, balanceKey(from), new(uint256.Int).Sub(balance, amount))
	t.state.WriteUint256(t.address, TOTAL_SUPPLY_KEY, new(uint256.Int).Sub(t.TotalSupply(), amount))
	t.state.AddLog(events.Transfer(t.address, from, common.Address{}, amount))
	return nil
}

func (t *Token) _approve(owner common.Address, spender common.Address, amount *uint256.Int) error {
	if owner == (common.Address{}) {
		return errors.Wrap(ErrInvalidArgument, "approve from the zero address")
	}
	if spender == (common.Address{}) {
		return errors.Wrap(ErrInvalidArgument, "approve to the zero address")
	}
	t.state.WriteUint256(t.address, allowanceKey(owner, spender), amount)
	t.state.AddLog(events.Approval(t.address, owner, spender, amount))
	return nil
}

func (t *Token) _spendAllowance(owner common.Address, spender common.Address, amount *uint256.Int) error {
	current := t.Allowance(owner, spender)
	if current.Eq(maxUint256) {
		return nil
	}
	if current.Lt(amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "%s may spend %s of %s, needs %s", spender.Hex(), current.ToBig(), owner.Hex(), amount.ToBig())
	}
	return t._approve(owner, spender, new(uint256.Int).Sub(current, amount))
}
