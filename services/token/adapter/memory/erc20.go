// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package memory holds in-process stand-ins for the contracts the token trades against: a plain
// fungible token, a pair factory, constant-product pairs and a router. They keep their state in the
// machine's StateDB so a reverted call reverts them too.
package memory

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/services/statestorage"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/pkg/errors"
)

const (
	TOTAL_SUPPLY_KEY = "_TOTAL_SUPPLY_"
	BALANCE_PREFIX   = "balance:"
	ALLOWANCE_PREFIX = "allowance:"
)

var ErrInsufficientBalance = errors.New("erc20: transfer amount exceeds balance")
var ErrInsufficientAllowance = errors.New("erc20: insufficient allowance")

type ERC20 struct {
	address common.Address
	name    string
	symbol  string
	state   *statestorage.StateDB
}

func DeployERC20(env adapter.Environment, deployer common.Address, name string, symbol string, supply *uint256.Int) (*ERC20, error) {
	t := &ERC20{
		address: env.DeriveAddress(deployer),
		name:    name,
		symbol:  symbol,
		state:   env.State(),
	}
	if !supply.IsZero() {
		t.mint(deployer, supply)
	}
	if err := env.Register(t.address, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ERC20) Address() common.Address {
	return t.address
}

func (t *ERC20) Name() string {
	return t.name
}

func (t *ERC20) Symbol() string {
	return t.symbol
}

func (t *ERC20) TotalSupply() *uint256.Int {
	return t.state.ReadUint256(t.address, TOTAL_SUPPLY_KEY)
}

func (t *ERC20) BalanceOf(account common.Address) *uint256.Int {
	return t.state.ReadUint256(t.address, BALANCE_PREFIX+account.Hex())
}

func (t *ERC20) Allowance(owner common.Address, spender common.Address) *uint256.Int {
	return t.state.ReadUint256(t.address, ALLOWANCE_PREFIX+owner.Hex()+":"+spender.Hex())
}

func (t *ERC20) Transfer(sender common.Address, to common.Address, amount *uint256.Int) error {
	return t.state.Atomically(func() error {
		return t.move(sender, to, amount)
	})
}

func (t *ERC20) TransferFrom(sender common.Address, from common.Address, to common.Address, amount *uint256.Int) error {
	return t.state.Atomically(func() error {
		allowance := t.Allowance(from, sender)
		if allowance.Lt(amount) {
			return errors.Wrapf(ErrInsufficientAllowance, "%s over %s", sender.Hex(), from.Hex())
		}
		t.approve(from, sender, new(uint256.Int).Sub(allowance, amount))
		return t.move(from, to, amount)
	})
}

func (t *ERC20) Approve(sender common.Address, spender common.Address, amount *uint256.Int) error {
	t.approve(sender, spender, amount)
	return nil
}

func (t *ERC20) mint(to common.Address, amount *uint256.Int) {
	t.state.WriteUint256(t.address, TOTAL_SUPPLY_KEY, new(uint256.Int).Add(t.TotalSupply(), amount))
	t.state.WriteUint256(t.address, BALANCE_PREFIX+to.Hex(), new(uint256.Int).Add(t.BalanceOf(to), amount))
	t.state.AddLog(events.Transfer(t.address, common.Address{}, to, amount))
}

func (t *ERC20) move(from common.Address, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return errors.New("erc20: transfer to the zero address")
	}
	balance := t.BalanceOf(from)
	if balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %s", from.Hex(), balance.ToBig())
	}
	t.state.WriteUint256(t.address, BALANCE_PREFIX+from.Hex(), new(uint256.Int).Sub(balance, amount))
	t.state.WriteUint256(t.address, BALANCE_PREFIX+to.Hex(), new(uint256.Int).Add(t.BalanceOf(to), amount))
	t.state.AddLog(events.Transfer(t.address, from, to, amount))
	return nil
}

func (t *ERC20) approve(owner common.Address, spender common.Address, amount *uint256.Int) {
	t.state.WriteUint256(t.address, ALLOWANCE_PREFIX+owner.Hex()+":"+spender.Hex(), amount)
	t.state.AddLog(events.Approval(t.address, owner, spender, amount))
}
