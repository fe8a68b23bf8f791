// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/token/adapter/memory"
	"github.com/kindora-project/kindora-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
)

var (
	owner   = account("owner")
	alice   = account("alice")
	bob     = account("bob")
	charity = account("charity")
)

func account(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(name)))
}

var unit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))

func tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), unit)
}

func native(n uint64) *uint256.Int {
	return tokens(n)
}

type harness struct {
	tb       testing.TB
	ctx      context.Context
	logger   log.Logger
	registry metric.Registry
	machine  *virtualmachine.Machine
	weth     *memory.ERC20
	factory  *memory.Factory
	router   *memory.Router
	token    *Token
}

func newHarness(tb testing.TB, logger log.Logger, cfg Config) *harness {
	registry := metric.NewRegistry()
	h := &harness{
		tb:       tb,
		ctx:      context.Background(),
		logger:   logger,
		registry: registry,
		machine:  virtualmachine.NewMachine(logger, registry),
	}
	require.NoError(tb, h.machine.AllocateNative(owner, native(1000)))

	h.mustExecute("deploy", func() (err error) {
		if h.weth, err = memory.DeployERC20(h.machine, owner, "Wrapped Native", "WNATIVE", new(uint256.Int)); err != nil {
			return err
		}
		if h.factory, err = memory.DeployFactory(h.machine, owner); err != nil {
			return err
		}
		if h.router, err = memory.DeployRouter(h.machine, owner, h.factory.Address(), h.weth.Address(), logger); err != nil {
			return err
		}
		h.token, err = Deploy(h.machine, owner, h.router.Address(), cfg, logger, registry)
		return err
	})
	return h
}

func newHarnessWithCharity(tb testing.TB, logger log.Logger, minTokensForSwap uint64) *harness {
	return newHarness(tb, logger, config.ForTokenTests(charity, minTokensForSwap))
}

func (h *harness) execute(description string, f func() error) (*types.Receipt, error) {
	return h.machine.Execute(h.ctx, description, f)
}

func (h *harness) mustExecute(description string, f func() error) *types.Receipt {
	receipt, err := h.execute(description, f)
	require.NoError(h.tb, err, "call %s failed", description)
	return receipt
}

func (h *harness) addLiquidity(tokenAmount *uint256.Int, nativeAmount *uint256.Int) {
	h.mustExecute("add liquidity", func() error {
		if err := h.token.Approve(owner, h.router.Address(), tokenAmount); err != nil {
			return err
		}
		_, _, _, err := h.router.AddLiquidityNative(owner, nativeAmount, h.token.Address(), tokenAmount, new(uint256.Int), new(uint256.Int), owner, h.machine.BlockTimestamp())
		return err
	})
}

func (h *harness) transfer(from common.Address, to common.Address, amount *uint256.Int) (*types.Receipt, error) {
	return h.execute("transfer", func() error {
		return h.token.Transfer(from, to, amount)
	})
}

func (h *harness) mustTransfer(from common.Address, to common.Address, amount *uint256.Int) *types.Receipt {
	receipt, err := h.transfer(from, to, amount)
	require.NoError(h.tb, err)
	return receipt
}

// sell swaps amount of from's tokens for native currency through the router.
func (h *harness) sell(from common.Address, amount *uint256.Int) (*types.Receipt, error) {
	return h.execute("sell", func() error {
		if err := h.token.Approve(from, h.router.Address(), amount); err != nil {
			return err
		}
		path := []common.Address{h.token.Address(), h.weth.Address()}
		return h.router.SwapExactTokensForNativeSupportingFeeOnTransferTokens(from, amount, new(uint256.Int), path, from, h.machine.BlockTimestamp())
	})
}

// buy spends value of to's native currency on tokens through the router.
func (h *harness) buy(to common.Address, value *uint256.Int) (*types.Receipt, error) {
	return h.execute("buy", func() error {
		path := []common.Address{h.weth.Address(), h.token.Address()}
		return h.router.SwapExactNativeForTokensSupportingFeeOnTransferTokens(to, value, new(uint256.Int), path, to, h.machine.BlockTimestamp())
	})
}

func (h *harness) nativeBalance(account common.Address) *uint256.Int {
	return h.machine.State().NativeBalance(account)
}

func (h *harness) requireLedgerBalanced() {
	sum := new(big.Int)
	h.token.ForEachHolder(func(_ common.Address, balance *uint256.Int) {
		sum.Add(sum, balance.ToBig())
	})
	require.Equal(h.tb, h.token.TotalSupply().ToBig().String(), sum.String(), "sum of balances differs from the total supply")
}

func requireEvent(tb testing.TB, receipt *types.Receipt, contract common.Address, signature string) *types.Log {
	matched := events.Matching(receipt.Logs, contract, signature)
	require.NotEmpty(tb, matched, "expected a %s event", signature)
	return matched[len(matched)-1]
}

func requireNoEvent(tb testing.TB, receipt *types.Receipt, contract common.Address, signature string) {
	require.Empty(tb, events.Matching(receipt.Logs, contract, signature), "unexpected %s event", signature)
}

func configWithoutCharity() Config {
	return config.ForTokenTests(common.Address{}, 0)
}
