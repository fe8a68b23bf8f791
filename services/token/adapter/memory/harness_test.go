// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0xde")
	trader   = common.HexToAddress("0x7a")
)

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1000000000000000000))
}

type harness struct {
	tb      testing.TB
	machine *virtualmachine.Machine
	weth    *ERC20
	token   *ERC20
	factory *Factory
	router  *Router
}

func newHarness(tb testing.TB, logger log.Logger) *harness {
	h := &harness{tb: tb, machine: virtualmachine.NewMachine(logger, metric.NewRegistry())}
	require.NoError(tb, h.machine.AllocateNative(deployer, ether(1000)))
	require.NoError(tb, h.machine.AllocateNative(trader, ether(10)))

	h.execute("deploy", func() (err error) {
		if h.weth, err = DeployERC20(h.machine, deployer, "Wrapped Native", "WNATIVE", new(uint256.Int)); err != nil {
			return err
		}
		if h.token, err = DeployERC20(h.machine, deployer, "Plain", "PLN", ether(1000000)); err != nil {
			return err
		}
		if h.factory, err = DeployFactory(h.machine, deployer); err != nil {
			return err
		}
		h.router, err = DeployRouter(h.machine, deployer, h.factory.Address(), h.weth.Address(), logger)
		return err
	})
	return h
}

func (h *harness) run(description string, f func() error) error {
	_, err := h.machine.Execute(context.Background(), description, f)
	return err
}

func (h *harness) execute(description string, f func() error) {
	require.NoError(h.tb, h.run(description, f), "call %s failed", description)
}

func (h *harness) addLiquidity(tokenAmount *uint256.Int, nativeAmount *uint256.Int) (liquidity *uint256.Int) {
	h.execute("add liquidity", func() (err error) {
		if err = h.token.Approve(deployer, h.router.Address(), tokenAmount); err != nil {
			return err
		}
		_, _, liquidity, err = h.router.AddLiquidityNative(deployer, nativeAmount, h.token.Address(), tokenAmount, new(uint256.Int), new(uint256.Int), deployer, h.machine.BlockTimestamp())
		return err
	})
	return liquidity
}

func (h *harness) pair() *Pair {
	pair, ok := h.factory.Pair(h.factory.GetPair(h.token.Address(), h.weth.Address()))
	require.True(h.tb, ok, "pair exists")
	return pair
}
