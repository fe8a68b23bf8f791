// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package acceptance

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/bootstrap"
	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/token"
	"github.com/kindora-project/kindora-go/test"
	"github.com/kindora-project/kindora-go/test/with"
	"github.com/stretchr/testify/require"
)

var (
	alice   = bootstrap.AccountAddress("alice")
	bob     = bootstrap.AccountAddress("bob")
	charity = bootstrap.AccountAddress("charity")
)

type network struct {
	*bootstrap.Deployment
	t        *testing.T
	ctx      context.Context
	registry metric.Registry
}

func withNetwork(t *testing.T, cfg config.TokenConfig, f func(n *network)) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			registry := metric.NewRegistry()
			d, err := bootstrap.NewDeployment(ctx, cfg, parent.Logger, registry)
			require.NoError(t, err)

			n := &network{Deployment: d, t: t, ctx: ctx, registry: registry}
			f(n)
			n.requireLedgerInvariants()
		})
	})
}

func (n *network) tokens(whole uint64) *uint256.Int {
	return n.TokenUnits(whole)
}

func (n *network) transfer(from common.Address, to common.Address, amount *uint256.Int) error {
	_, err := n.Machine.Execute(n.ctx, "transfer", func() error {
		return n.Token.Transfer(from, to, amount)
	})
	return err
}

func (n *network) mustTransfer(from common.Address, to common.Address, amount *uint256.Int) {
	require.NoError(n.t, n.transfer(from, to, amount))
}

func (n *network) mustSell(seller common.Address, amount *uint256.Int) {
	_, err := n.Sell(n.ctx, seller, amount)
	require.NoError(n.t, err)
}

func (n *network) mustBuy(buyer common.Address, value *uint256.Int) {
	_, err := n.Buy(n.ctx, buyer, value)
	require.NoError(n.t, err)
}

func (n *network) asOwner(f func(t *token.Token, owner common.Address) error) error {
	_, err := n.Machine.Execute(n.ctx, "owner call", func() error {
		return f(n.Token, n.Owner)
	})
	return err
}

func (n *network) nativeBalance(account common.Address) *uint256.Int {
	return n.Machine.State().NativeBalance(account)
}

// requireLedgerInvariants checks that balances sum to the total supply and that the contract
// holds at least what its accumulators promise.
func (n *network) requireLedgerInvariants() {
	sum := new(uint256.Int)
	n.Token.ForEachHolder(func(_ common.Address, balance *uint256.Int) {
		sum.Add(sum, balance)
	})
	require.Equal(n.t, n.Token.TotalSupply(), sum, "balances must add up to the total supply")

	accumulated := new(uint256.Int).Add(n.Token.CharityTokens(), n.Token.LiquidityTokens())
	require.False(n.t, n.Token.BalanceOf(n.Token.Address()).Lt(accumulated), "contract balance must cover the accumulators")

	require.False(n.t, n.Token.InSwap(), "swap lock must be released between calls")
}
