// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/token"
	"github.com/kindora-project/kindora-go/services/token/adapter/memory"
	"github.com/kindora-project/kindora-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

const NATIVE_DECIMALS = 18

// OWNER_NATIVE_HEADROOM is allocated to the owner on top of the initial liquidity.
const OWNER_NATIVE_HEADROOM = 1000

var LogTag = log.Service("deployment")

// AccountAddress derives a stable address from a human-readable account name.
func AccountAddress(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(name)))
}

// NativeUnits converts whole units of the native currency to its base units.
func NativeUnits(whole uint64) *uint256.Int {
	return scale(uint256.NewInt(whole), NATIVE_DECIMALS)
}

func scale(whole *uint256.Int, decimals uint32) *uint256.Int {
	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	return new(uint256.Int).Mul(whole, unit)
}

// Deployment is a machine with a wrapped-native token, a factory, a router and the Kindora token
// deployed by Owner, with the configured initial liquidity in the token's pair.
type Deployment struct {
	Owner         common.Address
	Machine       *virtualmachine.Machine
	WrappedNative *memory.ERC20
	Factory       *memory.Factory
	Router        *memory.Router
	Token         *token.Token

	logger log.Logger
}

func NewDeployment(ctx context.Context, cfg config.TokenConfig, parent log.Logger, metricFactory metric.Factory) (*Deployment, error) {
	logger := parent.WithTags(LogTag)
	d := &Deployment{
		Owner:   AccountAddress("owner"),
		Machine: virtualmachine.NewMachine(parent, metricFactory),
		logger:  logger,
	}

	if err := d.Machine.AllocateNative(d.Owner, NativeUnits(cfg.InitialLiquidityNative()+OWNER_NATIVE_HEADROOM)); err != nil {
		return nil, err
	}

	_, err := d.Machine.Execute(ctx, "deploy contracts", func() (err error) {
		if d.WrappedNative, err = memory.DeployERC20(d.Machine, d.Owner, "Wrapped Native", "WNATIVE", new(uint256.Int)); err != nil {
			return err
		}
		if d.Factory, err = memory.DeployFactory(d.Machine, d.Owner); err != nil {
			return err
		}
		if d.Router, err = memory.DeployRouter(d.Machine, d.Owner, d.Factory.Address(), d.WrappedNative.Address(), parent); err != nil {
			return err
		}
		d.Token, err = token.Deploy(d.Machine, d.Owner, d.Router.Address(), cfg, parent, metricFactory)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to deploy contracts")
	}

	if cfg.InitialLiquidityTokens() > 0 && cfg.InitialLiquidityNative() > 0 {
		if _, err := d.AddLiquidity(ctx, d.Owner, d.TokenUnits(cfg.InitialLiquidityTokens()), NativeUnits(cfg.InitialLiquidityNative())); err != nil {
			return nil, errors.Wrap(err, "failed to add initial liquidity")
		}
	}

	logger.Info("deployment ready",
		logfields.Address("token", d.Token.Address()),
		logfields.Address("router", d.Router.Address()),
		logfields.Address("pair", d.Token.Pair()),
	)
	return d, nil
}

// TokenUnits converts whole tokens to base units.
func (d *Deployment) TokenUnits(whole uint64) *uint256.Int {
	return scale(uint256.NewInt(whole), uint32(d.Token.Decimals()))
}

func (d *Deployment) AddLiquidity(ctx context.Context, provider common.Address, tokenAmount *uint256.Int, nativeAmount *uint256.Int) (*types.Receipt, error) {
	return d.Machine.Execute(ctx, "add liquidity", func() error {
		if err := d.Token.Approve(provider, d.Router.Address(), tokenAmount); err != nil {
			return err
		}
		_, _, _, err := d.Router.AddLiquidityNative(provider, nativeAmount, d.Token.Address(), tokenAmount, new(uint256.Int), new(uint256.Int), provider, d.Machine.BlockTimestamp())
		return err
	})
}

// Sell swaps amount of seller's tokens for native currency paid back to seller.
func (d *Deployment) Sell(ctx context.Context, seller common.Address, amount *uint256.Int) (*types.Receipt, error) {
	return d.Machine.Execute(ctx, "sell", func() error {
		if err := d.Token.Approve(seller, d.Router.Address(), amount); err != nil {
			return err
		}
		path := []common.Address{d.Token.Address(), d.WrappedNative.Address()}
		return d.Router.SwapExactTokensForNativeSupportingFeeOnTransferTokens(seller, amount, new(uint256.Int), path, seller, d.Machine.BlockTimestamp())
	})
}

// Buy spends value of buyer's native currency on tokens.
func (d *Deployment) Buy(ctx context.Context, buyer common.Address, value *uint256.Int) (*types.Receipt, error) {
	return d.Machine.Execute(ctx, "buy", func() error {
		path := []common.Address{d.WrappedNative.Address(), d.Token.Address()}
		return d.Router.SwapExactNativeForTokensSupportingFeeOnTransferTokens(buyer, value, new(uint256.Int), path, buyer, d.Machine.BlockTimestamp())
	})
}
