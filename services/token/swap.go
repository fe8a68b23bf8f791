// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// swapLock is held for the whole of a swap. Transfers that the router makes on the token's behalf
// while it is held skip limits, fees and further swaps.
type swapLock struct {
	held bool
}

// acquire returns ok=false if the lock is already held; otherwise release must be deferred.
func (l *swapLock) acquire() (release func(), ok bool) {
	if l.held {
		return nil, false
	}
	l.held = true
	return func() { l.held = false }, true
}

func (l *swapLock) isHeld() bool {
	return l.held
}

func (t *Token) triggerSwaps(p *policy) {
	liquidity := t.LiquidityTokens()
	if !liquidity.Lt(p.minTokensForSwap) && !t.BalanceOf(t.address).Lt(liquidity) && !liquidity.Lt(uint256.NewInt(2)) {
		t.swapAndLiquify(p, liquidity)
	}

	charity := t.CharityTokens()
	if !charity.Lt(p.minTokensForSwap) && !t.BalanceOf(t.address).Lt(charity) {
		t.swapAndSendCharity(p, charity)
	}
}

// swapAndLiquify sells half of tokenAmount for native currency and pairs the other half with the
// proceeds as new liquidity owned by the dead address. It never fails the calling transfer.
func (t *Token) swapAndLiquify(p *policy, tokenAmount *uint256.Int) {
	half := new(uint256.Int).Div(tokenAmount, uint256.NewInt(2))
	otherHalf := new(uint256.Int).Sub(tokenAmount, half)
	if half.IsZero() || otherHalf.IsZero() {
		return
	}

	release, ok := t.swap.acquire()
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	defer t.metrics.swapTime.RecordSince(start)

	t.subLiquidityTokens(tokenAmount)
	snapshot := t.state.Snapshot()

	initialNative := t.state.NativeBalance(t.address)
	if err := t.swapTokensForNative(p, half); err != nil {
		t.state.RevertToSnapshot(snapshot)
		t.addLiquidityTokens(tokenAmount)
		t.swapFailed(LiquiditySwap, tokenAmount, err)
		return
	}

	received := nativeDelta(initialNative, t.state.NativeBalance(t.address))
	if received.IsZero() {
		t.addLiquidityTokens(otherHalf)
		t.logger.Info("swap returned no native currency, liquidity not added", logfields.Amount("tokens", half))
		return
	}

	if err := t.addLiquidity(p, otherHalf, received); err != nil {
		t.state.RevertToSnapshot(snapshot)
		t.addLiquidityTokens(tokenAmount)
		t.swapFailed(LiquiditySwap, tokenAmount, err)
		return
	}

	t.emit(SWAP_AND_LIQUIFY, nil, half, received, otherHalf)
	t.record(t.metrics.swapsExecuted.Inc)
	t.logger.Info("liquidity added",
		logfields.Amount("tokens-swapped", half),
		logfields.Amount("native-received", received),
		logfields.Amount("tokens-into-liquidity", otherHalf),
	)
}

// swapAndSendCharity sells tokenAmount for native currency into the contract and forwards what was
// received to the charity wallet. It never fails the calling transfer.
func (t *Token) swapAndSendCharity(p *policy, tokenAmount *uint256.Int) {
	if p.charityWallet == (common.Address{}) || tokenAmount.IsZero() {
		return
	}

	release, ok := t.swap.acquire()
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	defer t.metrics.swapTime.RecordSince(start)

	t.subCharityTokens(tokenAmount)
	snapshot := t.state.Snapshot()

	initialNative := t.state.NativeBalance(t.address)
	if err := t.swapTokensForNative(p, tokenAmount); err != nil {
		t.state.RevertToSnapshot(snapshot)
		t.addCharityTokens(tokenAmount)
		t.swapFailed(CharitySwap, tokenAmount, err)
		return
	}

	received := nativeDelta(initialNative, t.state.NativeBalance(t.address))
	if !received.IsZero() {
		if err := t.state.TransferNative(t.address, p.charityWallet, received); err != nil {
			t.state.RevertToSnapshot(snapshot)
			t.addCharityTokens(tokenAmount)
			t.swapFailed(CharitySwap, tokenAmount, err)
			return
		}
	} else {
		t.logger.Info("swap returned no native currency, nothing forwarded to charity", logfields.Amount("tokens", tokenAmount))
	}

	t.emit(CHARITY_FUNDS_SENT, []common.Address{p.charityWallet}, tokenAmount, received)
	t.record(t.metrics.swapsExecuted.Inc)
	t.logger.Info("charity funds sent",
		logfields.Address("charity-wallet", p.charityWallet),
		logfields.Amount("tokens-swapped", tokenAmount),
		logfields.Amount("native-sent", received),
	)
}

func (t *Token) swapTokensForNative(p *policy, tokenAmount *uint256.Int) error {
	router, err := t.resolveRouter(p.router)
	if err != nil {
		return err
	}

	if t.Allowance(t.address, router.Address()).Lt(tokenAmount) {
		if err := t._approve(t.address, router.Address(), maxUint256); err != nil {
			return err
		}
	}

	path := []common.Address{t.address, router.WrappedNative()}
	err = router.SwapExactTokensForNativeSupportingFeeOnTransferTokens(t.address, tokenAmount, new(uint256.Int), path, t.address, t.env.BlockTimestamp())
	if err != nil {
		return errors.Wrapf(ErrExternalCallFailure, "swap of %s tokens: %s", tokenAmount.ToBig(), err)
	}
	return nil
}

func (t *Token) addLiquidity(p *policy, tokenAmount *uint256.Int, nativeAmount *uint256.Int) error {
	router, err := t.resolveRouter(p.router)
	if err != nil {
		return err
	}

	_, _, _, err = router.AddLiquidityNative(t.address, nativeAmount, t.address, tokenAmount, new(uint256.Int), new(uint256.Int), DEAD_ADDRESS, t.env.BlockTimestamp())
	if err != nil {
		return errors.Wrapf(ErrExternalCallFailure, "add liquidity of %s tokens: %s", tokenAmount.ToBig(), err)
	}
	return nil
}

func (t *Token) resolveRouter(address common.Address) (adapter.Router, error) {
	router, ok := adapter.ResolveRouter(t.env, address)
	if !ok {
		return nil, errors.Wrapf(ErrExternalCallFailure, "no router at %s", address.Hex())
	}
	return router, nil
}

func (t *Token) swapFailed(kind SwapKind, tokenAmount *uint256.Int, err error) {
	t.emit(SWAP_FAILED, nil, uint256.NewInt(uint64(kind)), tokenAmount)
	t.record(t.metrics.swapsFailed.Inc)
	t.logger.Info("swap failed, tokens returned to the accumulator",
		log.Stringable("swap", kind),
		logfields.Amount("tokens", tokenAmount),
		log.Error(err),
	)
}

func nativeDelta(before *uint256.Int, after *uint256.Int) *uint256.Int {
	if after.Lt(before) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(after, before)
}
