// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// transfer applies limits, fees and the swap trigger to a move of amount from from to to.
func (t *Token) transfer(from common.Address, to common.Address, amount *uint256.Int) error {
	if from == (common.Address{}) {
		return errors.Wrap(ErrInvalidArgument, "transfer from the zero address")
	}
	if to == (common.Address{}) {
		return errors.Wrap(ErrInvalidArgument, "transfer to the zero address")
	}
	if amount.IsZero() {
		return errors.Wrap(ErrInvalidArgument, "transfer amount is zero")
	}

	t.record(func() { t.metrics.transfers.Measure(1) })
	p := t.loadPolicy()
	inSwap := t.swap.isHeld()

	if p.limitsInEffect && !inSwap {
		if err := t.checkLimits(p, from, to, amount); err != nil {
			return err
		}
	}

	isBuy := from == p.pair
	isSell := to == p.pair
	takeFee := (isBuy || isSell) && !t.IsExcludedFromFees(from) && !t.IsExcludedFromFees(to) && !inSwap

	if p.swapAndLiquifyEnabled && !inSwap && !isBuy {
		t.triggerSwaps(p)
	}

	if !takeFee {
		return t._move(from, to, amount)
	}
	return t.transferWithFee(from, to, amount)
}

func (t *Token) checkLimits(p *policy, from common.Address, to common.Address, amount *uint256.Int) error {
	if !t.IsExcludedFromMaxTx(from) && !t.IsExcludedFromMaxTx(to) && amount.Gt(p.maxTxAmount) {
		return &LimitExceededError{Kind: MaxTx, Amount: amount, Limit: p.maxTxAmount}
	}

	if !t.IsExcludedFromMaxWallet(to) && to != p.pair && to != p.router {
		balance, overflow := new(uint256.Int).AddOverflow(t.BalanceOf(to), amount)
		if overflow || balance.Gt(p.maxWalletAmount) {
			return &LimitExceededError{Kind: MaxWallet, Amount: balance, Limit: p.maxWalletAmount}
		}
	}
	return nil
}

// transferWithFee moves the fee into the contract, burns its burn share and books the charity and
// liquidity shares before paying the rest to the recipient.
func (t *Token) transferWithFee(from common.Address, to common.Address, amount *uint256.Int) error {
	split := computeFeeSplit(amount)
	if split.fee.IsZero() {
		return t._move(from, to, amount)
	}

	if balance := t.BalanceOf(from); balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %s, needs %s", from.Hex(), balance.ToBig(), amount.ToBig())
	}
	if err := t._move(from, t.address, split.fee); err != nil {
		return err
	}
	if err := t._burn(t.address, split.burn); err != nil {
		return err
	}
	t.addCharityTokens(split.charity)
	t.addLiquidityTokens(split.liquidity)

	t.record(t.metrics.taxedTransfers.Inc)
	t.reportSupply()

	return t._move(from, to, split.transfer)
}

func (t *Token) addCharityTokens(amount *uint256.Int) {
	t.state.WriteUint256(t.address, CHARITY_TOKENS_KEY, new(uint256.Int).Add(t.CharityTokens(), amount))
	t.reportAccumulators()
}

func (t *Token) addLiquidityTokens(amount *uint256.Int) {
	t.state.WriteUint256(t.address, LIQUIDITY_TOKENS_KEY, new(uint256.Int).Add(t.LiquidityTokens(), amount))
	t.reportAccumulators()
}

func (t *Token) subCharityTokens(amount *uint256.Int) {
	t.state.WriteUint256(t.address, CHARITY_TOKENS_KEY, new(uint256.Int).Sub(t.CharityTokens(), amount))
	t.reportAccumulators()
}

func (t *Token) subLiquidityTokens(amount *uint256.Int) {
	t.state.WriteUint256(t.address, LIQUIDITY_TOKENS_KEY, new(uint256.Int).Sub(t.LiquidityTokens(), amount))
	t.reportAccumulators()
}
