// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// policy is the owner-controlled configuration the transfer path runs under. It is loaded from
// state once per call and changed only through updatePolicy.
type policy struct {
	maxTxAmount     *uint256.Int
	maxWalletAmount *uint256.Int
	limitsInEffect  bool

	minTokensForSwap      *uint256.Int
	swapAndLiquifyEnabled bool
	charityWallet         common.Address

	router common.Address
	pair   common.Address
}

func (t *Token) loadPolicy() *policy {
	return &policy{
		maxTxAmount:           t.MaxTxAmount(),
		maxWalletAmount:       t.MaxWalletAmount(),
		limitsInEffect:        t.LimitsInEffect(),
		minTokensForSwap:      t.MinTokensForSwap(),
		swapAndLiquifyEnabled: t.SwapAndLiquifyEnabled(),
		charityWallet:         t.CharityWallet(),
		router:                t.Router(),
		pair:                  t.Pair(),
	}
}

func (t *Token) storePolicy(p *policy) {
	t.state.WriteUint256(t.address, MAX_TX_AMOUNT_KEY, p.maxTxAmount)
	t.state.WriteUint256(t.address, MAX_WALLET_AMOUNT_KEY, p.maxWalletAmount)
	t.state.WriteBool(t.address, LIMITS_IN_EFFECT_KEY, p.limitsInEffect)
	t.state.WriteUint256(t.address, MIN_TOKENS_FOR_SWAP_KEY, p.minTokensForSwap)
	t.state.WriteBool(t.address, SWAP_AND_LIQUIFY_ENABLED_KEY, p.swapAndLiquifyEnabled)
	t.state.WriteAddress(t.address, CHARITY_WALLET_KEY, p.charityWallet)
	t.state.WriteAddress(t.address, ROUTER_KEY, p.router)
	t.state.WriteAddress(t.address, PAIR_KEY, p.pair)
}

// ownerCall runs f atomically after checking that sender is the owner.
func (t *Token) ownerCall(sender common.Address, f func() error) error {
	return t.state.Atomically(func() error {
		if err := t.onlyOwner(sender); err != nil {
			return err
		}
		return f()
	})
}

// updatePolicy is the single transition owner operations apply to the policy: load, let f change
// it, store. Nothing is stored if f fails.
func (t *Token) updatePolicy(sender common.Address, f func(p *policy) error) error {
	return t.ownerCall(sender, func() error {
		p := t.loadPolicy()
		if err := f(p); err != nil {
			return err
		}
		t.storePolicy(p)
		return nil
	})
}
