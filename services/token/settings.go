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
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/pkg/errors"
)

func (t *Token) SetCharityWallet(sender common.Address, wallet common.Address) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if wallet == (common.Address{}) {
			return errors.Wrap(ErrInvalidArgument, "charity wallet is the zero address")
		}
		t.emit(CHARITY_WALLET_UPDATED, []common.Address{wallet, p.charityWallet})
		p.charityWallet = wallet
		return nil
	})
}

func (t *Token) SetSwapAndLiquifyEnabled(sender common.Address, enabled bool) error {
	return t.updatePolicy(sender, func(p *policy) error {
		p.swapAndLiquifyEnabled = enabled
		t.emit(SWAP_AND_LIQUIFY_ENABLED_UPDATED, nil, events.Bool(enabled))
		return nil
	})
}

func (t *Token) SetMinTokensForSwap(sender common.Address, amount *uint256.Int) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if amount.IsZero() {
			return errors.Wrap(ErrInvalidArgument, "swap threshold is zero")
		}
		p.minTokensForSwap = new(uint256.Int).Set(amount)
		t.emit(MIN_TOKENS_FOR_SWAP_UPDATED, nil, amount)
		return nil
	})
}

func (t *Token) ExcludeFromFees(sender common.Address, account common.Address, excluded bool) error {
	return t.toggleExclusion(sender, EXCLUDED_FROM_FEES_PREFIX, EXCLUDED_FROM_FEES, account, excluded)
}

func (t *Token) ExcludeFromMaxTx(sender common.Address, account common.Address, excluded bool) error {
	return t.toggleExclusion(sender, EXCLUDED_FROM_MAX_TX_PREFIX, EXCLUDED_FROM_MAX_TX, account, excluded)
}

func (t *Token) ExcludeFromMaxWallet(sender common.Address, account common.Address, excluded bool) error {
	return t.toggleExclusion(sender, EXCLUDED_FROM_MAX_WALLET_PREFIX, EXCLUDED_FROM_MAX_WALLET, account, excluded)
}

func (t *Token) toggleExclusion(sender common.Address, prefix string, signature string, account common.Address, excluded bool) error {
	return t.ownerCall(sender, func() error {
		if account == (common.Address{}) {
			return errors.Wrap(ErrInvalidArgument, "account is the zero address")
		}
		t.setExcluded(prefix, account, excluded)
		t.emit(signature, []common.Address{account}, events.Bool(excluded))
		return nil
	})
}

// UpdateMaxTxAmount raises the per-transfer limit. Limits never go down.
func (t *Token) UpdateMaxTxAmount(sender common.Address, amount *uint256.Int) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if err := t.checkRaisedLimit(p, MaxTx, p.maxTxAmount, amount); err != nil {
			return err
		}
		p.maxTxAmount = new(uint256.Int).Set(amount)
		t.emit(MAX_TX_AMOUNT_UPDATED, nil, amount)
		return nil
	})
}

// UpdateMaxWalletAmount raises the per-wallet limit. Limits never go down.
func (t *Token) UpdateMaxWalletAmount(sender common.Address, amount *uint256.Int) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if err := t.checkRaisedLimit(p, MaxWallet, p.maxWalletAmount, amount); err != nil {
			return err
		}
		p.maxWalletAmount = new(uint256.Int).Set(amount)
		t.emit(MAX_WALLET_AMOUNT_UPDATED, nil, amount)
		return nil
	})
}

func (t *Token) checkRaisedLimit(p *policy, kind LimitKind, current *uint256.Int, amount *uint256.Int) error {
	if !p.limitsInEffect {
		return errors.Wrapf(ErrInvariantViolation, "%s limit cannot change once limits are disabled", kind)
	}
	if amount.Lt(current) {
		return errors.Wrapf(ErrInvariantViolation, "%s limit cannot be lowered from %s to %s", kind, current.ToBig(), amount.ToBig())
	}
	if supply := t.TotalSupply(); amount.Gt(supply) {
		return errors.Wrapf(ErrInvalidArgument, "%s limit %s is above the total supply %s", kind, amount.ToBig(), supply.ToBig())
	}
	return nil
}

// DisableLimits turns off both limits for good.
func (t *Token) DisableLimits(sender common.Address) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if !p.limitsInEffect {
			return errors.Wrap(ErrInvariantViolation, "limits are already disabled")
		}
		p.limitsInEffect = false
		t.emit(LIMITS_DISABLED, nil)
		t.logger.Info("limits disabled")
		return nil
	})
}

// UpdateRouter moves the token to another router, creating the pair on the router's factory if it
// does not exist yet. The old router loses its allowance over the token's own balance.
func (t *Token) UpdateRouter(sender common.Address, router common.Address) error {
	return t.updatePolicy(sender, func(p *policy) error {
		if router == (common.Address{}) {
			return errors.Wrap(ErrInvalidArgument, "router is the zero address")
		}
		if router == p.router {
			return errors.Wrapf(ErrInvalidArgument, "%s is already the router", router.Hex())
		}

		previous := p.router
		if err := t._approve(t.address, previous, new(uint256.Int)); err != nil {
			return err
		}
		return t.bindRouter(p, router)
	})
}

// bindRouter points p at router and the router's pair for this token, excludes both from the
// limits and lets the router spend the token's own balance.
func (t *Token) bindRouter(p *policy, address common.Address) error {
	router, ok := adapter.ResolveRouter(t.env, address)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "no router at %s", address.Hex())
	}
	factory, ok := adapter.ResolveFactory(t.env, router.Factory())
	if !ok {
		return errors.Wrapf(ErrExternalCallFailure, "router %s has no factory at %s", address.Hex(), router.Factory().Hex())
	}

	wrappedNative := router.WrappedNative()
	pair := factory.GetPair(t.address, wrappedNative)
	if pair == (common.Address{}) {
		var err error
		if pair, err = factory.CreatePair(t.address, t.address, wrappedNative); err != nil {
			return errors.Wrapf(ErrExternalCallFailure, "create pair: %s", err)
		}
	}

	for _, account := range []common.Address{address, pair} {
		t.setExcluded(EXCLUDED_FROM_MAX_TX_PREFIX, account, true)
		t.setExcluded(EXCLUDED_FROM_MAX_WALLET_PREFIX, account, true)
	}
	if err := t._approve(t.address, address, maxUint256); err != nil {
		return err
	}

	t.emit(ROUTER_UPDATED, []common.Address{address, p.router, pair})
	t.logger.Info("router bound", logfields.Address("router", address), logfields.Address("pair", pair), logfields.Address("previous-router", p.router))
	p.router = address
	p.pair = pair
	return nil
}
