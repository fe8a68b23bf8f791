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
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/services/token"
	"github.com/pkg/errors"
)

func (d *Deployment) sender(s *Step) (common.Address, error) {
	if s.From == "" {
		return d.Owner, nil
	}
	return d.ResolveAccount(s.From)
}

func (d *Deployment) tokens(s *Step) (*uint256.Int, error) {
	return ParseUnits(s.Amount, uint32(d.Token.Decimals()))
}

func (d *Deployment) native(s *Step) (*uint256.Int, error) {
	return ParseUnits(s.Native, NATIVE_DECIMALS)
}

func (s *Step) value() (bool, error) {
	if s.Value == nil {
		return false, errors.Wrapf(token.ErrInvalidArgument, "%s requires a value", s.Op)
	}
	return *s.Value, nil
}

func transferStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	from, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	to, err := d.ResolveAccount(s.To)
	if err != nil {
		return nil, err
	}
	amount, err := d.tokens(s)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.Transfer(from, to, amount)
	})
}

func approveStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	owner, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	spender, err := d.ResolveAccount(s.To)
	if err != nil {
		return nil, err
	}
	amount, err := d.tokens(s)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.Approve(owner, spender, amount)
	})
}

func buyStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	buyer, err := d.ResolveAccount(s.To)
	if err != nil {
		return nil, err
	}
	value, err := d.native(s)
	if err != nil {
		return nil, err
	}
	return d.Buy(ctx, buyer, value)
}

func sellStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	seller, err := d.ResolveAccount(s.From)
	if err != nil {
		return nil, err
	}
	amount, err := d.tokens(s)
	if err != nil {
		return nil, err
	}
	return d.Sell(ctx, seller, amount)
}

func fundStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	account, err := d.ResolveAccount(s.To)
	if err != nil {
		return nil, err
	}
	value, err := d.native(s)
	if err != nil {
		return nil, err
	}
	return nil, d.Machine.AllocateNative(account, value)
}

func addLiquidityStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	provider, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	amount, err := d.tokens(s)
	if err != nil {
		return nil, err
	}
	value, err := d.native(s)
	if err != nil {
		return nil, err
	}
	return d.AddLiquidity(ctx, provider, amount, value)
}

func exclusionStep(f func(t *token.Token, sender common.Address, account common.Address, excluded bool) error) stepFunc {
	return func(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
		sender, err := d.sender(s)
		if err != nil {
			return nil, err
		}
		account, err := d.ResolveAccount(s.Account)
		if err != nil {
			return nil, err
		}
		excluded, err := s.value()
		if err != nil {
			return nil, err
		}
		return d.Machine.Execute(ctx, s.Op, func() error {
			return f(d.Token, sender, account, excluded)
		})
	}
}

func amountStep(f func(t *token.Token, sender common.Address, amount *uint256.Int) error) stepFunc {
	return func(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
		sender, err := d.sender(s)
		if err != nil {
			return nil, err
		}
		amount, err := d.tokens(s)
		if err != nil {
			return nil, err
		}
		return d.Machine.Execute(ctx, s.Op, func() error {
			return f(d.Token, sender, amount)
		})
	}
}

func setCharityWalletStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	wallet, err := d.ResolveAccount(s.Account)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.SetCharityWallet(sender, wallet)
	})
}

func setSwapAndLiquifyEnabledStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	enabled, err := s.value()
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.SetSwapAndLiquifyEnabled(sender, enabled)
	})
}

func disableLimitsStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.DisableLimits(sender)
	})
}

func rescueNativeStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	value, err := d.native(s)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.RescueNative(sender, value)
	})
}

func transferOwnershipStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	newOwner, err := d.ResolveAccount(s.Account)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.TransferOwnership(sender, newOwner)
	})
}

func renounceOwnershipStep(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error) {
	sender, err := d.sender(s)
	if err != nil {
		return nil, err
	}
	return d.Machine.Execute(ctx, s.Op, func() error {
		return d.Token.RenounceOwnership(sender)
	})
}
