// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"math/big"

	"github.com/pkg/errors"
)

type validator struct {
	errs []string
}

// Validate reports every invalid value found in cfg.
func Validate(cfg TokenConfig) error {
	v := &validator{}

	v.require(cfg.TokenName() != "", "token name must not be empty")
	v.require(cfg.TokenSymbol() != "", "token symbol must not be empty")
	v.require(cfg.TokenDecimals() <= 36, "token decimals must be at most 36, got %d", cfg.TokenDecimals())
	v.require(cfg.TokenTotalSupply() > 0, "total supply must be positive")
	v.require(cfg.TokenLimitPercent() >= 1 && cfg.TokenLimitPercent() <= 100, "limit percent must be between 1 and 100, got %d", cfg.TokenLimitPercent())
	v.require(cfg.TokenMinTokensForSwap() > 0, "swap threshold must be positive")
	v.require(cfg.TokenMinTokensForSwap() <= cfg.TokenTotalSupply(), "swap threshold %d must not exceed the total supply %d", cfg.TokenMinTokensForSwap(), cfg.TokenTotalSupply())
	v.require(cfg.InitialLiquidityTokens() <= cfg.TokenTotalSupply(), "initial liquidity %d must not exceed the total supply %d", cfg.InitialLiquidityTokens(), cfg.TokenTotalSupply())
	v.require(fitsIn256Bits(cfg.TokenTotalSupply(), cfg.TokenDecimals()), "total supply in base units must fit in 256 bits")

	if len(v.errs) > 0 {
		return errors.Errorf("invalid token config: %v", v.errs)
	}
	return nil
}

func (v *validator) require(condition bool, format string, args ...interface{}) {
	if !condition {
		v.errs = append(v.errs, errors.Errorf(format, args...).Error())
	}
}

func fitsIn256Bits(wholeTokens uint64, decimals uint32) bool {
	scaled := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled.Mul(scaled, new(big.Int).SetUint64(wholeTokens))
	return scaled.BitLen() <= 256
}
