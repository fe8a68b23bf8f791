// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	require.NoError(t, Validate(defaultProductionConfig()))
}

func TestValidateConfig_RejectsZeroSupply(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint64(TOKEN_TOTAL_SUPPLY, 0)

	require.Error(t, Validate(cfg))
}

func TestValidateConfig_RejectsThresholdAboveSupply(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint64(TOKEN_MIN_TOKENS_FOR_SWAP, defaultTotalSupply+1)

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "swap threshold")
}

func TestValidateConfig_RejectsLimitPercentOutOfRange(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint64(TOKEN_LIMIT_PERCENT, 101)

	require.Error(t, Validate(cfg))
}

func TestValidateConfig_LargeSupplyFitsIn256Bits(t *testing.T) {
	cfg := defaultProductionConfig()
	cfg.SetUint64(TOKEN_DECIMALS, 36)
	cfg.SetUint64(TOKEN_TOTAL_SUPPLY, ^uint64(0))

	require.NoError(t, Validate(cfg), "2^64 * 10^36 still fits in 256 bits")
}
