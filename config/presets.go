// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const defaultTotalSupply = 10000000

func defaultProductionConfig() mutableTokenConfig {
	cfg := EmptyConfig()

	cfg.SetString(TOKEN_NAME, "Kindora")
	cfg.SetString(TOKEN_SYMBOL, "KNDR")
	cfg.SetUint64(TOKEN_DECIMALS, 18)
	cfg.SetUint64(TOKEN_TOTAL_SUPPLY, defaultTotalSupply)
	cfg.SetUint64(TOKEN_LIMIT_PERCENT, 2)
	cfg.SetUint64(TOKEN_MIN_TOKENS_FOR_SWAP, defaultTotalSupply/2000)
	cfg.SetBool(TOKEN_SWAP_AND_LIQUIFY_ENABLED, true)

	cfg.SetUint64(INITIAL_LIQUIDITY_TOKENS, 1000000)
	cfg.SetUint64(INITIAL_LIQUIDITY_NATIVE, 100)

	cfg.SetBool(LOGGER_FULL_LOG, false)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)
	cfg.SetBool(PROCESS_METRICS_ENABLED, true)

	return cfg
}

func ForProduction() mutableTokenConfig {
	return defaultProductionConfig()
}

// ForTokenTests keeps the production token economics and logs everything.
func ForTokenTests(charityWallet common.Address, minTokensForSwap uint64) mutableTokenConfig {
	cfg := defaultProductionConfig()

	if charityWallet != (common.Address{}) {
		cfg.SetString(TOKEN_CHARITY_WALLET, charityWallet.Hex())
	}
	if minTokensForSwap > 0 {
		cfg.SetUint64(TOKEN_MIN_TOKENS_FOR_SWAP, minTokensForSwap)
	}
	cfg.SetBool(LOGGER_FULL_LOG, true)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 100*time.Millisecond)
	cfg.SetBool(PROCESS_METRICS_ENABLED, false)

	return cfg
}
