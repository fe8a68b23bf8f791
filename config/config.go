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

type TokenConfig interface {
	// token deployment
	TokenName() string
	TokenSymbol() string
	TokenDecimals() uint32
	TokenTotalSupply() uint64
	TokenLimitPercent() uint32
	TokenMinTokensForSwap() uint64
	TokenCharityWallet() common.Address
	TokenSwapAndLiquifyEnabled() bool

	// simulated exchange
	InitialLiquidityTokens() uint64
	InitialLiquidityNative() uint64

	// instrumentation
	LoggerFullLog() bool
	MetricsReportInterval() time.Duration
	ProcessMetricsEnabled() bool
	NTPServerAddress() string
}

type mutableTokenConfig interface {
	TokenConfig
	Set(key string, value TokenConfigValue) mutableTokenConfig
	SetUint64(key string, value uint64) mutableTokenConfig
	SetString(key string, value string) mutableTokenConfig
	SetBool(key string, value bool) mutableTokenConfig
	SetDuration(key string, value time.Duration) mutableTokenConfig
}

type TokenConfigValue struct {
	Uint64Value   uint64
	StringValue   string
	BoolValue     bool
	DurationValue time.Duration
}

type TokenConfigKeyValue struct {
	Key   string
	Value TokenConfigValue
}

type config struct {
	kv map[string]TokenConfigValue
}

const (
	TOKEN_NAME                     = "TOKEN_NAME"
	TOKEN_SYMBOL                   = "TOKEN_SYMBOL"
	TOKEN_DECIMALS                 = "TOKEN_DECIMALS"
	TOKEN_TOTAL_SUPPLY             = "TOKEN_TOTAL_SUPPLY"
	TOKEN_LIMIT_PERCENT            = "TOKEN_LIMIT_PERCENT"
	TOKEN_MIN_TOKENS_FOR_SWAP      = "TOKEN_MIN_TOKENS_FOR_SWAP"
	TOKEN_CHARITY_WALLET           = "TOKEN_CHARITY_WALLET"
	TOKEN_SWAP_AND_LIQUIFY_ENABLED = "TOKEN_SWAP_AND_LIQUIFY_ENABLED"

	INITIAL_LIQUIDITY_TOKENS = "INITIAL_LIQUIDITY_TOKENS"
	INITIAL_LIQUIDITY_NATIVE = "INITIAL_LIQUIDITY_NATIVE"

	LOGGER_FULL_LOG         = "LOGGER_FULL_LOG"
	METRICS_REPORT_INTERVAL = "METRICS_REPORT_INTERVAL"
	PROCESS_METRICS_ENABLED = "PROCESS_METRICS_ENABLED"
	NTP_SERVER_ADDRESS      = "NTP_SERVER_ADDRESS"
)

func EmptyConfig() mutableTokenConfig {
	return &config{
		kv: make(map[string]TokenConfigValue),
	}
}

func (c *config) Set(key string, value TokenConfigValue) mutableTokenConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetUint64(key string, value uint64) mutableTokenConfig {
	c.kv[key] = TokenConfigValue{Uint64Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableTokenConfig {
	c.kv[key] = TokenConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableTokenConfig {
	c.kv[key] = TokenConfigValue{BoolValue: value}
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableTokenConfig {
	c.kv[key] = TokenConfigValue{DurationValue: value}
	return c
}

func (c *config) TokenName() string {
	return c.kv[TOKEN_NAME].StringValue
}

func (c *config) TokenSymbol() string {
	return c.kv[TOKEN_SYMBOL].StringValue
}

func (c *config) TokenDecimals() uint32 {
	return uint32(c.kv[TOKEN_DECIMALS].Uint64Value)
}

// TokenTotalSupply is in whole tokens.
func (c *config) TokenTotalSupply() uint64 {
	return c.kv[TOKEN_TOTAL_SUPPLY].Uint64Value
}

func (c *config) TokenLimitPercent() uint32 {
	return uint32(c.kv[TOKEN_LIMIT_PERCENT].Uint64Value)
}

// TokenMinTokensForSwap is in whole tokens.
func (c *config) TokenMinTokensForSwap() uint64 {
	return c.kv[TOKEN_MIN_TOKENS_FOR_SWAP].Uint64Value
}

// TokenCharityWallet is the zero address when unset.
func (c *config) TokenCharityWallet() common.Address {
	return common.HexToAddress(c.kv[TOKEN_CHARITY_WALLET].StringValue)
}

func (c *config) TokenSwapAndLiquifyEnabled() bool {
	return c.kv[TOKEN_SWAP_AND_LIQUIFY_ENABLED].BoolValue
}

func (c *config) InitialLiquidityTokens() uint64 {
	return c.kv[INITIAL_LIQUIDITY_TOKENS].Uint64Value
}

func (c *config) InitialLiquidityNative() uint64 {
	return c.kv[INITIAL_LIQUIDITY_NATIVE].Uint64Value
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) ProcessMetricsEnabled() bool {
	return c.kv[PROCESS_METRICS_ENABLED].BoolValue
}

// NTPServerAddress is empty when clock drift is not reported.
func (c *config) NTPServerAddress() string {
	return c.kv[NTP_SERVER_ADDRESS].StringValue
}
