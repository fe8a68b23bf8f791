// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package token is the Kindora token: a fungible-token ledger that takes a fixed 5% fee on trades
// against its liquidity pair, burns a fifth of it, and converts the rest into charity proceeds and
// locked liquidity through an external router.
package token

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/statestorage"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

const CONTRACT_NAME = "KindoraToken"

var LogTag = logfields.TokenService

// DEAD_ADDRESS receives the liquidity positions the token creates; nobody holds its key.
var DEAD_ADDRESS = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

var maxUint256 = new(uint256.Int).SetAllOne()

const (
	TOTAL_SUPPLY_KEY             = "_TOTAL_SUPPLY_"
	OWNER_KEY                    = "_OWNER_"
	CHARITY_WALLET_KEY           = "_CHARITY_WALLET_"
	ROUTER_KEY                   = "_ROUTER_"
	PAIR_KEY                     = "_PAIR_"
	MAX_TX_AMOUNT_KEY            = "_MAX_TX_AMOUNT_"
	MAX_WALLET_AMOUNT_KEY        = "_MAX_WALLET_AMOUNT_"
	LIMITS_IN_EFFECT_KEY         = "_LIMITS_IN_EFFECT_"
	MIN_TOKENS_FOR_SWAP_KEY      = "_MIN_TOKENS_FOR_SWAP_"
	SWAP_AND_LIQUIFY_ENABLED_KEY = "_SWAP_AND_LIQUIFY_ENABLED_"
	CHARITY_TOKENS_KEY           = "_CHARITY_TOKENS_"
	LIQUIDITY_TOKENS_KEY         = "_LIQUIDITY_TOKENS_"

	BALANCE_PREFIX                  = "balance:"
	ALLOWANCE_PREFIX                = "allowance:"
	EXCLUDED_FROM_FEES_PREFIX       = "excluded-from-fees:"
	EXCLUDED_FROM_MAX_TX_PREFIX     = "excluded-from-max-tx:"
	EXCLUDED_FROM_MAX_WALLET_PREFIX = "excluded-from-max-wallet:"
)

// Config is the part of the node configuration a deployment reads.
type Config interface {
	TokenName() string
	TokenSymbol() string
	TokenDecimals() uint32
	TokenTotalSupply() uint64
	TokenLimitPercent() uint32
	TokenMinTokensForSwap() uint64
	TokenCharityWallet() common.Address
	TokenSwapAndLiquifyEnabled() bool
}

type metrics struct {
	transfers       *metric.Rate
	taxedTransfers  *metric.Gauge
	totalSupply     *metric.Gauge
	swapsExecuted   *metric.Gauge
	swapsFailed     *metric.Gauge
	swapTime        *metric.Histogram
	charityTokens   *metric.Gauge
	liquidityTokens *metric.Gauge
}

func newMetrics(factory metric.Factory) *metrics {
	return &metrics{
		transfers:       factory.NewRate("Token.Transfers.PerSecond"),
		taxedTransfers:  factory.NewGauge("Token.TaxedTransfers.Count"),
		totalSupply:     factory.NewGauge("Token.TotalSupply.Whole"),
		swapsExecuted:   factory.NewGauge("Token.Swaps.Executed.Count"),
		swapsFailed:     factory.NewGauge("Token.Swaps.Failed.Count"),
		swapTime:        factory.NewLatency("Token.Swap.ExecutionTime.Millis", 10*time.Second),
		charityTokens:   factory.NewGauge("Token.CharityTokens.Whole"),
		liquidityTokens: factory.NewGauge("Token.LiquidityTokens.Whole"),
	}
}

type Token struct {
	address  common.Address
	name     string
	symbol   string
	decimals uint8
	unit     *uint256.Int

	env     adapter.Environment
	state   *statestorage.StateDB
	logger  log.Logger
	metrics *metrics

	swap swapLock
}

// Deploy creates the token at the next address of deployer, mints the whole supply to deployer and
// creates the token/wrapped-native pair through the router's factory. It must run inside a machine
// call so a failure leaves nothing behind.
func Deploy(env adapter.Environment, deployer common.Address, router common.Address, cfg Config, parent log.Logger, metricFactory metric.Factory) (*Token, error) {
	if deployer == (common.Address{}) {
		return nil, errors.Wrap(ErrInvalidArgument, "deployer is the zero address")
	}
	if router == (common.Address{}) {
		return nil, errors.Wrap(ErrInvalidArgument, "router is the zero address")
	}

	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(cfg.TokenDecimals())))
	supply, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(cfg.TokenTotalSupply()), unit)
	if overflow || supply.IsZero() {
		return nil, errors.Wrapf(ErrInvalidArgument, "total supply %d with %d decimals", cfg.TokenTotalSupply(), cfg.TokenDecimals())
	}
	if percent := cfg.TokenLimitPercent(); percent == 0 || percent > 100 {
		return nil, errors.Wrapf(ErrInvalidArgument, "limit percent %d", percent)
	}
	limit := new(uint256.Int).Div(supply, uint256.NewInt(100))
	limit.Mul(limit, uint256.NewInt(uint64(cfg.TokenLimitPercent())))
	threshold := new(uint256.Int).Mul(uint256.NewInt(cfg.TokenMinTokensForSwap()), unit)
	if threshold.IsZero() {
		return nil, errors.Wrap(ErrInvalidArgument, "swap threshold is zero")
	}

	address := env.DeriveAddress(deployer)
	t := &Token{
		address:  address,
		name:     cfg.TokenName(),
		symbol:   cfg.TokenSymbol(),
		decimals: uint8(cfg.TokenDecimals()),
		unit:     unit,
		env:      env,
		state:    env.State(),
		logger:   parent.WithTags(LogTag, logfields.Contract(address)),
		metrics:  newMetrics(metricFactory),
	}

	err := t.state.Atomically(func() error {
		t.setOwner(deployer)
		t._mint(deployer, supply)
		t.reportSupply()

		p := &policy{
			maxTxAmount:           limit,
			maxWalletAmount:       new(uint256.Int).Set(limit),
			limitsInEffect:        true,
			minTokensForSwap:      threshold,
			swapAndLiquifyEnabled: cfg.TokenSwapAndLiquifyEnabled(),
			charityWallet:         cfg.TokenCharityWallet(),
		}

		for _, account := range []common.Address{deployer, address, DEAD_ADDRESS} {
			t.setExcluded(EXCLUDED_FROM_FEES_PREFIX, account, true)
			t.setExcluded(EXCLUDED_FROM_MAX_TX_PREFIX, account, true)
			t.setExcluded(EXCLUDED_FROM_MAX_WALLET_PREFIX, account, true)
		}

		if err := t.bindRouter(p, router); err != nil {
			return err
		}
		t.storePolicy(p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to deploy %s", CONTRACT_NAME)
	}

	if err := env.Register(address, t); err != nil {
		return nil, err
	}

	t.logger.Info("token deployed",
		logfields.Address("owner", deployer),
		logfields.Amount("total-supply", supply),
		logfields.Address("router", router),
		logfields.Address("pair", t.Pair()),
	)
	return t, nil
}

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) Name() string {
	return t.name
}

func (t *Token) Symbol() string {
	return t.symbol
}

func (t *Token) Decimals() uint8 {
	return t.decimals
}

func (t *Token) TotalSupply() *uint256.Int {
	return t.state.ReadUint256(t.address, TOTAL_SUPPLY_KEY)
}

func (t *Token) BalanceOf(account common.Address) *uint256.Int {
	return t.state.ReadUint256(t.address, balanceKey(account))
}

func (t *Token) Allowance(owner common.Address, spender common.Address) *uint256.Int {
	return t.state.ReadUint256(t.address, allowanceKey(owner, spender))
}

func (t *Token) Owner() common.Address {
	return t.state.ReadAddress(t.address, OWNER_KEY)
}

func (t *Token) CharityWallet() common.Address {
	return t.state.ReadAddress(t.address, CHARITY_WALLET_KEY)
}

func (t *Token) Router() common.Address {
	return t.state.ReadAddress(t.address, ROUTER_KEY)
}

func (t *Token) Pair() common.Address {
	return t.state.ReadAddress(t.address, PAIR_KEY)
}

func (t *Token) MaxTxAmount() *uint256.Int {
	return t.state.ReadUint256(t.address, MAX_TX_AMOUNT_KEY)
}

func (t *Token) MaxWalletAmount() *uint256.Int {
	return t.state.ReadUint256(t.address, MAX_WALLET_AMOUNT_KEY)
}

func (t *Token) LimitsInEffect() bool {
	return t.state.ReadBool(t.address, LIMITS_IN_EFFECT_KEY)
}

func (t *Token) MinTokensForSwap() *uint256.Int {
	return t.state.ReadUint256(t.address, MIN_TOKENS_FOR_SWAP_KEY)
}

func (t *Token) SwapAndLiquifyEnabled() bool {
	return t.state.ReadBool(t.address, SWAP_AND_LIQUIFY_ENABLED_KEY)
}

// CharityTokens is the part of the contract's own balance owed to the charity swap.
func (t *Token) CharityTokens() *uint256.Int {
	return t.state.ReadUint256(t.address, CHARITY_TOKENS_KEY)
}

// LiquidityTokens is the part of the contract's own balance owed to the liquidity swap.
func (t *Token) LiquidityTokens() *uint256.Int {
	return t.state.ReadUint256(t.address, LIQUIDITY_TOKENS_KEY)
}

func (t *Token) IsExcludedFromFees(account common.Address) bool {
	return t.state.ReadBool(t.address, EXCLUDED_FROM_FEES_PREFIX+account.Hex())
}

func (t *Token) IsExcludedFromMaxTx(account common.Address) bool {
	return t.state.ReadBool(t.address, EXCLUDED_FROM_MAX_TX_PREFIX+account.Hex())
}

func (t *Token) IsExcludedFromMaxWallet(account common.Address) bool {
	return t.state.ReadBool(t.address, EXCLUDED_FROM_MAX_WALLET_PREFIX+account.Hex())
}

// InSwap is true while a swap started by this token is running.
func (t *Token) InSwap() bool {
	return t.swap.isHeld()
}

// ForEachHolder visits every account with a non-zero balance, in key order.
func (t *Token) ForEachHolder(f func(account common.Address, balance *uint256.Int)) {
	t.state.ForEachWithPrefix(t.address, BALANCE_PREFIX, func(key string, value []byte) {
		f(common.HexToAddress(strings.TrimPrefix(key, BALANCE_PREFIX)), new(uint256.Int).SetBytes(value))
	})
}

// Whole converts base units to whole tokens, rounding down.
func (t *Token) Whole(amount *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(amount, t.unit)
}

func (t *Token) setExcluded(prefix string, account common.Address, excluded bool) {
	t.state.WriteBool(t.address, prefix+account.Hex(), excluded)
}

func (t *Token) emit(signature string, indexed []common.Address, values ...*uint256.Int) {
	t.state.AddLog(events.New(t.address, signature, indexed, values...))
}

// record applies a metric update when the current call commits, so reverted calls leave metrics
// untouched.
func (t *Token) record(update func()) {
	t.state.OnCommit(update)
}

func (t *Token) reportSupply() {
	whole := saturatedUint64(t.Whole(t.TotalSupply()))
	t.record(func() { t.metrics.totalSupply.UpdateUint64(whole) })
}

func (t *Token) reportAccumulators() {
	charity := saturatedUint64(t.Whole(t.CharityTokens()))
	liquidity := saturatedUint64(t.Whole(t.LiquidityTokens()))
	t.record(func() {
		t.metrics.charityTokens.UpdateUint64(charity)
		t.metrics.liquidityTokens.UpdateUint64(liquidity)
	})
}

func saturatedUint64(value *uint256.Int) uint64 {
	if !value.IsUint64() {
		return ^uint64(0)
	}
	return value.Uint64()
}

func balanceKey(account common.Address) string {
	return BALANCE_PREFIX + account.Hex()
}

func allowanceKey(owner common.Address, spender common.Address) string {
	return ALLOWANCE_PREFIX + owner.Hex() + ":" + spender.Hex()
}
