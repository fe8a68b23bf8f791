// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/services/statestorage"
)

// MINIMUM_LIQUIDITY of the first deposit is locked at the zero address forever.
const MINIMUM_LIQUIDITY = 1000

const (
	LIQUIDITY_SUPPLY_KEY     = "_LIQUIDITY_SUPPLY_"
	LIQUIDITY_BALANCE_PREFIX = "liquidity:"
	RESERVE_PREFIX           = "reserve:"
)

// Pair is a constant-product pool between a token and the native currency. The native side is held
// as the pair's own native balance, so the wrapped-native token is only a name for it. Reserves are
// the balances seen at the end of the last router operation; anything above them is new input.
type Pair struct {
	address common.Address
	token0  common.Address
	token1  common.Address
	state   *statestorage.StateDB
}

func (p *Pair) Address() common.Address {
	return p.address
}

func (p *Pair) Token0() common.Address {
	return p.token0
}

func (p *Pair) Token1() common.Address {
	return p.token1
}

func (p *Pair) Reserve(token common.Address) *uint256.Int {
	return p.state.ReadUint256(p.address, RESERVE_PREFIX+token.Hex())
}

func (p *Pair) TotalLiquidity() *uint256.Int {
	return p.state.ReadUint256(p.address, LIQUIDITY_SUPPLY_KEY)
}

func (p *Pair) LiquidityOf(account common.Address) *uint256.Int {
	return p.state.ReadUint256(p.address, LIQUIDITY_BALANCE_PREFIX+account.Hex())
}

func (p *Pair) sync(token common.Address, tokenBalance *uint256.Int, wrappedNative common.Address, nativeBalance *uint256.Int) {
	p.state.WriteUint256(p.address, RESERVE_PREFIX+token.Hex(), tokenBalance)
	p.state.WriteUint256(p.address, RESERVE_PREFIX+wrappedNative.Hex(), nativeBalance)
}

func (p *Pair) mintLiquidity(to common.Address, amount *uint256.Int) {
	p.state.WriteUint256(p.address, LIQUIDITY_SUPPLY_KEY, new(uint256.Int).Add(p.TotalLiquidity(), amount))
	p.state.WriteUint256(p.address, LIQUIDITY_BALANCE_PREFIX+to.Hex(), new(uint256.Int).Add(p.LiquidityOf(to), amount))
	p.state.AddLog(events.Transfer(p.address, common.Address{}, to, amount))
}
