// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/events"
	"github.com/kindora-project/kindora-go/services/statestorage"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/pkg/errors"
)

const (
	PAIR_CREATED = "PairCreated(address,address,address,uint256)"

	PAIR_COUNT_KEY = "_PAIR_COUNT_"
	PAIR_PREFIX    = "pair:"
)

type Factory struct {
	address common.Address
	env     adapter.Environment
	state   *statestorage.StateDB
}

func DeployFactory(env adapter.Environment, deployer common.Address) (*Factory, error) {
	f := &Factory{
		address: env.DeriveAddress(deployer),
		env:     env,
		state:   env.State(),
	}
	if err := env.Register(f.address, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) Address() common.Address {
	return f.address
}

func (f *Factory) GetPair(tokenA common.Address, tokenB common.Address) common.Address {
	token0, token1 := sortTokens(tokenA, tokenB)
	return f.state.ReadAddress(f.address, pairKey(token0, token1))
}

func (f *Factory) CreatePair(sender common.Address, tokenA common.Address, tokenB common.Address) (common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, errors.New("factory: identical addresses")
	}
	token0, token1 := sortTokens(tokenA, tokenB)
	if token0 == (common.Address{}) {
		return common.Address{}, errors.New("factory: zero address")
	}
	if existing := f.GetPair(token0, token1); existing != (common.Address{}) {
		return common.Address{}, errors.Errorf("factory: pair exists at %s", existing.Hex())
	}

	pair := &Pair{
		address: f.env.DeriveAddress(f.address),
		token0:  token0,
		token1:  token1,
		state:   f.state,
	}
	if err := f.env.Register(pair.address, pair); err != nil {
		return common.Address{}, err
	}

	count := new(uint256.Int).AddUint64(f.state.ReadUint256(f.address, PAIR_COUNT_KEY), 1)
	f.state.WriteUint256(f.address, PAIR_COUNT_KEY, count)
	f.state.WriteAddress(f.address, pairKey(token0, token1), pair.address)
	f.state.AddLog(events.New(f.address, PAIR_CREATED, []common.Address{token0, token1}, new(uint256.Int).SetBytes(pair.address.Bytes()), count))
	return pair.address, nil
}

// Pair returns the pair deployed at address, if this factory or another one made it.
func (f *Factory) Pair(address common.Address) (*Pair, bool) {
	contract, ok := f.env.Contract(address)
	if !ok {
		return nil, false
	}
	pair, ok := contract.(*Pair)
	return pair, ok
}

func sortTokens(tokenA common.Address, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

func pairKey(token0 common.Address, token1 common.Address) string {
	return PAIR_PREFIX + token0.Hex() + ":" + token1.Hex()
}
