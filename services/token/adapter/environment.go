// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kindora-project/kindora-go/services/statestorage"
)

// Environment is what a contract sees of the machine it runs on.
type Environment interface {
	State() *statestorage.StateDB
	Contract(address common.Address) (interface{}, bool)
	Register(address common.Address, contract interface{}) error
	DeriveAddress(deployer common.Address) common.Address
	BlockTimestamp() uint64
}

func ResolveRouter(env Environment, address common.Address) (Router, bool) {
	contract, ok := env.Contract(address)
	if !ok {
		return nil, false
	}
	router, ok := contract.(Router)
	return router, ok
}

func ResolveFactory(env Environment, address common.Address) (Factory, bool) {
	contract, ok := env.Contract(address)
	if !ok {
		return nil, false
	}
	factory, ok := contract.(Factory)
	return factory, ok
}

func ResolveFungibleToken(env Environment, address common.Address) (FungibleToken, bool) {
	contract, ok := env.Contract(address)
	if !ok {
		return nil, false
	}
	token, ok := contract.(FungibleToken)
	return token, ok
}
