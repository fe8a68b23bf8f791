// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// The mutating methods take the calling address explicitly; it plays the role of the message
// sender in every access check the callee makes.

type FungibleToken interface {
	Address() common.Address
	BalanceOf(account common.Address) *uint256.Int
	Transfer(sender common.Address, to common.Address, amount *uint256.Int) error
	TransferFrom(sender common.Address, from common.Address, to common.Address, amount *uint256.Int) error
	Approve(sender common.Address, spender common.Address, amount *uint256.Int) error
}

type Factory interface {
	Address() common.Address
	// GetPair returns the zero address when no pair exists.
	GetPair(tokenA common.Address, tokenB common.Address) common.Address
	CreatePair(sender common.Address, tokenA common.Address, tokenB common.Address) (common.Address, error)
}

type Router interface {
	Address() common.Address
	Factory() common.Address
	WrappedNative() common.Address

	// SwapExactTokensForNativeSupportingFeeOnTransferTokens pulls amountIn of path[0] from sender
	// and pays the native currency out to the to address.
	SwapExactTokensForNativeSupportingFeeOnTransferTokens(
		sender common.Address,
		amountIn *uint256.Int,
		amountOutMin *uint256.Int,
		path []common.Address,
		to common.Address,
		deadline uint64,
	) error

	// AddLiquidityNative is payable: value is the native currency sent along with the call.
	AddLiquidityNative(
		sender common.Address,
		value *uint256.Int,
		token common.Address,
		amountTokenDesired *uint256.Int,
		amountTokenMin *uint256.Int,
		amountNativeMin *uint256.Int,
		to common.Address,
		deadline uint64,
	) (amountToken *uint256.Int, amountNative *uint256.Int, liquidity *uint256.Int, err error)
}
