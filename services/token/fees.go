// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import "github.com/holiman/uint256"

const (
	TOTAL_FEE_PERCENT = 5

	FEE_SHARES      = 5
	CHARITY_SHARE   = 3
	LIQUIDITY_SHARE = 1
	BURN_SHARE      = 1
)

type feeSplit struct {
	fee       *uint256.Int
	burn      *uint256.Int
	charity   *uint256.Int
	liquidity *uint256.Int
	transfer  *uint256.Int
}

// computeFeeSplit takes floor(amount*5/100) and divides it 3/1/1 between charity, liquidity and
// burn. The rounding remainder of the division goes to liquidity.
func computeFeeSplit(amount *uint256.Int) feeSplit {
	hundred := uint256.NewInt(100)
	quotient := new(uint256.Int).Div(amount, hundred)
	remainder := new(uint256.Int).Mod(amount, hundred)

	// floor(amount*5/100) computed without the intermediate product overflowing
	fee := new(uint256.Int).Mul(quotient, uint256.NewInt(TOTAL_FEE_PERCENT))
	fee.Add(fee, new(uint256.Int).Div(remainder.Mul(remainder, uint256.NewInt(TOTAL_FEE_PERCENT)), hundred))

	shares := uint256.NewInt(FEE_SHARES)
	burn := new(uint256.Int).Div(new(uint256.Int).Mul(fee, uint256.NewInt(BURN_SHARE)), shares)
	charity := new(uint256.Int).Div(new(uint256.Int).Mul(fee, uint256.NewInt(CHARITY_SHARE)), shares)
	liquidity := new(uint256.Int).Div(new(uint256.Int).Mul(fee, uint256.NewInt(LIQUIDITY_SHARE)), shares)

	dust := new(uint256.Int).Sub(fee, burn)
	dust.Sub(dust, charity)
	dust.Sub(dust, liquidity)
	liquidity.Add(liquidity, dust)

	return feeSplit{
		fee:       fee,
		burn:      burn,
		charity:   charity,
		liquidity: liquidity,
		transfer:  new(uint256.Int).Sub(amount, fee),
	}
}
