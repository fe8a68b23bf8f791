// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

// Event signatures emitted by the token besides the ledger's Transfer and Approval.
const (
	OWNERSHIP_TRANSFERRED = "OwnershipTransferred(address,address)"

	SWAP_AND_LIQUIFY   = "SwapAndLiquify(uint256,uint256,uint256)"
	CHARITY_FUNDS_SENT = "CharityFundsSent(address,uint256,uint256)"
	SWAP_FAILED        = "SwapFailed(uint256,uint256)"

	EXCLUDED_FROM_FEES       = "ExcludedFromFees(address,bool)"
	EXCLUDED_FROM_MAX_TX     = "ExcludedFromMaxTx(address,bool)"
	EXCLUDED_FROM_MAX_WALLET = "ExcludedFromMaxWallet(address,bool)"

	CHARITY_WALLET_UPDATED           = "CharityWalletUpdated(address,address)"
	SWAP_AND_LIQUIFY_ENABLED_UPDATED = "SwapAndLiquifyEnabledUpdated(bool)"
	MIN_TOKENS_FOR_SWAP_UPDATED      = "MinTokensForSwapUpdated(uint256)"
	MAX_TX_AMOUNT_UPDATED            = "MaxTxAmountUpdated(uint256)"
	MAX_WALLET_AMOUNT_UPDATED        = "MaxWalletAmountUpdated(uint256)"
	LIMITS_DISABLED                  = "LimitsDisabled()"
	ROUTER_UPDATED                   = "RouterUpdated(address,address,address)"

	TOKENS_RESCUED = "TokensRescued(address,address,uint256)"
	NATIVE_RESCUED = "NativeRescued(address,uint256)"
)

// SwapKind is the first value of a SwapFailed event.
type SwapKind uint64

const (
	LiquiditySwap SwapKind = iota
	CharitySwap
)

func (k SwapKind) String() string {
	if k == CharitySwap {
		return "charity"
	}
	return "liquidity"
}
