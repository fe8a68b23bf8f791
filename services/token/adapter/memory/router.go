// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/services/statestorage"
	"github.com/kindora-project/kindora-go/services/token/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.Service("memory-router")

var (
	ErrExpired                  = errors.New("router: expired")
	ErrInvalidPath              = errors.New("router: invalid path")
	ErrPairNotFound             = errors.New("router: pair not found")
	ErrInsufficientLiquidity    = errors.New("router: insufficient liquidity")
	ErrInsufficientOutputAmount = errors.New("router: insufficient output amount")
	ErrInsufficientAmount       = errors.New("router: insufficient amount")
)

// Router trades tokens against the native currency through constant-product pairs with a 0.3% pool
// fee. Every operation is atomic.
type Router struct {
	address       common.Address
	factory       common.Address
	wrappedNative common.Address
	env           adapter.Environment
	state         *statestorage.StateDB
	logger        log.Logger

	mutex   sync.Mutex
	failure error
}

func DeployRouter(env adapter.Environment, deployer common.Address, factory common.Address, wrappedNative common.Address, logger log.Logger) (*Router, error) {
	r := &Router{
		address:       env.DeriveAddress(deployer),
		factory:       factory,
		wrappedNative: wrappedNative,
		env:           env,
		state:         env.State(),
	}
	r.logger = logger.WithTags(LogTag, logfields.Contract(r.address))
	if err := env.Register(r.address, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Router) Address() common.Address {
	return r.address
}

func (r *Router) Factory() common.Address {
	return r.factory
}

func (r *Router) WrappedNative() common.Address {
	return r.wrappedNative
}

// FailWith makes every following router operation fail with err, until called again with nil.
func (r *Router) FailWith(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.failure = err
}

func (r *Router) precheck(deadline uint64) error {
	r.mutex.Lock()
	failure := r.failure
	r.mutex.Unlock()

	if failure != nil {
		return failure
	}
	if deadline < r.env.BlockTimestamp() {
		return errors.Wrapf(ErrExpired, "deadline %d, now %d", deadline, r.env.BlockTimestamp())
	}
	return nil
}

func (r *Router) SwapExactTokensForNativeSupportingFeeOnTransferTokens(
	sender common.Address,
	amountIn *uint256.Int,
	amountOutMin *uint256.Int,
	path []common.Address,
	to common.Address,
	deadline uint64,
) error {
	if err := r.precheck(deadline); err != nil {
		return err
	}
	if len(path) != 2 || path[1] != r.wrappedNative {
		return errors.Wrapf(ErrInvalidPath, "%v", path)
	}

	return r.state.Atomically(func() error {
		token, pair, err := r.resolve(path[0])
		if err != nil {
			return err
		}

		if err := token.TransferFrom(r.address, sender, pair.address, amountIn); err != nil {
			return errors.Wrap(err, "router: pulling input tokens")
		}

		reserveToken, reserveNative := pair.Reserve(token.Address()), pair.Reserve(r.wrappedNative)
		balanceToken := token.BalanceOf(pair.address)
		amountOut, err := GetAmountOut(difference(balanceToken, reserveToken), reserveToken, reserveNative)
		if err != nil {
			return err
		}
		if amountOut.Lt(amountOutMin) {
			return errors.Wrapf(ErrInsufficientOutputAmount, "%s below %s", amountOut.ToBig(), amountOutMin.ToBig())
		}

		if err := r.state.TransferNative(pair.address, to, amountOut); err != nil {
			return err
		}
		pair.sync(token.Address(), balanceToken, r.wrappedNative, r.state.NativeBalance(pair.address))
		return nil
	})
}

// SwapExactNativeForTokensSupportingFeeOnTransferTokens buys path[1] with value of the native
// currency; amountOutMin applies to what to actually receives.
func (r *Router) SwapExactNativeForTokensSupportingFeeOnTransferTokens(
	sender common.Address,
	value *uint256.Int,
	amountOutMin *uint256.Int,
	path []common.Address,
	to common.Address,
	deadline uint64,
) error {
	if err := r.precheck(deadline); err != nil {
		return err
	}
	if len(path) != 2 || path[0] != r.wrappedNative {
		return errors.Wrapf(ErrInvalidPath, "%v", path)
	}

	return r.state.Atomically(func() error {
		token, pair, err := r.resolve(path[1])
		if err != nil {
			return err
		}

		if err := r.state.TransferNative(sender, pair.address, value); err != nil {
			return err
		}

		reserveToken, reserveNative := pair.Reserve(token.Address()), pair.Reserve(r.wrappedNative)
		amountOut, err := GetAmountOut(difference(r.state.NativeBalance(pair.address), reserveNative), reserveNative, reserveToken)
		if err != nil {
			return err
		}

		before := token.BalanceOf(to)
		if err := token.Transfer(pair.address, to, amountOut); err != nil {
			return errors.Wrap(err, "router: paying out tokens")
		}
		if received := difference(token.BalanceOf(to), before); received.Lt(amountOutMin) {
			return errors.Wrapf(ErrInsufficientOutputAmount, "%s below %s", received.ToBig(), amountOutMin.ToBig())
		}

		pair.sync(token.Address(), token.BalanceOf(pair.address), r.wrappedNative, r.state.NativeBalance(pair.address))
		return nil
	})
}

// AddLiquidityNative deposits token and native currency at the pool's current ratio, creating the
// pair when it does not exist yet, and mints the liquidity position to the to address.
func (r *Router) AddLiquidityNative(
	sender common.Address,
	value *uint256.Int,
	tokenAddress common.Address,
	amountTokenDesired *uint256.Int,
	amountTokenMin *uint256.Int,
	amountNativeMin *uint256.Int,
	to common.Address,
	deadline uint64,
) (amountToken *uint256.Int, amountNative *uint256.Int, liquidity *uint256.Int, err error) {
	if err := r.precheck(deadline); err != nil {
		return nil, nil, nil, err
	}

	err = r.state.Atomically(func() error {
		factory, ok := adapter.ResolveFactory(r.env, r.factory)
		if !ok {
			return errors.Errorf("router: no factory at %s", r.factory.Hex())
		}
		if factory.GetPair(tokenAddress, r.wrappedNative) == (common.Address{}) {
			if _, err := factory.CreatePair(r.address, tokenAddress, r.wrappedNative); err != nil {
				return err
			}
		}

		token, pair, err := r.resolve(tokenAddress)
		if err != nil {
			return err
		}

		amountToken, amountNative, err = optimalAmounts(
			pair.Reserve(tokenAddress), pair.Reserve(r.wrappedNative),
			amountTokenDesired, value, amountTokenMin, amountNativeMin)
		if err != nil {
			return err
		}

		if err := token.TransferFrom(r.address, sender, pair.address, amountToken); err != nil {
			return errors.Wrap(err, "router: pulling liquidity tokens")
		}
		if err := r.state.TransferNative(sender, pair.address, amountNative); err != nil {
			return err
		}

		// transfers of a fee-taking token can move the pool on their way in, so the deposit is what
		// the pair holds above its reserves now
		reserveToken, reserveNative := pair.Reserve(tokenAddress), pair.Reserve(r.wrappedNative)
		balanceToken, balanceNative := token.BalanceOf(pair.address), r.state.NativeBalance(pair.address)
		liquidity, err = mintAmount(pair, difference(balanceToken, reserveToken), difference(balanceNative, reserveNative), reserveToken, reserveNative)
		if err != nil {
			return err
		}

		pair.mintLiquidity(to, liquidity)
		pair.sync(tokenAddress, balanceToken, r.wrappedNative, balanceNative)
		r.logger.Info("liquidity added",
			logfields.Address("provider", sender),
			logfields.Amount("tokens", amountToken),
			logfields.Amount("native", amountNative),
			logfields.Amount("liquidity", liquidity),
		)
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return amountToken, amountNative, liquidity, nil
}

func (r *Router) resolve(tokenAddress common.Address) (adapter.FungibleToken, *Pair, error) {
	token, ok := adapter.ResolveFungibleToken(r.env, tokenAddress)
	if !ok {
		return nil, nil, errors.Wrapf(ErrInvalidPath, "no token at %s", tokenAddress.Hex())
	}
	factory, ok := adapter.ResolveFactory(r.env, r.factory)
	if !ok {
		return nil, nil, errors.Errorf("router: no factory at %s", r.factory.Hex())
	}
	pairAddress := factory.GetPair(tokenAddress, r.wrappedNative)
	contract, ok := r.env.Contract(pairAddress)
	if !ok {
		return nil, nil, errors.Wrapf(ErrPairNotFound, "%s", tokenAddress.Hex())
	}
	pair, ok := contract.(*Pair)
	if !ok {
		return nil, nil, errors.Wrapf(ErrPairNotFound, "%s is not a pair", pairAddress.Hex())
	}
	return token, pair, nil
}

// GetAmountOut is the constant-product output for amountIn after the 0.3% pool fee.
func GetAmountOut(amountIn *uint256.Int, reserveIn *uint256.Int, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, errors.Wrap(ErrInsufficientAmount, "zero input")
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	amountInWithFee := new(uint256.Int).Mul(amountIn, uint256.NewInt(997))
	numerator := new(uint256.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(uint256.Int).Mul(reserveIn, uint256.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)
	return numerator.Div(numerator, denominator), nil
}

// Quote is the amount of the other asset worth amountA at the pool's ratio.
func Quote(amountA *uint256.Int, reserveA *uint256.Int, reserveB *uint256.Int) (*uint256.Int, error) {
	if amountA.IsZero() {
		return nil, errors.Wrap(ErrInsufficientAmount, "zero amount")
	}
	if reserveA.IsZero() || reserveB.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	res := new(uint256.Int).Mul(amountA, reserveB)
	return res.Div(res, reserveA), nil
}

func optimalAmounts(reserveToken, reserveNative, tokenDesired, nativeDesired, tokenMin, nativeMin *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if reserveToken.IsZero() && reserveNative.IsZero() {
		return tokenDesired, nativeDesired, nil
	}

	nativeOptimal, err := Quote(tokenDesired, reserveToken, reserveNative)
	if err != nil {
		return nil, nil, err
	}
	if !nativeOptimal.Gt(nativeDesired) {
		if nativeOptimal.Lt(nativeMin) {
			return nil, nil, errors.Wrap(ErrInsufficientAmount, "native below minimum")
		}
		return tokenDesired, nativeOptimal, nil
	}

	tokenOptimal, err := Quote(nativeDesired, reserveNative, reserveToken)
	if err != nil {
		return nil, nil, err
	}
	if tokenOptimal.Lt(tokenMin) {
		return nil, nil, errors.Wrap(ErrInsufficientAmount, "tokens below minimum")
	}
	return tokenOptimal, nativeDesired, nil
}

func mintAmount(pair *Pair, depositToken, depositNative, reserveToken, reserveNative *uint256.Int) (*uint256.Int, error) {
	total := pair.TotalLiquidity()
	if total.IsZero() {
		product, overflow := new(uint256.Int).MulOverflow(depositToken, depositNative)
		if overflow {
			return nil, errors.New("router: deposit too large")
		}
		liquidity := new(uint256.Int).Sqrt(product)
		minimum := uint256.NewInt(MINIMUM_LIQUIDITY)
		if !liquidity.Gt(minimum) {
			return nil, errors.Wrap(ErrInsufficientLiquidity, "first deposit too small")
		}
		pair.mintLiquidity(common.Address{}, minimum)
		return liquidity.Sub(liquidity, minimum), nil
	}

	byToken := new(uint256.Int).Mul(depositToken, total)
	byToken.Div(byToken, reserveToken)
	byNative := new(uint256.Int).Mul(depositNative, total)
	byNative.Div(byNative, reserveNative)

	liquidity := byToken
	if byNative.Lt(byToken) {
		liquidity = byNative
	}
	if liquidity.IsZero() {
		return nil, errors.Wrap(ErrInsufficientLiquidity, "nothing minted")
	}
	return liquidity, nil
}

func difference(after *uint256.Int, before *uint256.Int) *uint256.Int {
	if after.Lt(before) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(after, before)
}
