// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/orbs-network/go-mock"
)

type routerMock struct {
	mock.Mock
	address common.Address
}

func (r *routerMock) Address() common.Address {
	return r.address
}

func (r *routerMock) Factory() common.Address {
	return r.Called().Get(0).(common.Address)
}

func (r *routerMock) WrappedNative() common.Address {
	return r.Called().Get(0).(common.Address)
}

func (r *routerMock) SwapExactTokensForNativeSupportingFeeOnTransferTokens(sender common.Address, amountIn *uint256.Int, amountOutMin *uint256.Int, path []common.Address, to common.Address, deadline uint64) error {
	return r.Called(sender, amountIn, amountOutMin, path, to, deadline).Error(0)
}

func (r *routerMock) AddLiquidityNative(sender common.Address, value *uint256.Int, token common.Address, amountTokenDesired *uint256.Int, amountTokenMin *uint256.Int, amountNativeMin *uint256.Int, to common.Address, deadline uint64) (*uint256.Int, *uint256.Int, *uint256.Int, error) {
	ret := r.Called(sender, value, token, amountTokenDesired, amountTokenMin, amountNativeMin, to, deadline)
	return ret.Get(0).(*uint256.Int), ret.Get(1).(*uint256.Int), ret.Get(2).(*uint256.Int), ret.Error(3)
}

// newRouterMock registers a mocked router on the harness machine, backed by the real factory.
func (h *harness) newRouterMock(name string) *routerMock {
	r := &routerMock{address: account(name)}
	r.When("Factory").Return(h.factory.Address())
	r.When("WrappedNative").Return(h.weth.Address())
	if err := h.machine.Register(r.address, r); err != nil {
		h.tb.Fatal(err)
	}
	return r
}

func pathIs(expected ...common.Address) interface{} {
	return mock.AnyIf("swap path matches", func(arg interface{}) bool {
		path, ok := arg.([]common.Address)
		if !ok || len(path) != len(expected) {
			return false
		}
		for i := range path {
			if path[i] != expected[i] {
				return false
			}
		}
		return true
	})
}

func amountIs(expected *uint256.Int) interface{} {
	return mock.AnyIf("amount equals "+expected.ToBig().String(), func(arg interface{}) bool {
		amount, ok := arg.(*uint256.Int)
		return ok && amount.Eq(expected)
	})
}
