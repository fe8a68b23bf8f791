// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrLimitExceeded       = errors.New("limit exceeded")
	ErrUnauthorized        = errors.New("caller is not the owner")
	ErrInvariantViolation  = errors.New("invariant violation")
	ErrExternalCallFailure = errors.New("external call failed")

	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

type LimitKind int

const (
	MaxTx LimitKind = iota
	MaxWallet
)

func (k LimitKind) String() string {
	switch k {
	case MaxTx:
		return "max-tx"
	case MaxWallet:
		return "max-wallet"
	default:
		return fmt.Sprintf("limit(%d)", int(k))
	}
}

// LimitExceededError matches ErrLimitExceeded with errors.Is.
type LimitExceededError struct {
	Kind   LimitKind
	Amount *uint256.Int
	Limit  *uint256.Int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %s above %s", e.Kind, e.Amount.ToBig(), e.Limit.ToBig())
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}
