// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"runtime/debug"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
)

// TokenService tags the token's own log lines.
var TokenService = log.Service("kindora-token")

func Address(key string, value common.Address) *log.Field {
	return log.String(key, value.Hex())
}

// Amount renders a 256-bit value in decimal, in base units.
func Amount(key string, value *uint256.Int) *log.Field {
	if value == nil {
		return log.String(key, "<nil>")
	}
	return log.String(key, value.ToBig().String())
}

func Contract(value common.Address) *log.Field {
	return Address("contract", value)
}

type Errorer interface {
	Error(message string, fields ...*log.Field)
}

type govnrErrorer struct {
	logger Errorer
}

func (h *govnrErrorer) Error(err error) {
	h.logger.Error("recovered panic", log.Error(err), log.String("stack-trace", string(debug.Stack())))
}

func GovnrErrorer(logger Errorer) govnr.Errorer {
	return &govnrErrorer{logger}
}
