// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package events encodes contract events as EVM logs: topic 0 is the keccak256 of the event
// signature, indexed addresses follow as topics, and the remaining values are packed in Data as
// 32-byte big-endian words.
package events

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	TRANSFER = "Transfer(address,address,uint256)"
	APPROVAL = "Approval(address,address,uint256)"
)

const wordSize = 32

func Topic(signature string) common.Hash {
	return crypto.Keccak256Hash([]byte(signature))
}

func New(contract common.Address, signature string, indexed []common.Address, values ...*uint256.Int) *types.Log {
	topics := make([]common.Hash, 0, 1+len(indexed))
	topics = append(topics, Topic(signature))
	for _, address := range indexed {
		topics = append(topics, common.BytesToHash(address.Bytes()))
	}

	data := make([]byte, 0, wordSize*len(values))
	for _, value := range values {
		word := value.Bytes32()
		data = append(data, word[:]...)
	}

	return &types.Log{
		Address: contract,
		Topics:  topics,
		Data:    data,
	}
}

func Transfer(contract common.Address, from common.Address, to common.Address, amount *uint256.Int) *types.Log {
	return New(contract, TRANSFER, []common.Address{from, to}, amount)
}

func Approval(contract common.Address, owner common.Address, spender common.Address, amount *uint256.Int) *types.Log {
	return New(contract, APPROVAL, []common.Address{owner, spender}, amount)
}

func Bool(value bool) *uint256.Int {
	if value {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

// Matching returns the logs emitted by contract for signature, in emission order.
func Matching(logs []*types.Log, contract common.Address, signature string) []*types.Log {
	topic := Topic(signature)
	var res []*types.Log
	for _, l := range logs {
		if l.Address == contract && len(l.Topics) > 0 && l.Topics[0] == topic {
			res = append(res, l)
		}
	}
	return res
}

func IndexedAddress(l *types.Log, i int) common.Address {
	if i+1 >= len(l.Topics) {
		return common.Address{}
	}
	return common.BytesToAddress(l.Topics[i+1].Bytes())
}

func Values(l *types.Log) []*uint256.Int {
	values := make([]*uint256.Int, 0, len(l.Data)/wordSize)
	for offset := 0; offset+wordSize <= len(l.Data); offset += wordSize {
		values = append(values, new(uint256.Int).SetBytes(l.Data[offset:offset+wordSize]))
	}
	return values
}
