// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package statestorage

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// NATIVE_BALANCE_KEY holds an account's native-currency balance in the account's own key space.
const NATIVE_BALANCE_KEY = "_NATIVE_BALANCE_"

var ErrInsufficientNativeBalance = errors.New("insufficient native balance")

// ReadUint256 returns zero for a missing key.
func (s *StateDB) ReadUint256(contract common.Address, key string) *uint256.Int {
	value, _ := s.Read(contract, key)
	return new(uint256.Int).SetBytes(value)
}

func (s *StateDB) WriteUint256(contract common.Address, key string, value *uint256.Int) {
	if value.IsZero() {
		s.Write(contract, key, nil)
		return
	}
	s.Write(contract, key, value.Bytes())
}

func (s *StateDB) ReadBool(contract common.Address, key string) bool {
	value, _ := s.Read(contract, key)
	return len(value) == 1 && value[0] == 1
}

func (s *StateDB) WriteBool(contract common.Address, key string, value bool) {
	if !value {
		s.Write(contract, key, nil)
		return
	}
	s.Write(contract, key, []byte{1})
}

func (s *StateDB) ReadAddress(contract common.Address, key string) common.Address {
	value, _ := s.Read(contract, key)
	return common.BytesToAddress(value)
}

func (s *StateDB) WriteAddress(contract common.Address, key string, value common.Address) {
	if value == (common.Address{}) {
		s.Write(contract, key, nil)
		return
	}
	s.Write(contract, key, value.Bytes())
}

func (s *StateDB) NativeBalance(account common.Address) *uint256.Int {
	return s.ReadUint256(account, NATIVE_BALANCE_KEY)
}

func (s *StateDB) AddNativeBalance(account common.Address, amount *uint256.Int) error {
	balance, overflow := new(uint256.Int).AddOverflow(s.NativeBalance(account), amount)
	if overflow {
		return errors.Errorf("native balance of %s overflows", account.Hex())
	}
	s.WriteUint256(account, NATIVE_BALANCE_KEY, balance)
	return nil
}

func (s *StateDB) SubNativeBalance(account common.Address, amount *uint256.Int) error {
	balance := s.NativeBalance(account)
	if balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientNativeBalance, "%s has %s, needs %s", account.Hex(), balance.ToBig(), amount.ToBig())
	}
	s.WriteUint256(account, NATIVE_BALANCE_KEY, new(uint256.Int).Sub(balance, amount))
	return nil
}

func (s *StateDB) TransferNative(from common.Address, to common.Address, amount *uint256.Int) error {
	return s.Atomically(func() error {
		if err := s.SubNativeBalance(from, amount); err != nil {
			return err
		}
		return s.AddNativeBalance(to, amount)
	})
}
