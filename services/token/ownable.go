// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/pkg/errors"
)

func (t *Token) onlyOwner(sender common.Address) error {
	if owner := t.Owner(); owner == (common.Address{}) || sender != owner {
		return errors.Wrapf(ErrUnauthorized, "%s", sender.Hex())
	}
	return nil
}

func (t *Token) TransferOwnership(sender common.Address, newOwner common.Address) error {
	return t.ownerCall(sender, func() error {
		if newOwner == (common.Address{}) {
			return errors.Wrap(ErrInvalidArgument, "new owner is the zero address")
		}
		t.setOwner(newOwner)
		return nil
	})
}

// RenounceOwnership leaves the token without an owner; no owner operation can run afterwards.
func (t *Token) RenounceOwnership(sender common.Address) error {
	return t.ownerCall(sender, func() error {
		t.setOwner(common.Address{})
		return nil
	})
}

func (t *Token) setOwner(newOwner common.Address) {
	previous := t.Owner()
	t.state.WriteAddress(t.address, OWNER_KEY, newOwner)
	t.emit(OWNERSHIP_TRANSFERRED, []common.Address{previous, newOwner})
	t.logger.Info("ownership transferred", logfields.Address("previous-owner", previous), logfields.Address("new-owner", newOwner))
}
