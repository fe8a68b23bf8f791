// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var contract = common.HexToAddress("0xc0")
var deployer = common.HexToAddress("0xde")

func TestMachine_ExecuteCommitsAndReturnsLogs(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())

		receipt, err := m.Execute(context.Background(), "write", func() error {
			m.State().Write(contract, "key", []byte("value"))
			m.State().AddLog(&types.Log{Address: contract})
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		require.Len(t, receipt.Logs, 1)
		require.EqualValues(t, 1, receipt.Logs[0].BlockNumber)
		require.EqualValues(t, 1, receipt.BlockNumber.Uint64())
		value, ok := m.State().Read(contract, "key")
		require.True(t, ok)
		require.Equal(t, []byte("value"), value)
	})
}

func TestMachine_FailedCallLeavesNoTrace(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())
		m.State().Write(contract, "key", []byte("before"))
		failure := errors.New("revert")
		var committed []string

		receipt, err := m.Execute(context.Background(), "fail", func() error {
			m.State().Write(contract, "key", []byte("after"))
			m.State().AddLog(&types.Log{Address: contract})
			m.State().OnCommit(func() { committed = append(committed, "fail") })
			return failure
		})

		require.Equal(t, failure, err)
		require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
		require.Empty(t, receipt.Logs)
		value, _ := m.State().Read(contract, "key")
		require.Equal(t, []byte("before"), value)
		require.Empty(t, m.State().Logs())
		require.EqualValues(t, 1, m.metrics.reverted.Value())

		_, err = m.Execute(context.Background(), "succeed", func() error {
			m.State().OnCommit(func() { committed = append(committed, "succeed") })
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"succeed"}, committed, "only the committed call's hooks run")
	})
}

func TestMachine_CancelledContextDoesNotExecute(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		_, err := m.Execute(ctx, "never", func() error {
			called = true
			return nil
		})

		require.Error(t, err)
		require.False(t, called)
		require.EqualValues(t, 0, m.BlockNumber())
	})
}

func TestMachine_BlockTimestampNeverGoesBack(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())
		frozen := time.Unix(1000, 0)
		m.SetClock(func() time.Time { return frozen })

		var timestamps []uint64
		for i := 0; i < 3; i++ {
			_, err := m.Execute(context.Background(), "tick", func() error {
				timestamps = append(timestamps, m.BlockTimestamp())
				return nil
			})
			require.NoError(t, err)
		}

		require.True(t, timestamps[0] < timestamps[1] && timestamps[1] < timestamps[2], "got %v", timestamps)
	})
}

func TestMachine_DeriveAddressFollowsCreate(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())

		require.Equal(t, crypto.CreateAddress(deployer, 0), m.DeriveAddress(deployer))
		require.Equal(t, crypto.CreateAddress(deployer, 1), m.DeriveAddress(deployer))
		require.Equal(t, crypto.CreateAddress(contract, 0), m.DeriveAddress(contract))
	})
}

func TestMachine_Registry(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())
		instance := &struct{ name string }{"counter"}

		require.NoError(t, m.Register(contract, instance))
		require.Error(t, m.Register(contract, instance), "an address holds one contract")

		found, ok := m.Contract(contract)
		require.True(t, ok)
		require.Equal(t, instance, found)
		require.True(t, m.IsContract(contract))
		require.False(t, m.IsContract(deployer))
	})
}

func TestMachine_AllocateNative(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		m := NewMachine(parent.Logger, metric.NewRegistry())

		require.NoError(t, m.AllocateNative(deployer, uint256.NewInt(5)))
		require.NoError(t, m.AllocateNative(deployer, uint256.NewInt(7)))

		require.Equal(t, uint256.NewInt(12), m.State().NativeBalance(deployer))
	})
}
