// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/kindora-project/kindora-go/services/statestorage"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.Service("virtual-machine")

type metrics struct {
	executionTime *metric.Histogram
	calls         *metric.Rate
	reverted      *metric.Gauge
}

func newMetrics(factory metric.Factory) *metrics {
	return &metrics{
		executionTime: factory.NewLatency("VirtualMachine.ExecutionTime.Millis", 10*time.Second),
		calls:         factory.NewRate("VirtualMachine.Calls.PerSecond"),
		reverted:      factory.NewGauge("VirtualMachine.Reverted.Count"),
	}
}

// Machine runs calls one at a time against a shared StateDB. A call that fails leaves no trace in
// the state. Contracts call each other directly; only top-level calls go through Execute.
type Machine struct {
	mutex   sync.Mutex
	logger  log.Logger
	metrics *metrics
	state   *statestorage.StateDB
	clock   func() time.Time

	blockNumber    uint64
	blockTimestamp uint64

	registry struct {
		sync.RWMutex
		contracts map[common.Address]interface{}
		nonces    map[common.Address]uint64
	}
}

func NewMachine(logger log.Logger, metricFactory metric.Factory) *Machine {
	m := &Machine{
		logger:  logger.WithTags(LogTag),
		metrics: newMetrics(metricFactory),
		state:   statestorage.NewStateDB(metricFactory),
		clock:   time.Now,
	}
	m.registry.contracts = make(map[common.Address]interface{})
	m.registry.nonces = make(map[common.Address]uint64)
	m.blockTimestamp = uint64(m.clock().Unix())
	return m
}

// SetClock replaces the wall clock used to stamp blocks.
func (m *Machine) SetClock(clock func() time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.clock = clock
}

func (m *Machine) State() *statestorage.StateDB {
	return m.state
}

func (m *Machine) BlockNumber() uint64 {
	return m.blockNumber
}

// BlockTimestamp is the timestamp of the call being executed, in unix seconds.
func (m *Machine) BlockTimestamp() uint64 {
	return m.blockTimestamp
}

// DeriveAddress returns the next contract address for deployer, the way CREATE does.
func (m *Machine) DeriveAddress(deployer common.Address) common.Address {
	m.registry.Lock()
	defer m.registry.Unlock()

	nonce := m.registry.nonces[deployer]
	m.registry.nonces[deployer] = nonce + 1
	return crypto.CreateAddress(deployer, nonce)
}

func (m *Machine) Register(address common.Address, contract interface{}) error {
	m.registry.Lock()
	defer m.registry.Unlock()

	if _, exists := m.registry.contracts[address]; exists {
		return errors.Errorf("a contract is already registered at %s", address.Hex())
	}
	m.registry.contracts[address] = contract
	m.logger.Info("contract registered", logfields.Contract(address))
	return nil
}

func (m *Machine) Contract(address common.Address) (interface{}, bool) {
	m.registry.RLock()
	defer m.registry.RUnlock()

	contract, ok := m.registry.contracts[address]
	return contract, ok
}

func (m *Machine) IsContract(address common.Address) bool {
	_, ok := m.Contract(address)
	return ok
}

// AllocateNative credits native currency out of thin air; used for genesis balances.
func (m *Machine) AllocateNative(account common.Address, amount *uint256.Int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.state.AddNativeBalance(account, amount); err != nil {
		return err
	}
	m.state.Commit()
	return nil
}

// Execute runs f as one atomic call in a new block. On failure the state is reverted, the receipt
// status is failed and the error is returned. Functions f queued with OnCommit run only if it succeeds.
func (m *Machine) Execute(ctx context.Context, description string, f func() error) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "call %s was not executed", description)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	start := time.Now()
	defer m.metrics.executionTime.RecordSince(start)
	m.metrics.calls.Measure(1)

	m.blockNumber++
	if now := uint64(m.clock().Unix()); now > m.blockTimestamp {
		m.blockTimestamp = now
	} else {
		m.blockTimestamp++
	}

	snapshot := m.state.Snapshot()
	err := m.state.Atomically(f)
	logs := m.state.LogsSince(snapshot)
	m.state.Commit()

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		Logs:        logs,
		BlockNumber: new(big.Int).SetUint64(m.blockNumber),
	}
	for _, l := range logs {
		l.BlockNumber = m.blockNumber
	}

	if err != nil {
		receipt.Status = types.ReceiptStatusFailed
		m.metrics.reverted.Inc()
		m.logger.Info("call reverted", log.String("call", description), log.Uint64("block-number", m.blockNumber), log.Error(err))
		return receipt, err
	}

	return receipt, nil
}
