// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package statestorage

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
)

type ContractState map[string][]byte
type ChainState map[common.Address]ContractState

type metrics struct {
	numberOfKeys      *metric.Gauge
	numberOfContracts *metric.Gauge
	reverts           *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		numberOfKeys:      m.NewGauge("StateStorage.TotalNumberOfKeys.Count"),
		numberOfContracts: m.NewGauge("StateStorage.TotalNumberOfContracts.Count"),
		reverts:           m.NewGauge("StateStorage.Reverts.Count"),
	}
}

type journalEntry struct {
	contract common.Address
	key      string
	prev     []byte
	existed  bool
}

// Snapshot marks a point in the journal that RevertToSnapshot can return to.
type Snapshot struct {
	journalLength int
	logsLength    int
	pendingLength int
}

// StateDB is the world state shared by all contracts of a machine. Every write is journaled so a
// failed call can be undone without touching state written before it.
type StateDB struct {
	metrics *metrics
	mutex   sync.RWMutex
	state   ChainState
	journal []journalEntry
	logs    []*types.Log
	pending []func()
}

func NewStateDB(metricFactory metric.Factory) *StateDB {
	return &StateDB{
		metrics: newMetrics(metricFactory),
		state:   ChainState{},
	}
}

func (s *StateDB) Read(contract common.Address, key string) ([]byte, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.state[contract][key]
	return value, ok
}

// Write stores a copy of value; an empty value deletes the key.
func (s *StateDB) Write(contract common.Address, key string, value []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, existed := s.state[contract][key]
	s.journal = append(s.journal, journalEntry{contract: contract, key: key, prev: prev, existed: existed})
	s._writeOneRecord(contract, key, value)
}

func (s *StateDB) _writeOneRecord(contract common.Address, key string, value []byte) {
	if isZeroValue(value) {
		if records, ok := s.state[contract]; ok {
			delete(records, key)
			if len(records) == 0 {
				delete(s.state, contract)
			}
		}
		return
	}

	if _, ok := s.state[contract]; !ok {
		s.state[contract] = ContractState{}
	}
	s.state[contract][key] = append([]byte{}, value...)
}

func (s *StateDB) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return Snapshot{journalLength: len(s.journal), logsLength: len(s.logs), pendingLength: len(s.pending)}
}

func (s *StateDB) RevertToSnapshot(snapshot Snapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if snapshot.journalLength > len(s.journal) || snapshot.logsLength > len(s.logs) || snapshot.pendingLength > len(s.pending) {
		panic(fmt.Sprintf("snapshot %+v is newer than the journal (%d entries, %d logs, %d pending)", snapshot, len(s.journal), len(s.logs), len(s.pending)))
	}

	for i := len(s.journal) - 1; i >= snapshot.journalLength; i-- {
		entry := s.journal[i]
		if entry.existed {
			s._writeOneRecord(entry.contract, entry.key, entry.prev)
		} else {
			s._writeOneRecord(entry.contract, entry.key, nil)
		}
	}
	s.journal = s.journal[:snapshot.journalLength]
	s.logs = s.logs[:snapshot.logsLength]
	s.pending = s.pending[:snapshot.pendingLength]
	s.metrics.reverts.Inc()
}

// Atomically runs f and reverts every write and log it made if it fails or panics.
func (s *StateDB) Atomically(f func() error) (err error) {
	snapshot := s.Snapshot()
	committed := false
	defer func() {
		if !committed {
			s.RevertToSnapshot(snapshot)
		}
	}()

	if err = f(); err != nil {
		return err
	}
	committed = true
	return nil
}

// OnCommit queues f to run at the next Commit. Reverting to a snapshot taken before the call drops f.
func (s *StateDB) OnCommit(f func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pending = append(s.pending, f)
}

// Commit forgets the journal and runs the queued OnCommit functions in order; earlier snapshots
// become invalid.
func (s *StateDB) Commit() {
	s.mutex.Lock()
	pending := s.pending
	s.pending = nil
	s.journal = nil
	s.reportSize()
	s.mutex.Unlock()

	for _, f := range pending {
		f()
	}
}

func (s *StateDB) reportSize() {
	nKeys := 0
	for _, records := range s.state {
		nKeys += len(records)
	}
	s.metrics.numberOfKeys.Update(int64(nKeys))
	s.metrics.numberOfContracts.Update(int64(len(s.state)))
}

func (s *StateDB) AddLog(l *types.Log) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	l.Index = uint(len(s.logs))
	s.logs = append(s.logs, l)
}

func (s *StateDB) Logs() []*types.Log {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]*types.Log{}, s.logs...)
}

func (s *StateDB) LogsSince(snapshot Snapshot) []*types.Log {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if snapshot.logsLength >= len(s.logs) {
		return nil
	}
	return append([]*types.Log{}, s.logs[snapshot.logsLength:]...)
}

// ForEachWithPrefix visits the keys of a contract that start with prefix, in key order.
func (s *StateDB) ForEachWithPrefix(contract common.Address, prefix string, f func(key string, value []byte)) {
	s.mutex.RLock()
	keys := make([]string, 0)
	for k := range s.state[contract] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	values := make([][]byte, len(keys))
	sort.Strings(keys)
	for i, k := range keys {
		values[i] = s.state[contract][k]
	}
	s.mutex.RUnlock()

	for i, k := range keys {
		f(k, values[i])
	}
}

func (s *StateDB) Dump() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	contracts := make([]common.Address, 0, len(s.state))
	for c := range s.state {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool { return bytes.Compare(contracts[i][:], contracts[j][:]) < 0 })

	output := strings.Builder{}
	output.WriteString("{")
	for _, currentContract := range contracts {
		keys := make([]string, 0, len(s.state[currentContract]))
		for k := range s.state[currentContract] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		output.WriteString(currentContract.Hex() + ":{")
		for _, k := range keys {
			output.WriteString(k)
			output.WriteString(":")
			output.WriteString(common.Bytes2Hex(s.state[currentContract][k]))
			output.WriteString(",")
		}
		output.WriteString("},")
	}
	output.WriteString("}")
	return output.String()
}

func isZeroValue(value []byte) bool {
	return len(value) == 0
}
