// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/kindora-project/kindora-go/test"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDriftMillis(t *testing.T) {
	require.EqualValues(t, 1500, driftMillis(&ntp.Response{ClockOffset: 1500*time.Millisecond + 700*time.Microsecond}))
	require.EqualValues(t, -250, driftMillis(&ntp.Response{ClockOffset: -250 * time.Millisecond}))
	require.EqualValues(t, 0, driftMillis(&ntp.Response{ClockOffset: 999 * time.Microsecond}))
}

func TestNtpReporter_ReportsDriftAndSurvivesQueryErrors(t *testing.T) {
	registry := NewRegistry()
	logger := log.GetLogger().WithOutput(log.NewTestOutput(t, log.NewHumanReadableFormatter()))

	var queries int32
	var queried atomic.Value
	query := func(address string) (*ntp.Response, error) {
		queried.Store(address)
		if atomic.AddInt32(&queries, 1) == 1 {
			return nil, errors.New("i/o timeout")
		}
		return &ntp.Response{ClockOffset: 42 * time.Millisecond}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := newNtpReporter(ctx, registry, logger, "ntp.example", time.Millisecond, query)

	require.True(t, test.Eventually(5*time.Second, func() bool {
		drift, ok := registry.ExportAll()["OS.Time.Drift.Millis"].(gaugeExport)
		return ok && drift.Value == 42
	}), "drift should be reported once the server answers")
	require.True(t, atomic.LoadInt32(&queries) >= 2, "a failed query does not stop the reporter")
	require.Equal(t, "ntp.example", queried.Load())

	cancel()
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("ntp reporter did not shut down")
	}
}
