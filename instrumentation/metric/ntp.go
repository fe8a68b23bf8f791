// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
)

const NTP_QUERY_INTERVAL = 30 * time.Second

type ntpQuery func(address string) (*ntp.Response, error)

// NewNtpReporter tracks the drift of the local clock, which the machine uses for block timestamps
// and router deadlines, against an ntp server.
func NewNtpReporter(ctx context.Context, metricFactory Factory, logger log.Logger, ntpServerAddress string) *govnr.ForeverHandle {
	return newNtpReporter(ctx, metricFactory, logger, ntpServerAddress, NTP_QUERY_INTERVAL, ntp.Query)
}

func newNtpReporter(ctx context.Context, metricFactory Factory, logger log.Logger, ntpServerAddress string, interval time.Duration, query ntpQuery) *govnr.ForeverHandle {
	drift := metricFactory.NewGauge("OS.Time.Drift.Millis")

	return govnr.Forever(ctx, "ntp metric reporter", logfields.GovnrErrorer(logger), func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			response, err := query(ntpServerAddress)
			if err != nil {
				logger.Info("could not query ntp server", log.String("ntp-server", ntpServerAddress), log.Error(err))
			} else {
				drift.Update(driftMillis(response))
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	})
}

// driftMillis is how far the local clock is behind the server, truncated to whole milliseconds.
func driftMillis(response *ntp.Response) int64 {
	return response.ClockOffset.Nanoseconds() / int64(time.Millisecond)
}
