// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/c9s/goprocinfo/linux"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
)

const PAGESIZE = 4096

const cpuSampleWindow = time.Second

type systemMetrics struct {
	rssBytes       *Gauge
	cpuUtilization *Gauge
}

// NewSystemReporter samples the memory and cpu usage of this process from procfs on every tick.
// It does nothing on systems without /proc.
func NewSystemReporter(ctx context.Context, interval time.Duration, metricFactory Factory, logger log.Logger) *govnr.ForeverHandle {
	m := &systemMetrics{
		rssBytes:       metricFactory.NewGauge("OS.Process.Memory.Bytes"),
		cpuUtilization: metricFactory.NewGauge("OS.Process.CPU.PerCent"),
	}

	return govnr.Forever(ctx, "system metric reporter", logfields.GovnrErrorer(logger), func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sample(ctx, logger)
			case <-ctx.Done():
				return
			}
		}
	})
}

func (m *systemMetrics) sample(ctx context.Context, logger log.Logger) {
	if _, err := os.Stat("/proc"); os.IsNotExist(err) {
		return
	}

	if rss, err := getRssMemory(); err != nil {
		logger.Info("failed to retrieve memory stats", log.Error(err))
	} else {
		m.rssBytes.Update(rss)
	}

	if cpu, err := getCPUUtilization(ctx); err != nil {
		logger.Info("failed to retrieve cpu stats", log.Error(err))
	} else {
		m.cpuUtilization.Update(cpu)
	}
}

func getRssMemory() (int64, error) {
	statm, err := linux.ReadProcessStatm(fmt.Sprintf("/proc/%d/statm", os.Getpid()))
	if err != nil {
		return 0, err
	}

	return int64(statm.Resident * PAGESIZE), nil
}

func getCPUStats() (uint64, error) {
	cpu, err := linux.ReadStat("/proc/stat")
	if err != nil {
		return 0, err
	}
	e := cpu.CPUStatAll
	return e.User + e.Nice + e.System + e.Idle, nil
}

// procfs counters are cumulative since boot, so utilization is the process share of all cpu ticks
// between two samples taken a second apart. Cores are not told apart.
func getCPUUtilization(ctx context.Context) (int64, error) {
	pid := uint64(os.Getpid())

	firstSample, err := linux.ReadProcess(pid, "/proc")
	if err != nil {
		return 0, err
	}
	cpu1, err := getCPUStats()
	if err != nil {
		return 0, err
	}

	select {
	case <-time.After(cpuSampleWindow):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	secondSample, err := linux.ReadProcess(pid, "/proc")
	if err != nil {
		return 0, err
	}
	cpu2, err := getCPUStats()
	if err != nil {
		return 0, err
	}
	if cpu2 == cpu1 {
		return 0, nil
	}

	user := (int64(secondSample.Stat.Utime) + secondSample.Stat.Cutime) - (int64(firstSample.Stat.Utime) + firstSample.Stat.Cutime)
	system := (int64(secondSample.Stat.Stime) + secondSample.Stat.Cstime) - (int64(firstSample.Stat.Stime) + firstSample.Stat.Cstime)

	return int64(float64(user+system) / float64(cpu2-cpu1) * 100), nil
}
