// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
)

// Process owns the background goroutines of a CLI run (the metric reporter) and their shutdown.
type Process struct {
	govnr.TreeSupervisor
	CancelFunc context.CancelFunc
	Logger     log.Logger
}

func NewProcess(logger log.Logger, cancelFunc context.CancelFunc) *Process {
	return &Process{
		Logger:     logger,
		CancelFunc: cancelFunc,
	}
}

// ShutdownOnSignal cancels the process context on SIGINT or SIGTERM.
func (p *Process) ShutdownOnSignal(ctx context.Context) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	govnr.Once(logfields.GovnrErrorer(p.Logger), func() {
		defer signal.Stop(signalChan)
		select {
		case <-signalChan:
			p.Logger.Info("terminating gracefully due to os signal received")
			p.CancelFunc()
		case <-ctx.Done():
		}
	})
}

func (p *Process) GracefulShutdown(timeout time.Duration) {
	p.CancelFunc()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	p.WaitUntilShutdown(shutdownCtx)
}
