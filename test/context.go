// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"testing"
	"time"

	"github.com/orbs-network/govnr"
)

const shutdownTimeout = 5 * time.Second

func WithContext(f func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f(ctx)
}

// WithSupervisedContext cancels ctx once f returns and fails the test if the goroutines f placed
// under supervisor do not stop within the shutdown timeout.
func WithSupervisedContext(tb testing.TB, f func(ctx context.Context, supervisor *govnr.TreeSupervisor)) {
	ctx, cancel := context.WithCancel(context.Background())
	supervisor := &govnr.TreeSupervisor{}
	defer func() {
		cancel()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		supervisor.WaitUntilShutdown(shutdownCtx)
		if shutdownCtx.Err() != nil {
			tb.Error("supervised goroutines did not shut down in time")
		}
	}()
	f(ctx, supervisor)
}
