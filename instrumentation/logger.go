// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package instrumentation

import (
	"os"

	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/instrumentation/logfields"
	"github.com/orbs-network/scribe/log"
)

func GetBootstrapLogger() log.Logger {
	return log.GetLogger().WithOutput(log.NewFormattingOutput(os.Stderr, log.NewHumanReadableFormatter()))
}

func GetLogger(path string, silent bool, cfg config.TokenConfig) (log.Logger, error) {
	outputs := make([]log.Output, 0, 2)

	if !silent {
		outputs = append(outputs, log.NewFormattingOutput(os.Stdout, log.NewJsonFormatter()))
	}

	if path != "" {
		logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, log.NewFormattingOutput(logFile, log.NewJsonFormatter()))
	}

	logger := log.GetLogger().WithOutput(outputs...)

	// without the full log only errors and the token's own lines are kept
	conditionalFilter := log.NewConditionalFilter(false, nil)
	if !cfg.LoggerFullLog() {
		conditionalFilter = log.NewConditionalFilter(true, log.Or(log.OnlyErrors(), log.MatchField(logfields.TokenService)))
	}

	return logger.WithFilters(conditionalFilter), nil
}
