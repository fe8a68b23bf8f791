// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kindora-project/kindora-go/bootstrap"
	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/instrumentation"
	"github.com/kindora-project/kindora-go/instrumentation/metric"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := instrumentation.GetBootstrapLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error in main goroutine", log.Error(errors.Errorf("unknown error: %v", r)))
			os.Exit(2)
		}
	}()

	silentLog := flag.Bool("silent", false, "disable log output to stdout")
	pathToLog := flag.String("log", "", "path/to/kindora.log")
	pathToScenario := flag.String("scenario", "", "path/to/scenario.json, replayed after deployment")
	pathToReport := flag.String("report", "", "path/to/report.json (defaults to stdout)")
	version := flag.Bool("version", false, "returns information about version")

	var configFiles config.FilesPaths
	flag.Var(&configFiles, "config", "path/to/config.json (repeatable, applied in order)")

	flag.Parse()

	if *version {
		fmt.Println(config.GetVersion())
		return
	}

	cfg, err := config.GetTokenConfigFromFiles(configFiles)
	if err != nil {
		logger.Error("error reading configuration", log.Error(err))
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", log.Error(err))
		os.Exit(1)
	}

	logger, err = instrumentation.GetLogger(*pathToLog, *silentLog, cfg)
	if err != nil {
		instrumentation.GetBootstrapLogger().Error("failed to open log file", log.Error(err), log.String("path", *pathToLog))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	process := bootstrap.NewProcess(logger, cancel)
	process.ShutdownOnSignal(ctx)

	registry := metric.NewRegistry()
	process.Supervise(registry.ReportEvery(ctx, cfg.MetricsReportInterval(), logger))
	if cfg.ProcessMetricsEnabled() {
		process.Supervise(metric.NewSystemReporter(ctx, cfg.MetricsReportInterval(), registry, logger))
	}
	if address := cfg.NTPServerAddress(); address != "" {
		process.Supervise(metric.NewNtpReporter(ctx, registry, logger, address))
	}
	defer process.GracefulShutdown(shutdownTimeout)

	if err := run(ctx, cfg, *pathToScenario, *pathToReport, logger, registry); err != nil {
		logger.Error("kindora run failed", log.Error(err))
		process.GracefulShutdown(shutdownTimeout)
		os.Exit(3)
	}
}

func run(ctx context.Context, cfg config.TokenConfig, scenarioPath string, reportPath string, logger log.Logger, registry metric.Registry) error {
	deployment, err := bootstrap.NewDeployment(ctx, cfg, logger, registry)
	if err != nil {
		return err
	}

	scenario := &bootstrap.Scenario{Description: "deployment only"}
	if scenarioPath != "" {
		if scenario, err = bootstrap.LoadScenario(scenarioPath); err != nil {
			return err
		}
	}

	report, runErr := deployment.Run(ctx, scenario)
	if err := writeReport(report, reportPath); err != nil {
		return err
	}
	return runErr
}

func writeReport(report *bootstrap.Report, path string) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return errors.Wrapf(os.WriteFile(path, out, 0644), "failed to write report %s", path)
}
