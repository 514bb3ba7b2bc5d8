package main

import (
	"context"
	"time"

	"go.uber.org/fx"

	usecase "github.com/tigerroll/launchpad/pkg/launch/core/application/usecase"
	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	"github.com/tigerroll/launchpad/pkg/launch/engine/process"
	metricsInfra "github.com/tigerroll/launchpad/pkg/launch/infrastructure/metrics"
	launchlistener "github.com/tigerroll/launchpad/pkg/launch/listener"
	"github.com/tigerroll/launchpad/pkg/launch/support/console"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// stopTimeoutMargin is added to the server's grace period so fx does not give up
// on OnStop hooks before the server has been killed.
const stopTimeoutMargin = 5 * time.Second

// GetApplicationOptions builds the uber-fx options of the launcher.
func GetApplicationOptions(appCtx context.Context, cfg *config.Config) []fx.Option {
	var options []fx.Option

	options = append(options, fx.Supply(
		cfg,
		fx.Annotate(appCtx, fx.As(new(context.Context)), fx.ResultTags(`name:"appCtx"`)),
	))
	options = append(options, fx.StopTimeout(cfg.Launcher.Launch.StopGracePeriod+stopTimeoutMargin))
	options = append(options, logger.Module)
	options = append(options, console.Module)
	options = append(options, metricsInfra.Module)
	options = append(options, launchlistener.Module)
	options = append(options, process.Module)
	options = append(options, usecase.Module)

	return options
}
