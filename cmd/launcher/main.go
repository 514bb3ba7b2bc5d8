package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"go.uber.org/fx"

	usecase "github.com/tigerroll/launchpad/pkg/launch/core/application/usecase"
	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// embeddedConfig holds the default launcher configuration.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

func main() {
	os.Exit(run())
}

// run starts the launcher and returns the process exit status.
func run() int {
	cfg, err := config.LoadConfig(embeddedConfig)
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return exception.ExitCodeOf(err)
	}
	logger.SetLogLevel(cfg.Launcher.System.Logging.Level)
	logger.Debugf("Log level set to: %s", cfg.Launcher.System.Logging.Level)

	// Cancelled on Ctrl+C so the server is interrupted and its exit status collected.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var supervisor *usecase.Supervisor
	options := append(GetApplicationOptions(ctx, cfg), fx.Populate(&supervisor))
	app := fx.New(options...)
	if err := app.Err(); err != nil {
		logger.Errorf("Failed to build the application: %v", err)
		return exception.ExitFailure
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		logger.Errorf("Failed to start the application: %v", err)
		return exception.ExitFailure
	}

	sig := <-app.Wait()
	logger.Debugf("Shutdown requested (%v).", sig)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		logger.Errorf("Failed to stop the application cleanly: %v", err)
	}
	return supervisor.ExitCode()
}
