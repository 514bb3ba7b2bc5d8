package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/fx"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	metrics "github.com/tigerroll/launchpad/pkg/launch/core/metrics"
	"github.com/tigerroll/launchpad/pkg/launch/engine/envfile"
	"github.com/tigerroll/launchpad/pkg/launch/engine/runtimeenv"
	"github.com/tigerroll/launchpad/pkg/launch/support/console"
	exception "github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// Preflight check names, used as metric labels.
const (
	CheckRuntimeEnv   = "runtime_env"
	CheckEnvFileParse = "env_file_parse"
	CheckRequiredKeys = "required_keys"
	CheckEntryPoint   = "entry_point"
)

// Launcher runs the startup sequence of the delegated application server.
type Launcher interface {
	// Launch activates the runtime environment, checks the configuration file and
	// runs the server until it exits or ctx is cancelled.
	// The returned LaunchExecution is always finished and carries the exit status.
	// The error describes why the launch was aborted or the server could not run;
	// a server that exits non-zero is not an error.
	Launch(ctx context.Context) (*model.LaunchExecution, error)
}

// LauncherParams are the dependencies of SimpleLauncher.
type LauncherParams struct {
	fx.In
	Config    *config.Config
	Runner    port.ProcessRunner
	Console   *console.Printer
	Recorder  metrics.MetricRecorder
	Tracer    metrics.Tracer
	Listeners []port.LaunchListener `group:"launch_listeners"`
}

// SimpleLauncher is the default Launcher.
type SimpleLauncher struct {
	cfg       *config.Config
	runner    port.ProcessRunner
	console   *console.Printer
	recorder  metrics.MetricRecorder
	tracer    metrics.Tracer
	listeners []port.LaunchListener
}

// NewSimpleLauncher creates a SimpleLauncher.
func NewSimpleLauncher(p LauncherParams) *SimpleLauncher {
	return &SimpleLauncher{
		cfg:       p.Config,
		runner:    p.Runner,
		console:   p.Console,
		recorder:  p.Recorder,
		tracer:    p.Tracer,
		listeners: p.Listeners,
	}
}

// Launch implements Launcher.
func (l *SimpleLauncher) Launch(ctx context.Context) (*model.LaunchExecution, error) {
	app := l.cfg.Launcher.AppName
	lc := l.cfg.Launcher.Launch

	execution := model.NewLaunchExecution(app, lc.Command, lc.CommandArgs())
	execution.WorkDir = lc.WorkDir
	execution.EnvFile = lc.Resolve(lc.EnvFile)

	ctx, endSpan := l.tracer.StartLaunchSpan(ctx, execution)
	defer endSpan()

	for _, listener := range l.listeners {
		listener.BeforeLaunch(ctx, execution)
	}
	defer func() {
		for _, listener := range l.listeners {
			listener.AfterLaunch(ctx, execution)
		}
	}()

	var warnings *multierror.Error
	warn := func(check string, err error) {
		warnings = multierror.Append(warnings, err)
		execution.AddWarning(err.Error())
		l.recorder.RecordPreflightWarning(ctx, check)
		l.tracer.RecordEvent(ctx, "preflight.warning", map[string]interface{}{"check": check, "message": err.Error()})
	}

	// 1. Activate the runtime environment. A missing one leaves the environment as inherited.
	env, err := runtimeenv.Activate(lc.Resolve(lc.VenvDir), os.Environ())
	if err != nil {
		warn(CheckRuntimeEnv, err)
	}
	execution.RuntimeEnv = env.Root

	// 2. The configuration file is the only hard precondition.
	report, err := envfile.Check(execution.EnvFile, lc.RequiredKeys)
	if err != nil {
		return l.abort(ctx, execution, err)
	}
	l.console.Success("✅ Environment file found")
	if report.ParseErr != nil {
		warn(CheckEnvFileParse, fmt.Errorf("%s could not be parsed: %w", lc.EnvFile, report.ParseErr))
	} else if len(report.MissingKeys) > 0 {
		warn(CheckRequiredKeys, fmt.Errorf("%s does not define %s", lc.EnvFile, strings.Join(report.MissingKeys, ", ")))
	}
	if !envfile.Exists(lc.Resolve(lc.EntryPoint)) {
		warn(CheckEntryPoint, fmt.Errorf("entry point %s not found in %s", lc.EntryPoint, lc.WorkDir))
	}
	if warnings != nil {
		logger.Warnf("Launcher: preflight finished with %v", warnings)
	}

	// 3. Status messages.
	l.console.Info("🚀 Starting %s...", app)
	l.console.Info("📊 Open %s in your browser", lc.ServerURL)
	l.console.Hint("Press Ctrl+C to stop the server")
	l.console.Blank()

	// 4. Hand over to the server.
	path, err := runtimeenv.LookPath(l.commandPath(), env.Vars)
	if err != nil {
		code := exception.ExitCodeOf(err)
		launchErr := exception.NewLaunchError("process", fmt.Sprintf("cannot run '%s'", lc.Command), err, code)
		logger.Errorf("Launcher: %v", launchErr)
		l.tracer.RecordError(ctx, "process", launchErr)
		execution.Complete(code, false, launchErr)
		return execution, launchErr
	}

	execution.MarkRunning()
	l.recorder.RecordServerRunning(ctx, execution)
	logger.Infof("Launcher: running '%s' (launch ID: %s).", execution.CommandLine(), execution.ID)
	code, runErr := l.runner.Run(ctx, port.ProcessSpec{
		Path:        path,
		Args:        lc.CommandArgs(),
		Dir:         lc.WorkDir,
		Env:         env.Vars,
		GracePeriod: lc.StopGracePeriod,
	})
	stopped := ctx.Err() != nil
	execution.Complete(code, stopped, runErr)
	if runErr != nil {
		l.tracer.RecordError(ctx, "process", runErr)
		return execution, runErr
	}
	if stopped {
		logger.Infof("Launcher: server stopped with exit status %d.", code)
	} else if code != exception.ExitOK {
		logger.Warnf("Launcher: server exited with status %d.", code)
	}
	return execution, nil
}

// abort ends a launch whose configuration file is missing.
func (l *SimpleLauncher) abort(ctx context.Context, execution *model.LaunchExecution, cause error) (*model.LaunchExecution, error) {
	lc := l.cfg.Launcher.Launch
	launchErr := exception.NewLaunchError("envfile", fmt.Sprintf("%s is required", lc.EnvFile), cause, exception.ExitFailure)

	l.console.Warning("⚠️  WARNING: %s file not found!", lc.EnvFile)
	if len(lc.RequiredKeys) > 0 {
		l.console.Hint("Please create a %s file with your %s", lc.EnvFile, strings.Join(lc.RequiredKeys, ", "))
	} else {
		l.console.Hint("Please create a %s file before starting %s", lc.EnvFile, execution.AppName)
	}

	logger.Debugf("Launcher: aborted: %v", launchErr)
	l.tracer.RecordError(ctx, "envfile", launchErr)
	execution.Abort(exception.ExitFailure, launchErr)
	return execution, launchErr
}

// commandPath resolves a command given as a relative path against the working
// directory. Bare names are left for the PATH search.
func (l *SimpleLauncher) commandPath() string {
	lc := l.cfg.Launcher.Launch
	if strings.ContainsRune(lc.Command, '/') || strings.ContainsRune(lc.Command, filepath.Separator) {
		return lc.Resolve(lc.Command)
	}
	return lc.Command
}

var _ Launcher = (*SimpleLauncher)(nil)
