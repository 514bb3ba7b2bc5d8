package usecase

import (
	"context"
	"sync"

	"go.uber.org/fx"

	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	exception "github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// SupervisorParams are the dependencies of Supervisor.
type SupervisorParams struct {
	fx.In
	Launcher   Launcher
	Shutdowner fx.Shutdowner
	// AppCtx is cancelled when the operator asks the launcher to stop.
	AppCtx context.Context `name:"appCtx" optional:"true"`
}

// Supervisor runs one launch inside the fx lifecycle and keeps its exit status.
type Supervisor struct {
	launcher   Launcher
	shutdowner fx.Shutdowner
	appCtx     context.Context

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	exitCode  int
	execution *model.LaunchExecution
}

// NewSupervisor creates a Supervisor.
func NewSupervisor(p SupervisorParams) *Supervisor {
	appCtx := p.AppCtx
	if appCtx == nil {
		appCtx = context.Background()
	}
	return &Supervisor{
		launcher:   p.Launcher,
		shutdowner: p.Shutdowner,
		appCtx:     appCtx,
		exitCode:   exception.ExitFailure,
	}
}

// Start launches in the background and returns immediately. When the launch is
// over the fx application is asked to shut down with the launch's exit status.
func (s *Supervisor) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(s.appCtx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
	return nil
}

func (s *Supervisor) run(ctx context.Context, done chan struct{}) {
	code := exception.ExitFailure
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic recovered in launch: %v", r)
		}
		s.mu.Lock()
		s.exitCode = code
		s.mu.Unlock()
		close(done)

		logger.Debugf("Requesting application shutdown with exit status %d.", code)
		if err := s.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
			logger.Errorf("Failed to shutdown application: %v", err)
		}
	}()

	execution, err := s.launcher.Launch(ctx)
	s.mu.Lock()
	s.execution = execution
	s.mu.Unlock()
	if execution != nil {
		code = execution.ExitCode
	} else {
		code = exception.ExitCodeOf(err)
	}
	if err != nil && !exception.IsLaunchError(err) {
		logger.Errorf("Launch failed: %v", err)
	}
}

// Stop cancels a server that is still running and waits for the launch to end,
// bounded by ctx.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		cancel()
		return nil
	default:
	}

	logger.Infof("Stopping the server...")
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Errorf("Server did not stop in time: %v", ctx.Err())
		return ctx.Err()
	}
}

// ExitCode returns the launch's exit status. Before the launch has finished it is 1.
func (s *Supervisor) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Execution returns the finished LaunchExecution, or nil.
func (s *Supervisor) Execution() *model.LaunchExecution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execution
}

// RegisterSupervisor binds the Supervisor to the fx lifecycle.
func RegisterSupervisor(lc fx.Lifecycle, s *Supervisor) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
