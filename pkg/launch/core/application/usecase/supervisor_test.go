package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	usecase "github.com/tigerroll/launchpad/pkg/launch/core/application/usecase"
	model "github.com/tigerroll/launchpad/pkg/launch/core/domain/model"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
)

type launchFunc func(ctx context.Context) (*model.LaunchExecution, error)

func (f launchFunc) Launch(ctx context.Context) (*model.LaunchExecution, error) {
	return f(ctx)
}

func newSupervisedApp(t *testing.T, launcher usecase.Launcher) (*fxtest.App, *usecase.Supervisor) {
	t.Helper()
	var supervisor *usecase.Supervisor
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Provide(func() usecase.Launcher { return launcher }),
		fx.Provide(usecase.NewSupervisor),
		fx.Invoke(usecase.RegisterSupervisor),
		fx.Populate(&supervisor),
	)
	return app, supervisor
}

func waitShutdown(t *testing.T, app *fxtest.App) fx.ShutdownSignal {
	t.Helper()
	select {
	case sig := <-app.Wait():
		return sig
	case <-time.After(5 * time.Second):
		t.Fatal("application did not request shutdown")
		return fx.ShutdownSignal{}
	}
}

func TestSupervisor_ShutsDownWithServerExitCode(t *testing.T) {
	app, supervisor := newSupervisedApp(t, launchFunc(func(ctx context.Context) (*model.LaunchExecution, error) {
		e := model.NewLaunchExecution("app", "streamlit", nil)
		e.MarkRunning()
		e.Complete(3, false, nil)
		return e, nil
	}))

	app.RequireStart()
	sig := waitShutdown(t, app)
	app.RequireStop()

	assert.Equal(t, 3, sig.ExitCode)
	assert.Equal(t, 3, supervisor.ExitCode())
	require.NotNil(t, supervisor.Execution())
	assert.Equal(t, model.LaunchStatusFailed, supervisor.Execution().Status)
}

func TestSupervisor_AbortedLaunchExitsOne(t *testing.T) {
	app, supervisor := newSupervisedApp(t, launchFunc(func(ctx context.Context) (*model.LaunchExecution, error) {
		err := exception.NewLaunchError("envfile", ".env is required", exception.ErrEnvFileMissing, exception.ExitFailure)
		e := model.NewLaunchExecution("app", "streamlit", nil)
		e.Abort(exception.ExitFailure, err)
		return e, err
	}))

	app.RequireStart()
	sig := waitShutdown(t, app)
	app.RequireStop()

	assert.Equal(t, 1, sig.ExitCode)
	assert.Equal(t, 1, supervisor.ExitCode())
}

func TestSupervisor_StopCancelsRunningServer(t *testing.T) {
	started := make(chan struct{})
	app, supervisor := newSupervisedApp(t, launchFunc(func(ctx context.Context) (*model.LaunchExecution, error) {
		e := model.NewLaunchExecution("app", "streamlit", nil)
		e.MarkRunning()
		close(started)
		<-ctx.Done()
		e.Complete(130, true, nil)
		return e, nil
	}))

	app.RequireStart()
	<-started
	assert.Equal(t, 1, supervisor.ExitCode(), "no exit status before the launch ends")
	app.RequireStop()

	assert.Equal(t, 130, supervisor.ExitCode())
	assert.Equal(t, model.LaunchStatusStopped, supervisor.Execution().Status)
}

func TestSupervisor_PanicExitsOne(t *testing.T) {
	app, supervisor := newSupervisedApp(t, launchFunc(func(ctx context.Context) (*model.LaunchExecution, error) {
		panic("boom")
	}))

	app.RequireStart()
	sig := waitShutdown(t, app)
	app.RequireStop()

	assert.Equal(t, 1, sig.ExitCode)
	assert.Equal(t, 1, supervisor.ExitCode())
	assert.Nil(t, supervisor.Execution())
}
