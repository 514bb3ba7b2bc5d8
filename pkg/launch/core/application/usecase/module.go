package usecase

import (
	"go.uber.org/fx"
)

// Module is the Fx module for the Launcher and the Supervisor.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewSimpleLauncher,
		fx.As(fx.Self()),
		fx.As(new(Launcher)),
	)),
	fx.Provide(NewSupervisor),
	fx.Invoke(RegisterSupervisor),
)
