package process

import (
	"go.uber.org/fx"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
)

// Module provides the os/exec backed port.ProcessRunner.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewExecRunner,
		fx.As(new(port.ProcessRunner)),
	)),
)
