package logging

import (
	"go.uber.org/fx"

	port "github.com/tigerroll/launchpad/pkg/launch/core/application/port"
)

// Module provides the logging listener into the launch listener group.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewLoggingLaunchListener,
		fx.ResultTags(port.LaunchListenerGroup),
	)),
)
