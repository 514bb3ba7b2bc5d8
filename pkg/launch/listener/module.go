// Package listener bundles the launch listeners.
package listener

import (
	"go.uber.org/fx"

	"github.com/tigerroll/launchpad/pkg/launch/listener/logging"
	"github.com/tigerroll/launchpad/pkg/launch/listener/metrics"
)

// Module registers every launch listener.
var Module = fx.Options(
	logging.Module,
	metrics.Module,
)
