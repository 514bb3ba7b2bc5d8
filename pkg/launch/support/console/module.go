package console

import "go.uber.org/fx"

// Module provides a Printer bound to stdout.
var Module = fx.Provide(NewStdout)
