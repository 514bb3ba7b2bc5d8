package logger

import (
	"strings"

	"go.uber.org/fx/fxevent"
)

// lifecycleRoles names the launcher's lifecycle hooks by the method or
// constructor that registers them.
var lifecycleRoles = []struct {
	marker string
	role   string
}{
	{marker: "(*Supervisor)", role: "server"},
	{marker: "(*MetricsServer)", role: "metrics endpoint"},
	{marker: "NewTracer", role: "trace exporter"},
}

// FxLoggerAdapter reports the launcher's fx lifecycle through the package logger.
// The server and observability hooks are logged at INFO, dependency wiring at
// DEBUG and every failure at ERROR.
type FxLoggerAdapter struct{}

// NewFxLoggerAdapter creates a new instance of FxLoggerAdapter.
func NewFxLoggerAdapter() fxevent.Logger {
	return &FxLoggerAdapter{}
}

// LogEvent implements fxevent.Logger.
func (l *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		hookStarting(e.FunctionName, "starting")
	case *fxevent.OnStartExecuted:
		hookFinished(e.FunctionName, "start", e.Err)
	case *fxevent.OnStopExecuting:
		hookStarting(e.FunctionName, "stopping")
	case *fxevent.OnStopExecuted:
		hookFinished(e.FunctionName, "stop", e.Err)
	case *fxevent.Supplied:
		if e.Err != nil {
			Errorf("Lifecycle: cannot supply %s: %v", e.TypeName, e.Err)
		}
	case *fxevent.Provided:
		if e.Err != nil {
			Errorf("Lifecycle: cannot wire %s: %v", shortName(e.ConstructorName), e.Err)
		}
	case *fxevent.Decorated:
		if e.Err != nil {
			Errorf("Lifecycle: cannot wire %s: %v", shortName(e.DecoratorName), e.Err)
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			Errorf("Lifecycle: cannot register %s: %v", shortName(e.FunctionName), e.Err)
		}
	case *fxevent.Started:
		if e.Err != nil {
			Errorf("Lifecycle: launcher failed to start: %v", e.Err)
		} else {
			Debugf("Lifecycle: launcher started.")
		}
	case *fxevent.Stopping:
		Debugf("Lifecycle: shutdown requested (%s).", e.Signal)
	case *fxevent.Stopped:
		if e.Err != nil {
			Errorf("Lifecycle: launcher did not stop cleanly: %v", e.Err)
		}
	case *fxevent.RollingBack:
		Errorf("Lifecycle: start failed, rolling back: %v", e.StartErr)
	case *fxevent.RolledBack:
		if e.Err != nil {
			Errorf("Lifecycle: rollback failed: %v", e.Err)
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			Errorf("Lifecycle: logger initialization failed: %v", e.Err)
		}
	}
}

func hookStarting(funcName, action string) {
	if role, ok := hookRole(funcName); ok {
		Infof("Lifecycle: %s %s.", role, action)
		return
	}
	Debugf("Lifecycle: %s %s.", shortName(funcName), action)
}

func hookFinished(funcName, action string, err error) {
	role, ok := hookRole(funcName)
	if !ok {
		role = shortName(funcName)
	}
	if err != nil {
		Errorf("Lifecycle: %s failed to %s: %v", role, action, err)
	}
}

func hookRole(funcName string) (string, bool) {
	for _, r := range lifecycleRoles {
		if strings.Contains(funcName, r.marker) {
			return r.role, true
		}
	}
	return "", false
}

// shortName reduces an fx function name to its last path element without the
// suffixes Go adds for closures (".func1") and method values ("-fm").
func shortName(funcName string) string {
	name := funcName[strings.LastIndex(funcName, "/")+1:]
	name = strings.TrimSuffix(name, "-fm")
	if idx := strings.LastIndex(name, ".func"); idx != -1 {
		name = name[:idx]
	}
	return name
}
