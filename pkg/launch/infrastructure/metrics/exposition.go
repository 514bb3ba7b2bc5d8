package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	config "github.com/tigerroll/launchpad/pkg/launch/core/config"
	logger "github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

// MetricsServer exposes the recorder's registry on /metrics while the launcher runs.
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewMetricsServer builds the HTTP server for addr. It does not listen yet.
func NewMetricsServer(addr string, recorder *PrometheusRecorder) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(recorder.GetRegistry(), promhttp.HandlerOpts{}))
	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start binds the address synchronously so a port clash fails fx start, then serves in the background.
func (s *MetricsServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Metrics listener on %s failed: %v", s.server.Addr, err)
		}
	}()
	logger.Infof("Metrics: serving /metrics on %s.", ln.Addr())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *MetricsServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Stop shuts the listener down.
func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// RegisterMetricsServer attaches a MetricsServer to the lifecycle when a listen address is configured.
func RegisterMetricsServer(lc fx.Lifecycle, cfg *config.Config, recorder *PrometheusRecorder) {
	addr := cfg.Launcher.Metrics.ListenAddress
	if addr == "" {
		logger.Debugf("Metrics: no listen address configured, exposition disabled.")
		return
	}
	srv := NewMetricsServer(addr, recorder)
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Stop,
	})
}
