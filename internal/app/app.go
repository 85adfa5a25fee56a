package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/herald/internal/config"
	"github.com/dshills/herald/internal/event"
	"github.com/dshills/herald/internal/event/metrics"
	"github.com/dshills/herald/internal/source/fswatch"
)

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// App is a configured herald instance.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	manager  *event.Manager
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	counters map[string]*countAction
}

// New builds an App from cfg. A nil logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInitialization)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		counters: make(map[string]*countAction),
	}

	opts := []event.Option{
		event.WithResolver(newResolver(logger)),
		event.WithLogger(logger.Named("event")),
		event.WithPanicHandler(func(p event.Panic) {
			logger.Error("listener panicked",
				zap.String("listener", p.Ref),
				zap.Any("value", p.Value),
				zap.ByteString("stack", p.Stack),
			)
		}),
	}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.New(a.registry, cfg.Metrics.Namespace)
		opts = append(opts, event.WithObserver(a.metrics))
	}
	a.manager = event.New(opts...)

	for _, lc := range cfg.Listeners {
		ref, counter, err := a.listenerRef(lc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, &OperationError{Op: "listen", Target: lc.Name, Err: err})
		}
		if err := a.manager.Listen(lc.Event, ref, event.WithPriority(lc.Priority)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, &OperationError{Op: "listen", Target: lc.Name, Err: err})
		}
		if counter != nil {
			a.counters[lc.Name] = counter
		}
	}

	if cfg.Fake {
		a.manager.Fake()
	}

	logger.Debug("app initialized",
		zap.Int("listeners", a.manager.Count()),
		zap.Bool("fake", cfg.Fake),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	return a, nil
}

// Manager returns the app's event manager.
func (a *App) Manager() *event.Manager {
	return a.manager
}

// Registry returns the Prometheus registry, or nil when metrics are off.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Counts returns the current value of every count listener by name.
func (a *App) Counts() map[string]int64 {
	out := make(map[string]int64, len(a.counters))
	for name, c := range a.counters {
		out[name] = c.n.Load()
	}
	return out
}

// Run dispatches the configured events and checks expectations in fake
// mode. If paths are watched or metrics are enabled it then keeps
// running until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.DispatchEvents(ctx); err != nil {
		return err
	}
	if a.cfg.Fake {
		if err := a.CheckExpectations(); err != nil {
			return err
		}
	}

	if len(a.cfg.Watch.Paths) == 0 && !a.cfg.Metrics.Enabled {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(a.cfg.Watch.Paths) > 0 {
		src, err := a.newSource()
		if err != nil {
			return err
		}
		defer src.Close()
		g.Go(func() error { return src.Run(gctx) })
	}
	if a.cfg.Metrics.Enabled {
		g.Go(func() error { return a.serveMetrics(gctx) })
	}
	return g.Wait()
}

// DispatchEvents dispatches every configured event in order and stops at
// the first failure.
func (a *App) DispatchEvents(ctx context.Context) error {
	for _, ec := range a.cfg.Events {
		msg := event.NewMessage(ec.Name, ec.Payload)
		if err := a.manager.Dispatch(ctx, msg); err != nil {
			return &OperationError{Op: "dispatch", Target: ec.Name, Err: err}
		}
		a.logger.Debug("event dispatched", zap.String("event", ec.Name))
	}
	return nil
}

func (a *App) newSource() (*fswatch.Source, error) {
	src, err := fswatch.New(a.manager,
		fswatch.WithPrefix(a.cfg.Watch.Prefix),
		fswatch.WithIgnoreHidden(a.cfg.Watch.IgnoreHidden),
		fswatch.WithLogger(a.logger.Named("fswatch")),
	)
	if err != nil {
		return nil, &OperationError{Op: "watch", Err: err}
	}
	for _, p := range a.cfg.Watch.Paths {
		if err := src.Add(p); err != nil {
			src.Close()
			return nil, &OperationError{Op: "watch", Target: p, Err: err}
		}
	}
	a.logger.Info("watching", zap.Strings("paths", a.cfg.Watch.Paths))
	return src, nil
}

func (a *App) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving metrics", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return &OperationError{Op: "serve metrics", Target: srv.Addr, Err: err}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
