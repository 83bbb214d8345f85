// Package lifecycle runs the long-running parts of a command with graceful
// shutdown on SIGINT or SIGTERM.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a component that can be started and stopped.
type Service interface {
	// Start runs the service. It blocks until the service finishes its work,
	// is stopped, or fails.
	Start() error
	// Stop asks a running service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// ContextService adapts a context-aware job into a Service. Stop cancels the
// context passed to the job.
type ContextService struct {
	run    func(ctx context.Context) error
	mu     sync.Mutex
	cancel context.CancelFunc
	stop   bool
}

// NewContextService wraps run.
//
// Precondition: run must be non-nil and return once ctx is cancelled.
func NewContextService(run func(ctx context.Context) error) *ContextService {
	return &ContextService{run: run}
}

// Start runs the job until it returns.
func (c *ContextService) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.stop {
		c.mu.Unlock()
		cancel()
		return nil
	}
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()
	return c.run(ctx)
}

// Stop cancels the job's context. Calling Stop before Start makes Start a no-op.
func (c *ContextService) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Runner manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Runner struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// New creates a Runner.
//
// Precondition: logger must be non-nil.
func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Add registers a named service. Services are started in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (r *Runner) Add(name string, svc Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = append(r.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until every service has returned, one
// fails, a termination signal arrives, or ctx is cancelled. All services are
// then stopped in reverse order.
//
// Postcondition: All services are stopped when this method returns. The
// error is the first service failure, or nil.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	r.mu.Lock()
	services := append([]namedService(nil), r.services...)
	r.mu.Unlock()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(services))
	var wg sync.WaitGroup
	for _, ns := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			err := ns.service.Start()
			if err != nil {
				r.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				err = fmt.Errorf("service %s: %w", ns.name, err)
			} else {
				r.logger.Info("service finished",
					zap.String("service", ns.name),
					zap.Duration("uptime", time.Since(svcStart)),
				)
			}
			results <- result{name: ns.name, err: err}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var firstErr error
	remaining := len(services)
wait:
	for remaining > 0 {
		select {
		case sig := <-sigCh:
			r.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			break wait
		case res := <-results:
			remaining--
			if res.err != nil {
				firstErr = res.err
				r.logger.Error("service error, shutting down", zap.Error(res.err))
				break wait
			}
		case <-ctx.Done():
			r.logger.Info("context cancelled, shutting down")
			break wait
		}
	}

	r.shutdown(services)
	wg.Wait()

	r.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return firstErr
}

func (r *Runner) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		r.logger.Info("stopping service", zap.String("service", ns.name))
		ns.service.Stop()
		r.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	r.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}
