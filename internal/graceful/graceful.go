package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"eventieBot/internal/utils/logger/sl"
)

// Operation is a cleanup step executed during shutdown.
type Operation func(ctx context.Context) error

// GracefulShutdown waits for SIGINT/SIGTERM and then runs all registered
// operations concurrently, each bounded by the given timeout. The
// returned channel is closed when every operation has finished.
func GracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, log *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		log.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			log.Error("timeout exceeded, forcing shutdown", slog.Duration("timeout", timeout))
			os.Exit(1)
		})
		defer timeoutFunc.Stop()

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup
		for key, op := range ops {
			wg.Add(1)
			go func(name string, op Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("operation", name))
				if err := op(ctx); err != nil {
					log.Error("clean up failed", slog.String("operation", name), sl.Err(err))
					return
				}

				log.Info("shutdown completed", slog.String("operation", name))
			}(key, op)
		}

		wg.Wait()
		close(wait)
	}()

	return wait
}
