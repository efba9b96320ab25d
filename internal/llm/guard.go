package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/youtools/youtools-backend/internal/apperr"
)

// Guard protects a backend with a circuit breaker and a request rate limit.
type Guard struct {
	next    TextGenerator
	name    string
	breaker *CircuitBreaker
	limiter *rate.Limiter
	metrics *MetricsCollector
	logger  *logrus.Logger
}

// NewGuard wraps next. requestsPerMinute <= 0 disables rate limiting.
func NewGuard(next TextGenerator, name string, requestsPerMinute int, logger *logrus.Logger) *Guard {
	g := &Guard{
		next:    next,
		name:    name,
		breaker: NewCircuitBreaker(DefaultBreakerSettings, logger),
		metrics: NewMetricsCollector(),
		logger:  logger,
	}
	if requestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
	}
	return g
}

// Generate implements TextGenerator.
func (g *Guard) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.metrics.RecordRejected()
			return "", apperr.Generation("generation rate limit", err)
		}
	}

	var text string
	err := g.breaker.Execute(g.name, func() error {
		started := time.Now()
		var err error
		text, err = g.next.Generate(ctx, prompt)
		g.metrics.RecordRequest(err == nil, time.Since(started))
		return err
	}, countsAsBackendFailure)
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			g.metrics.RecordRejected()
			g.logger.WithField("backend", g.name).Warn("Generation rejected, circuit open")
		}
		return "", apperr.Wrap(err, apperr.KindGeneration, g.name)
	}
	return text, nil
}

// Stats implements StatsReporter.
func (g *Guard) Stats() GenerationStats {
	stats := g.metrics.Snapshot()
	stats.Backend = g.name
	stats.Circuit = g.breaker.GetState(g.name).String()
	return stats
}

// Caller cancellation says nothing about backend health.
func countsAsBackendFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}
