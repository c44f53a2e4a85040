package position

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"

	"github.com/solartz/solartz/internal/solartime"
)

// BackoffConfig controls exponential backoff behaviour for position lookups.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff matches the retry budget used for outbound lookups.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// Resilient wraps a dynamic position function with retries, exponential
// backoff and a circuit breaker. A GPS or network-backed lookup can fail
// transiently; the wrapper keeps a flapping source from stalling every
// update cycle.
func Resilient(name string, fn solartime.PositionFunc, cfg BackoffConfig) solartime.PositionSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return solartime.Dynamic(func() (solartime.Position, error) {
		if cfg.MaxRetries < 0 || cfg.InitialInterval <= 0 {
			return solartime.Position{}, errInvalidConfig
		}

		var attempt int
		for {
			result, err := cb.Execute(func() (interface{}, error) {
				return fn()
			})
			if err == nil {
				pos, ok := result.(solartime.Position)
				if !ok {
					return solartime.Position{}, fmt.Errorf("unexpected result type from circuit breaker")
				}
				return pos, nil
			}

			// An open circuit means the source is known-bad; propagate
			// immediately instead of burning the retry budget.
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return solartime.Position{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
			}

			if attempt >= cfg.MaxRetries {
				return solartime.Position{}, err
			}

			delay := cfg.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
			if cfg.MaxInterval > 0 && delay > cfg.MaxInterval {
				delay = cfg.MaxInterval
			}
			time.Sleep(delay)
			attempt++
		}
	})
}
