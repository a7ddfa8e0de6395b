package circuitbreaker

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	// MaxRequests allowed through while half-open
	MaxRequests uint32
	// Interval after which closed-state counts are reset
	Interval time.Duration
	// Timeout before an open breaker goes half-open
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker
	ConsecutiveFailures uint32
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// New builds a breaker for results of type T. State changes are logged.
// isSuccessful may be nil; when set, errors it accepts do not count as
// failures (for example a 404 from an otherwise healthy upstream).
func New[T any](name string, cfg Config, log logrus.FieldLogger, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			}
		},
		IsSuccessful: isSuccessful,
	}
	return gobreaker.NewCircuitBreaker[T](st)
}
