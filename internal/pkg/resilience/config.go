// internal/pkg/resilience/config.go
package resilience

import "time"

// Config describes one named policy. Zero values fall back to the defaults below.
type Config struct {
	// Timeout bounds a whole Execute call, retries included.
	Timeout            time.Duration `yaml:"timeout"`
	MaxConcurrentCalls int64         `yaml:"maxConcurrentCalls"`
	CircuitBreaker     BreakerConfig `yaml:"circuitBreaker"`
	Retry              RetryConfig   `yaml:"retry"`
}

type BreakerConfig struct {
	// WindowSize is the number of most recent outcomes the breaker judges.
	WindowSize           int           `yaml:"windowSize"`
	FailureRateThreshold float64       `yaml:"failureRateThreshold"` // percent of WindowSize
	OpenTimeout          time.Duration `yaml:"openTimeout"`
	// SuccessThreshold is the number of half-open trial successes that close the breaker.
	SuccessThreshold int `yaml:"successThreshold"`
}

type RetryConfig struct {
	// MaxAttempts counts the first call. 1 disables retry.
	MaxAttempts    int           `yaml:"maxAttempts"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
	Multiplier     float64       `yaml:"multiplier"`
	AttemptTimeout time.Duration `yaml:"attemptTimeout"`
}

const (
	defaultTimeout            = 2 * time.Second
	defaultMaxConcurrentCalls = 25
	defaultWindowSize         = 10
	defaultFailureRate        = 50
	defaultOpenTimeout        = 10 * time.Second
	defaultInitialBackoff     = 100 * time.Millisecond
	defaultMaxBackoff         = time.Second
	defaultMultiplier         = 2
)

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxConcurrentCalls <= 0 {
		c.MaxConcurrentCalls = defaultMaxConcurrentCalls
	}
	c.CircuitBreaker = c.CircuitBreaker.withDefaults()
	c.Retry = c.Retry.withDefaults()
	return c
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.WindowSize <= 0 {
		c.WindowSize = defaultWindowSize
	}
	if c.FailureRateThreshold <= 0 || c.FailureRateThreshold > 100 {
		c.FailureRateThreshold = defaultFailureRate
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}
	return c
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.Multiplier < 1 {
		c.Multiplier = defaultMultiplier
	}
	return c
}
