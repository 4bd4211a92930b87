package honeybadger

import (
	"sync"

	"go.uber.org/atomic"
)

// ConfigStore holds a configuration that is replaced as a whole.
//
// Configure works on a private copy and publishes it with a single pointer
// store, so Read never sees a half-applied update, even when the mutator
// panics. Read never blocks.
type ConfigStore struct {
	// serializes writers
	mu      sync.Mutex
	current *atomic.Pointer[Config]
}

// NewConfigStore creates a store holding an empty configuration
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		current: atomic.NewPointer(&Config{}),
	}
}

// Configure applies mutate to a copy of the current configuration and
// publishes the result.
//
// If mutate panics, the store is left untouched and the panic propagates to
// the caller. Calling Configure from inside mutate deadlocks.
func (s *ConfigStore) Configure(mutate func(cfg *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposed := s.Read().Clone()
	mutate(proposed)
	s.current.Store(proposed)
}

// Read returns the current configuration. The returned value is shared and
// must not be modified.
func (s *ConfigStore) Read() *Config {
	return s.current.Load()
}

// ConfigureFromEnv fills every unset field from the HONEYBADGER_* variables
func (s *ConfigStore) ConfigureFromEnv() {
	env := ConfigFromEnv()
	s.Configure(func(cfg *Config) {
		cfg.Merge(env)
	})
}

var globalConfig = NewConfigStore()

// Configure modifies the process-wide configuration
//
//	honeybadger.Configure(func(cfg *honeybadger.Config) {
//		cfg.APIKey = honeybadger.String("abcd1234")
//		cfg.Env = honeybadger.String("production")
//	})
func Configure(mutate func(cfg *Config)) {
	globalConfig.Configure(mutate)
}

// ReadConfig returns a snapshot of the process-wide configuration
func ReadConfig() *Config {
	return globalConfig.Read()
}

// ConfigureFromEnv fills the process-wide configuration from the environment
func ConfigureFromEnv() {
	globalConfig.ConfigureFromEnv()
}
