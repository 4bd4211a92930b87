package honeybadger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// PayloadPlugin decorates a payload before it is sent. Decorate returns true
// to claim the payload, which stops the remaining plugins from running.
type PayloadPlugin interface {
	Decorate(payload *Payload) (bool, error)
}

// PluginFunc adapts a function to PayloadPlugin
type PluginFunc func(payload *Payload) (bool, error)

// Decorate implements PayloadPlugin
func (f PluginFunc) Decorate(payload *Payload) (bool, error) {
	return f(payload)
}

// PluginRegistry keeps payload plugins in registration order
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins []PayloadPlugin
}

// NewPluginRegistry creates an empty registry
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{}
}

// Add registers a plugin after the existing ones
func (r *PluginRegistry) Add(p PayloadPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
}

// Len returns the number of registered plugins
func (r *PluginRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Decorate runs the plugins against payload until one claims it. A plugin
// that fails or panics is logged and skipped; its errors are returned.
func (r *PluginRegistry) Decorate(payload *Payload, logger *zap.Logger) []error {
	r.mu.RLock()
	plugins := make([]PayloadPlugin, len(r.plugins))
	copy(plugins, r.plugins)
	r.mu.RUnlock()

	var failures []error
	for i, p := range plugins {
		claimed, err := decorateSafely(p, payload)
		if err != nil {
			failure := newNoticeError("plugin_decorate", CodePluginFailed,
				fmt.Sprintf("plugin #%d failed", i), err)
			logger.Warn("Payload plugin failed, skipping it",
				zap.String("token", payload.Error.Token),
				zap.Int("plugin", i),
				zap.Error(err))
			failures = append(failures, failure)
			continue
		}
		if claimed {
			break
		}
	}
	return failures
}

func decorateSafely(p PayloadPlugin, payload *Payload) (claimed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			claimed, err = false, fmt.Errorf("plugin panicked: %v", r)
		}
	}()
	return p.Decorate(payload)
}

var globalPlugins = NewPluginRegistry()

// AddPlugin registers a plugin in the process-wide registry
func AddPlugin(p PayloadPlugin) {
	globalPlugins.Add(p)
}
