package honeybadger

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roadrunner-server/endure/v2/dep"
	"github.com/roadrunner-server/errors"
	"go.uber.org/zap"
)

// Plugin exposes the notifier to a RoadRunner server
type Plugin struct {
	config    *PluginConfig
	logger    *zap.Logger
	store     *ConfigStore
	transport *HTTPTransport
	notifier  *Notifier

	stopCh chan struct{}
	doneCh chan struct{}
}

// Configurer interface for config plugin
type Configurer interface {
	UnmarshalKey(name string, out interface{}) error
	Has(name string) bool
}

// Logger interface for logger plugin
type Logger interface {
	NamedLogger(name string) *zap.Logger
}

// Init initializes the plugin
func (p *Plugin) Init(cfg Configurer, log Logger) error {
	const op = errors.Op("honeybadger_plugin_init")

	if !cfg.Has(PluginName) {
		return errors.E(op, errors.Disabled)
	}

	config := &PluginConfig{}
	if err := cfg.UnmarshalKey(PluginName, config); err != nil {
		return errors.E(op, err)
	}

	config.InitDefaults()
	if err := config.Validate(); err != nil {
		return errors.E(op, err)
	}

	p.config = config
	p.logger = log.NamedLogger(PluginName)

	// the section wins over the environment
	p.store = NewConfigStore()
	p.store.Configure(func(c *Config) {
		c.Merge(&config.Config)
	})
	p.store.ConfigureFromEnv()

	p.transport = NewHTTPTransport(&config.Transport, p.logger)
	p.notifier = New(
		WithConfigStore(p.store),
		WithSender(p.transport),
		WithLogger(p.logger),
	)

	p.stopCh = make(chan struct{})

	current := p.store.Read()
	p.logger.Info("Honeybadger plugin initialized",
		zap.String("env", StringValue(current.Env)),
		zap.Bool("reporting", current.ShouldReport()),
		zap.Bool("api_key_configured", StringValue(current.APIKey) != ""),
		zap.String("endpoint", ResolveEndpoint(current.Connection).BaseURL()))

	if StringValue(current.APIKey) == "" {
		p.logger.Warn("No API key configured, errors will not be reported")
	}

	return nil
}

// Serve starts the plugin
func (p *Plugin) Serve() chan error {
	errCh := make(chan error, 1)

	if p.notifier == nil {
		errCh <- errors.E(errors.Op("honeybadger_plugin_serve"), "plugin not initialized")
		return errCh
	}

	p.doneCh = make(chan struct{})
	go func() {
		defer close(p.doneCh)

		p.logger.Info("Honeybadger plugin started")
		<-p.stopCh

		if err := p.transport.Close(); err != nil {
			p.logger.Error("Error closing transport", zap.Error(err))
		}
		p.logger.Info("Honeybadger plugin stopped")
	}()

	return errCh
}

// Stop stops the plugin
func (p *Plugin) Stop(ctx context.Context) error {
	if p.stopCh == nil {
		return nil
	}
	close(p.stopCh)
	if p.doneCh == nil {
		return nil
	}

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		p.logger.Warn("Plugin stop timed out")
		return ctx.Err()
	}
}

// Name returns the plugin name
func (p *Plugin) Name() string {
	return PluginName
}

// RPC returns the RPC interface
func (p *Plugin) RPC() interface{} {
	return NewRPC(p, p.logger)
}

// Provides returns the dependencies this plugin provides
func (p *Plugin) Provides() []*dep.Out {
	return []*dep.Out{
		dep.Bind((*Reporter)(nil), p.Reporter),
	}
}

// Reporter returns the notifier for other plugins
func (p *Plugin) Reporter() Reporter {
	return p.notifier
}

// MetricsCollector implements the metrics plugin StatProvider
func (p *Plugin) MetricsCollector() []prometheus.Collector {
	return []prometheus.Collector{p.notifier.metrics}
}
