package honeybadger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Version of the notifier
	Version = "0.1.0"

	timeLayout = "2006-01-02 15:04:05 UTC"
)

var notifierInfo = NotifierInfo{
	Name:     "roadrunner-honeybadger",
	URL:      "https://github.com/your-org/roadrunner-honeybadger",
	Version:  Version,
	Language: "go",
}

// Reporter is the reporting surface provided to other plugins
type Reporter interface {
	NotifyContext(ctx context.Context, err error, opts ...NoticeOption) (string, error)
}

// Notifier classifies errors, assembles notices and sends them
type Notifier struct {
	config       *ConfigStore
	plugins      *PluginRegistry
	requests     RequestContext
	sender       Sender
	logger       *zap.Logger
	metrics      *metricsCollector
	stats        func() Stats
	now          func() time.Time
	trimPrefixes []string
}

// NotifierOption configures a Notifier
type NotifierOption func(n *Notifier)

// WithConfigStore uses store instead of the process-wide configuration
func WithConfigStore(store *ConfigStore) NotifierOption {
	return func(n *Notifier) { n.config = store }
}

// WithPluginRegistry uses registry instead of the process-wide one
func WithPluginRegistry(registry *PluginRegistry) NotifierOption {
	return func(n *Notifier) { n.plugins = registry }
}

// WithRequestContext replaces the request lookup
func WithRequestContext(requests RequestContext) NotifierOption {
	return func(n *Notifier) { n.requests = requests }
}

// WithSender replaces the HTTP transport
func WithSender(sender Sender) NotifierOption {
	return func(n *Notifier) { n.sender = sender }
}

// WithLogger sets the logger outcomes are written to
func WithLogger(logger *zap.Logger) NotifierOption {
	return func(n *Notifier) { n.logger = logger }
}

// WithStatsProbe replaces the OS stats probe
func WithStatsProbe(probe func() Stats) NotifierOption {
	return func(n *Notifier) { n.stats = probe }
}

// WithTrimPrefixes replaces DefaultTrimPrefixes
func WithTrimPrefixes(prefixes []string) NotifierOption {
	return func(n *Notifier) { n.trimPrefixes = prefixes }
}

// New creates a Notifier bound to the process-wide configuration, plugin
// registry and request context unless overridden.
func New(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		config:       globalConfig,
		plugins:      globalPlugins,
		requests:     DefaultRequestContext,
		stats:        ReadStats,
		now:          time.Now,
		trimPrefixes: DefaultTrimPrefixes,
		metrics:      newMetricsCollector(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = defaultLogger()
	}
	if n.sender == nil {
		n.sender = NewHTTPTransport(&TransportConfig{Timeout: 30 * time.Second}, n.logger)
	}
	return n
}

func defaultLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named(PluginName)
}

// notice holds per-call options
type notice struct {
	tags         []string
	fingerprint  string
	request      *RequestInfo
	backtrace    string
	hasBacktrace bool
}

// NoticeOption customizes a single report
type NoticeOption func(n *notice)

// WithTags attaches tags to the notice
func WithTags(tags ...string) NoticeOption {
	return func(n *notice) { n.tags = append(n.tags, tags...) }
}

// WithFingerprint overrides the grouping fingerprint
func WithFingerprint(fingerprint string) NoticeOption {
	return func(n *notice) { n.fingerprint = fingerprint }
}

// WithRequestInfo uses info instead of the request bound to the context
func WithRequestInfo(info *RequestInfo) NoticeOption {
	return func(n *notice) { n.request = info }
}

// WithBacktrace uses a textual trace instead of the error's own or a fresh one
func WithBacktrace(text string) NoticeOption {
	return func(n *notice) {
		n.backtrace = text
		n.hasBacktrace = true
	}
}

// Notify reports err and returns the id assigned by the collector
func (n *Notifier) Notify(err error, opts ...NoticeOption) (string, error) {
	return n.NotifyContext(context.Background(), err, opts...)
}

// NotifyContext reports err with the request bound to ctx. It makes at most
// one delivery attempt. Every outcome is logged; the returned error is a
// *NoticeError and is never worth reporting itself.
func (n *Notifier) NotifyContext(ctx context.Context, err error, opts ...NoticeOption) (string, error) {
	if err == nil {
		return "", nil
	}
	nt := &notice{}
	for _, opt := range opts {
		opt(nt)
	}

	token := uuid.New().String()
	class := Classify(err)
	id, rerr := n.reportSafely(ctx, token, class, err, nt)
	n.logOutcome(token, class, id, rerr)
	n.metrics.observe(class, rerr)
	return id, rerr
}

// Monitor reports a panic in progress and panics again with the same value.
// It has to be deferred directly:
//
//	defer notifier.Monitor()
func (n *Notifier) Monitor() {
	if r := recover(); r != nil {
		n.notifyPanic(context.Background(), r)
		panic(r)
	}
}

// MonitorContext is Monitor with the request bound to ctx
func (n *Notifier) MonitorContext(ctx context.Context) {
	if r := recover(); r != nil {
		n.notifyPanic(ctx, r)
		panic(r)
	}
}

func (n *Notifier) notifyPanic(ctx context.Context, value interface{}) {
	_, _ = n.NotifyContext(ctx, NewPanicError(value, captureBacktrace()))
}

// reportSafely runs report, turning a panic into a PayloadAssemblyFailed error
func (n *Notifier) reportSafely(ctx context.Context, token, class string, err error, nt *notice) (id string, rerr error) {
	defer func() {
		if r := recover(); r != nil {
			id, rerr = "", newNoticeError("notify", CodePayloadAssemblyFailed, ErrPayloadAssemblyFailed.Message,
				fmt.Errorf("report panicked: %v", r))
		}
	}()
	return n.report(ctx, token, class, err, nt)
}

func (n *Notifier) report(ctx context.Context, token, class string, err error, nt *notice) (string, error) {
	const op = "notify"

	cfg := n.config.Read()
	if !cfg.ShouldReport() {
		return "", newNoticeError(op, CodeSuppressed, ErrSuppressed.Message, nil)
	}
	apiKey := StringValue(cfg.APIKey)
	if apiKey == "" {
		return "", newNoticeError(op, CodeNoAPIKey, ErrNoAPIKey.Message, nil)
	}

	payload := n.buildPayload(ctx, cfg, token, class, err, nt)
	payload.APIKey = apiKey

	body, merr := marshalPayload(payload)
	if merr != nil {
		return "", newNoticeError(op, CodePayloadAssemblyFailed, ErrPayloadAssemblyFailed.Message, merr)
	}

	url := ResolveEndpoint(cfg.Connection).NoticesURL()
	return n.sender.Send(ctx, url, apiKey, body)
}

func (n *Notifier) buildPayload(ctx context.Context, cfg *Config, token, class string, err error, nt *notice) *Payload {
	tags := nt.tags
	if tags == nil {
		tags = []string{}
	}

	var bt []BacktraceEntry
	if nt.hasBacktrace {
		bt = n.decorate(nt.backtrace)
	} else {
		bt = n.backtraceOf(err, true)
	}

	request := nt.request
	if request == nil {
		request = n.requests.Request(ctx)
	}

	info := notifierInfo
	payload := &Payload{
		Notifier: &info,
		Error: ErrorInfo{
			Token:       token,
			Class:       class,
			Message:     errorMessage(err),
			Tags:        tags,
			Fingerprint: nt.fingerprint,
			Backtrace:   bt,
			Causes:      n.causesOf(err),
		},
		Request: request.Clone(),
		Server:  n.serverInfo(cfg),
	}

	n.plugins.Decorate(payload, n.logger)
	// a plugin may have installed a request it shares with other code
	payload.Request = payload.Request.Clone()
	SanitizeRequest(payload.Request, cfg)

	return payload
}

// backtraceOf returns the decorated trace err carries, or a trace of the
// calling goroutine if capture is set
func (n *Notifier) backtraceOf(err error, capture bool) []BacktraceEntry {
	text, ok := carriedBacktrace(err)
	if !ok {
		if !capture {
			return nil
		}
		text = captureBacktrace()
	}
	return n.decorate(text)
}

func (n *Notifier) decorate(text string) []BacktraceEntry {
	lines := TrimBacktrace(ParseBacktrace(text), n.trimPrefixes)
	if len(lines) == 0 {
		return nil
	}
	return DecorateBacktrace(lines)
}

func (n *Notifier) causesOf(err error) []ErrorCause {
	causes := []ErrorCause{}
	for cause := unwrapCause(err); cause != nil && len(causes) < maxCauses; cause = unwrapCause(cause) {
		causes = append(causes, ErrorCause{
			Class:     Classify(cause),
			Message:   errorMessage(cause),
			Backtrace: n.backtraceOf(cause, false),
		})
	}
	return causes
}

func (n *Notifier) serverInfo(cfg *Config) ServerInfo {
	hostname := StringValue(cfg.Hostname)
	if cfg.Hostname == nil {
		hostname, _ = os.Hostname()
	}
	return ServerInfo{
		ProjectRoot:     StringValue(cfg.Root),
		Revision:        StringValue(cfg.Revision),
		EnvironmentName: StringValue(cfg.Env),
		Hostname:        hostname,
		Stats:           n.stats(),
		Time:            n.now().UTC().Format(timeLayout),
		PID:             os.Getpid(),
	}
}

func marshalPayload(payload *Payload) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			body, err = nil, fmt.Errorf("serialization panicked: %v", r)
		}
	}()
	return jsonAPI.Marshal(payload)
}

func (n *Notifier) logOutcome(token, class, id string, err error) {
	switch {
	case err == nil:
		n.logger.Info("Error report sent",
			zap.String("token", token),
			zap.String("class", class),
			zap.String("id", id))
	case CodeOf(err) == CodeSuppressed:
		n.logger.Debug("Error report suppressed by configuration",
			zap.String("token", token),
			zap.String("class", class))
	default:
		n.logger.Error("Unable to send error report",
			zap.String("token", token),
			zap.String("class", class),
			zap.String("code", string(CodeOf(err))),
			zap.Error(err))
	}
}
