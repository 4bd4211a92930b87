package honeybadger

import (
	"context"

	"go.uber.org/zap"
)

// RPC lets workers report errors through the plugin
type RPC struct {
	plugin *Plugin
	logger *zap.Logger
}

// NoticeRequest is an error reported by a worker
type NoticeRequest struct {
	Class       string       `json:"class"`
	Message     string       `json:"message"`
	Tags        []string     `json:"tags"`
	Fingerprint string       `json:"fingerprint"`
	Backtrace   string       `json:"backtrace"`
	Request     *RequestInfo `json:"request"`
}

// NoticeResponse is the outcome of a NoticeRequest
type NoticeResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewRPC creates a new RPC instance
func NewRPC(plugin *Plugin, logger *zap.Logger) *RPC {
	return &RPC{
		plugin: plugin,
		logger: logger,
	}
}

// Notify reports a worker error. Reporting failures are returned in the
// response, not as an RPC error.
func (r *RPC) Notify(in *NoticeRequest, out *NoticeResponse) error {
	class := in.Class
	if class == "" {
		class = genericClass
	}

	r.logger.Debug("Received notice via RPC",
		zap.String("class", class),
		zap.Int("backtrace_size", len(in.Backtrace)))

	opts := []NoticeOption{WithTags(in.Tags...), WithFingerprint(in.Fingerprint)}
	if in.Backtrace != "" {
		opts = append(opts, WithBacktrace(in.Backtrace))
	}
	if in.Request != nil {
		opts = append(opts, WithRequestInfo(in.Request))
	}

	id, err := r.plugin.notifier.NotifyContext(context.Background(), &RemoteError{Class: class, Message: in.Message}, opts...)
	*out = NoticeResponse{ID: id}
	if err != nil {
		out.Code = string(CodeOf(err))
		out.Error = err.Error()
	}
	return nil
}
