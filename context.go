package honeybadger

import (
	"context"
	"sync"
)

// RequestContext resolves the request a report belongs to
type RequestContext interface {
	Request(ctx context.Context) *RequestInfo
}

// RequestContextFunc adapts a function to RequestContext
type RequestContextFunc func(ctx context.Context) *RequestInfo

// Request implements RequestContext
func (f RequestContextFunc) Request(ctx context.Context) *RequestInfo {
	return f(ctx)
}

// DefaultRequestContext looks up the scoped binding first, then the default slot
var DefaultRequestContext RequestContext = RequestContextFunc(RequestFromContext)

type requestKey struct{}

// ContextWithRequest returns a copy of parent carrying info. The binding is
// visible only to code that receives the returned context.
func ContextWithRequest(parent context.Context, info *RequestInfo) context.Context {
	return context.WithValue(parent, requestKey{}, info)
}

// WithRequest runs body with info bound to the context it receives
func WithRequest(ctx context.Context, info *RequestInfo, body func(ctx context.Context)) {
	body(ContextWithRequest(ctx, info))
}

// process-wide default slot for requests whose lifecycle cannot be expressed as one call
var defaultRequest struct {
	mu   sync.RWMutex
	info *RequestInfo
}

// SetRequest publishes info as the default request. The slot is shared by
// every goroutine of the process: concurrent callers overwrite each other, so
// prefer ContextWithRequest wherever a context can be passed. The caller must
// clear it with UnsetRequest when the request ends.
func SetRequest(info *RequestInfo) {
	defaultRequest.mu.Lock()
	defaultRequest.info = info
	defaultRequest.mu.Unlock()
}

// UnsetRequest clears the default request
func UnsetRequest() {
	SetRequest(nil)
}

// RequestFromContext returns the request bound to ctx, falling back to the
// default request. It returns nil if neither is set.
func RequestFromContext(ctx context.Context) *RequestInfo {
	if ctx != nil {
		if info, ok := ctx.Value(requestKey{}).(*RequestInfo); ok && info != nil {
			return info
		}
	}
	defaultRequest.mu.RLock()
	defer defaultRequest.mu.RUnlock()
	return defaultRequest.info
}
