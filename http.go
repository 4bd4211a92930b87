package honeybadger

import (
	"errors"
	"net/http"
	"strings"
)

// Handler wraps next so that every request is bound to the context its
// handler receives. A panic in next is reported and then re-raised.
func Handler(n *Notifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ContextWithRequest(r.Context(), NewRequestInfo(r))
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); !ok || !errors.Is(err, http.ErrAbortHandler) {
					n.notifyPanic(ctx, rec)
				}
				panic(rec)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewRequestInfo captures the URL, headers and query parameters of r.
// Headers are stored in CGI form, e.g. HTTP_USER_AGENT.
func NewRequestInfo(r *http.Request) *RequestInfo {
	info := &RequestInfo{
		URL:     requestURL(r),
		CGIData: map[string]string{"REQUEST_METHOD": r.Method},
		Params:  map[string]string{},
	}
	for name, values := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		info.CGIData[key] = strings.Join(values, ", ")
	}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			info.Params[name] = values[0]
		}
	}
	return info
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
