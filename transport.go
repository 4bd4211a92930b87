package honeybadger

import (
	"context"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Sender delivers a serialized payload and returns the id the collector
// assigned to it
type Sender interface {
	Send(ctx context.Context, url, apiKey string, body []byte) (string, error)
}

// HTTPTransport handles HTTP communication with the collector
type HTTPTransport struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(config *TransportConfig, logger *zap.Logger) *HTTPTransport {
	client := resty.New().
		SetLogger(logger.Sugar()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent())

	if config != nil {
		if config.Timeout > 0 {
			client.SetTimeout(config.Timeout)
		}
		if config.Proxy != "" {
			client.SetProxy(config.Proxy)
		}
	}

	return &HTTPTransport{
		client: client,
		logger: logger,
	}
}

// UserAgent identifies the client, runtime and architecture
func UserAgent() string {
	return fmt.Sprintf("HB-Go %s; %s; %s-%s", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Send posts body to url once. Failures are returned as *NoticeError.
func (t *HTTPTransport) Send(ctx context.Context, url, apiKey string, body []byte) (string, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("X-API-Key", apiKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", newNoticeError("send", CodeTransportFailed, ErrTransportFailed.Message, err)
	}

	t.logger.Debug("Notice response received",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode()))

	return decodeResponse(resp.StatusCode(), resp.Body())
}

// decodeResponse maps a collector response to the notice id or a *NoticeError
func decodeResponse(status int, body []byte) (string, error) {
	var sentinel *NoticeError
	switch status {
	case http.StatusCreated:
		var result noticeResponse
		if err := jsonAPI.Unmarshal(body, &result); err != nil {
			return "", statusError(ErrResponseDecodeFailed, status, err)
		}
		if _, err := uuid.Parse(result.ID); err != nil {
			return "", statusError(ErrResponseDecodeFailed, status, fmt.Errorf("invalid notice id %q: %w", result.ID, err))
		}
		return result.ID, nil
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		sentinel = ErrTooManyRequests
	case http.StatusPaymentRequired:
		sentinel = ErrPaymentRequired
	case http.StatusForbidden:
		sentinel = ErrForbidden
	default:
		sentinel = ErrUnknownResponseStatus
	}
	return "", statusError(sentinel, status, nil)
}

func statusError(sentinel *NoticeError, status int, err error) *NoticeError {
	e := newNoticeError(sentinel.Op, sentinel.Code, sentinel.Message, err)
	e.Status = status
	return e
}

// Close closes the transport
func (t *HTTPTransport) Close() error {
	t.client.GetClient().CloseIdleConnections()
	return nil
}
