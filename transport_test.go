package honeybadger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testNoticeID = "d2b4c5e6-1f2a-4b3c-8d9e-0a1b2c3d4e5f"

func TestHTTPTransport_Send(t *testing.T) {
	var (
		gotHeaders http.Header
		gotBody    string
		gotPath    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"` + testNoticeID + `"}`))
	}))
	defer srv.Close()

	transport := NewHTTPTransport(&TransportConfig{Timeout: time.Second}, zap.NewNop())
	defer transport.Close()

	id, err := transport.Send(context.Background(), srv.URL+noticesPath, "abcd1234", []byte(`{"error":{}}`))
	require.NoError(t, err)

	assert.Equal(t, testNoticeID, id)
	assert.Equal(t, noticesPath, gotPath)
	assert.Equal(t, `{"error":{}}`, gotBody)
	assert.Equal(t, "abcd1234", gotHeaders.Get("X-API-Key"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.True(t, strings.HasPrefix(gotHeaders.Get("User-Agent"), "HB-Go "+Version+"; go"))
}

func TestHTTPTransport_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *NoticeError
	}{
		{"too many requests", http.StatusTooManyRequests, "", ErrTooManyRequests},
		{"service unavailable", http.StatusServiceUnavailable, "", ErrTooManyRequests},
		{"payment required", http.StatusPaymentRequired, "", ErrPaymentRequired},
		{"forbidden", http.StatusForbidden, "", ErrForbidden},
		{"server error", http.StatusInternalServerError, "", ErrUnknownResponseStatus},
		{"ok is not created", http.StatusOK, `{"id":"` + testNoticeID + `"}`, ErrUnknownResponseStatus},
		{"malformed body", http.StatusCreated, `{"id":`, ErrResponseDecodeFailed},
		{"id is not a uuid", http.StatusCreated, `{"id":"nope"}`, ErrResponseDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			transport := NewHTTPTransport(nil, zap.NewNop())
			id, err := transport.Send(context.Background(), srv.URL, "key", []byte("{}"))

			assert.Empty(t, id)
			require.ErrorIs(t, err, tt.want)

			var ne *NoticeError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, tt.status, ne.Status)
		})
	}
}

func TestHTTPTransport_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	transport := NewHTTPTransport(&TransportConfig{Timeout: time.Second}, zap.NewNop())
	_, err := transport.Send(context.Background(), url, "key", []byte("{}"))

	assert.ErrorIs(t, err, ErrTransportFailed)
	assert.Equal(t, CodeTransportFailed, CodeOf(err))
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.Contains(t, ua, Version)
	assert.Contains(t, ua, "-")
}
