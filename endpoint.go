package honeybadger

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultHost is the collector host used when none is configured
	DefaultHost = "api.honeybadger.io"

	noticesPath = "/v1/notices"
)

// Endpoint is the resolved collector address
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// ResolveEndpoint applies the connection defaults: https, DefaultHost and
// the standard port of the scheme.
func ResolveEndpoint(conn ConnectionConfig) *Endpoint {
	scheme := "https"
	if conn.Secure != nil && !*conn.Secure {
		scheme = "http"
	}

	host := DefaultHost
	if conn.Host != nil && *conn.Host != "" {
		host = *conn.Host
	}

	port := defaultPort(scheme)
	if conn.Port != nil {
		port = int(*conn.Port)
	}

	return &Endpoint{
		Scheme: scheme,
		Host:   host,
		Port:   port,
	}
}

// BaseURL returns scheme://host[:port], omitting the standard port
func (e *Endpoint) BaseURL() string {
	if e.Port == defaultPort(e.Scheme) {
		host := e.Host
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		return fmt.Sprintf("%s://%s", e.Scheme, host)
	}
	return fmt.Sprintf("%s://%s", e.Scheme, net.JoinHostPort(e.Host, strconv.Itoa(e.Port)))
}

// NoticesURL returns the URL notices are posted to
func (e *Endpoint) NoticesURL() string {
	return e.BaseURL() + noticesPath
}

func defaultPort(scheme string) int {
	if scheme == "https" {
		return 443
	}
	return 80
}
