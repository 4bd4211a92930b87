package honeybadger

import (
	"os"
	"strconv"
	"strings"
)

const (
	envAPIKey            = "HONEYBADGER_API_KEY"
	envEnv               = "HONEYBADGER_ENV"
	envReportData        = "HONEYBADGER_REPORT_DATA"
	envRoot              = "HONEYBADGER_ROOT"
	envRevision          = "HONEYBADGER_REVISION"
	envHostname          = "HONEYBADGER_HOSTNAME"
	envConnectionSecure  = "HONEYBADGER_CONNECTION_SECURE"
	envConnectionHost    = "HONEYBADGER_CONNECTION_HOST"
	envConnectionPort    = "HONEYBADGER_CONNECTION_PORT"
	envRequestFilterKeys = "HONEYBADGER_REQUEST_FILTER_KEYS"
)

// ConfigFromEnv builds a configuration from the HONEYBADGER_* variables.
// Variables that are not present leave their field unset.
func ConfigFromEnv() *Config {
	cfg := &Config{
		APIKey:     envString(envAPIKey),
		Env:        envString(envEnv),
		ReportData: envBool(envReportData),
		Root:       envString(envRoot),
		Revision:   envString(envRevision),
		Hostname:   envString(envHostname),
		Connection: ConnectionConfig{
			Secure: envBool(envConnectionSecure),
			Host:   envString(envConnectionHost),
			Port:   envPort(envConnectionPort),
		},
	}
	if value, ok := os.LookupEnv(envRequestFilterKeys); ok {
		cfg.Request.FilterKeys = parseList(value, ",")
	}
	return cfg
}

func envString(name string) *string {
	if value, ok := os.LookupEnv(name); ok {
		return &value
	}
	return nil
}

// envBool treats "true", "t" and "1" as true and anything else as false
func envBool(name string) *bool {
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	value = strings.TrimSpace(value)
	b := strings.EqualFold(value, "true") || strings.EqualFold(value, "t") || value == "1"
	return &b
}

func envPort(name string) *uint16 {
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	port, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16)
	if err != nil {
		return nil
	}
	p := uint16(port)
	return &p
}

// parseList splits s by sep, trimming whitespace and omitting empty items.
// A list without items is nil.
func parseList(s, sep string) []string {
	var list []string
	for _, item := range strings.Split(s, sep) {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}
	return list
}
