package honeybadger

import (
	"maps"
)

// Payload is the notice sent to the collector, one per reported error
type Payload struct {
	APIKey   string        `json:"api_key"`
	Notifier *NotifierInfo `json:"notifier,omitempty"`
	Error    ErrorInfo     `json:"error"`
	Request  *RequestInfo  `json:"request,omitempty"`
	Server   ServerInfo    `json:"server"`
}

// NotifierInfo identifies this client
type NotifierInfo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Version  string `json:"version"`
	Language string `json:"language"`
}

// ErrorInfo describes the reported error
type ErrorInfo struct {
	Token       string           `json:"token"`
	Class       string           `json:"class"`
	Message     string           `json:"message"`
	Tags        []string         `json:"tags"`
	Fingerprint string           `json:"fingerprint"`
	Backtrace   []BacktraceEntry `json:"backtrace,omitempty"`
	Causes      []ErrorCause     `json:"causes"`
}

// BacktraceEntry is one decorated stack frame
type BacktraceEntry struct {
	Number string            `json:"number,omitempty"`
	File   string            `json:"file,omitempty"`
	Method string            `json:"method"`
	Source map[uint32]string `json:"source,omitempty"`
}

// ErrorCause is one link of the error's cause chain
type ErrorCause struct {
	Class     string           `json:"class"`
	Message   string           `json:"message"`
	Backtrace []BacktraceEntry `json:"backtrace,omitempty"`
}

// RequestInfo carries the request the error happened in
type RequestInfo struct {
	URL            string                 `json:"url,omitempty" mapstructure:"url"`
	CGIData        map[string]string      `json:"cgi_data,omitempty" mapstructure:"cgi_data"`
	Params         map[string]string      `json:"params,omitempty" mapstructure:"params"`
	Component      string                 `json:"component,omitempty" mapstructure:"component"`
	Action         string                 `json:"action,omitempty" mapstructure:"action"`
	Session        map[string]string      `json:"session,omitempty" mapstructure:"session"`
	Context        map[string]interface{} `json:"context,omitempty" mapstructure:"context"`
	LocalVariables map[string]interface{} `json:"local_variables,omitempty" mapstructure:"local_variables"`
}

// Clone returns a copy whose maps can be modified without touching r
func (r *RequestInfo) Clone() *RequestInfo {
	if r == nil {
		return nil
	}
	c := *r
	c.CGIData = maps.Clone(r.CGIData)
	c.Params = maps.Clone(r.Params)
	c.Session = maps.Clone(r.Session)
	c.Context = maps.Clone(r.Context)
	c.LocalVariables = maps.Clone(r.LocalVariables)
	return &c
}

// ServerInfo describes the reporting process
type ServerInfo struct {
	ProjectRoot     string `json:"project_root,omitempty"`
	Revision        string `json:"revision,omitempty"`
	EnvironmentName string `json:"environment_name,omitempty"`
	Hostname        string `json:"hostname,omitempty"`
	Stats           Stats  `json:"stats"`
	Time            string `json:"time"`
	PID             int    `json:"pid"`
}

// Stats holds best-effort OS readings
type Stats struct {
	Mem  *MemoryInfo `json:"mem,omitempty"`
	Load *LoadInfo   `json:"load,omitempty"`
}

// MemoryInfo is expressed in megabytes
type MemoryInfo struct {
	Total     *float64 `json:"total,omitempty"`
	Free      *float64 `json:"free,omitempty"`
	Buffers   *float64 `json:"buffers,omitempty"`
	Cached    *float64 `json:"cached,omitempty"`
	FreeTotal *float64 `json:"free_total,omitempty"`
}

// LoadInfo holds the load averages
type LoadInfo struct {
	One     *float64 `json:"one,omitempty"`
	Five    *float64 `json:"five,omitempty"`
	Fifteen *float64 `json:"fifteen,omitempty"`
}

// noticeResponse is the body of a 201 from the collector
type noticeResponse struct {
	ID string `json:"id"`
}
