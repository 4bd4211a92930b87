package honeybadger

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// BacktraceLine is one frame of a parsed textual stack trace
type BacktraceLine struct {
	Line   *uint32
	File   *string
	Method string
}

// Backtracer is implemented by errors that carry their own textual trace
type Backtracer interface {
	Backtrace() string
}

// stackTracer is implemented by errors created with github.com/pkg/errors
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

var packagePath = reflect.TypeOf(Notifier{}).PkgPath()

// DefaultTrimPrefixes name the panic and capture plumbing removed from the top
// of every trace.
var DefaultTrimPrefixes = []string{
	"panic",
	"runtime.gopanic",
	"runtime.sigpanic",
	"runtime.panic",
	"runtime.Callers",
	"runtime/debug.Stack",
	"github.com/pkg/errors.",
	packagePath + ".captureBacktrace",
	packagePath + ".(*Notifier).",
	packagePath + ".Notify",
	packagePath + ".Monitor",
}

// ParseBacktrace turns a textual stack trace into frames, nearest-to-panic first.
//
// It understands the Go runtime format (function line, then a tab-indented
// "file:line +0xoff" line) as well as traces whose locations are written as
// "at file:line", optionally prefixed by a frame number and a pointer.
func ParseBacktrace(text string) []BacktraceLine {
	var (
		lines  []BacktraceLine
		method *string
		file   *string
		line   *uint32
	)

	flush := func() {
		if method != nil {
			lines = append(lines, BacktraceLine{Line: line, File: file, Method: *method})
		}
		method, file, line = nil, nil, nil
	}

	for _, raw := range strings.Split(text, "\n") {
		indented := strings.HasPrefix(raw, "\t")
		s := strings.TrimSpace(raw)
		if isTraceHeader(s) {
			continue
		}

		s = strings.TrimLeft(stripFrameNumber(s), " \t")
		s = strings.TrimLeft(stripPointer(s), " \t")
		s = strings.TrimLeft(strings.TrimPrefix(s, "-"), " \t")
		if s == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(s, "at "); ok {
			f, l := splitLocation(strings.TrimSpace(rest))
			file, line = &f, &l
			continue
		}
		if indented {
			if loc := stripPCOffset(s); isGoLocation(loc) {
				f, l := splitLocation(loc)
				file, line = &f, &l
				continue
			}
		}

		flush()
		m := trimArguments(stripCreatedBy(s))
		method = &m
	}
	flush()

	return lines
}

// TrimBacktrace drops every frame up to and including the last one whose
// method starts with one of prefixes. Without a match lines is returned as is.
func TrimBacktrace(lines []BacktraceLine, prefixes []string) []BacktraceLine {
	for i := len(lines) - 1; i >= 0; i-- {
		if hasAnyPrefix(lines[i].Method, prefixes) {
			return lines[i+1:]
		}
	}
	return lines
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isTraceHeader(s string) bool {
	return s == "stack backtrace:" ||
		strings.HasPrefix(s, "goroutine ") ||
		strings.HasPrefix(s, "...additional frames elided...")
}

// stripFrameNumber removes a leading "<digits>:"
func stripFrameNumber(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == ':' {
		return s[i+1:]
	}
	return s
}

// stripPointer removes a leading "0x<hex>"
func stripPointer(s string) string {
	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return s
	}
	i := 0
	for i < len(rest) && isHex(rest[i]) {
		i++
	}
	return rest[i:]
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// stripCreatedBy turns "created by main.main in goroutine 1" into "main.main"
func stripCreatedBy(s string) string {
	rest, ok := strings.CutPrefix(s, "created by ")
	if !ok {
		return s
	}
	if i := strings.Index(rest, " in goroutine "); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// stripPCOffset removes the " +0x5e" (and GOTRACEBACK=system " fp=...") suffix
func stripPCOffset(s string) string {
	if i := strings.Index(s, " +0x"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " fp="); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// isGoLocation reports whether s ends with ":<digits>"
func isGoLocation(s string) bool {
	pos := strings.LastIndexByte(s, ':')
	if pos <= 0 || pos == len(s)-1 {
		return false
	}
	_, err := strconv.ParseUint(s[pos+1:], 10, 32)
	return err == nil
}

// splitLocation splits "file:line" at the rightmost colon. A line that does
// not parse, or a missing colon, yields line 1.
func splitLocation(s string) (string, uint32) {
	pos := strings.LastIndexByte(s, ':')
	if pos < 0 {
		return s, 1
	}
	n, err := strconv.ParseUint(s[pos+1:], 10, 32)
	if err != nil {
		n = 1
	}
	return s[:pos], uint32(n)
}

// trimArguments drops the trailing argument list of a Go function line,
// e.g. "main.(*T).run(0xc000010000, {0x4b2f1e, 0x3})" -> "main.(*T).run".
func trimArguments(s string) string {
	if !strings.HasSuffix(s, ")") {
		return s
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				if i == 0 {
					return s
				}
				return s[:i]
			}
		}
	}
	return s
}

// carriedBacktrace returns the trace an error was created with, if any
func carriedBacktrace(err error) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()
	switch e := err.(type) {
	case Backtracer:
		if bt := e.Backtrace(); bt != "" {
			return bt, true
		}
	case stackTracer:
		if st := e.StackTrace(); len(st) > 0 {
			return fmt.Sprintf("%+v", st), true
		}
	}
	return "", false
}

func captureBacktrace() string {
	return string(debug.Stack())
}
