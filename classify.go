package honeybadger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"runtime"
	"strconv"
)

const (
	// class of errors that match nothing else
	genericClass = "Error"
	panicClass   = "Panic"

	// message of errors whose Error method panics
	unavailableMessage = "(error message unavailable)"

	// guards against cyclic Unwrap chains
	maxCauses = 32
)

// Classifier is implemented by errors that name their own class
type Classifier interface {
	ErrorClass() string
}

type errorKind struct {
	class string
	match func(err error) bool
}

// knownKinds is matched in order; the first match names the class
var knownKinds = []errorKind{
	{"context.Canceled", isError(context.Canceled)},
	{"context.DeadlineExceeded", isError(context.DeadlineExceeded)},
	{"io.EOF", isError(io.EOF)},
	{"io.ErrUnexpectedEOF", isError(io.ErrUnexpectedEOF)},
	{"fs.ErrNotExist", isError(fs.ErrNotExist)},
	{"fs.ErrPermission", isError(fs.ErrPermission)},
	{"fs.ErrExist", isError(fs.ErrExist)},
	{"runtime.Error", asError[runtime.Error]},
	{"fs.PathError", asError[*fs.PathError]},
	{"net.OpError", asError[*net.OpError]},
	{"net.DNSError", asError[*net.DNSError]},
	{"url.Error", asError[*url.Error]},
	{"json.SyntaxError", asError[*json.SyntaxError]},
	{"json.UnmarshalTypeError", asError[*json.UnmarshalTypeError]},
	{"strconv.NumError", asError[*strconv.NumError]},
}

func isError(target error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, target)
	}
}

func asError[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// Classify returns the class reported for err. An error whose methods panic,
// such as a typed nil, is classified as "Error".
func Classify(err error) (class string) {
	defer func() {
		if r := recover(); r != nil {
			class = genericClass
		}
	}()
	if c, ok := err.(Classifier); ok {
		if class := c.ErrorClass(); class != "" {
			return class
		}
	}
	for _, kind := range knownKinds {
		if kind.match(err) {
			return kind.class
		}
	}
	return genericClass
}

// PanicError wraps a recovered panic value
type PanicError struct {
	Value interface{}
	stack string
}

// NewPanicError wraps a recovered value together with the trace of the panic
func NewPanicError(value interface{}, stack string) *PanicError {
	return &PanicError{Value: value, stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// ErrorClass implements Classifier
func (e *PanicError) ErrorClass() string {
	if _, ok := e.Value.(runtime.Error); ok {
		return "runtime.Error"
	}
	return panicClass
}

// Backtrace implements Backtracer
func (e *PanicError) Backtrace() string {
	return e.stack
}

// Unwrap returns the panic value if it is an error
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// RemoteError is an error reported on behalf of another process
type RemoteError struct {
	Class   string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// ErrorClass implements Classifier
func (e *RemoteError) ErrorClass() string {
	return e.Class
}

// errorMessage returns err.Error(), or a placeholder if it panics
func errorMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = unavailableMessage
		}
	}()
	return err.Error()
}

// unwrapCause follows Unwrap, then the github.com/pkg/errors Cause convention.
// A panicking Unwrap ends the chain.
func unwrapCause(err error) (cause error) {
	defer func() {
		if r := recover(); r != nil {
			cause = nil
		}
	}()
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	case interface{ Unwrap() []error }:
		if errs := e.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}
