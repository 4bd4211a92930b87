package honeybadger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type classedError struct{}

func (classedError) Error() string      { return "classed" }
func (classedError) ErrorClass() string { return "BillingError" }

func TestClassify(t *testing.T) {
	_, numErr := strconv.Atoi("x")
	_, pathErr := os.Open("/definitely/not/here")
	var syntaxErr error = json.Unmarshal([]byte("{"), &struct{}{})

	tests := []struct {
		err  error
		want string
	}{
		{classedError{}, "BillingError"},
		{fmt.Errorf("wrapped: %w", classedError{}), "Error"},
		{context.Canceled, "context.Canceled"},
		{fmt.Errorf("read: %w", io.EOF), "io.EOF"},
		{pathErr, "fs.ErrNotExist"},
		{&fs.PathError{Op: "open", Path: "x", Err: errors.New("odd")}, "fs.PathError"},
		{numErr, "strconv.NumError"},
		{syntaxErr, "json.SyntaxError"},
		{errors.New("plain"), "Error"},
		{&RemoteError{Class: "RuntimeException", Message: "x"}, "RuntimeException"},
		{&RemoteError{Message: "x"}, "Error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), tt.err.Error())
	}
}

func TestPanicError(t *testing.T) {
	p := NewPanicError("boom", "trace")
	assert.Equal(t, "boom", p.Error())
	assert.Equal(t, "Panic", Classify(p))
	assert.Equal(t, "trace", p.Backtrace())
	assert.Nil(t, p.Unwrap())

	var runtimeErr error
	func() {
		defer func() { runtimeErr = recover().(error) }()
		var m map[string]int
		m["x"] = 1
	}()
	p = NewPanicError(runtimeErr, "")
	assert.Equal(t, "runtime.Error", Classify(p))
	assert.Equal(t, runtimeErr, p.Unwrap())
}

func TestUnwrapCause(t *testing.T) {
	root := errors.New("root")

	assert.Equal(t, root, unwrapCause(fmt.Errorf("wrap: %w", root)))
	assert.Equal(t, root, unwrapCause(pkgerrors.WithMessage(root, "msg")))
	assert.Equal(t, root, unwrapCause(errors.Join(root, io.EOF)))
	assert.Nil(t, unwrapCause(root))
}

func TestClassify_TypedNil(t *testing.T) {
	var pathErr *fs.PathError
	assert.Equal(t, "Error", Classify(pathErr))
	assert.Equal(t, unavailableMessage, errorMessage(pathErr))
	assert.Nil(t, unwrapCause(pathErr))
}
