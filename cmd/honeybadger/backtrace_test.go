package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	honeybadger "github.com/your-org/roadrunner-honeybadger"
)

const goTrace = `goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
panic({0x4b2f1e?, 0x5a1b20?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
main.(*Server).crash(0xc000010000)
	/app/server.go:42 +0x1d
main.main()
	/app/main.go:10 +0x25
`

func runBacktrace(t *testing.T, args ...string) []honeybadger.BacktraceEntry {
	t.Helper()
	flagNoTrim, flagNoSource = false, false

	cmd := NewCmdBacktrace()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(goTrace))
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())

	var entries []honeybadger.BacktraceEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	return entries
}

func TestBacktraceCommand(t *testing.T) {
	entries := runBacktrace(t)
	require.Len(t, entries, 2)
	assert.Equal(t, "main.(*Server).crash", entries[0].Method)
	assert.Equal(t, "/app/server.go", entries[0].File)
	assert.Equal(t, "42", entries[0].Number)
	assert.Equal(t, "main.main", entries[1].Method)
}

func TestBacktraceCommand_NoTrim(t *testing.T) {
	entries := runBacktrace(t, "--no-trim")
	require.Len(t, entries, 4)
	assert.Equal(t, "runtime/debug.Stack", entries[0].Method)
	assert.Equal(t, "panic", entries[1].Method)
}

func TestVersionCommand(t *testing.T) {
	cmd := NewCmdVersion()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(out.String(), honeybadger.Version+"\n"))
	assert.Contains(t, out.String(), "HB-Go")
}
