package honeybadger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, lines int) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&b, "line %d\r\n", i)
	}
	path := filepath.Join(t.TempDir(), "source.go")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestReadSourceWindow(t *testing.T) {
	path := writeSourceFile(t, 10)

	assert.Equal(t, map[uint32]string{
		3: "line 3", 4: "line 4", 5: "line 5", 6: "line 6", 7: "line 7",
	}, readSourceWindow(path, 5))

	assert.Equal(t, map[uint32]string{
		1: "line 1", 2: "line 2", 3: "line 3",
	}, readSourceWindow(path, 1))

	assert.Equal(t, map[uint32]string{
		8: "line 8", 9: "line 9", 10: "line 10",
	}, readSourceWindow(path, 10))
}

func TestReadSourceWindow_Unreadable(t *testing.T) {
	assert.Nil(t, readSourceWindow(filepath.Join(t.TempDir(), "missing.go"), 3))
	assert.Nil(t, readSourceWindow(writeSourceFile(t, 3), 40))
}

func TestDecorateBacktrace(t *testing.T) {
	path := writeSourceFile(t, 4)
	line := uint32(2)
	missing := "/does/not/exist.go"

	entries := DecorateBacktrace([]BacktraceLine{
		{Method: "app.handler", File: &path, Line: &line},
		{Method: "app.missing", File: &missing, Line: &line},
		{Method: "app.main"},
	})
	require.Len(t, entries, 3)

	assert.Equal(t, "app.handler", entries[0].Method)
	assert.Equal(t, path, entries[0].File)
	assert.Equal(t, "2", entries[0].Number)
	assert.Len(t, entries[0].Source, 4)

	assert.Equal(t, missing, entries[1].File)
	assert.Nil(t, entries[1].Source)

	assert.Equal(t, BacktraceEntry{Method: "app.main"}, entries[2])
}
