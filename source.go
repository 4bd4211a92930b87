package honeybadger

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// source window around the reported line
const (
	sourceLinesBefore = 2
	sourceLinesAfter  = 2
)

// DecorateBacktrace converts parsed frames into payload entries and attaches
// the surrounding source lines of every frame whose file can be read.
func DecorateBacktrace(lines []BacktraceLine) []BacktraceEntry {
	entries := make([]BacktraceEntry, 0, len(lines))
	for _, l := range lines {
		entry := BacktraceEntry{Method: l.Method}
		if l.File != nil {
			entry.File = *l.File
		}
		if l.Line != nil {
			entry.Number = strconv.FormatUint(uint64(*l.Line), 10)
		}
		if l.File != nil && l.Line != nil {
			entry.Source = readSourceWindow(*l.File, *l.Line)
		}
		entries = append(entries, entry)
	}
	return entries
}

// readSourceWindow returns lines [line-2, line+2] of path keyed by their
// 1-based number, clipped to the file. It returns nil if nothing could be read.
func readSourceWindow(path string, line uint32) map[uint32]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	centre := uint64(line)
	if centre > 0 {
		centre--
	}
	skip := uint64(0)
	if centre > sourceLinesBefore {
		skip = centre - sourceLinesBefore
	}
	upto := centre + sourceLinesAfter + 1

	source := make(map[uint32]string)
	r := bufio.NewReader(f)
	for n := uint64(0); n < upto; n++ {
		text, err := r.ReadString('\n')
		if text == "" && err != nil {
			break
		}
		if n >= skip {
			source[uint32(n+1)] = strings.TrimRight(text, "\r\n")
		}
		if err != nil {
			break
		}
	}

	if len(source) == 0 {
		return nil
	}
	return source
}
