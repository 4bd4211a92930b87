package honeybadger

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	mc := newMetricsCollector()
	mc.observe("Panic", nil)
	mc.observe("Error", nil)
	mc.observe("Error", ErrSuppressed)
	mc.observe("Error", newNoticeError("send", CodeForbidden, "forbidden", nil))
	mc.observe("Error", errors.New("not a notice error"))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(mc))

	expected := `
# HELP rr_honeybadger_sent_notices_total Total number of notices accepted by the collector
# TYPE rr_honeybadger_sent_notices_total counter
rr_honeybadger_sent_notices_total 2
# HELP rr_honeybadger_failed_notices_total Total number of notices that could not be delivered
# TYPE rr_honeybadger_failed_notices_total counter
rr_honeybadger_failed_notices_total 2
# HELP rr_honeybadger_suppressed_notices_total Total number of notices suppressed by configuration
# TYPE rr_honeybadger_suppressed_notices_total counter
rr_honeybadger_suppressed_notices_total 1
# HELP rr_honeybadger_notices_by_class_total Total number of reported errors by class
# TYPE rr_honeybadger_notices_by_class_total counter
rr_honeybadger_notices_by_class_total{class="Error"} 4
rr_honeybadger_notices_by_class_total{class="Panic"} 1
# HELP rr_honeybadger_failures_by_code_total Total number of failed reports by failure code
# TYPE rr_honeybadger_failures_by_code_total counter
rr_honeybadger_failures_by_code_total{code=""} 1
rr_honeybadger_failures_by_code_total{code="forbidden"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}
