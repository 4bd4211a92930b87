package honeybadger

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "rr_honeybadger"
)

// metricsCollector implements prometheus.Collector interface
type metricsCollector struct {
	sentNotices       *uint64
	failedNotices     *uint64
	suppressedNotices *uint64

	sentNoticesDesc       *prometheus.Desc
	failedNoticesDesc     *prometheus.Desc
	suppressedNoticesDesc *prometheus.Desc

	noticesByClass *prometheus.CounterVec
	failuresByCode *prometheus.CounterVec
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{
		sentNotices:       ptrTo(uint64(0)),
		failedNotices:     ptrTo(uint64(0)),
		suppressedNotices: ptrTo(uint64(0)),

		sentNoticesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sent_notices_total"),
			"Total number of notices accepted by the collector",
			nil, nil),

		failedNoticesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "failed_notices_total"),
			"Total number of notices that could not be delivered",
			nil, nil),

		suppressedNoticesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "suppressed_notices_total"),
			"Total number of notices suppressed by configuration",
			nil, nil),

		noticesByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prometheus.BuildFQName(namespace, "", "notices_by_class_total"),
				Help: "Total number of reported errors by class",
			},
			[]string{"class"}),

		failuresByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prometheus.BuildFQName(namespace, "", "failures_by_code_total"),
				Help: "Total number of failed reports by failure code",
			},
			[]string{"code"}),
	}
}

// observe records the outcome of one report
func (mc *metricsCollector) observe(class string, err error) {
	mc.noticesByClass.WithLabelValues(class).Inc()

	switch code := CodeOf(err); {
	case err == nil:
		atomic.AddUint64(mc.sentNotices, 1)
	case code == CodeSuppressed:
		atomic.AddUint64(mc.suppressedNotices, 1)
	default:
		atomic.AddUint64(mc.failedNotices, 1)
		mc.failuresByCode.WithLabelValues(string(code)).Inc()
	}
}

// Describe sends all metric descriptions to Prometheus
func (mc *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- mc.sentNoticesDesc
	ch <- mc.failedNoticesDesc
	ch <- mc.suppressedNoticesDesc

	mc.noticesByClass.Describe(ch)
	mc.failuresByCode.Describe(ch)
}

// Collect sends current metric values to Prometheus
func (mc *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		mc.sentNoticesDesc,
		prometheus.CounterValue,
		float64(atomic.LoadUint64(mc.sentNotices)))

	ch <- prometheus.MustNewConstMetric(
		mc.failedNoticesDesc,
		prometheus.CounterValue,
		float64(atomic.LoadUint64(mc.failedNotices)))

	ch <- prometheus.MustNewConstMetric(
		mc.suppressedNoticesDesc,
		prometheus.CounterValue,
		float64(atomic.LoadUint64(mc.suppressedNotices)))

	mc.noticesByClass.Collect(ch)
	mc.failuresByCode.Collect(ch)
}

func ptrTo[T any](v T) *T {
	return &v
}
