package logmerge

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLine     = "line"
	resultNotReady = "not_ready"
	resultEOF      = "eof"
	resultError    = "error"
)

// Metrics merge 的 prometheus 指标, nil 时所有方法都是空操作
type Metrics struct {
	polls    *prometheus.CounterVec
	emitted  *prometheus.CounterVec
	failures *prometheus.CounterVec
	pending  *prometheus.GaugeVec
	finished *prometheus.GaugeVec
}

// NewMetrics 创建并注册指标
// reg 为 nil 时使用 prometheus.DefaultRegisterer, namespace 为空时默认 "logmerge"
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "logmerge"
	}

	obj := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total source polls by result (line,not_ready,eof,error).",
		}, []string{"merge", "source", "result"}),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_emitted_total",
			Help:      "Total lines released to the consumer by source.",
		}, []string{"merge", "source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Total source failures that aborted a merge.",
		}, []string{"merge", "source"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_lines",
			Help:      "Lines read from sources but not yet released.",
		}, []string{"merge"}),
		finished: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "finished_sources",
			Help:      "Number of exhausted sources.",
		}, []string{"merge"}),
	}

	for _, c := range []prometheus.Collector{obj.polls, obj.emitted, obj.failures, obj.pending, obj.finished} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("reg.Register is failed, err: %w", err)
		}
	}
	return obj, nil
}

func (m *Metrics) poll(merge, source, result string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(merge, source, result).Inc()
}

func (m *Metrics) emit(merge, source string) {
	if m == nil {
		return
	}
	m.emitted.WithLabelValues(merge, source).Inc()
}

func (m *Metrics) setPending(merge string, n int) {
	if m == nil {
		return
	}
	m.pending.WithLabelValues(merge).Set(float64(n))
}

func (m *Metrics) fail(merge, source string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(merge, source).Inc()
}

func (m *Metrics) setFinished(merge string, n int) {
	if m == nil {
		return
	}
	m.finished.WithLabelValues(merge).Set(float64(n))
}
