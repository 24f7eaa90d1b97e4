// Package metrics exposes conversion counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/tally-statement-converter/internal/gst"
	"github.com/insightdelivered/tally-statement-converter/internal/models"
	"github.com/insightdelivered/tally-statement-converter/internal/voucher"
)

const namespace = "tallyconv"

// Metrics holds the converter's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	statements      *prometheus.CounterVec
	rowsSkipped     *prometheus.CounterVec
	vouchersWritten *prometheus.CounterVec
	vouchersSkipped *prometheus.CounterVec
	gstRowsKept     prometheus.Counter
}

// New registers the collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_parsed_total",
			Help:      "Statements processed, by outcome.",
		}, []string{"outcome"}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_rows_skipped_total",
			Help:      "Statement rows after the header that produced no transaction, by reason.",
		}, []string{"reason"}),
		vouchersWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_written_total",
			Help:      "Vouchers written to Tally XML, by document mode.",
		}, []string{"mode"}),
		vouchersSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_skipped_total",
			Help:      "Transactions left out of Tally XML, by document mode and reason.",
		}, []string{"mode", "reason"}),
		gstRowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gst_rows_kept_total",
			Help:      "GSTR-2A invoice rows returned in previews.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.statements,
		m.rowsSkipped,
		m.vouchersWritten,
		m.vouchersSkipped,
		m.gstRowsKept,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and for callers that add their own collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveStatement records one parse attempt.
func (m *Metrics) ObserveStatement(res *models.StatementResult, err error) {
	if err != nil || res == nil {
		m.statements.WithLabelValues("error").Inc()
		return
	}
	m.statements.WithLabelValues("ok").Inc()
	for _, d := range res.Diagnostics {
		m.rowsSkipped.WithLabelValues(d.Reason).Inc()
	}
}

// ObserveVouchers records one XML build.
func (m *Metrics) ObserveVouchers(mode string, res *voucher.Result) {
	if res == nil {
		return
	}
	m.vouchersWritten.WithLabelValues(mode).Add(float64(res.Written))
	for _, d := range res.Skipped {
		m.vouchersSkipped.WithLabelValues(mode, d.Reason).Inc()
	}
}

// ObserveGST records the rows kept by one extraction.
func (m *Metrics) ObserveGST(res *gst.Result) {
	if res == nil {
		return
	}
	m.gstRowsKept.Add(float64(res.Count))
}
