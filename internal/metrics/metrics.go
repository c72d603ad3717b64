package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry           *prometheus.Registry
	GigsCreatedTotal   prometheus.Counter
	BidsCreatedTotal   prometheus.Counter
	HiresTotal         prometheus.Counter
	HireConflictsTotal prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		GigsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gig_marketplace_gigs_created_total",
			Help: "Total gigs created.",
		}),
		BidsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gig_marketplace_bids_created_total",
			Help: "Total bids submitted.",
		}),
		HiresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gig_marketplace_hires_total",
			Help: "Total committed hire transitions.",
		}),
		HireConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gig_marketplace_hire_conflicts_total",
			Help: "Hire attempts rejected because the gig was no longer open.",
		}),
	}

	registry.MustRegister(m.GigsCreatedTotal, m.BidsCreatedTotal, m.HiresTotal, m.HireConflictsTotal)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
