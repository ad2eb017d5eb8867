package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts terminal outcomes of the ingestion pipeline.
type Metrics struct {
	records *prometheus.CounterVec
}

// NewMetrics creates the pipeline counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobsink_records_total",
				Help: "Total number of job records processed, by terminal outcome.",
			},
			[]string{"outcome"},
		),
	}
	if err := reg.Register(m.records); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(o Outcome) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(o.String()).Inc()
}
