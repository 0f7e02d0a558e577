package validation

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/deck/internal/registry"
)

const (
	outcomePass  = "pass"
	outcomeFail  = "fail"
	outcomeError = "error"
)

// Metrics counts validator runs. A nil *Metrics records nothing.
type Metrics struct {
	Runs *prometheus.CounterVec
}

// NewMetrics creates the validator metrics and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deck",
			Name:      "validator_runs_total",
			Help:      "Total number of pipeline validator runs by validator kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.Runs)
	}

	return m
}

func (m *Metrics) observe(kind registry.ValidatorKind, outcome string) {
	if m == nil {
		return
	}

	m.Runs.WithLabelValues(string(kind), outcome).Inc()
}
