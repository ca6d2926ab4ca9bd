package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidroman0O/usersettings/store"
)

// OtherKey is the key label used for keys outside the known set.
const OtherKey = "_other"

// Prometheus records store activity as Prometheus counters.
type Prometheus struct {
	known    map[string]struct{}
	writes   *prometheus.CounterVec
	entries  *prometheus.CounterVec
	restores *prometheus.CounterVec
}

var _ store.Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors on reg. Keys not listed in known
// share the OtherKey label, so cookie input cannot grow label cardinality.
func NewPrometheus(reg prometheus.Registerer, known ...string) (*Prometheus, error) {
	p := &Prometheus{
		known: make(map[string]struct{}, len(known)),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "usersettings",
			Name:      "writes_total",
			Help:      "Setting writes by outcome: accepted, value, type or other.",
		}, []string{"schema", "key", "outcome"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "usersettings",
			Name:      "entries_total",
			Help:      "Entries saved to or restored from a flat map.",
		}, []string{"schema", "direction"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "usersettings",
			Name:      "restores_total",
			Help:      "RestoreFrom calls by result.",
		}, []string{"schema", "result"}),
	}
	for _, k := range known {
		p.known[k] = struct{}{}
	}

	for _, c := range []prometheus.Collector{p.writes, p.entries, p.restores} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Accepted implements store.Recorder.
func (p *Prometheus) Accepted(schema, key string) {
	p.writes.WithLabelValues(schema, p.label(key), "accepted").Inc()
}

// Rejected implements store.Recorder.
func (p *Prometheus) Rejected(schema, key string, reason store.Reason) {
	p.writes.WithLabelValues(schema, p.label(key), reason.String()).Inc()
}

// Saved implements store.Recorder.
func (p *Prometheus) Saved(schema string, n int) {
	p.entries.WithLabelValues(schema, "saved").Add(float64(n))
}

// Restored implements store.Recorder.
func (p *Prometheus) Restored(schema string, n int, failed bool) {
	if failed {
		p.restores.WithLabelValues(schema, "refused").Inc()
		return
	}
	p.restores.WithLabelValues(schema, "ok").Inc()
	p.entries.WithLabelValues(schema, "restored").Add(float64(n))
}

func (p *Prometheus) label(key string) string {
	if _, ok := p.known[key]; ok {
		return key
	}
	return OtherKey
}
