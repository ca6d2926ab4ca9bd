package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/davidroman0O/usersettings/store"
)

// OTel records store activity with OpenTelemetry counters.
type OTel struct {
	known    map[string]struct{}
	writes   metric.Int64Counter
	entries  metric.Int64Counter
	restores metric.Int64Counter
}

var _ store.Recorder = (*OTel)(nil)

// NewOTel creates the instruments on meter. known has the same meaning as
// in NewPrometheus.
func NewOTel(meter metric.Meter, known ...string) (*OTel, error) {
	writes, err := meter.Int64Counter("usersettings.writes",
		metric.WithDescription("Setting writes by outcome."))
	if err != nil {
		return nil, err
	}
	entries, err := meter.Int64Counter("usersettings.entries",
		metric.WithDescription("Entries saved to or restored from a flat map."))
	if err != nil {
		return nil, err
	}
	restores, err := meter.Int64Counter("usersettings.restores",
		metric.WithDescription("RestoreFrom calls by result."))
	if err != nil {
		return nil, err
	}

	o := &OTel{
		known:    make(map[string]struct{}, len(known)),
		writes:   writes,
		entries:  entries,
		restores: restores,
	}
	for _, k := range known {
		o.known[k] = struct{}{}
	}
	return o, nil
}

// Accepted implements store.Recorder.
func (o *OTel) Accepted(schema, key string) {
	o.write(schema, key, "accepted")
}

// Rejected implements store.Recorder.
func (o *OTel) Rejected(schema, key string, reason store.Reason) {
	o.write(schema, key, reason.String())
}

// Saved implements store.Recorder.
func (o *OTel) Saved(schema string, n int) {
	o.entries.Add(context.Background(), int64(n), metric.WithAttributes(
		attribute.String("schema", schema),
		attribute.String("direction", "saved"),
	))
}

// Restored implements store.Recorder.
func (o *OTel) Restored(schema string, n int, failed bool) {
	result := "ok"
	if failed {
		result = "refused"
	}
	o.restores.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("schema", schema),
		attribute.String("result", result),
	))
	if !failed {
		o.entries.Add(context.Background(), int64(n), metric.WithAttributes(
			attribute.String("schema", schema),
			attribute.String("direction", "restored"),
		))
	}
}

func (o *OTel) write(schema, key, outcome string) {
	if _, ok := o.known[key]; !ok {
		key = OtherKey
	}
	o.writes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("schema", schema),
		attribute.String("key", key),
		attribute.String("outcome", outcome),
	))
}
