package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidroman0O/usersettings/store"
)

func testSchema() *store.Schema {
	return store.NewSchema("test",
		store.Field[int]("age").Validate(func(v int) bool { return 0 <= v && v <= 99 }),
	)
}

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheus(reg, "age")
	require.NoError(t, err)

	s := store.New(testSchema(), store.WithRecorder(rec))
	require.NoError(t, s.Set("age", 9))
	require.Error(t, s.Set("age", -1))
	require.Error(t, s.Set("age", "x"))
	require.NoError(t, s.Set("free", "form"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("test", "age", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("test", "age", "value")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("test", "age", "type")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("test", OtherKey, "accepted")))

	require.NoError(t, s.SaveTo(map[string]string{}))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.entries.WithLabelValues("test", "saved")))

	require.Error(t, s.RestoreFrom(map[string]string{"age": "x"}))
	require.NoError(t, s.RestoreFrom(map[string]string{"lang": "en", "theme": "dark"}))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.writes.WithLabelValues("test", "age", "type")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.entries.WithLabelValues("test", "restored")))

	families, err := reg.Gather()
	require.NoError(t, err)

	restores := findFamily(t, families, "usersettings_restores_total")
	assert.Equal(t, dto.MetricType_COUNTER, restores.GetType())
	require.Len(t, restores.GetMetric(), 2)
	for _, m := range restores.GetMetric() {
		assert.Equal(t, 1.0, m.GetCounter().GetValue())
	}

	assert.Equal(t, 4, testutil.CollectAndCount(rec.writes))
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}
