// Package metrics provides store.Recorder implementations backed by
// Prometheus and OpenTelemetry.
package metrics
