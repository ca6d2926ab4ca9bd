package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/davidroman0O/usersettings"
	"github.com/davidroman0O/usersettings/internal/config"
	"github.com/davidroman0O/usersettings/internal/logging"
	"github.com/davidroman0O/usersettings/metrics"
	"github.com/davidroman0O/usersettings/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand shares once configuration is loaded.
type app struct {
	logger   store.Logger
	registry *prometheus.Registry
	reader   *sdkmetric.ManualReader
	recorder store.Recorder
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "usersettings",
		Short:        "Validate and inspect user settings cookies",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.AddCommand(newCheckCmd(a), newSchemaCmd())
	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.NewHandlerLogger(stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	switch cfg.Metrics {
	case config.MetricsPrometheus:
		a.registry = prometheus.NewRegistry()
		rec, err := metrics.NewPrometheus(a.registry, usersettings.Schema().Keys()...)
		if err != nil {
			return err
		}
		a.recorder = rec
	case config.MetricsOTel:
		a.reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(a.reader))
		rec, err := metrics.NewOTel(provider.Meter("usersettings"), usersettings.Schema().Keys()...)
		if err != nil {
			return err
		}
		a.recorder = rec
	}
	return nil
}

// flushMetrics writes the gathered metrics to w, in the Prometheus text
// format or as one "name{attrs} value" line per OpenTelemetry data point.
func (a *app) flushMetrics(w io.Writer) error {
	if a.reader != nil {
		return a.flushOTel(w)
	}
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, f := range families {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

func (a *app) flushOTel(w io.Writer) error {
	var rm metricdata.ResourceMetrics
	if err := a.reader.Collect(context.Background(), &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	enc := attribute.DefaultEncoder()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if _, err := fmt.Fprintf(w, "%s{%s} %d\n", m.Name, dp.Attributes.Encoded(enc), dp.Value); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
		}
	}
	return nil
}

func newCheckCmd(a *app) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "check [key=value ...]",
		Short: "Restore raw cookie values and print the saved form",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd.InOrStdin(), args, fromStdin)
			if err != nil {
				return err
			}

			opts := []store.Option{store.WithLogger(a.logger)}
			if a.recorder != nil {
				opts = append(opts, store.WithRecorder(a.recorder))
			}
			s := usersettings.New(opts...)

			restoreErr := s.RestoreFrom(source)
			if err := a.flushMetrics(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if restoreErr != nil {
				return restoreErr
			}

			saved := map[string]string{}
			if err := s.SaveTo(saved); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(saved)
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read a JSON object of string values from stdin")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the shipped settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(usersettings.Schema().JSONSchema())
		},
	}
}

func readSource(stdin io.Reader, args []string, fromStdin bool) (map[string]string, error) {
	source := map[string]string{}
	if fromStdin {
		if len(args) > 0 {
			return nil, fmt.Errorf("--stdin does not take key=value arguments")
		}
		if err := json.NewDecoder(stdin).Decode(&source); err != nil {
			return nil, fmt.Errorf("decode stdin: %w", err)
		}
		return source, nil
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		source[key] = value
	}
	return source, nil
}
