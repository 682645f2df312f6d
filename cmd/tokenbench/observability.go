// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Serve-path counters. These live on the default Prometheus registry so
// the --metrics-addr listener exposes them next to the bridged OTel
// instruments from the engine.
var (
	runsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenbench_runs_started_total",
		Help: "Benchmark matrix runs started by this process.",
	})
	watchRerunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenbench_watch_reruns_total",
		Help: "Matrix reruns triggered by scenario file changes.",
	})
)

func recordRunStarted() {
	runsStartedTotal.Inc()
}

func recordWatchRerun() {
	watchRerunsTotal.Inc()
}

// initTelemetry wires the OTel SDK according to the run flags.
//
// # Description
//
// --trace installs a pretty-printing stdout span exporter. --metrics-addr
// installs the Prometheus metric bridge (scraped via metricsServer), and
// --metrics-stdout a periodic stdout metric exporter. With none of the
// flags set the API no-ops, so the engine's instrumentation costs nothing.
//
// # Outputs
//
//   - shutdown: flushes and stops the installed providers. Must be called.
//   - error: exporter construction failure; a constructor-time concern by
//     design, never a mid-run one.
//
// # Thread Safety
//
// Call once at command start.
func initTelemetry(ctx context.Context) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("telemetry shutdown errors: %v", errs)
		}
		return nil
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", "tokenbench"),
		attribute.String("service.version", Version),
	)

	if traceStdout {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	var readers []sdkmetric.Option
	if metricsAddr != "" {
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		readers = append(readers, sdkmetric.WithReader(exporter))
	}
	if metricsOut {
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}
	if len(readers) > 0 {
		opts := append([]sdkmetric.Option{sdkmetric.WithResource(res)}, readers...)
		mp := sdkmetric.NewMeterProvider(opts...)
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}

// metricsServer builds the /metrics listener for --metrics-addr. The OTel
// Prometheus exporter registers with the default registry, so one handler
// serves both the engine instruments and the promauto counters above.
func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
