package app

import (
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Alijeyrad/simorq_mobile/config"
)

func TestRunInstallsTracerProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "simorq_mobile_test"
	cfg.Observability.ServiceVersion = "test"
	cfg.Observability.Tracing.SamplingRate = 1.0

	if err := Run(cfg, func() error { return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("global tracer provider = %T, want the SDK provider", otel.GetTracerProvider())
	}
}

func TestRunWithoutObservability(t *testing.T) {
	cfg := &config.Config{}

	var ran bool
	if err := Run(cfg, func() error { ran = true; return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !ran {
		t.Error("invoked function never ran")
	}
}
