package app

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"desksync/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	// Unroutable endpoint: every remote call fails fast as a network error,
	// which the sync layer tolerates on startup.
	cfg.Remote.BaseURL = "http://127.0.0.1:1"
	cfg.Session.UserID = "u1"
	cfg.Session.Role = "user"
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "desksync-test"
	return cfg
}

// Telemetry must be live in the running app, not just present in the
// dependency graph: with observability enabled, starting the app has to
// replace the global no-op tracer provider with the SDK one.
func TestStartInitializesTelemetry(t *testing.T) {
	app := fx.New(
		fx.Supply(testConfig()),
		InfraModule,
		ServiceModule,
		WorkerModule,
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
	if err := app.Err(); err != nil {
		t.Fatalf("fx graph error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("app start error = %v", err)
	}
	defer app.Stop(ctx)

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("global tracer provider = %T, want the SDK provider installed at startup", otel.GetTracerProvider())
	}
}
