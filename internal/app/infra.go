package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/pkg/objectstore"
	"github.com/Alijeyrad/simorq_mobile/pkg/observability"
	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRemoteClient),
	fx.Provide(ProvideObjectStore),
	fx.Provide(ProvideOTel),
)

func ProvideRemoteClient(cfg *config.Config) *remote.Client {
	return remote.New(cfg.API)
}

func ProvideObjectStore(cfg *config.Config) *objectstore.Client {
	return objectstore.New(cfg.Upload)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized", "tracing", cfg.Observability.Tracing.Enabled)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
