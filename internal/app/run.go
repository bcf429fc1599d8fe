package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/pkg/observability"
)

// Run builds the dependency graph, executes fn during startup, and tears the
// app down. fn may take any provided dependencies and return an error; the
// error propagates to the caller.
func Run(cfg *config.Config, fn any) error {
	fxApp := fx.New(
		fx.Supply(cfg),
		InfraModule,
		ControllerModule,
		// Constructors are lazy; telemetry must be forced so spans record
		// even when fn does not take the provider.
		fx.Invoke(func(*observability.Provider) {}),
		fx.Invoke(fn),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	return fxApp.Stop(stopCtx)
}
