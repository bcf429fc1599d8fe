package app

import (
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/internal/service/appointment"
	"github.com/Alijeyrad/simorq_mobile/internal/service/document"
	"github.com/Alijeyrad/simorq_mobile/internal/service/verification"
	"github.com/Alijeyrad/simorq_mobile/pkg/objectstore"
	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

// VerificationFactory builds a code-entry controller per screen instance.
// Each screen owns its controller exclusively and must Stop it on teardown.
type VerificationFactory func(email string) *verification.Controller

// ControllerModule provides all workflow controller dependencies.
var ControllerModule = fx.Module("controllers",
	fx.Provide(
		ProvideAppointmentController,
		ProvideDocumentPipeline,
		ProvideVerificationFactory,
	),
)

func ProvideAppointmentController(client *remote.Client, cfg *config.Config) appointment.Controller {
	return appointment.New(client, appointment.Config{
		CheckInWindow: time.Duration(cfg.CheckIn.WindowMinutes) * time.Minute,
	})
}

func ProvideDocumentPipeline(client *remote.Client, store *objectstore.Client, cfg *config.Config) document.Pipeline {
	return document.New(client, store, document.Config{
		MaxSizeBytes:     cfg.Upload.MaxSizeMiB << 20,
		AllowedMimeTypes: cfg.Upload.AllowedMimeTypes,
		OnProgress: func(stage document.Stage, label string) {
			slog.Info("upload progress", "stage", string(stage), "label", label)
		},
	})
}

func ProvideVerificationFactory(client *remote.Client, cfg *config.Config) VerificationFactory {
	return func(email string) *verification.Controller {
		return verification.New(client, email, verification.Config{
			CooldownSeconds: cfg.Verification.CooldownSeconds,
		})
	}
}
