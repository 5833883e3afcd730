package service

import (
	"context"
	"io"

	"launch_notifier/internal/config"
	"launch_notifier/internal/logger"
	"launch_notifier/internal/models"
	"launch_notifier/internal/repository"
)

// Composer turns the selected launch into the outbound text.
type Composer interface {
	Compose(r models.LaunchRecord) (string, error)
}

// Dispatcher delivers one message to the configured radio.
type Dispatcher interface {
	Send(ctx context.Context, msg string, cfg models.TransportConfig) (models.Ack, error)
}

// Notifier runs the pipeline once.
type Notifier interface {
	Run(ctx context.Context) (Outcome, error)
	Preview(ctx context.Context) (Outcome, error)
}

// Service aggregates the pipeline stages.
type Service struct {
	Composer
	Dispatcher
	Notifier
}

// NewService wires the repository layer and configuration into concrete services.
// Dry-run previews are written to out.
func NewService(repos *repository.Repository, cfg config.Config, log *logger.Logger, out io.Writer) *Service {
	composer := NewMessageComposer(cfg.Zone.Location())
	dispatcher := NewTransportDispatcher(DefaultRadioFactory(out), log)
	return &Service{
		Composer:   composer,
		Dispatcher: dispatcher,
		Notifier: NewPipelineNotifier(repos.Launches, composer, dispatcher, NotifierOptions{
			Site:      cfg.Launch.Site,
			Transport: cfg.Transport,
		}, log),
	}
}
