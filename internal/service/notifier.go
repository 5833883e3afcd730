package service

import (
	"context"
	"fmt"
	"time"

	"launch_notifier/internal/logger"
	"launch_notifier/internal/models"
	"launch_notifier/internal/repository"

	"github.com/google/uuid"
)

// Outcome reports what one run did. Sent is false for previews and when nothing matched.
type Outcome struct {
	RunID     string
	Selection models.Selection
	Message   string
	Ack       models.Ack
	Sent      bool
}

// PipelineNotifier runs fetch → select → compose → dispatch once per call.
type PipelineNotifier struct {
	launches   repository.LaunchRepo
	composer   Composer
	dispatcher Dispatcher
	site       string
	transport  models.TransportConfig
	now        func() time.Time
	log        *logger.Logger
}

// NotifierOptions carries the per-deployment settings of the pipeline.
type NotifierOptions struct {
	Site      string
	Transport models.TransportConfig
	Now       func() time.Time // defaults to time.Now
}

func NewPipelineNotifier(launches repository.LaunchRepo, composer Composer, dispatcher Dispatcher, opts NotifierOptions, log *logger.Logger) *PipelineNotifier {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PipelineNotifier{
		launches:   launches,
		composer:   composer,
		dispatcher: dispatcher,
		site:       opts.Site,
		transport:  opts.Transport,
		now:        opts.Now,
		log:        log,
	}
}

// Run executes the whole pipeline. No matching launch is a clean outcome, not an error,
// and never reaches the dispatcher.
func (n *PipelineNotifier) Run(ctx context.Context) (Outcome, error) {
	out, log, err := n.prepare(ctx)
	if err != nil || !out.Selection.Found {
		return out, err
	}

	ack, err := n.dispatcher.Send(ctx, out.Message, n.transport)
	if err != nil {
		log.Errorw("message not delivered", "err", err)
		return out, fmt.Errorf("send: %w", err)
	}
	out.Ack = ack
	out.Sent = true
	log.Infow("message delivered", "transport", ack.Transport, "channel", ack.Channel, "packet_id", ack.PacketID, "bytes", ack.Bytes)
	return out, nil
}

// Preview runs every stage except the dispatcher.
func (n *PipelineNotifier) Preview(ctx context.Context) (Outcome, error) {
	out, _, err := n.prepare(ctx)
	return out, err
}

func (n *PipelineNotifier) prepare(ctx context.Context) (Outcome, *logger.Logger, error) {
	out := Outcome{RunID: uuid.NewString()}
	log := n.log.With("run_id", out.RunID, "site", n.site)

	log.Infow("querying launch schedule")
	records, err := n.launches.Upcoming(ctx)
	if err != nil {
		log.Errorw("launch query failed", "err", err)
		return out, log, fmt.Errorf("fetch upcoming launches: %w", err)
	}
	log.Infow("launch schedule received", "launches", len(records))

	out.Selection = SelectNext(records, n.site, n.now())
	if !out.Selection.Found {
		log.Infow("no upcoming launches found for site")
		return out, log, nil
	}
	launch := out.Selection.Launch
	log.Infow("next launch selected", "name", launch.Name, "net", launch.NetTime.UTC().Format(time.RFC3339))

	msg, err := n.composer.Compose(launch)
	if err != nil {
		log.Errorw("message composition failed", "err", err)
		return out, log, fmt.Errorf("compose message: %w", err)
	}
	out.Message = msg
	log.Debugw("message composed", "bytes", len(msg))
	return out, log, nil
}
