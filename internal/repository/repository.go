package repository

import (
	"context"

	"launch_notifier/internal/config"
	"launch_notifier/internal/models"
)

// LaunchRepo is the read side of the launch schedule.
type LaunchRepo interface {
	Upcoming(ctx context.Context) ([]models.LaunchRecord, error)
}

type Repository struct {
	Launches LaunchRepo
}

func NewRepository(cfg config.LaunchConfig) (*Repository, error) {
	client, err := NewLaunchLibraryClient(ClientOptions{
		APIURL:   cfg.APIURL,
		Provider: cfg.Provider,
		Limit:    cfg.Limit,
		Timeout:  cfg.Timeout,
		Sites:    SiteResolver{Site: cfg.Site, Keywords: cfg.SiteKeywords},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{Launches: client}, nil
}
