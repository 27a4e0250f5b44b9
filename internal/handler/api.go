package handler

import (
	"log/slog"

	"github.com/goaltracker/internal/app"
	"github.com/goaltracker/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	weeks   *service.WeekService
	goals   *service.GoalService
	archive *service.ArchiveService
	recaps  *service.RecapService
	events  *service.EventService
	feed    *service.ChangeFeed
	logger  *slog.Logger
}

// NewAPI constructs a handler set from the application services.
func NewAPI(a *app.App) *API {
	log := a.Logger
	if log == nil {
		log = slog.Default()
	}
	return &API{
		weeks:   a.Weeks,
		goals:   a.Goals,
		archive: a.Archive,
		recaps:  a.Recaps,
		events:  a.Events,
		feed:    a.Feed,
		logger:  log,
	}
}
