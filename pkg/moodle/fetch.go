package moodle

import (
	"context"
	"errors"
	"io"

	"manabify/pkg/cache"
	"manabify/pkg/config"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

// ErrNoCourses means the dashboard rendered but listed no course links
var ErrNoCourses = errors.New("no courses found on the dashboard")

// FetchCourses discovers the dashboard courses and loads their schedules using the
// configured site, session, cache backend and concurrency.
func FetchCourses(ctx context.Context, cfg *config.AppConfig) ([]timetable.Course, error) {
	session := cfg.Session()
	if session == "" {
		return nil, ErrNotLoggedIn
	}

	client, err := NewClient(cfg.BaseURL, session)
	if err != nil {
		return nil, err
	}

	var dashboard Renderer = client
	if cfg.UseBrowser {
		browser := NewBrowserRenderer(session, "")
		defer browser.Close()
		dashboard = browser
	}

	infos, err := Discover(ctx, dashboard, client.BaseURL())
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNoCourses
	}

	store, err := cache.Open(cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	parser := schedule.NewParser(schedule.ParseLang(cfg.Language))
	return NewLoader(client, store, parser, cfg.Workers()).Load(ctx, infos)
}
