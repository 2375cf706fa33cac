package moodle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"manabify/pkg/cache"
	"manabify/pkg/logger"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

// Loader fetches and parses course pages, several at a time, through a URL cache
type Loader struct {
	renderer Renderer
	store    cache.Store
	parser   *schedule.Parser
	workers  int
	log      zerolog.Logger
}

// NewLoader creates a loader. A nil store disables caching across runs.
func NewLoader(r Renderer, store cache.Store, parser *schedule.Parser, workers int) *Loader {
	if store == nil {
		store = cache.NewMemory()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Loader{
		renderer: r,
		store:    store,
		parser:   parser,
		workers:  workers,
		log:      logger.Component("loader"),
	}
}

// Load returns the courses that have timetable info, in the order of infos.
// Courses whose page cannot be fetched are skipped and remembered as failed.
func (l *Loader) Load(ctx context.Context, infos []CourseInfo) ([]timetable.Course, error) {
	results := make([]*timetable.Course, len(infos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, info := range infos {
		g.Go(func() error {
			course, err := l.loadOne(gctx, info)
			if errors.Is(err, ErrNotLoggedIn) {
				return err
			}
			results[i] = course
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var courses []timetable.Course
	for _, c := range results {
		if c == nil {
			continue
		}
		if len(c.Schedule) == 0 {
			l.log.Debug().Str("course", c.Name).Msg("course has no schedule")
			continue
		}
		courses = append(courses, *c)
	}
	return courses, nil
}

func (l *Loader) loadOne(ctx context.Context, info CourseInfo) (*timetable.Course, error) {
	rec, ok, err := l.store.Get(ctx, info.URL)
	if err != nil {
		l.log.Warn().Err(err).Str("url", info.URL).Msg("cache read failed")
	}
	if ok {
		if rec.Failed {
			return nil, nil
		}
		return l.course(info, rec.Summary), nil
	}

	page, err := l.renderer.Render(ctx, info.URL)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) || ctx.Err() != nil {
			return nil, err
		}
		l.log.Warn().Err(err).Str("course", info.Name).Msg("failed to fetch course detail")
		l.put(ctx, info.URL, cache.Record{Failed: true})
		return nil, nil
	}

	lines, err := ParseCourseSummary(strings.NewReader(page))
	if err != nil {
		l.log.Warn().Err(err).Str("course", info.Name).Msg("failed to parse course page")
		l.put(ctx, info.URL, cache.Record{Failed: true})
		return nil, nil
	}

	l.put(ctx, info.URL, cache.Record{Summary: lines})
	return l.course(info, lines), nil
}

// course parses the summary with the loader's own parser, cached or not
func (l *Loader) course(info CourseInfo, lines []string) *timetable.Course {
	course := &timetable.Course{
		Name:     info.Name,
		URL:      info.URL,
		Schedule: l.parser.Parse(lines),
	}
	l.log.Debug().Str("course", course.Name).Str("lang", string(l.parser.Lang())).Int("entries", len(course.Schedule)).Msg("course loaded")
	return course
}

func (l *Loader) put(ctx context.Context, url string, rec cache.Record) {
	rec.Timestamp = time.Now()
	if err := l.store.Put(ctx, url, rec); err != nil {
		l.log.Warn().Err(err).Str("url", url).Msg("cache write failed")
	}
}
