package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/watcher"
)

// WatchFunc receives the result of every analysis run in watch mode.
type WatchFunc func(project *graph.Project, err error)

// Watch analyzes root once, then again after every burst of source changes,
// until ctx is cancelled. Each run is a full, fresh analysis.
func (s *Scanner) Watch(ctx context.Context, root string, debounce time.Duration, fn WatchFunc) error {
	if _, err := resolveRoot(root); err != nil {
		return err
	}

	// The watch is in place before the first analysis so no change is missed.
	w, err := watcher.NewWatcher(watcher.WatcherConfig{
		Root:     root,
		Skip:     s.Skipped,
		Match:    s.Eligible,
		Debounce: debounce,
		Logger:   s.log,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	events, err := w.Start(ctx)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	project, err := s.Analyze(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	fn(project, nil)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			s.log.WithField("file", evt.Path).WithField("op", evt.Op.String()).Debug("change detected")
			drain(events)

			project, err := s.Analyze(ctx, root)
			if ctx.Err() != nil {
				return nil
			}
			fn(project, err)
		}
	}
}

// drain discards events already queued so a burst triggers one analysis.
func drain(events <-chan watcher.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
