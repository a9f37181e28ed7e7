package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"cheersbot/celebrate"
)

// Scheduler fires the daily celebration posts at the configured wall
// time in the target timezone.
type Scheduler struct {
	poster   *Poster
	postTime string
	loc      *time.Location
	cron     *cron.Cron
}

func New(poster *Poster, postTime string, loc *time.Location) *Scheduler {
	return &Scheduler{
		poster:   poster,
		postTime: postTime,
		loc:      loc,
	}
}

// Start registers the daily job and launches the cron loop. Superseded
// or overlapping runs are safe: the dedup guard turns repeats into
// no-ops.
func (s *Scheduler) Start() error {
	spec, err := cronSpec(s.postTime)
	if err != nil {
		return err
	}

	s.cron = cron.New(cron.WithLocation(s.loc))
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule celebration job: %w", err)
	}

	s.cron.Start()
	log.Printf("[INFO] Scheduler started: daily celebration post at %s (%s)", s.postTime, s.loc)

	// Catch-up run for restarts after the post time. The dedup guard
	// makes this a no-op when today was already posted.
	go s.runOnce()

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, kind := range []celebrate.Kind{celebrate.Birthday, celebrate.Anniversary} {
		n, err := s.poster.PostToday(ctx, kind)
		if err == ErrNoChannel {
			log.Printf("[WARN] no channel configured for %s posts, skipping", kind)
			continue
		}
		if err != nil {
			log.Printf("[ERROR] scheduled %s run failed: %v", kind, err)
			continue
		}
		if n > 0 {
			log.Printf("[INFO] scheduled run posted %d %s celebration(s)", n, kind)
		}
	}
}

// cronSpec converts an HH:MM wall time into a daily cron expression.
func cronSpec(postTime string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(postTime))
	if err != nil {
		return "", fmt.Errorf("invalid post time %q, expected HH:MM: %w", postTime, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
