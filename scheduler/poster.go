package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cheersbot/celebrate"
	"cheersbot/slack"
)

// ErrNoChannel means no channel is configured for the celebration kind.
var ErrNoChannel = errors.New("no channel configured")

// Store is the slice of the identity store the poster needs.
type Store interface {
	ListCelebrations(kind celebrate.Kind) ([]celebrate.Entry, error)
	MarkCelebrated(userID string, kind celebrate.Kind, isoDate string) (bool, error)
}

// Chat posts rendered celebration messages.
type Chat interface {
	PostMessage(ctx context.Context, channel, text string, blocks []slack.Block) error
}

// Poster finds today's celebrations and posts them. It is shared by the
// cron job and the force-run subcommand; the dedup guard makes running
// it twice for the same day harmless.
type Poster struct {
	store    Store
	chat     Chat
	channels map[celebrate.Kind]string
	baseURL  string
	loc      *time.Location
	now      func() time.Time
}

func NewPoster(store Store, chat Chat, channels map[celebrate.Kind]string, baseURL string, loc *time.Location, now func() time.Time) *Poster {
	if now == nil {
		now = time.Now
	}
	return &Poster{
		store:    store,
		chat:     chat,
		channels: channels,
		baseURL:  baseURL,
		loc:      loc,
		now:      now,
	}
}

// PostToday posts every unposted celebration of the kind whose stored
// month+day matches today in the target timezone. Returns the number of
// messages posted.
func (p *Poster) PostToday(ctx context.Context, kind celebrate.Kind) (int, error) {
	channel := p.channels[kind]
	if channel == "" {
		return 0, ErrNoChannel
	}

	entries, err := p.store.ListCelebrations(kind)
	if err != nil {
		return 0, fmt.Errorf("PostToday: %w", err)
	}

	today := celebrate.TodayIn(p.loc, p.now)
	posted := 0
	for _, e := range celebrate.TodaysMatches(entries, today) {
		text, blocks := celebrate.RenderBlocks(e, kind, e.Date, p.baseURL)
		if err := p.chat.PostMessage(ctx, channel, text, blocks); err != nil {
			log.Printf("[ERROR] failed to post %s for %s: %v", kind, e.UserID, err)
			continue
		}

		p.markCelebrated(e.UserID, kind, today.ISO)
		posted++
		log.Printf("[INFO] posted %s for %s on %s", kind, e.UserID, today.ISO)
	}

	return posted, nil
}

// markCelebrated sets the dedup guard, retrying once on failure. A
// second failure is logged as a soft failure; the worst case is one
// duplicate post on the next run.
func (p *Poster) markCelebrated(userID string, kind celebrate.Kind, isoDate string) {
	if _, err := p.store.MarkCelebrated(userID, kind, isoDate); err != nil {
		log.Printf("[WARN] mark-celebrated failed for %s, retrying: %v", userID, err)
		if _, err := p.store.MarkCelebrated(userID, kind, isoDate); err != nil {
			log.Printf("[ERROR] mark-celebrated failed for %s: %v", userID, err)
		}
	}
}
