// Package resolver turns a free-text person reference (a mention, a
// raw user id, a name fragment or an email) into exactly one canonical
// team-member record.
//
// Resolution is mostly read-oriented but NOT read-only: when it can
// prove a local record and a directory member are the same person it
// writes the discovered user id back onto the record (self-healing the
// link). The write-back is idempotent; resolving the same token twice
// yields the same stored link.
package resolver

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"cheersbot/db"
	"cheersbot/slack"
)

// ErrEmptyToken rejects empty or punctuation-only input before any
// resolution rule runs.
var ErrEmptyToken = errors.New("empty resolution token")

// Outcome tags the four terminal resolution results. Ambiguous and
// not-found are values, never errors.
type Outcome int

const (
	// Resolved carries a platform user id. Member is attached when a
	// local record was involved, nil for bare directory-only ids.
	Resolved Outcome = iota
	// Unlinked means exactly one local record matched but it has no
	// platform id and the directory could not supply one. The caller
	// should prompt for manual linking.
	Unlinked
	// Ambiguous carries the ordered candidate list; the caller must ask
	// the user to be more specific.
	Ambiguous
	// NotFound means neither the store nor the directory knows the term.
	NotFound
)

type Resolution struct {
	Outcome    Outcome
	UserID     string
	Member     *db.Profile
	Candidates []db.Profile
}

// IdentityStore is the slice of the profile store resolution needs.
// Lookup misses are (nil, nil); errors mean the store itself failed.
type IdentityStore interface {
	GetByEmail(email string) (*db.Profile, error)
	SearchByNameOrEmail(term string) ([]db.Profile, error)
	LinkUserID(email, userID string) (bool, error)
}

// Directory is the remote workspace directory. Failures are treated as
// a miss, never surfaced as resolution errors.
type Directory interface {
	ListActiveMembers(ctx context.Context) ([]slack.Member, error)
}

type Resolver struct {
	store IdentityStore
	dir   Directory
}

func New(store IdentityStore, dir Directory) *Resolver {
	return &Resolver{store: store, dir: dir}
}

var (
	mentionRe = regexp.MustCompile(`(?i)^<@([A-Z0-9]+)(?:\|[^>]+)?>$`)
	rawIDRe   = regexp.MustCompile(`(?i)^@?U[A-Z0-9]+$`)
)

// Resolve applies the resolution rules in strict priority order:
//
//  1. mention syntax <@U123> or <@U123|label> — embedded id returned
//     immediately, no store or directory call
//  2. raw id shape U123 / @U123 — accepted as-is
//  3. local fuzzy search, with a directory-assisted self-healing link
//     for single unlinked matches
//  4. directory fallback by handle/display/real name, reconciled back
//     onto a local record by email, then by unique name
//
// An error is returned only for invalid input or a store failure; a
// directory outage degrades to a miss.
func (r *Resolver) Resolve(ctx context.Context, token string) (Resolution, error) {
	token = strings.TrimSpace(token)
	if token == "" || strings.Trim(token, "@<>|`'\".,;:!?") == "" {
		return Resolution{}, ErrEmptyToken
	}

	if m := mentionRe.FindStringSubmatch(token); m != nil {
		return Resolution{Outcome: Resolved, UserID: strings.ToUpper(m[1])}, nil
	}

	if rawIDRe.MatchString(token) {
		return Resolution{Outcome: Resolved, UserID: strings.ToUpper(strings.TrimPrefix(token, "@"))}, nil
	}

	term := strings.TrimPrefix(token, "@")

	candidates, err := r.store.SearchByNameOrEmail(term)
	if err != nil {
		return Resolution{}, err
	}

	switch len(candidates) {
	case 0:
		return r.directoryFallback(ctx, term)
	case 1:
		return r.resolveSingle(ctx, term, candidates[0])
	default:
		return Resolution{Outcome: Ambiguous, Candidates: candidates}, nil
	}
}

// resolveSingle handles exactly one local match: linked records resolve
// directly, unlinked ones get a directory-assisted link attempt.
func (r *Resolver) resolveSingle(ctx context.Context, term string, match db.Profile) (Resolution, error) {
	if match.UserID != "" {
		return Resolution{Outcome: Resolved, UserID: match.UserID, Member: &match}, nil
	}

	member := r.findDirectoryMember(ctx, func(m slack.Member) bool {
		return equalsName(m, term) ||
			(m.Email != "" && strings.EqualFold(m.Email, term)) ||
			(match.Email != "" && strings.EqualFold(m.Email, match.Email))
	})
	if member == nil {
		return Resolution{Outcome: Unlinked, Member: &match}, nil
	}

	r.writeBack(match.Email, member.ID)
	match.UserID = member.ID
	return Resolution{Outcome: Resolved, UserID: member.ID, Member: &match}, nil
}

// directoryFallback runs when local search found nothing: an active
// directory member whose handle, display name or real name equals the
// term is reconciled with a local record by email first, then by a
// unique name match, before falling back to a bare id.
func (r *Resolver) directoryFallback(ctx context.Context, term string) (Resolution, error) {
	member := r.findDirectoryMember(ctx, func(m slack.Member) bool {
		return equalsName(m, term)
	})
	if member == nil {
		return Resolution{Outcome: NotFound}, nil
	}

	if member.Email != "" {
		local, err := r.store.GetByEmail(member.Email)
		if err != nil {
			return Resolution{}, err
		}
		if local != nil {
			r.writeBack(local.Email, member.ID)
			local.UserID = member.ID
			return Resolution{Outcome: Resolved, UserID: member.ID, Member: local}, nil
		}
	}

	if member.RealName != "" {
		locals, err := r.store.SearchByNameOrEmail(member.RealName)
		if err != nil {
			return Resolution{}, err
		}
		if len(locals) == 1 && locals[0].Email != "" {
			local := locals[0]
			r.writeBack(local.Email, member.ID)
			local.UserID = member.ID
			return Resolution{Outcome: Resolved, UserID: member.ID, Member: &local}, nil
		}
	}

	return Resolution{Outcome: Resolved, UserID: member.ID}, nil
}

// findDirectoryMember lists active members and returns the first one
// accepted by match. A directory outage logs and returns nil.
func (r *Resolver) findDirectoryMember(ctx context.Context, match func(slack.Member) bool) *slack.Member {
	members, err := r.dir.ListActiveMembers(ctx)
	if err != nil {
		log.Printf("[WARN] resolver: directory lookup failed, continuing with local data only: %v", err)
		return nil
	}

	for _, m := range members {
		if m.IsDeleted || m.IsBot {
			continue
		}
		if match(m) {
			member := m
			return &member
		}
	}
	return nil
}

// writeBack links the discovered id onto the record keyed by email,
// retrying once on a write conflict. A second failure is logged and
// swallowed: the resolution itself already succeeded.
func (r *Resolver) writeBack(email, userID string) {
	if email == "" {
		return
	}
	if _, err := r.store.LinkUserID(email, userID); err != nil {
		log.Printf("[WARN] resolver: link write-back failed for %s, retrying: %v", email, err)
		if _, err := r.store.LinkUserID(email, userID); err != nil {
			log.Printf("[ERROR] resolver: link write-back failed for %s: %v", email, err)
		}
	}
}

func equalsName(m slack.Member, term string) bool {
	return strings.EqualFold(m.Handle, term) ||
		strings.EqualFold(m.DisplayName, term) ||
		strings.EqualFold(m.RealName, term)
}
