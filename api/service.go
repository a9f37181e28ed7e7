package api

import (
	"context"
	"time"

	"cheersbot/celebrate"
	"cheersbot/db"
	"cheersbot/resolver"
	"cheersbot/slack"
)

// Store is what the slash-command handlers need from the identity
// store. Kept narrow so tests can substitute an in-memory fake.
type Store interface {
	GetByUserID(userID string) (*db.Profile, error)
	UpsertDate(userID, email string, kind celebrate.Kind, date string) error
	ClearDate(userID string, kind celebrate.Kind) (bool, error)
	ListCelebrations(kind celebrate.Kind) ([]celebrate.Entry, error)
	CelebrationFor(userID string, kind celebrate.Kind) (*celebrate.Entry, error)
}

// ProfileAdmin is the wider store surface behind the REST admin API.
type ProfileAdmin interface {
	ListProfiles() ([]db.Profile, error)
	GetProfileByID(id uint) (*db.Profile, error)
	GetByEmail(email string) (*db.Profile, error)
	CreateProfile(p *db.Profile) error
	UpdateProfile(p *db.Profile) error
	DeleteProfile(id uint) (bool, error)
	UpdateCelebrationConfig(profileID uint, kind celebrate.Kind, message, image string) error
	ListCelebrations(kind celebrate.Kind) ([]celebrate.Entry, error)
}

// UserResolver is the disambiguation engine; see package resolver.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (resolver.Resolution, error)
}

// Poster force-posts today's celebrations, used by the run subcommand.
type Poster interface {
	PostToday(ctx context.Context, kind celebrate.Kind) (int, error)
}

// MemberDirectory fills in profile cards for members who resolve to a
// platform id but have no stored record.
type MemberDirectory interface {
	GetMemberByID(ctx context.Context, id string) (*slack.Member, error)
}

// App wires the handlers to their collaborators. Everything is
// constructor-injected; the handlers never touch globals.
type App struct {
	store    Store
	profiles ProfileAdmin
	resolver UserResolver
	poster   Poster
	dir      MemberDirectory
	loc      *time.Location
	now      func() time.Time
	baseURL  string
}

type Deps struct {
	Store         Store
	Profiles      ProfileAdmin
	Resolver      UserResolver
	Poster        Poster
	Directory     MemberDirectory
	Location      *time.Location
	Now           func() time.Time
	PublicBaseURL string
}

func NewApp(deps Deps) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &App{
		store:    deps.Store,
		profiles: deps.Profiles,
		resolver: deps.Resolver,
		poster:   deps.Poster,
		dir:      deps.Directory,
		loc:      deps.Location,
		now:      deps.Now,
		baseURL:  deps.PublicBaseURL,
	}
}
