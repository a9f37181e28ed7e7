package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cheersbot/celebrate"
	"cheersbot/db"
	"cheersbot/resolver"
	"cheersbot/scheduler"
	"cheersbot/slack"
)

type fakeStore struct {
	profiles map[string]*db.Profile

	upserts []string // "userID email kind date"
	cleared map[string]bool
	entries []celebrate.Entry
}

func (f *fakeStore) GetByUserID(userID string) (*db.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeStore) UpsertDate(userID, email string, kind celebrate.Kind, date string) error {
	f.upserts = append(f.upserts, strings.Join([]string{userID, email, string(kind), date}, " "))
	return nil
}

func (f *fakeStore) ClearDate(userID string, kind celebrate.Kind) (bool, error) {
	return f.cleared[userID], nil
}

func (f *fakeStore) ListCelebrations(kind celebrate.Kind) ([]celebrate.Entry, error) {
	return f.entries, nil
}

func (f *fakeStore) CelebrationFor(userID string, kind celebrate.Kind) (*celebrate.Entry, error) {
	for _, e := range f.entries {
		if e.UserID == userID {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

type fakeResolver struct {
	results map[string]resolver.Resolution
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (resolver.Resolution, error) {
	if f.err != nil {
		return resolver.Resolution{}, f.err
	}
	if res, ok := f.results[token]; ok {
		return res, nil
	}
	return resolver.Resolution{Outcome: resolver.NotFound}, nil
}

type fakePoster struct {
	posted int
	err    error
}

func (f *fakePoster) PostToday(ctx context.Context, kind celebrate.Kind) (int, error) {
	return f.posted, f.err
}

func newTestApp(store *fakeStore, res *fakeResolver, poster *fakePoster) *App {
	return NewApp(Deps{
		Store:    store,
		Resolver: res,
		Poster:   poster,
	})
}

func slashRequest(t *testing.T, app *App, command, text string) slashResponse {
	t.Helper()

	form := url.Values{}
	form.Set("command", command)
	form.Set("text", text)
	form.Set("user_id", "UCALLER")

	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	app.HandleSlashCommand(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp slashResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestBirthdayAddResolved(t *testing.T) {
	store := &fakeStore{}
	res := &fakeResolver{results: map[string]resolver.Resolution{
		"<@U111>": {
			Outcome: resolver.Resolved,
			UserID:  "U111",
			Member:  &db.Profile{Name: "Jane Doe", Email: "jane@acme.com"},
		},
	}}
	app := newTestApp(store, res, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "add <@U111> 3/15/1990")

	if resp.ResponseType != "in_channel" {
		t.Errorf("response_type = %q, want in_channel", resp.ResponseType)
	}
	if !strings.Contains(resp.Text, "<@U111>") || !strings.Contains(resp.Text, "03/15/1990") {
		t.Errorf("unexpected confirmation: %q", resp.Text)
	}
	if len(store.upserts) != 1 || store.upserts[0] != "U111 jane@acme.com birthday 03/15/1990" {
		t.Errorf("upserts = %v", store.upserts)
	}

	// Date-first argument order is accepted too.
	resp = slashRequest(t, app, "/birthday", "add 3/15/1990 <@U111>")
	if resp.ResponseType != "in_channel" {
		t.Errorf("reversed-order add failed: %q", resp.Text)
	}
}

func TestBirthdayAddInvalidDateBeforeResolution(t *testing.T) {
	res := &fakeResolver{err: context.DeadlineExceeded} // would fail if called
	app := newTestApp(&fakeStore{}, res, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "add <@U111> 99/99/9999")

	if resp.ResponseType != "ephemeral" || !strings.Contains(resp.Text, "MM/DD/YYYY") {
		t.Errorf("expected a date-format rejection, got %q", resp.Text)
	}
}

func TestBirthdayAddAmbiguous(t *testing.T) {
	res := &fakeResolver{results: map[string]resolver.Resolution{
		"jane": {
			Outcome: resolver.Ambiguous,
			Candidates: []db.Profile{
				{Name: "Jane Doe", Email: "jane.doe@acme.com"},
				{Name: "Jane Smith", Email: "jane.smith@acme.com"},
			},
		},
	}}
	app := newTestApp(&fakeStore{}, res, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "add jane 3/15/1990")

	if resp.ResponseType != "ephemeral" {
		t.Errorf("disambiguation must be ephemeral, got %q", resp.ResponseType)
	}
	if !strings.Contains(resp.Text, "1. Jane Doe (jane.doe@acme.com)") ||
		!strings.Contains(resp.Text, "2. Jane Smith (jane.smith@acme.com)") {
		t.Errorf("candidate list missing from %q", resp.Text)
	}
}

func TestBirthdayAddUnlinked(t *testing.T) {
	res := &fakeResolver{results: map[string]resolver.Resolution{
		"jane": {
			Outcome: resolver.Unlinked,
			Member:  &db.Profile{Name: "Jane Doe", Email: "jane@acme.com"},
		},
	}}
	store := &fakeStore{}
	app := newTestApp(store, res, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "add jane 3/15/1990")

	if !strings.Contains(resp.Text, "Jane Doe") || !strings.Contains(resp.Text, "Copy member ID") {
		t.Errorf("expected linking instructions, got %q", resp.Text)
	}
	if len(store.upserts) != 0 {
		t.Errorf("unlinked outcome must not store anything, got %v", store.upserts)
	}
}

func TestBirthdayAddNotFound(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeResolver{}, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "add nobody 3/15/1990")

	if !strings.Contains(resp.Text, "valid user") {
		t.Errorf("expected the invalid-user message, got %q", resp.Text)
	}
}

func TestBirthdayListSkipsUnlinked(t *testing.T) {
	store := &fakeStore{entries: []celebrate.Entry{
		{UserID: "U1", Date: "03/15/1990"},
		{UserID: "", Date: "04/01/1990"},
	}}
	app := newTestApp(store, &fakeResolver{}, &fakePoster{})

	resp := slashRequest(t, app, "/birthday", "list")

	if !strings.Contains(resp.Text, "<@U1>") {
		t.Errorf("linked entry missing from %q", resp.Text)
	}
	if strings.Contains(resp.Text, "04/01/1990") {
		t.Errorf("unlinked entry leaked into %q", resp.Text)
	}
}

func TestAnniversaryDelete(t *testing.T) {
	res := &fakeResolver{results: map[string]resolver.Resolution{
		"<@U111>": {Outcome: resolver.Resolved, UserID: "U111"},
	}}

	store := &fakeStore{cleared: map[string]bool{"U111": true}}
	app := newTestApp(store, res, &fakePoster{})
	resp := slashRequest(t, app, "/anniversary", "delete <@U111>")
	if !strings.Contains(resp.Text, "Deleted anniversary for <@U111>") {
		t.Errorf("got %q", resp.Text)
	}

	store = &fakeStore{cleared: map[string]bool{}}
	app = newTestApp(store, res, &fakePoster{})
	resp = slashRequest(t, app, "/anniversary", "delete <@U111>")
	if !strings.Contains(resp.Text, "No anniversary found") {
		t.Errorf("got %q", resp.Text)
	}
}

func TestBirthdayRun(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeResolver{}, &fakePoster{posted: 2})
	resp := slashRequest(t, app, "/birthday", "run")
	if !strings.Contains(resp.Text, "Posted today's birthdays") {
		t.Errorf("got %q", resp.Text)
	}

	app = newTestApp(&fakeStore{}, &fakeResolver{}, &fakePoster{err: scheduler.ErrNoChannel})
	resp = slashRequest(t, app, "/birthday", "run")
	if !strings.Contains(resp.Text, "BIRTHDAY_CHANNEL_ID") {
		t.Errorf("expected the channel hint, got %q", resp.Text)
	}
}

func TestProfileCommandSelf(t *testing.T) {
	store := &fakeStore{profiles: map[string]*db.Profile{
		"UCALLER": {Name: "Jane Doe", Email: "jane@acme.com", UserID: "UCALLER", Position: "Engineer"},
	}}
	app := newTestApp(store, &fakeResolver{}, &fakePoster{})

	resp := slashRequest(t, app, "/profile", "")

	if resp.ResponseType != "ephemeral" {
		t.Errorf("profile cards are ephemeral, got %q", resp.ResponseType)
	}
	if !strings.Contains(resp.Text, "Jane Doe") {
		t.Errorf("got %q", resp.Text)
	}
	if len(resp.Blocks) == 0 {
		t.Error("expected a block-rendered card")
	}
}

type fakeDirectory struct {
	members map[string]*slack.Member
}

func (f *fakeDirectory) GetMemberByID(ctx context.Context, id string) (*slack.Member, error) {
	return f.members[id], nil
}

func TestProfileCommandFallsBackToDirectory(t *testing.T) {
	res := &fakeResolver{results: map[string]resolver.Resolution{
		"<@U999>": {Outcome: resolver.Resolved, UserID: "U999"},
	}}
	app := NewApp(Deps{
		Store:    &fakeStore{},
		Resolver: res,
		Poster:   &fakePoster{},
		Directory: &fakeDirectory{members: map[string]*slack.Member{
			"U999": {ID: "U999", RealName: "Bob Stone", Email: "bob@acme.com"},
		}},
	})

	resp := slashRequest(t, app, "/profile", "<@U999>")

	if !strings.Contains(resp.Text, "Bob Stone") {
		t.Errorf("expected a directory-backed card, got %q", resp.Text)
	}
}

func TestUnknownCommand(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeResolver{}, &fakePoster{})
	resp := slashRequest(t, app, "/lunch", "")
	if !strings.Contains(resp.Text, "Unknown command") {
		t.Errorf("got %q", resp.Text)
	}
}
