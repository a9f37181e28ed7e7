package celebrate

import (
	"testing"
	"time"
)

func TestTodayInPinsTimezone(t *testing.T) {
	ktm, err := time.LoadLocation("Asia/Kathmandu")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 2024-03-14 20:00 UTC is already 2024-03-15 in Kathmandu (UTC+5:45).
	utcEvening := func() time.Time {
		return time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)
	}

	today := TodayIn(ktm, utcEvening)
	if today.ISO != "2024-03-15" || today.Month != 3 || today.Day != 15 {
		t.Errorf("TodayIn = %+v, want 2024-03-15", today)
	}
}

func TestTodaysMatchesYearIndependent(t *testing.T) {
	today := Today{ISO: "2024-03-15", Month: 3, Day: 15}

	entries := []Entry{
		{UserID: "U1", Date: "03/15/1990"},
		{UserID: "U2", Date: "03/15/2020"},
		{UserID: "U3", Date: "03/16/1990"},
		{UserID: "U4", Date: "12/15/1990"},
	}

	got := TodaysMatches(entries, today)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].UserID != "U1" || got[1].UserID != "U2" {
		t.Errorf("matched %s, %s; want U1, U2", got[0].UserID, got[1].UserID)
	}
}

func TestTodaysMatchesDedupGuard(t *testing.T) {
	today := Today{ISO: "2024-03-15", Month: 3, Day: 15}

	entries := []Entry{
		{UserID: "U1", Date: "03/15/1990", LastCelebratedDate: "2024-03-15"},
		{UserID: "U2", Date: "03/15/1990", LastCelebratedDate: "2023-03-15"},
		{UserID: "U3", Date: "03/15/1990"},
	}

	got := TodaysMatches(entries, today)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (U1 already celebrated today)", len(got))
	}
	for _, e := range got {
		if e.UserID == "U1" {
			t.Error("U1 was already celebrated today and must be skipped")
		}
	}
}

func TestTodaysMatchesSkipsBadEntries(t *testing.T) {
	today := Today{ISO: "2024-03-15", Month: 3, Day: 15}

	entries := []Entry{
		{UserID: "", Date: "03/15/1990"},
		{UserID: "U1", Date: ""},
		{UserID: "U2", Date: "not-a-date"},
		{UserID: "U3", Date: "03/15/1990"},
	}

	got := TodaysMatches(entries, today)
	if len(got) != 1 || got[0].UserID != "U3" {
		t.Fatalf("got %v, want only U3", got)
	}
}

func TestRenderBlocksUsesCustomMessageAndImage(t *testing.T) {
	e := Entry{
		UserID:  "U1",
		Name:    "Jane Doe",
		Date:    "03/15/1990",
		Message: "Happy day, Jane!",
		Image:   "jane.png",
	}

	text, blocks := RenderBlocks(e, Birthday, e.Date, "https://bot.example.com")
	if text != Headline(Birthday, "U1") {
		t.Errorf("fallback text = %q", text)
	}

	var sawImage, sawMessage bool
	for _, b := range blocks {
		if b.Type == "image" && b.ImageURL == "https://bot.example.com/assets/jane.png" {
			sawImage = true
		}
		if b.Type == "section" && b.Text != nil && b.Text.Text == "Happy day, Jane!" {
			sawMessage = true
		}
	}
	if !sawImage {
		t.Error("expected an image block pointing at /assets/jane.png")
	}
	if !sawMessage {
		t.Error("expected the custom message section")
	}
}

func TestRenderBlocksFallsBackToDefaultMessage(t *testing.T) {
	e := Entry{UserID: "U1", Date: "06/01/2019"}

	_, blocks := RenderBlocks(e, Anniversary, e.Date, "")

	want := DefaultMessage(Anniversary, "U1")
	var found bool
	for _, b := range blocks {
		if b.Type == "section" && b.Text != nil && b.Text.Text == want {
			found = true
		}
	}
	if !found {
		t.Error("expected the default anniversary message section")
	}
}
