package db

import "testing"

var roster = []Profile{
	{Name: "Jane Doe", Email: "jane.doe@acme.com"},
	{Name: "Jane Smith", Email: "jane.smith@acme.com"},
	{Name: "John Smith", Email: "john.smith@acme.com"},
	{Name: "Maya Jane", Email: "maya.jane@acme.com"},
	{Name: "Arjun Sharma", Email: "arjun@acme.com"},
}

func names(profiles []Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

func TestFindCandidatesTieBreakOrder(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		// Exact full name beats everything, even though "jane" alone
		// would fan out to three people.
		{"exact full name", "Jane Doe", []string{"Jane Doe"}},
		{"exact full name case-insensitive", "jane smith", []string{"Jane Smith"}},
		{"exact email", "arjun@acme.com", []string{"Arjun Sharma"}},
		// An email-shaped term falls through to the local-part prefix
		// before any name matching happens.
		{"email local-part prefix", "jane.doe@old-domain.com", []string{"Jane Doe"}},
		// First-name matches accumulate, then last-name matches.
		{"first name fan-out", "jane", []string{"Jane Doe", "Jane Smith", "Maya Jane"}},
		{"last name", "smith", []string{"Jane Smith", "John Smith"}},
		{"first and last pair", "arjun sharma", []string{"Arjun Sharma"}},
		{"no match", "nobody", nil},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(FindCandidates(roster, tt.term))
			if len(got) != len(tt.want) {
				t.Fatalf("FindCandidates(%q) = %v, want %v", tt.term, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("FindCandidates(%q) = %v, want %v", tt.term, got, tt.want)
				}
			}
		})
	}
}

func TestFindCandidatesDeduplicatesAcrossRules(t *testing.T) {
	// "Jane Jane" would match the same person by first and last name.
	profiles := []Profile{{Name: "Jane Jane", Email: "jj@acme.com"}}

	got := FindCandidates(profiles, "jane")
	if len(got) != 1 {
		t.Fatalf("expected one deduplicated candidate, got %d", len(got))
	}
}
