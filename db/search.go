package db

import "strings"

// SearchByNameOrEmail runs the fuzzy identity matcher over all stored
// profiles. The returned order follows the store order (by name).
func (s *Store) SearchByNameOrEmail(term string) ([]Profile, error) {
	profiles, err := s.ListProfiles()
	if err != nil {
		return nil, err
	}
	return FindCandidates(profiles, term), nil
}

// FindCandidates is the matcher itself, kept free of database access.
//
// Checked in order, first non-empty result wins:
//  1. exact full-name equality (case-insensitive)
//  2. exact email equality
//  3. email local-part prefix (term contains an @)
//
// Those three short-circuit with at most one result. After them, exact
// first-name, exact last-name and first+last pair matches accumulate
// into one candidate set, deduplicated by email.
func FindCandidates(profiles []Profile, term string) []Profile {
	search := strings.ToLower(strings.TrimSpace(term))
	if search == "" {
		return nil
	}

	for _, p := range profiles {
		if strings.ToLower(p.Name) == search {
			return []Profile{p}
		}
	}

	for _, p := range profiles {
		if p.Email != "" && strings.ToLower(p.Email) == search {
			return []Profile{p}
		}
	}

	if local, _, found := strings.Cut(search, "@"); found && local != "" {
		for _, p := range profiles {
			if strings.HasPrefix(strings.ToLower(p.Email), local+"@") {
				return []Profile{p}
			}
		}
	}

	var matches []Profile

	for _, p := range profiles {
		if firstToken(p.Name) == search {
			matches = append(matches, p)
		}
	}

	for _, p := range profiles {
		if lastToken(p.Name) == search {
			matches = append(matches, p)
		}
	}

	searchParts := strings.Fields(search)
	if len(searchParts) >= 2 {
		first, last := searchParts[0], searchParts[len(searchParts)-1]
		for _, p := range profiles {
			nameParts := strings.Fields(strings.ToLower(p.Name))
			if len(nameParts) >= 2 && nameParts[0] == first && nameParts[len(nameParts)-1] == last {
				matches = append(matches, p)
			}
		}
	}

	return dedupeByEmail(matches)
}

func firstToken(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func lastToken(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func dedupeByEmail(profiles []Profile) []Profile {
	var out []Profile
	seen := make(map[string]bool)
	for _, p := range profiles {
		key := strings.ToLower(p.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
