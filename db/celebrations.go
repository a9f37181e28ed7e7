package db

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"cheersbot/celebrate"
	"cheersbot/utils"
)

func dateColumn(kind celebrate.Kind) string {
	if kind == celebrate.Anniversary {
		return "join_date"
	}
	return "dob"
}

const entrySelect = `profiles.user_id AS user_id,
profiles.name AS name,
profiles.email AS email,
profiles.%s AS date,
COALESCE(celebration_configs.message, '') AS message,
COALESCE(NULLIF(celebration_configs.image, ''), profiles.image, '') AS image,
COALESCE(celebration_configs.last_celebrated_date, '') AS last_celebrated_date`

// UpsertDate stores a celebration date for whichever identity fragment
// resolution produced: an existing linked record, an email-only record
// (which gets the userID written back), or a brand-new record created
// implicitly. The date is normalized to MM/DD/YYYY before it is stored.
func (s *Store) UpsertDate(userID, email string, kind celebrate.Kind, date string) error {
	normalized, err := utils.NormalizeDate(date)
	if err != nil {
		return fmt.Errorf("UpsertDate: %w", err)
	}

	profile, err := s.GetByUserID(userID)
	if err != nil {
		return fmt.Errorf("UpsertDate: %w", err)
	}

	if profile == nil && email != "" {
		profile, err = s.GetByEmail(email)
		if err != nil {
			return fmt.Errorf("UpsertDate: %w", err)
		}
		if profile != nil {
			profile.UserID = userID
		}
	}

	if profile == nil {
		profile = &Profile{UserID: userID, Email: email}
		if err := s.CreateProfile(profile); err != nil {
			return fmt.Errorf("UpsertDate: %w", err)
		}
	}

	switch kind {
	case celebrate.Anniversary:
		profile.JoinDate = normalized
	default:
		profile.DOB = normalized
	}
	if err := s.UpdateProfile(profile); err != nil {
		return fmt.Errorf("UpsertDate: %w", err)
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(&CelebrationConfig{
		ProfileID: profile.ID,
		Kind:      string(kind),
		AddedAt:   time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("UpsertDate: %w", err)
	}

	return nil
}

// ClearDate removes the stored date and celebration state for a kind.
// The profile record, including any linked userID, stays alive.
func (s *Store) ClearDate(userID string, kind celebrate.Kind) (bool, error) {
	profile, err := s.GetByUserID(userID)
	if err != nil {
		return false, fmt.Errorf("ClearDate: %w", err)
	}
	if profile == nil {
		return false, nil
	}

	had := false
	switch kind {
	case celebrate.Anniversary:
		had = profile.JoinDate != ""
		profile.JoinDate = ""
	default:
		had = profile.DOB != ""
		profile.DOB = ""
	}
	if err := s.UpdateProfile(profile); err != nil {
		return false, fmt.Errorf("ClearDate: %w", err)
	}

	err = s.db.Delete(&CelebrationConfig{}, "profile_id = ? AND kind = ?", profile.ID, string(kind)).Error
	if err != nil {
		return false, fmt.Errorf("ClearDate: %w", err)
	}

	return had, nil
}

// MarkCelebrated sets the dedup guard with a conditional write, so two
// overlapping scheduler runs cannot both claim the post. Returns false
// when the guard was already set to isoDate (or no config row exists).
func (s *Store) MarkCelebrated(userID string, kind celebrate.Kind, isoDate string) (bool, error) {
	sub := s.db.Model(&Profile{}).Select("id").Where("user_id = ?", userID)
	res := s.db.Model(&CelebrationConfig{}).
		Where("kind = ? AND profile_id IN (?)", string(kind), sub).
		Where("last_celebrated_date IS NULL OR last_celebrated_date <> ?", isoDate).
		Update("last_celebrated_date", isoDate)
	if res.Error != nil {
		return false, fmt.Errorf("MarkCelebrated: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListCelebrations returns one entry per profile with a stored date for
// the kind, ordered by name.
func (s *Store) ListCelebrations(kind celebrate.Kind) ([]celebrate.Entry, error) {
	var entries []celebrate.Entry
	col := dateColumn(kind)
	err := s.db.Table("profiles").
		Select(fmt.Sprintf(entrySelect, col)).
		Joins("LEFT JOIN celebration_configs ON celebration_configs.profile_id = profiles.id AND celebration_configs.kind = ?", string(kind)).
		Where(fmt.Sprintf("profiles.%s <> ''", col)).
		Order("profiles.name").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("ListCelebrations: %w", err)
	}
	return entries, nil
}

// CelebrationFor returns the entry for one linked user, or nil when the
// user has no stored date for the kind.
func (s *Store) CelebrationFor(userID string, kind celebrate.Kind) (*celebrate.Entry, error) {
	var entries []celebrate.Entry
	col := dateColumn(kind)
	err := s.db.Table("profiles").
		Select(fmt.Sprintf(entrySelect, col)).
		Joins("LEFT JOIN celebration_configs ON celebration_configs.profile_id = profiles.id AND celebration_configs.kind = ?", string(kind)).
		Where(fmt.Sprintf("profiles.user_id = ? AND profiles.%s <> ''", col), userID).
		Limit(1).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("CelebrationFor: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// UpdateCelebrationConfig upserts the custom message/image for a
// profile and kind, used by the admin API.
func (s *Store) UpdateCelebrationConfig(profileID uint, kind celebrate.Kind, message, image string) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "image"}),
	}).Create(&CelebrationConfig{
		ProfileID: profileID,
		Kind:      string(kind),
		Message:   message,
		Image:     image,
		AddedAt:   time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("UpdateCelebrationConfig: %w", err)
	}
	return nil
}
