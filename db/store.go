package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store is the identity store. Lookups that miss return (nil, nil) so
// callers can distinguish "no such member" from a database failure.
type Store struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

func (s *Store) GetProfileByID(id uint) (*Profile, error) {
	var p Profile
	err := s.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetProfileByID: %w", err)
	}
	return &p, nil
}

func (s *Store) GetByUserID(userID string) (*Profile, error) {
	var p Profile
	err := s.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	return &p, nil
}

func (s *Store) GetByEmail(email string) (*Profile, error) {
	var p Profile
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return &p, nil
}

func (s *Store) ListProfiles() ([]Profile, error) {
	var profiles []Profile
	if err := s.db.Order("name").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("ListProfiles: %w", err)
	}
	return profiles, nil
}

func (s *Store) CreateProfile(p *Profile) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("CreateProfile: %w", err)
	}
	return nil
}

func (s *Store) UpdateProfile(p *Profile) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("UpdateProfile: %w", err)
	}
	return nil
}

func (s *Store) DeleteProfile(id uint) (bool, error) {
	res := s.db.Delete(&CelebrationConfig{}, "profile_id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("DeleteProfile: %w", res.Error)
	}
	res = s.db.Delete(&Profile{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("DeleteProfile: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// LinkUserID writes a discovered platform id onto the record keyed by
// email. Returns false when no record carries that email. Calling it
// again with the same pair is a no-op update, so resolution write-backs
// stay idempotent.
func (s *Store) LinkUserID(email, userID string) (bool, error) {
	res := s.db.Model(&Profile{}).
		Where("LOWER(email) = LOWER(?)", email).
		Updates(map[string]any{
			"user_id":    userID,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("LinkUserID: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
