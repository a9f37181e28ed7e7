package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func New(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := gdb.AutoMigrate(&Profile{}, &CelebrationConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return gdb, nil
}
