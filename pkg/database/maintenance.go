package database

import (
	"context"

	"gorm.io/gorm"
)

// Maintainer runs connection checks and schema setup on demand
type Maintainer struct {
	DB *gorm.DB
}

// Ping checks the database connection
func (m Maintainer) Ping(ctx context.Context) error {
	return Ping(ctx, m.DB)
}

// Setup migrates the schema, loads the reference catalog and reports any
// table still missing afterwards
func (m Maintainer) Setup(ctx context.Context) ([]string, error) {
	if err := Migrate(ctx, m.DB); err != nil {
		return nil, err
	}
	if err := Seed(ctx, m.DB); err != nil {
		return nil, err
	}
	return VerifyTables(ctx, m.DB), nil
}
