package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/model"
)

// ListLatestUsage returns the newest usage row of every part. Rows that tie on
// create_date are all returned; callers pick one.
func (s *gormStore) ListLatestUsage(ctx context.Context) ([]model.Usage, error) {
	db := s.db.WithContext(ctx)
	latest := db.Model(&model.Usage{}).
		Select("fixture_part_id, MAX(create_date) AS max_date").
		Group("fixture_part_id")

	var rows []model.Usage
	err := db.Table("usage AS u").
		Select("u.*").
		Joins("JOIN (?) AS latest ON latest.fixture_part_id = u.fixture_part_id AND latest.max_date = u.create_date", latest).
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err, "failed to load latest usage", "")
	}
	return rows, nil
}

func (s *gormStore) ListUsageSince(ctx context.Context, since time.Time) ([]model.Usage, error) {
	var rows []model.Usage
	err := s.db.WithContext(ctx).
		Where("create_date >= ?", since.UTC()).
		Order("create_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err, "failed to list usage", "")
	}
	return rows, nil
}

// ListUsage lists usage newest first, optionally limited to one part.
func (s *gormStore) ListUsage(ctx context.Context, fixturePartID string) ([]model.Usage, error) {
	q := s.db.WithContext(ctx).Order("create_date DESC")
	if fixturePartID != "" {
		q = q.Where("fixture_part_id = ?", fixturePartID)
	}
	var rows []model.Usage
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapError(err, "failed to list usage", "")
	}
	return rows, nil
}

func (s *gormStore) GetUsage(ctx context.Context, id string) (*model.Usage, error) {
	return getByID[model.Usage](ctx, s.db, id, "usage record")
}

// CreateUsage requires the referenced part to exist.
func (s *gormStore) CreateUsage(ctx context.Context, u *model.Usage) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countWhere(tx, &model.FixturePart{}, "id", u.FixturePartID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.Validation("fixture part %s does not exist", u.FixturePartID)
		}
		return tx.Create(u).Error
	})
	return mapError(err, "failed to create usage record", "")
}

func (s *gormStore) UpdateUsage(ctx context.Context, id string, fields map[string]any) (*model.Usage, error) {
	return updateFields[model.Usage](ctx, s.db, id, fields, "usage record")
}

func (s *gormStore) DeleteUsage(ctx context.Context, id string) (*model.Usage, error) {
	return deleteRow[model.Usage](ctx, s.db, id, "usage record", nil)
}
