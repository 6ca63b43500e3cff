package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/model"
)

var bTesterGenTypes = []string{model.GenTypeGen3BTester, model.GenTypeGen5BTester}

func (s *gormStore) ListFixtures(ctx context.Context) ([]model.Fixture, error) {
	var fixtures []model.Fixture
	if err := s.db.WithContext(ctx).Order("fixture_name ASC").Find(&fixtures).Error; err != nil {
		return nil, mapError(err, "failed to list fixtures", "")
	}
	return fixtures, nil
}

func (s *gormStore) ListBTesters(ctx context.Context) ([]model.Fixture, error) {
	var fixtures []model.Fixture
	err := s.db.WithContext(ctx).
		Where("gen_type IN ?", bTesterGenTypes).
		Order("fixture_name ASC").
		Find(&fixtures).Error
	if err != nil {
		return nil, mapError(err, "failed to list b testers", "")
	}
	return fixtures, nil
}

func (s *gormStore) CountFixtures(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Fixture{}).Count(&n).Error; err != nil {
		return 0, mapError(err, "failed to count fixtures", "")
	}
	return n, nil
}

func (s *gormStore) GetFixture(ctx context.Context, id string) (*model.Fixture, error) {
	return getByID[model.Fixture](ctx, s.db, id, "fixture")
}

// FindFixture is GetFixture with a missing row reported as (nil, nil).
func (s *gormStore) FindFixture(ctx context.Context, id string) (*model.Fixture, error) {
	f, err := s.GetFixture(ctx, id)
	if apperr.Is(err, apperr.TypeNotFound) {
		return nil, nil
	}
	return f, err
}

// CreateFixture checks the name up front so drivers without key-violation
// translation still answer with a conflict.
func (s *gormStore) CreateFixture(ctx context.Context, f *model.Fixture) error {
	n, err := countWhere(s.db.WithContext(ctx), &model.Fixture{}, "fixture_name", f.FixtureName)
	if err != nil {
		return mapError(err, "fixture", "")
	}
	if n > 0 {
		return apperr.Conflict("fixture %q already exists", f.FixtureName)
	}
	return create(ctx, s.db, f, "fixture")
}

func (s *gormStore) UpdateFixture(ctx context.Context, id string, fields map[string]any) (*model.Fixture, error) {
	return updateFields[model.Fixture](ctx, s.db, id, fields, "fixture")
}

// DeleteFixture refuses to remove a fixture that still has parts or event history.
// Push subscription mappings are dropped with it.
func (s *gormStore) DeleteFixture(ctx context.Context, id string) (*model.Fixture, error) {
	return deleteRow[model.Fixture](ctx, s.db, id, "fixture", func(tx *gorm.DB) error {
		dependents := []struct {
			model  any
			column string
			what   string
		}{
			{&model.FixturePart{}, "parent_fixture_id", "fixture parts"},
			{&model.HealthEvent{}, "fixture_id", "health events"},
			{&model.MaintenanceEvent{}, "fixture_id", "maintenance events"},
		}
		for _, d := range dependents {
			n, err := countWhere(tx, d.model, d.column, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperr.Conflict("fixture %s still has %d %s", id, n, d.what)
			}
		}
		return tx.Exec("DELETE FROM subscription_fixture_mapping WHERE fixture_id = ?", id).Error
	})
}

// lookupParent loads a parent fixture inside tx, reporting a missing one as a validation error.
func lookupParent(tx *gorm.DB, parentID string) (*model.Fixture, error) {
	var parent model.Fixture
	if err := tx.Where("id = ?", parentID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("parent fixture %s does not exist", parentID)
		}
		return nil, err
	}
	return &parent, nil
}
