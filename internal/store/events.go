package store

import (
	"context"

	"fixture-tracker-backend/internal/model"
)

// ListHealthEvents returns events newest first; an empty fixtureID lists all fixtures.
func (s *gormStore) ListHealthEvents(ctx context.Context, fixtureID string) ([]model.HealthEvent, error) {
	q := s.db.WithContext(ctx).Order("create_date DESC")
	if fixtureID != "" {
		q = q.Where("fixture_id = ?", fixtureID)
	}
	var events []model.HealthEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, mapError(err, "failed to list health events", fixtureID)
	}
	return events, nil
}

func (s *gormStore) GetHealthEvent(ctx context.Context, id string) (*model.HealthEvent, error) {
	return getByID[model.HealthEvent](ctx, s.db, id, "health event")
}

func (s *gormStore) CreateHealthEvent(ctx context.Context, e *model.HealthEvent) error {
	if err := s.requireFixture(ctx, e.FixtureID); err != nil {
		return err
	}
	return create(ctx, s.db, e, "health event")
}

func (s *gormStore) UpdateHealthEvent(ctx context.Context, id string, fields map[string]any) (*model.HealthEvent, error) {
	return updateFields[model.HealthEvent](ctx, s.db, id, fields, "health event")
}

func (s *gormStore) DeleteHealthEvent(ctx context.Context, id string) (*model.HealthEvent, error) {
	return deleteRow[model.HealthEvent](ctx, s.db, id, "health event", nil)
}

// ListMaintenanceEvents returns tickets by start time, newest first.
func (s *gormStore) ListMaintenanceEvents(ctx context.Context, fixtureID string) ([]model.MaintenanceEvent, error) {
	q := s.db.WithContext(ctx).Order("start_date_time DESC")
	if fixtureID != "" {
		q = q.Where("fixture_id = ?", fixtureID)
	}
	var events []model.MaintenanceEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, mapError(err, "failed to list maintenance events", fixtureID)
	}
	return events, nil
}

// CountOpenMaintenance counts tickets that are not completed.
func (s *gormStore) CountOpenMaintenance(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.MaintenanceEvent{}).
		Where("is_completed = ?", false).
		Count(&n).Error
	if err != nil {
		return 0, mapError(err, "failed to count open maintenance", "")
	}
	return n, nil
}

func (s *gormStore) GetMaintenanceEvent(ctx context.Context, id string) (*model.MaintenanceEvent, error) {
	return getByID[model.MaintenanceEvent](ctx, s.db, id, "maintenance event")
}

func (s *gormStore) CreateMaintenanceEvent(ctx context.Context, m *model.MaintenanceEvent) error {
	if err := s.requireFixture(ctx, m.FixtureID); err != nil {
		return err
	}
	return create(ctx, s.db, m, "maintenance event")
}

func (s *gormStore) UpdateMaintenanceEvent(ctx context.Context, id string, fields map[string]any) (*model.MaintenanceEvent, error) {
	return updateFields[model.MaintenanceEvent](ctx, s.db, id, fields, "maintenance event")
}

func (s *gormStore) DeleteMaintenanceEvent(ctx context.Context, id string) (*model.MaintenanceEvent, error) {
	return deleteRow[model.MaintenanceEvent](ctx, s.db, id, "maintenance event", nil)
}

func (s *gormStore) requireFixture(ctx context.Context, fixtureID string) error {
	_, err := lookupParent(s.db.WithContext(ctx), fixtureID)
	return err
}
