// Package store is the gorm-backed persistence layer. It serves the read
// interfaces of the hierarchy, usage and health packages plus the CRUD surface
// of the HTTP API.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/hierarchy"
	"fixture-tracker-backend/internal/model"
	"fixture-tracker-backend/internal/usage"
)

// Store defines the interface for all database operations.
type Store interface {
	hierarchy.Reader
	usage.Reader
	health.Reader

	GetFixture(ctx context.Context, id string) (*model.Fixture, error)
	CreateFixture(ctx context.Context, f *model.Fixture) error
	UpdateFixture(ctx context.Context, id string, fields map[string]any) (*model.Fixture, error)
	DeleteFixture(ctx context.Context, id string) (*model.Fixture, error)

	GetPart(ctx context.Context, id string) (*model.FixturePart, error)
	CreatePart(ctx context.Context, p *model.FixturePart) error
	UpdatePart(ctx context.Context, id string, fields map[string]any) (*model.FixturePart, error)
	DeletePart(ctx context.Context, id string) (*model.FixturePart, error)

	ListUsage(ctx context.Context, fixturePartID string) ([]model.Usage, error)
	GetUsage(ctx context.Context, id string) (*model.Usage, error)
	CreateUsage(ctx context.Context, u *model.Usage) error
	UpdateUsage(ctx context.Context, id string, fields map[string]any) (*model.Usage, error)
	DeleteUsage(ctx context.Context, id string) (*model.Usage, error)

	GetHealthEvent(ctx context.Context, id string) (*model.HealthEvent, error)
	CreateHealthEvent(ctx context.Context, e *model.HealthEvent) error
	UpdateHealthEvent(ctx context.Context, id string, fields map[string]any) (*model.HealthEvent, error)
	DeleteHealthEvent(ctx context.Context, id string) (*model.HealthEvent, error)

	GetMaintenanceEvent(ctx context.Context, id string) (*model.MaintenanceEvent, error)
	CreateMaintenanceEvent(ctx context.Context, m *model.MaintenanceEvent) error
	UpdateMaintenanceEvent(ctx context.Context, id string, fields map[string]any) (*model.MaintenanceEvent, error)
	DeleteMaintenanceEvent(ctx context.Context, id string) (*model.MaintenanceEvent, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, id string, fields map[string]any) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription, fixtureIDs []string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptionsForFixture(ctx context.Context, fixtureID string) ([]model.PushSubscription, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// mapError turns gorm sentinel errors into application errors and wraps the rest.
func mapError(err error, what, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s %s not found", what, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s already exists", what)
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if id == "" {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}

func getByID[T any](ctx context.Context, db *gorm.DB, id, what string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapError(err, what, id)
	}
	return &row, nil
}

func create[T any](ctx context.Context, db *gorm.DB, row *T, what string) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return mapError(err, "failed to create "+what, "")
	}
	return nil
}

// updateFields applies only the supplied columns and returns the updated row.
func updateFields[T any](ctx context.Context, db *gorm.DB, id string, fields map[string]any, what string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&row).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return nil, mapError(err, what, id)
	}
	return &row, nil
}

// deleteRow removes a row after guard approves it and returns the deleted row.
func deleteRow[T any](ctx context.Context, db *gorm.DB, id, what string, guard func(tx *gorm.DB) error) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&row).Error
	})
	if err != nil {
		return nil, mapError(err, what, id)
	}
	return &row, nil
}

// countWhere counts rows of model matching column = value.
func countWhere(tx *gorm.DB, m any, column, value string) (int64, error) {
	var n int64
	err := tx.Model(m).Where(column+" = ?", value).Count(&n).Error
	return n, err
}
