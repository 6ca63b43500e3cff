package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fixture-tracker-backend/internal/model"
)

// SaveSubscription upserts the subscription and replaces its fixture list.
// Unknown fixture ids are ignored.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription, fixtureIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Omit("Fixtures").Create(sub).Error; err != nil {
			return err
		}

		var fixtures []*model.Fixture
		if len(fixtureIDs) > 0 {
			if err := tx.Where("id IN ?", fixtureIDs).Find(&fixtures).Error; err != nil {
				return err
			}
		}

		return tx.Model(sub).Association("Fixtures").Replace(&fixtures)
	})
	return mapError(err, "failed to save subscription", "")
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Fixtures").First(&sub, "endpoint = ?", endpoint).Error
	if err != nil {
		return nil, mapError(err, "subscription", endpoint)
	}
	return &sub, nil
}

// DeleteSubscription removes the subscription and its fixture mappings.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := model.PushSubscription{Endpoint: endpoint}
		if err := tx.Model(&sub).Association("Fixtures").Clear(); err != nil {
			return err
		}
		return tx.Delete(&sub).Error
	})
	return mapError(err, "failed to delete subscription", endpoint)
}

// ListSubscriptionsForFixture returns every subscription mapped to fixtureID.
func (s *gormStore) ListSubscriptionsForFixture(ctx context.Context, fixtureID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_fixture_mapping ON subscription_fixture_mapping.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("subscription_fixture_mapping.fixture_id = ?", fixtureID).
		Find(&subs).Error
	if err != nil {
		return nil, mapError(err, "failed to list subscriptions for fixture", fixtureID)
	}
	return subs, nil
}
