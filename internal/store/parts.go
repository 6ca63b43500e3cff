package store

import (
	"context"

	"gorm.io/gorm"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/hierarchy"
	"fixture-tracker-backend/internal/model"
)

func (s *gormStore) ListParts(ctx context.Context) ([]model.FixturePart, error) {
	var parts []model.FixturePart
	if err := s.db.WithContext(ctx).Order("create_date ASC").Find(&parts).Error; err != nil {
		return nil, mapError(err, "failed to list fixture parts", "")
	}
	return parts, nil
}

func (s *gormStore) ListPartsByParents(ctx context.Context, parentIDs []string) ([]model.FixturePart, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var parts []model.FixturePart
	if err := s.db.WithContext(ctx).Where("parent_fixture_id IN ?", parentIDs).Find(&parts).Error; err != nil {
		return nil, mapError(err, "failed to list fixture parts by parent", "")
	}
	return parts, nil
}

func (s *gormStore) GetPart(ctx context.Context, id string) (*model.FixturePart, error) {
	return getByID[model.FixturePart](ctx, s.db, id, "fixture part")
}

// CreatePart inserts a part after checking the parent's free slots in the same transaction.
func (s *gormStore) CreatePart(ctx context.Context, p *model.FixturePart) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPlacement(tx, p.ParentFixtureID, p.TesterType, ""); err != nil {
			return err
		}
		return tx.Create(p).Error
	})
	return mapError(err, "failed to create fixture part", "")
}

// UpdatePart re-validates the placement when the parent or tester type changes.
func (s *gormStore) UpdatePart(ctx context.Context, id string, fields map[string]any) (*model.FixturePart, error) {
	_, moves := fields["parent_fixture_id"]
	_, retypes := fields["tester_type"]
	if !moves && !retypes {
		return updateFields[model.FixturePart](ctx, s.db, id, fields, "fixture part")
	}

	var part model.FixturePart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&part).Error; err != nil {
			return err
		}
		parentID, testerType := part.ParentFixtureID, part.TesterType
		if v, ok := fields["parent_fixture_id"].(string); ok {
			parentID = v
		}
		if v, ok := fields["tester_type"].(string); ok {
			testerType = v
		}
		if err := checkPlacement(tx, parentID, testerType, id); err != nil {
			return err
		}
		if err := tx.Model(&part).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&part).Error
	})
	if err != nil {
		return nil, mapError(err, "fixture part", id)
	}
	return &part, nil
}

// DeletePart refuses to remove a part that has usage history.
func (s *gormStore) DeletePart(ctx context.Context, id string) (*model.FixturePart, error) {
	return deleteRow[model.FixturePart](ctx, s.db, id, "fixture part", func(tx *gorm.DB) error {
		n, err := countWhere(tx, &model.Usage{}, "fixture_part_id", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("fixture part %s still has %d usage records", id, n)
		}
		return nil
	})
}

// checkPlacement verifies that parentID exists and can take a part of testerType.
// selfID is excluded from the sibling set when an existing part is being moved.
func checkPlacement(tx *gorm.DB, parentID, testerType, selfID string) error {
	if _, err := lookupParent(tx, parentID); err != nil {
		return err
	}

	q := tx.Where("parent_fixture_id = ?", parentID)
	if selfID != "" {
		q = q.Where("id <> ?", selfID)
	}
	var siblings []model.FixturePart
	if err := q.Find(&siblings).Error; err != nil {
		return err
	}
	return hierarchy.CheckSlotAvailable(siblings, testerType)
}
