package store

import (
	"context"

	"fixture-tracker-backend/internal/model"
)

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, mapError(err, "failed to list users", "")
	}
	return users, nil
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return getByID[model.User](ctx, s.db, id, "user")
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return create(ctx, s.db, u, "user")
}

// UpdateUser hashes a supplied password before it reaches the table.
func (s *gormStore) UpdateUser(ctx context.Context, id string, fields map[string]any) (*model.User, error) {
	if raw, ok := fields["password"].(string); ok {
		hashed, err := model.HashPassword(raw)
		if err != nil {
			return nil, mapError(err, "failed to hash password for user", id)
		}
		fields["password"] = hashed
	}
	return updateFields[model.User](ctx, s.db, id, fields, "user")
}

func (s *gormStore) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	return deleteRow[model.User](ctx, s.db, id, "user", nil)
}
