package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/model"
)

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{DSN: "sqlite:file::memory:", MaxOpenConns: 1, EnableSlotIndex: true}

	db, err := Init(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())

	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasTable("subscription_fixture_mapping"))
	assert.False(t, db.Migrator().HasIndex(&model.FixturePart{}, "idx_fixture_parts_parent_slot"))
}

func TestDialector(t *testing.T) {
	assert.Equal(t, "sqlite", dialector("sqlite:test.db").Name())
	assert.Equal(t, "postgres", dialector("host=localhost user=fixture dbname=fixture").Name())
}
