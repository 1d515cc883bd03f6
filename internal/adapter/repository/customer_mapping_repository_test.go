package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.CustomerMapping{}))
	return db
}

func TestCustomerMappingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and look up by system id and provider customer id", func(t *testing.T) {
		repo := NewCustomerMappingRepository(newTestDB(t), zap.NewNop())

		mapping := &entity.CustomerMapping{
			SystemID:           "user-1",
			Provider:           "stripe",
			ProviderCustomerID: "cus_123",
			Email:              "jane@example.com",
		}
		require.NoError(t, repo.Create(ctx, mapping))
		assert.NotEmpty(t, mapping.ID)
		assert.False(t, mapping.CreatedAt.IsZero())

		bySystem, err := repo.GetBySystemID(ctx, "stripe", "user-1")
		require.NoError(t, err)
		require.NotNil(t, bySystem)
		assert.Equal(t, "cus_123", bySystem.ProviderCustomerID)
		assert.Equal(t, "jane@example.com", bySystem.Email)

		byProvider, err := repo.GetByProviderCustomerID(ctx, "cus_123")
		require.NoError(t, err)
		require.NotNil(t, byProvider)
		assert.Equal(t, mapping.ID, byProvider.ID)
	})

	t.Run("missing mapping returns nil without error", func(t *testing.T) {
		repo := NewCustomerMappingRepository(newTestDB(t), zap.NewNop())

		got, err := repo.GetBySystemID(ctx, "stripe", "nobody")
		assert.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByProviderCustomerID(ctx, "cus_missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("provider customer id is unique", func(t *testing.T) {
		repo := NewCustomerMappingRepository(newTestDB(t), zap.NewNop())

		require.NoError(t, repo.Create(ctx, &entity.CustomerMapping{
			SystemID: "user-1", Provider: "stripe", ProviderCustomerID: "cus_dup",
		}))
		err := repo.Create(ctx, &entity.CustomerMapping{
			SystemID: "user-2", Provider: "stripe", ProviderCustomerID: "cus_dup",
		})
		assert.Error(t, err)
	})

	t.Run("delete by provider customer id", func(t *testing.T) {
		repo := NewCustomerMappingRepository(newTestDB(t), zap.NewNop())

		require.NoError(t, repo.Create(ctx, &entity.CustomerMapping{
			SystemID: "user-1", Provider: "stripe", ProviderCustomerID: "cus_del",
		}))
		require.NoError(t, repo.DeleteByProviderCustomerID(ctx, "cus_del"))

		got, err := repo.GetByProviderCustomerID(ctx, "cus_del")
		assert.NoError(t, err)
		assert.Nil(t, got)

		assert.NoError(t, repo.DeleteByProviderCustomerID(ctx, "cus_del"))
	})

	t.Run("invalid id is rejected", func(t *testing.T) {
		repo := NewCustomerMappingRepository(newTestDB(t), zap.NewNop())

		err := repo.Create(ctx, &entity.CustomerMapping{
			ID: "not-a-uuid", SystemID: "user-1", Provider: "stripe", ProviderCustomerID: "cus_1",
		})
		assert.Error(t, err)
	})
}
