package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Class{}, &models.Registration{}))

	return &repo.GormRepo{DB: db}
}

func seedClasses(t *testing.T, r *repo.GormRepo, classes ...models.Class) {
	t.Helper()

	ctx := context.Background()
	for i := range classes {
		require.NoError(t, r.UpsertClass(ctx, &classes[i]))
	}
}
