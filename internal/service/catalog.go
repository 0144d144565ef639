package service

import (
	"context"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
	"github.com/akulikov/class_registration/internal/search"
)

type CatalogService struct {
	Repo *repo.GormRepo
	ES   *elasticsearch.Client
}

func (s *CatalogService) ListEnrolled(ctx context.Context, userID uint64) ([]repo.RegistrationRow, error) {
	return s.Repo.ListRegistrationsByState(ctx, userID, models.StateEnrolled)
}

func (s *CatalogService) ListDropped(ctx context.Context, userID uint64) ([]repo.RegistrationRow, error) {
	return s.Repo.ListRegistrationsByState(ctx, userID, models.StateDropped)
}

// ListAvailable is the catalog minus the user's enrolled classes. A
// dropped class stays available for re-enrollment.
func (s *CatalogService) ListAvailable(ctx context.Context, userID uint64) ([]models.Class, error) {
	return s.Repo.ListAvailableClasses(ctx, userID)
}

func (s *CatalogService) SearchEnabled() bool {
	return s.ES != nil
}

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (int64, []models.Class, error) {
	return search.Classes(ctx, s.ES, query, from, size)
}
