package users

import (
	"context"

	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/models"
)

// Service encapsulates owner-account logic around the repository.
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates the owner account from OIDC claims.
// Returns nil when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	u, ok := auth.UserFromClaims(claims)
	if !ok {
		return nil, nil
	}
	return s.repo.UpsertBySub(ctx, &u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}
