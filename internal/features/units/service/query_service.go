package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"reagent-tracker/internal/features/units/domain"
	"reagent-tracker/internal/features/units/ports"
)

// QueryService serves read-only projections over the repository.
type QueryService struct {
	repo ports.UnitRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo ports.UnitRepository) *QueryService {
	return &QueryService{repo: repo}
}

// List returns the units selected by q.
func (s *QueryService) List(ctx context.Context, q domain.Query) ([]domain.Unit, error) {
	units, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return domain.Project(units, q), nil
}

// Get returns a single unit with its history.
func (s *QueryService) Get(ctx context.Context, key string) (*domain.Unit, error) {
	u, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return nil, fmt.Errorf("unit %s: %w", key, err)
		}
		return nil, fmt.Errorf("find unit %s: %w", key, err)
	}
	return u, nil
}

// HistoryFor returns the chronological history of key.
func (s *QueryService) HistoryFor(ctx context.Context, key string) (iter.Seq[domain.HistoryEntry], error) {
	u, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return u.History.Entries(), nil
}
