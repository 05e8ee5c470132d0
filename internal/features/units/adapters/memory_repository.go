package adapters

import (
	"context"
	"slices"
	"strings"
	"sync"

	"reagent-tracker/internal/features/units/domain"
)

// MemoryUnitRepository keeps units in process memory. It backs the default
// configuration and the service tests.
type MemoryUnitRepository struct {
	mu    sync.RWMutex
	units map[string]domain.Unit
}

// NewMemoryUnitRepository creates an empty repository.
func NewMemoryUnitRepository() *MemoryUnitRepository {
	return &MemoryUnitRepository{units: make(map[string]domain.Unit)}
}

func (r *MemoryUnitRepository) Find(ctx context.Context, key string) (*domain.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[key]
	if !ok {
		return nil, domain.ErrUnitNotFound
	}
	out := u.Clone()
	return &out, nil
}

func (r *MemoryUnitRepository) Create(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.units[unit.Key]; ok {
		return nil, domain.ErrDuplicateUnit
	}
	stored := unit.Clone()
	r.units[unit.Key] = stored
	out := stored.Clone()
	return &out, nil
}

func (r *MemoryUnitRepository) Save(ctx context.Context, unit domain.Unit, entry domain.HistoryEntry) (*domain.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.units[unit.Key]
	if !ok {
		return nil, domain.ErrUnitNotFound
	}
	if current.Version != unit.Version {
		return nil, domain.ErrConflict
	}

	stored := unit.Clone()
	stored.History = current.History.Append(entry)
	stored.Version = current.Version + 1
	r.units[unit.Key] = stored

	out := stored.Clone()
	return &out, nil
}

func (r *MemoryUnitRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.units[key]; !ok {
		return domain.ErrUnitNotFound
	}
	delete(r.units, key)
	return nil
}

// ListAll returns every unit ordered by key.
func (r *MemoryUnitRepository) ListAll(ctx context.Context) ([]domain.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u.Clone())
	}
	slices.SortFunc(out, func(a, b domain.Unit) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}
