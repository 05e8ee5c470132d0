package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"reagent-tracker/internal/features/units/domain"
)

// MockUnitRepository is a mock implementation of ports.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Find(ctx context.Context, key string) (*domain.Unit, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) Create(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	args := m.Called(ctx, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit domain.Unit, entry domain.HistoryEntry) (*domain.Unit, error) {
	args := m.Called(ctx, unit, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockUnitRepository) ListAll(ctx context.Context) ([]domain.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}

// MockRenderer is a mock implementation of ports.ExportRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(units []domain.Unit, generatedAt time.Time) ([]byte, error) {
	args := m.Called(units, generatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArchive is a mock implementation of ports.ExportArchive
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Put(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

type recordedOutcome struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedOutcome
}

func (r *fakeRecorder) ObserveTransition(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, recordedOutcome{operation, outcome})
}

func (r *fakeRecorder) outcomes() []recordedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedOutcome(nil), r.seen...)
}
