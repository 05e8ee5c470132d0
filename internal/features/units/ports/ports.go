package ports

import (
	"context"
	"iter"
	"time"

	"reagent-tracker/internal/features/units/domain"
)

// UnitRepository is the persistence boundary consumed by the lifecycle service.
// Implementations report domain.ErrUnitNotFound, domain.ErrDuplicateUnit and
// domain.ErrConflict for the corresponding outcomes; any other error is a transient
// repository failure.
type UnitRepository interface {
	// Find returns the unit with its full history.
	Find(ctx context.Context, key string) (*domain.Unit, error)
	// Create stores a new unit together with its first history entry.
	Create(ctx context.Context, unit domain.Unit) (*domain.Unit, error)
	// Save writes the new state and appends entry atomically, provided the stored
	// version still equals unit.Version. It returns the authoritative post-write unit.
	Save(ctx context.Context, unit domain.Unit, entry domain.HistoryEntry) (*domain.Unit, error)
	// Delete permanently removes the unit and its history.
	Delete(ctx context.Context, key string) error
	// ListAll returns every unit with its history.
	ListAll(ctx context.Context) ([]domain.Unit, error)
}

// ExportRenderer turns a snapshot of units into a downloadable document.
type ExportRenderer interface {
	Render(units []domain.Unit, generatedAt time.Time) ([]byte, error)
}

// ExportArchive keeps a copy of every audit export handed out.
type ExportArchive interface {
	Put(ctx context.Context, name string, data []byte) error
}

// LifecycleService defines the primary port for state-changing operations.
type LifecycleService interface {
	Intake(ctx context.Context, code string, actor domain.Actor) (*domain.Unit, error)
	Checkout(ctx context.Context, key, place string, actor domain.Actor) (*domain.Unit, error)
	Submit(ctx context.Context, key string, actor domain.Actor) (*domain.Unit, error)
	AdminEdit(ctx context.Context, key string, edit domain.AdminEdit, actor domain.Actor) (*domain.Unit, error)
	Delete(ctx context.Context, key string, actor domain.Actor) error
}

// QueryService defines the primary port for read-side projections.
type QueryService interface {
	List(ctx context.Context, q domain.Query) ([]domain.Unit, error)
	Get(ctx context.Context, key string) (*domain.Unit, error)
	HistoryFor(ctx context.Context, key string) (iter.Seq[domain.HistoryEntry], error)
}

// ExportService defines the primary port for audit exports.
type ExportService interface {
	Export(ctx context.Context) ([]byte, error)
}
