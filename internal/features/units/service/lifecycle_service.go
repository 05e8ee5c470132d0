package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reagent-tracker/internal/features/units/domain"
	"reagent-tracker/internal/features/units/ports"
)

// LifecycleService applies lifecycle operations to units. Writes for the same key are
// serialized in process; the repository's version check covers other processes.
// Failed operations are never retried.
type LifecycleService struct {
	repo     ports.UnitRepository
	locks    *keyLocks
	now      func() time.Time
	newID    func() string
	recorder Recorder
	log      *zap.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(repo ports.UnitRepository, opts ...Option) *LifecycleService {
	s := &LifecycleService{repo: repo, locks: newKeyLocks()}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intake registers the unit described by a scanned code.
func (s *LifecycleService) Intake(ctx context.Context, code string, actor domain.Actor) (unit *domain.Unit, err error) {
	defer func() { s.observe(domain.OpIntake, err) }()

	parsed, err := domain.ParseCode(code)
	if err != nil {
		return nil, err
	}
	key := parsed.SerialNumber

	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.repo.Find(ctx, key)
	switch {
	case err == nil:
		return nil, &domain.TransitionError{Op: domain.OpIntake, Key: key, Status: existing.Status, Err: domain.ErrDuplicateUnit}
	case !errors.Is(err, domain.ErrUnitNotFound):
		return nil, fmt.Errorf("repository: find unit %s: %w", key, err)
	}

	u, _ := domain.NewUnit(parsed, actor, s.now(), s.newID())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(context.WithoutCancel(ctx), u)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUnit) {
			return nil, &domain.TransitionError{Op: domain.OpIntake, Key: key, Err: domain.ErrDuplicateUnit}
		}
		return nil, fmt.Errorf("repository: create unit %s: %w", key, err)
	}

	s.log.Info("unit registered",
		zap.String("key", key),
		zap.String("actor", actor.Identity()),
		zap.String("lot_number", created.LotNumber),
	)
	return created, nil
}

// Checkout dispatches a Registered unit to place.
func (s *LifecycleService) Checkout(ctx context.Context, key, place string, actor domain.Actor) (unit *domain.Unit, err error) {
	defer func() { s.observe(domain.OpCheckout, err) }()
	return s.transition(ctx, key, domain.Transition{Op: domain.OpCheckout, Actor: actor, Place: place})
}

// Submit marks a CheckedOut unit as consumed.
func (s *LifecycleService) Submit(ctx context.Context, key string, actor domain.Actor) (unit *domain.Unit, err error) {
	defer func() { s.observe(domain.OpSubmit, err) }()
	return s.transition(ctx, key, domain.Transition{Op: domain.OpSubmit, Actor: actor})
}

// AdminEdit overwrites status and/or place regardless of the lifecycle order.
func (s *LifecycleService) AdminEdit(ctx context.Context, key string, edit domain.AdminEdit, actor domain.Actor) (unit *domain.Unit, err error) {
	defer func() { s.observe(domain.OpAdminEdit, err) }()
	if err := domain.Authorize(domain.OpAdminEdit, key, actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, key, domain.Transition{Op: domain.OpAdminEdit, Actor: actor, Edit: edit})
}

// Delete removes a unit and its history. Exports already produced are unaffected.
func (s *LifecycleService) Delete(ctx context.Context, key string, actor domain.Actor) (err error) {
	defer func() { s.observe(domain.OpDelete, err) }()
	if err := domain.Authorize(domain.OpDelete, key, actor); err != nil {
		return err
	}

	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(context.WithoutCancel(ctx), key); err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return &domain.TransitionError{Op: domain.OpDelete, Key: key, Err: domain.ErrUnitNotFound}
		}
		return fmt.Errorf("repository: delete unit %s: %w", key, err)
	}

	s.log.Warn("unit deleted", zap.String("key", key), zap.String("actor", actor.Identity()))
	return nil
}

func (s *LifecycleService) transition(ctx context.Context, key string, t domain.Transition) (*domain.Unit, error) {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return nil, &domain.TransitionError{Op: t.Op, Key: key, Err: domain.ErrUnitNotFound}
		}
		return nil, fmt.Errorf("repository: find unit %s: %w", key, err)
	}

	t.At = s.now()
	t.EntryID = s.newID()
	next, entry, err := domain.Apply(*current, t)
	if err != nil {
		return nil, err
	}

	// nothing has been written yet, so cancellation here is a no-op
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(context.WithoutCancel(ctx), next, entry)
	if err != nil {
		for _, kind := range []error{domain.ErrConflict, domain.ErrUnitNotFound} {
			if errors.Is(err, kind) {
				return nil, &domain.TransitionError{Op: t.Op, Key: key, Status: current.Status, Err: kind}
			}
		}
		return nil, fmt.Errorf("repository: save unit %s: %w", key, err)
	}

	s.log.Info("unit transitioned",
		zap.String("key", key),
		zap.String("operation", string(t.Op)),
		zap.String("actor", entry.Actor),
		zap.String("status_before", entry.StatusBefore),
		zap.String("status_after", entry.StatusAfter),
		zap.String("place", saved.Place),
	)
	return saved, nil
}

func (s *LifecycleService) observe(op domain.Operation, err error) {
	outcome := Outcome(err)
	s.recorder.ObserveTransition(string(op), outcome)

	switch outcome {
	case "success":
	case "error":
		s.log.Error("operation failed", zap.String("operation", string(op)), zap.Error(err))
	default:
		s.log.Warn("operation rejected",
			zap.String("operation", string(op)),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}

// Outcome returns the metric label for the result of an operation.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidLength), errors.Is(err, domain.ErrInvalidDate):
		return "invalid_code"
	case errors.Is(err, domain.ErrDuplicateUnit):
		return "duplicate_unit"
	case errors.Is(err, domain.ErrUnitNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrPlaceRequired):
		return "place_required"
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrEmptyEdit):
		return "invalid_edit"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
