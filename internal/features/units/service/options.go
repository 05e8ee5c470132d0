package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reagent-tracker/internal/core/logger"
)

// Recorder receives one observation per attempted lifecycle operation.
type Recorder interface {
	ObserveTransition(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(string, string) {}

// Option configures a LifecycleService.
type Option func(*LifecycleService)

// WithClock overrides the time source used for history entries.
func WithClock(now func() time.Time) Option {
	return func(s *LifecycleService) { s.now = now }
}

// WithIDGenerator overrides how history entry IDs are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *LifecycleService) { s.newID = newID }
}

// WithRecorder reports every operation outcome to r.
func WithRecorder(r Recorder) Option {
	return func(s *LifecycleService) { s.recorder = r }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *LifecycleService) { s.log = l }
}

func defaults(s *LifecycleService) {
	s.now = time.Now
	s.newID = uuid.NewString
	s.recorder = nopRecorder{}
	s.log = logger.Named("lifecycle")
}
