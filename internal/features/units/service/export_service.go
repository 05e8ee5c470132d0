package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reagent-tracker/internal/core/logger"
	"reagent-tracker/internal/features/units/ports"
)

// ExportService produces the audit workbook and optionally archives a copy.
type ExportService struct {
	repo     ports.UnitRepository
	renderer ports.ExportRenderer
	archive  ports.ExportArchive
	now      func() time.Time
	log      *zap.Logger
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(repo ports.UnitRepository, renderer ports.ExportRenderer, archive ports.ExportArchive) *ExportService {
	return &ExportService{
		repo:     repo,
		renderer: renderer,
		archive:  archive,
		now:      time.Now,
		log:      logger.Named("export"),
	}
}

// Export renders every unit with its full history as of now. The snapshot is taken
// once, so units deleted afterwards stay in documents already produced.
func (s *ExportService) Export(ctx context.Context) ([]byte, error) {
	units, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	at := s.now().UTC()
	data, err := s.renderer.Render(units, at)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	if s.archive != nil {
		name := ArchiveName(at)
		if err := s.archive.Put(ctx, name, data); err != nil {
			s.log.Warn("export archive failed", zap.String("object", name), zap.Error(err))
		} else {
			s.log.Info("export archived", zap.String("object", name), zap.Int("bytes", len(data)))
		}
	}

	return data, nil
}

// ArchiveName returns the object name used for an export generated at t.
func ArchiveName(t time.Time) string {
	return "exports/" + t.UTC().Format("20060102T150405Z") + ".xlsx"
}
