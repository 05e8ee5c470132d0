package adapters

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"reagent-tracker/internal/features/units/domain"
)

const (
	unitsSheet   = "Units"
	historySheet = "History"
)

var (
	unitsHeader = []any{
		"Key", "Product Code", "Product Size", "Lot Number", "Expiration Date", "Status", "Place", "Last Updated",
	}
	historyHeader = []any{
		"Key", "Entry ID", "Operation", "Actor", "Occurred At", "Status Before", "Status After", "Place Before", "Place After",
	}
)

// XLSXExporter renders the audit workbook with one sheet for current state and one
// for the full history.
type XLSXExporter struct{}

// NewXLSXExporter creates a new XLSXExporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render builds the workbook for units as of generatedAt.
func (e *XLSXExporter) Render(units []domain.Unit, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", unitsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, fmt.Errorf("create history sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: "reagent-tracker",
		Title:   "Reagent audit export",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("set properties: %w", err)
	}

	if err := writeRow(f, unitsSheet, 1, unitsHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, historySheet, 1, historyHeader); err != nil {
		return nil, err
	}

	unitRow, historyRow := 2, 2
	for _, u := range units {
		if err := writeRow(f, unitsSheet, unitRow, []any{
			u.Key,
			u.ProductCode,
			string(u.ProductSize),
			u.LotNumber,
			u.ExpirationDate.String(),
			string(u.Status),
			u.Place,
			u.LastUpdated.UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, err
		}
		unitRow++

		for entry := range u.History.Entries() {
			if err := writeRow(f, historySheet, historyRow, []any{
				u.Key,
				entry.ID,
				string(entry.Operation),
				entry.Actor,
				entry.OccurredAt.UTC().Format(time.RFC3339),
				entry.StatusBefore,
				entry.StatusAfter,
				entry.PlaceBefore,
				entry.PlaceAfter,
			}); err != nil {
				return nil, err
			}
			historyRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
