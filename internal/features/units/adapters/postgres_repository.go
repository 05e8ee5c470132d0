package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reagent-tracker/internal/features/units/domain"
)

const unitColumns = `key, product_code, product_size, lot_number, expiration_date, status, place, last_updated, version`

const historyColumns = `id, operation, actor, occurred_at, status_before, status_after, place_before, place_after`

// PostgresUnitRepository stores units and their history in two tables. Each write
// runs in a single transaction guarded by the version column.
type PostgresUnitRepository struct {
	db *sql.DB
}

// NewPostgresUnitRepository creates a new PostgresUnitRepository.
func NewPostgresUnitRepository(db *sql.DB) *PostgresUnitRepository {
	return &PostgresUnitRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (domain.Unit, error) {
	var (
		u       domain.Unit
		size    string
		expires string
		status  string
	)
	if err := row.Scan(&u.Key, &u.ProductCode, &size, &u.LotNumber, &expires, &status, &u.Place, &u.LastUpdated, &u.Version); err != nil {
		return domain.Unit{}, err
	}
	date, err := domain.ParseDate(expires)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("unit %s: stored expiration date %q: %w", u.Key, expires, err)
	}
	u.ProductSize = domain.ProductSize(size)
	u.ExpirationDate = date
	u.Status = domain.Status(status)
	u.LastUpdated = u.LastUpdated.UTC()
	return u, nil
}

func scanEntry(row rowScanner) (domain.HistoryEntry, error) {
	var (
		e  domain.HistoryEntry
		op string
	)
	if err := row.Scan(&e.ID, &op, &e.Actor, &e.OccurredAt, &e.StatusBefore, &e.StatusAfter, &e.PlaceBefore, &e.PlaceAfter); err != nil {
		return domain.HistoryEntry{}, err
	}
	e.Operation = domain.Operation(op)
	e.OccurredAt = e.OccurredAt.UTC()
	return e, nil
}

// Find retrieves a unit and its history by key.
func (r *PostgresUnitRepository) Find(ctx context.Context, key string) (*domain.Unit, error) {
	u, err := scanUnit(r.db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE key = $1`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select unit %s: %w", key, err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+historyColumns+` FROM unit_history WHERE unit_key = $1 ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("select history %s: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history %s: %w", key, err)
		}
		u.History = append(u.History, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history %s: %w", key, err)
	}
	return &u, nil
}

// Create inserts the unit and its initial history in one transaction.
func (r *PostgresUnitRepository) Create(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO units (`+unitColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (key) DO NOTHING`,
		unit.Key, unit.ProductCode, string(unit.ProductSize), unit.LotNumber, unit.ExpirationDate.String(),
		string(unit.Status), unit.Place, unit.LastUpdated.UTC(), unit.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("insert unit %s: %w", unit.Key, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("insert unit %s: %w", unit.Key, err)
	} else if n == 0 {
		return nil, domain.ErrDuplicateUnit
	}

	for _, e := range unit.History {
		if err := insertEntry(ctx, tx, unit.Key, e); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	out := unit.Clone()
	return &out, nil
}

// Save updates the unit when its version matches and appends entry in the same transaction.
func (r *PostgresUnitRepository) Save(ctx context.Context, unit domain.Unit, entry domain.HistoryEntry) (*domain.Unit, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE units SET status = $2, place = $3, last_updated = $4, version = version + 1 WHERE key = $1 AND version = $5`,
		unit.Key, string(unit.Status), unit.Place, unit.LastUpdated.UTC(), unit.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update unit %s: %w", unit.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update unit %s: %w", unit.Key, err)
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM units WHERE key = $1)`, unit.Key).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check unit %s: %w", unit.Key, err)
		}
		if !exists {
			return nil, domain.ErrUnitNotFound
		}
		return nil, domain.ErrConflict
	}

	if err := insertEntry(ctx, tx, unit.Key, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	stored := unit.Clone()
	stored.History = unit.History.Append(entry)
	stored.Version = unit.Version + 1
	return &stored, nil
}

// Delete removes the unit; its history goes with it through the foreign key cascade.
func (r *PostgresUnitRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", key, err)
	}
	if n == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// ListAll returns every unit ordered by key, with history.
func (r *PostgresUnitRepository) ListAll(ctx context.Context) ([]domain.Unit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+unitColumns+` FROM units ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("select units: %w", err)
	}
	defer rows.Close()

	units := []domain.Unit{}
	index := make(map[string]int)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		index[u.Key] = len(units)
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	if len(units) == 0 {
		return units, nil
	}

	hrows, err := r.db.QueryContext(ctx, `SELECT unit_key, `+historyColumns+` FROM unit_history ORDER BY unit_key, seq`)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer hrows.Close()

	for hrows.Next() {
		var (
			key string
			e   domain.HistoryEntry
			op  string
		)
		if err := hrows.Scan(&key, &e.ID, &op, &e.Actor, &e.OccurredAt, &e.StatusBefore, &e.StatusAfter, &e.PlaceBefore, &e.PlaceAfter); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		e.Operation = domain.Operation(op)
		e.OccurredAt = e.OccurredAt.UTC()
		units[i].History = append(units[i].History, e)
	}
	if err := hrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return units, nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, key string, e domain.HistoryEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO unit_history (unit_key, `+historyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		key, e.ID, string(e.Operation), e.Actor, e.OccurredAt.UTC(), e.StatusBefore, e.StatusAfter, e.PlaceBefore, e.PlaceAfter,
	)
	if err != nil {
		return fmt.Errorf("insert history %s: %w", key, err)
	}
	return nil
}
