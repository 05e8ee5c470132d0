package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"reagent-tracker/internal/features/units/domain"
)

const (
	unitKeyPrefix = "unit:"
	unitIndexKey  = "units"
)

// RedisUnitRepository stores each unit, history included, as one JSON document.
// Writes run inside WATCH/MULTI so a concurrent writer makes the transaction fail
// instead of overwriting.
type RedisUnitRepository struct {
	client *redis.Client
}

// NewRedisUnitRepository creates a new RedisUnitRepository.
func NewRedisUnitRepository(client *redis.Client) *RedisUnitRepository {
	return &RedisUnitRepository{client: client}
}

func unitKey(key string) string { return unitKeyPrefix + key }

// Find retrieves a unit by key.
func (r *RedisUnitRepository) Find(ctx context.Context, key string) (*domain.Unit, error) {
	data, err := r.client.Get(ctx, unitKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit %s: %w", key, err)
	}
	return decodeUnit(data)
}

// Create stores a unit that must not exist yet.
func (r *RedisUnitRepository) Create(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	data, err := json.Marshal(unit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unit: %w", err)
	}

	k := unitKey(unit.Key)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDuplicateUnit
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, data, 0)
			p.SAdd(ctx, unitIndexKey, unit.Key)
			return nil
		})
		return err
	}, k)
	if err != nil {
		return nil, mapTxErr("create", unit.Key, err)
	}

	out := unit.Clone()
	return &out, nil
}

// Save replaces the unit and appends entry when the stored version matches.
func (r *RedisUnitRepository) Save(ctx context.Context, unit domain.Unit, entry domain.HistoryEntry) (*domain.Unit, error) {
	k := unitKey(unit.Key)
	var stored domain.Unit

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrUnitNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeUnit(data)
		if err != nil {
			return err
		}
		if current.Version != unit.Version {
			return domain.ErrConflict
		}

		stored = unit.Clone()
		stored.History = current.History.Append(entry)
		stored.Version = current.Version + 1
		next, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal unit: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}, k)
	if err != nil {
		return nil, mapTxErr("save", unit.Key, err)
	}

	return &stored, nil
}

// Delete removes the unit document and its index entry.
func (r *RedisUnitRepository) Delete(ctx context.Context, key string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, unitKey(key))
		p.SRem(ctx, unitIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete unit %s: %w", key, err)
	}
	if del.Val() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// ListAll returns every indexed unit ordered by key.
func (r *RedisUnitRepository) ListAll(ctx context.Context) ([]domain.Unit, error) {
	keys, err := r.client.SMembers(ctx, unitIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list unit keys: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Unit{}, nil
	}
	slices.Sort(keys)

	docKeys := make([]string, len(keys))
	for i, k := range keys {
		docKeys[i] = unitKey(k)
	}
	values, err := r.client.MGet(ctx, docKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}

	out := make([]domain.Unit, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// removed between SMEMBERS and MGET
			continue
		}
		u, err := decodeUnit([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func decodeUnit(data []byte) (*domain.Unit, error) {
	var u domain.Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit: %w", err)
	}
	return &u, nil
}

func mapTxErr(op, key string, err error) error {
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return domain.ErrConflict
	case errors.Is(err, domain.ErrDuplicateUnit),
		errors.Is(err, domain.ErrUnitNotFound),
		errors.Is(err, domain.ErrConflict):
		return err
	}
	return fmt.Errorf("failed to %s unit %s: %w", op, key, err)
}
