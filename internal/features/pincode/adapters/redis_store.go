package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/store"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
)

const (
	outcomeKeyPrefix = "pincode:outcome:"
	rowsKeyPrefix    = "pincode:rows:"
)

// RedisLedger implements ports.OutcomeLedger on the key-value store, one
// outcome document per pincode. Re-running a batch overwrites the previous
// outcome for a pincode; last write wins.
type RedisLedger struct {
	store store.Store
}

// NewRedisLedger creates a new RedisLedger.
func NewRedisLedger(s store.Store) *RedisLedger {
	return &RedisLedger{store: s}
}

// WasSuccessful reports whether the pincode already has a success outcome.
func (r *RedisLedger) WasSuccessful(ctx context.Context, pinCode string) (bool, error) {
	key := outcomeKeyPrefix + pinCode

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if err.Error() == fmt.Sprintf("key not found: %s", key) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read outcome for %s: %w", pinCode, err)
	}

	var outcome domain.PincodeOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return false, fmt.Errorf("failed to unmarshal outcome for %s: %w", pinCode, err)
	}

	return outcome.Status == domain.OutcomeSuccess, nil
}

// Record stores the outcome for a pincode fetch.
func (r *RedisLedger) Record(ctx context.Context, outcome domain.PincodeOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	if err := r.store.Set(ctx, outcomeKeyPrefix+outcome.PinCode, data, 0); err != nil {
		return fmt.Errorf("failed to save outcome for %s: %w", outcome.PinCode, err)
	}
	return nil
}

// Outcomes returns every recorded outcome.
func (r *RedisLedger) Outcomes(ctx context.Context) ([]domain.PincodeOutcome, error) {
	keys, err := r.store.Keys(ctx, outcomeKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}

	var outcomes []domain.PincodeOutcome
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read outcome %s: %w", key, err)
		}

		var outcome domain.PincodeOutcome
		if err := json.Unmarshal(data, &outcome); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outcome %s: %w", key, err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// RedisRowStore implements ports.RowStore on the key-value store, one JSON
// array of rows per pincode.
type RedisRowStore struct {
	store store.Store
}

// NewRedisRowStore creates a new RedisRowStore.
func NewRedisRowStore(s store.Store) *RedisRowStore {
	return &RedisRowStore{store: s}
}

// Append adds rows to their pincodes' row sets.
func (r *RedisRowStore) Append(ctx context.Context, rows []domain.PincodeRow) error {
	byPin := make(map[string][]domain.PincodeRow)
	for _, row := range rows {
		byPin[row.PinCode] = append(byPin[row.PinCode], row)
	}

	for pin, newRows := range byPin {
		key := rowsKeyPrefix + pin

		var existing []domain.PincodeRow
		data, err := r.store.Get(ctx, key)
		if err == nil {
			if err := json.Unmarshal(data, &existing); err != nil {
				return fmt.Errorf("failed to unmarshal rows for %s: %w", pin, err)
			}
		} else if err.Error() != fmt.Sprintf("key not found: %s", key) {
			return fmt.Errorf("failed to read rows for %s: %w", pin, err)
		}

		merged, err := json.Marshal(append(existing, newRows...))
		if err != nil {
			return fmt.Errorf("failed to marshal rows for %s: %w", pin, err)
		}

		if err := r.store.Set(ctx, key, merged, 0); err != nil {
			return fmt.Errorf("failed to save rows for %s: %w", pin, err)
		}
	}

	return nil
}

// Rows returns every stored report row across all pincodes.
func (r *RedisRowStore) Rows(ctx context.Context) ([]domain.PincodeRow, error) {
	keys, err := r.store.Keys(ctx, rowsKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list row sets: %w", err)
	}

	var all []domain.PincodeRow
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows %s: %w", key, err)
		}

		var rows []domain.PincodeRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rows %s: %w", key, err)
		}
		all = append(all, rows...)
	}

	return all, nil
}
