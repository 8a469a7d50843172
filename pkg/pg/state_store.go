package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

const (
	loadOptionsSQL   = `SELECT options FROM form_options WHERE id = $1`
	saveOptionsSQL   = `INSERT INTO form_options (id, options, updated_at) VALUES ($1, $2, now()) ON CONFLICT (id) DO UPDATE SET options = EXCLUDED.options, updated_at = now()`
	deleteOptionsSQL = `DELETE FROM form_options WHERE id = $1`
	purgeOptionsSQL  = `DELETE FROM form_options WHERE updated_at < now() - make_interval(secs => $1)`
)

// StateStore keeps option sets as JSONB rows in form_options.
type StateStore struct {
	pool *pgxpool.Pool
}

var _ validation.StateStore = (*StateStore)(nil)

// NewStateStore returns a store over pool. Run Migrate first to create the table.
func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

// Load implements validation.StateStore.
func (s *StateStore) Load(ctx context.Context, id string) (*validation.OptionSet, error) {
	var raw []byte
	if err := s.pool.QueryRow(ctx, loadOptionsSQL, id).Scan(&raw); err != nil {
		if IsNotFoundError(err) {
			return nil, validation.ErrOptionsNotFound
		}
		return nil, fmt.Errorf("load options %q: %w", id, err)
	}

	var set validation.OptionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, errors.Join(ErrCorruptState, err)
	}
	return &set, nil
}

// Save implements validation.StateStore as an upsert.
func (s *StateStore) Save(ctx context.Context, id string, set *validation.OptionSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode option set: %w", err)
	}
	if _, err := s.pool.Exec(ctx, saveOptionsSQL, id, raw); err != nil {
		return fmt.Errorf("save options %q: %w", id, err)
	}
	return nil
}

// Delete implements validation.StateStore.
func (s *StateStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, deleteOptionsSQL, id); err != nil {
		return fmt.Errorf("delete options %q: %w", id, err)
	}
	return nil
}

// PurgeOlderThan removes option sets not written for at least seconds and
// returns how many rows went away.
func (s *StateStore) PurgeOlderThan(ctx context.Context, seconds float64) (int64, error) {
	tag, err := s.pool.Exec(ctx, purgeOptionsSQL, seconds)
	if err != nil {
		return 0, fmt.Errorf("purge options: %w", err)
	}
	return tag.RowsAffected(), nil
}
