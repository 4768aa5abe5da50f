package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pokelogger/pokelogger/internal/model"
)

// ErrPokemonNotFound covers both an absent row and a row owned by a
// different user; callers cannot tell the two apart.
var ErrPokemonNotFound = errors.New("pokemon not found")

// PokemonFilter defines filters for listing collection entries.
type PokemonFilter struct {
	OwnerID  string
	Category model.Category // CategoryAll or empty means no filter
	Page     int
	Limit    int
}

// InsertUserPokemon inserts a new collection entry.
func (r *Repository) InsertUserPokemon(ctx context.Context, p *model.UserPokemon) error {
	query := `
		INSERT INTO user_pokemon (id, user_id, pokemon_id, pokemon_name, pokemon_image, pokemon_types, category, notes, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.OwnerID,
		p.PokemonID,
		p.Name,
		p.Image,
		encodeTypes(p.Types),
		p.Category,
		p.Notes,
		p.AddedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert user pokemon: %w", err)
	}

	return nil
}

// ListUserPokemon retrieves a page of the owner's entries, newest first.
// Pagination is offset-based: offset = (page-1)*limit.
func (r *Repository) ListUserPokemon(ctx context.Context, filter PokemonFilter) ([]*model.UserPokemon, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, pokemon_image, pokemon_types, category, notes, date_added
		FROM user_pokemon
		WHERE user_id = $1
	`
	args := []any{filter.OwnerID}
	argIndex := 2

	if filter.Category != "" && filter.Category != model.CategoryAll {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	offset := (filter.Page - 1) * filter.Limit
	query += fmt.Sprintf(" ORDER BY date_added DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user pokemon: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.UserPokemon, 0)
	for rows.Next() {
		entry, err := scanUserPokemon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user pokemon: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user pokemon: %w", err)
	}

	return entries, nil
}

// GetUserPokemon retrieves a single entry scoped to its owner.
func (r *Repository) GetUserPokemon(ctx context.Context, ownerID, id string) (*model.UserPokemon, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, pokemon_image, pokemon_types, category, notes, date_added
		FROM user_pokemon
		WHERE id = $1 AND user_id = $2
	`

	entry, err := scanUserPokemon(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPokemonNotFound
		}
		return nil, fmt.Errorf("failed to get user pokemon: %w", err)
	}

	return entry, nil
}

// UpdateUserPokemon updates an entry's category and notes, scoped to its
// owner, and returns the updated row. A zero-row match is ErrPokemonNotFound,
// never a silent no-op.
func (r *Repository) UpdateUserPokemon(ctx context.Context, ownerID, id string, category model.Category, notes string) (*model.UserPokemon, error) {
	query := `
		UPDATE user_pokemon
		SET category = $3, notes = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, pokemon_id, pokemon_name, pokemon_image, pokemon_types, category, notes, date_added
	`

	entry, err := scanUserPokemon(r.pool.QueryRow(ctx, query, id, ownerID, category, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPokemonNotFound
		}
		return nil, fmt.Errorf("failed to update user pokemon: %w", err)
	}

	return entry, nil
}

// DeleteUserPokemon removes an entry scoped to its owner.
func (r *Repository) DeleteUserPokemon(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM user_pokemon WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete user pokemon: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPokemonNotFound
	}

	return nil
}

// scanUserPokemon scans a row into a UserPokemon model, rehydrating the
// serialized type list.
func scanUserPokemon(row pgx.Row) (*model.UserPokemon, error) {
	var (
		entry    model.UserPokemon
		rawTypes string
	)
	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.PokemonID,
		&entry.Name,
		&entry.Image,
		&rawTypes,
		&entry.Category,
		&entry.Notes,
		&entry.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Types, err = decodeTypes(rawTypes)
	if err != nil {
		return nil, fmt.Errorf("corrupt pokemon_types for entry %s: %w", entry.ID, err)
	}

	return &entry, nil
}

// encodeTypes serializes the ordered type list for storage.
func encodeTypes(types []string) string {
	if types == nil {
		types = []string{}
	}
	data, _ := json.Marshal(types)
	return string(data)
}

// decodeTypes rehydrates the stored type list, preserving order.
func decodeTypes(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var types []string
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}
