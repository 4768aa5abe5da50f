package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pokelogger/pokelogger/internal/metrics"
	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
	"github.com/pokelogger/pokelogger/internal/repository"
)

// Collection service errors.
var (
	ErrInvalidCategory = errors.New("invalid category")
	// ErrEntryNotFound covers a missing entry and an entry owned by
	// someone else.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUpstreamMiss means the lookup service has no such creature.
	ErrUpstreamMiss = errors.New("pokemon not found upstream")
	// ErrUpstream covers every other lookup failure.
	ErrUpstream = errors.New("upstream lookup failed")
)

// PokemonStore is the slice of the repository the collection service needs.
type PokemonStore interface {
	InsertUserPokemon(ctx context.Context, p *model.UserPokemon) error
	ListUserPokemon(ctx context.Context, filter repository.PokemonFilter) ([]*model.UserPokemon, error)
	GetUserPokemon(ctx context.Context, ownerID, id string) (*model.UserPokemon, error)
	UpdateUserPokemon(ctx context.Context, ownerID, id string, category model.Category, notes string) (*model.UserPokemon, error)
	DeleteUserPokemon(ctx context.Context, ownerID, id string) error
}

// Lookup fetches canonical creature data from the external collaborator.
type Lookup interface {
	Lookup(ctx context.Context, query string) (*pokeapi.Pokemon, error)
}

// LookupCache caches upstream lookup results.
type LookupCache interface {
	GetLookup(ctx context.Context, query string) (*pokeapi.Pokemon, error)
	SetLookup(ctx context.Context, query string, p *pokeapi.Pokemon, ttl time.Duration) error
}

// List defaults. A page never exceeds maxListLimit entries.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// CollectionService manages a user's creature collection.
type CollectionService struct {
	store    PokemonStore
	lookup   Lookup
	cache    LookupCache
	cacheTTL time.Duration
	metrics  metrics.Recorder
}

// NewCollectionService creates a new CollectionService.
// cache may be nil to disable lookup caching.
func NewCollectionService(store PokemonStore, lookup Lookup, cache LookupCache, cacheTTL time.Duration, recorder metrics.Recorder) *CollectionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CollectionService{
		store:    store,
		lookup:   lookup,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  recorder,
	}
}

// Search proxies a single creature lookup by name or id.
func (s *CollectionService) Search(ctx context.Context, query string) (*pokeapi.Pokemon, error) {
	return s.cachedLookup(ctx, query)
}

// AddInput defines input for adding an entry by upstream id.
type AddInput struct {
	OwnerID   string
	PokemonID int
	Name      string
	Category  model.Category
	Notes     string
}

// Add creates an entry from canonical upstream data. The upstream
// name/image/types are snapshotted at insert time and never refreshed.
func (s *CollectionService) Add(ctx context.Context, input AddInput) (*model.UserPokemon, error) {
	if input.OwnerID == "" || input.PokemonID == 0 || input.Name == "" || input.Category == "" {
		return nil, ErrMissingFields
	}
	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	upstream, err := s.cachedLookup(ctx, strconv.Itoa(input.PokemonID))
	if err != nil {
		return nil, err
	}

	entry := &model.UserPokemon{
		ID:        newEntryID(),
		OwnerID:   input.OwnerID,
		PokemonID: upstream.ID,
		Name:      upstream.Name,
		Image:     upstream.Image,
		Types:     upstream.Types,
		Category:  input.Category,
		Notes:     input.Notes,
		AddedAt:   time.Now().UTC(),
	}

	if err := s.store.InsertUserPokemon(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add entry: %w", err)
	}

	s.metrics.IncEntryAdded()

	return entry, nil
}

// AddCustomInput defines input for adding a caller-described entry.
type AddCustomInput struct {
	OwnerID   string
	PokemonID int
	Name      string
	Image     string
	Types     []string
	Category  model.Category
	Notes     string
}

// AddCustom creates an entry from caller-supplied fields verbatim, with
// no upstream lookup. Used for AI-generated and user-authored creatures;
// PokemonID may be any value, including ones outside the upstream id space.
func (s *CollectionService) AddCustom(ctx context.Context, input AddCustomInput) (*model.UserPokemon, error) {
	if input.OwnerID == "" || input.PokemonID == 0 || input.Name == "" || input.Category == "" {
		return nil, ErrMissingFields
	}
	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	types := input.Types
	if types == nil {
		types = []string{}
	}

	entry := &model.UserPokemon{
		ID:        newEntryID(),
		OwnerID:   input.OwnerID,
		PokemonID: input.PokemonID,
		Name:      input.Name,
		Image:     input.Image,
		Types:     types,
		Category:  input.Category,
		Notes:     input.Notes,
		AddedAt:   time.Now().UTC(),
	}

	if err := s.store.InsertUserPokemon(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add custom entry: %w", err)
	}

	s.metrics.IncEntryAdded()

	return entry, nil
}

// ListInput defines input for listing a user's entries.
type ListInput struct {
	OwnerID  string
	Category model.Category // empty or "all" means no filter
	Page     int
	Limit    int
}

// List returns a page of the owner's entries, newest first. A page past
// the end of the data yields an empty slice, not an error.
func (s *CollectionService) List(ctx context.Context, input ListInput) ([]*model.UserPokemon, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.Limit <= 0 || input.Limit > maxListLimit {
		input.Limit = defaultListLimit
	}

	entries, err := s.store.ListUserPokemon(ctx, repository.PokemonFilter{
		OwnerID:  input.OwnerID,
		Category: input.Category,
		Page:     input.Page,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// Get returns a single entry scoped to its owner.
func (s *CollectionService) Get(ctx context.Context, ownerID, id string) (*model.UserPokemon, error) {
	entry, err := s.store.GetUserPokemon(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// Update changes an entry's category and notes. Category is mandatory
// and revalidated even when only notes change.
func (s *CollectionService) Update(ctx context.Context, ownerID, id string, category model.Category, notes string) (*model.UserPokemon, error) {
	if category == "" {
		return nil, ErrMissingFields
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	entry, err := s.store.UpdateUserPokemon(ctx, ownerID, id, category, notes)
	if err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	s.metrics.IncEntryUpdated()

	return entry, nil
}

// Delete removes an entry scoped to its owner.
func (s *CollectionService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteUserPokemon(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	s.metrics.IncEntryDeleted()

	return nil
}

// cachedLookup consults the cache before going upstream. Cache failures
// degrade to a plain lookup; they never fail the request.
func (s *CollectionService) cachedLookup(ctx context.Context, query string) (*pokeapi.Pokemon, error) {
	if s.cache != nil {
		if cached, _ := s.cache.GetLookup(ctx, query); cached != nil {
			s.metrics.IncLookupCacheHit()
			return cached, nil
		}
		s.metrics.IncLookupCacheMiss()
	}

	result, err := s.lookup.Lookup(ctx, query)
	if err != nil {
		if errors.Is(err, pokeapi.ErrNotFound) {
			return nil, ErrUpstreamMiss
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if s.cache != nil {
		_ = s.cache.SetLookup(ctx, query, result, s.cacheTTL)
	}

	return result, nil
}

// newEntryID generates a unique, creation-time-ordered entry id.
func newEntryID() string {
	return ulid.Make().String()
}
