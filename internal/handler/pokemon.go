package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pokelogger/pokelogger/internal/auth"
	"github.com/pokelogger/pokelogger/internal/handler/dto"
	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
	"github.com/pokelogger/pokelogger/internal/service"
)

// CollectionOps is the slice of the collection service the handler needs.
type CollectionOps interface {
	Search(ctx context.Context, query string) (*pokeapi.Pokemon, error)
	Add(ctx context.Context, input service.AddInput) (*model.UserPokemon, error)
	List(ctx context.Context, input service.ListInput) ([]*model.UserPokemon, error)
	Get(ctx context.Context, ownerID, id string) (*model.UserPokemon, error)
	Update(ctx context.Context, ownerID, id string, category model.Category, notes string) (*model.UserPokemon, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// PokemonHandler handles creature search and collection endpoints.
type PokemonHandler struct {
	svc    CollectionOps
	logger *slog.Logger
}

// NewPokemonHandler creates a new PokemonHandler.
func NewPokemonHandler(svc CollectionOps, logger *slog.Logger) *PokemonHandler {
	return &PokemonHandler{
		svc:    svc,
		logger: logger,
	}
}

// Search handles GET /pokemon/search/{query}. Public, no auth.
func (h *PokemonHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	result, err := h.svc.Search(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUpstreamMiss):
			writeError(w, http.StatusNotFound, "Pokemon not found")
		default:
			h.logger.Error("pokemon search failed", "query", query, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch Pokemon data")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /pokemon/my-pokemon.
func (h *PokemonHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.AddPokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.svc.Add(r.Context(), service.AddInput{
		OwnerID:   user.ID,
		PokemonID: req.PokemonID,
		Name:      req.PokemonName,
		Category:  model.Category(req.Category),
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Pokemon ID, name, and category are required")
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "Invalid category")
		case errors.Is(err, service.ErrUpstreamMiss):
			writeError(w, http.StatusNotFound, "Pokemon not found in PokeAPI")
		default:
			h.logger.Error("failed to add pokemon", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save Pokemon")
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /pokemon/my-pokemon.
// Optional query params: category, page, limit.
func (h *PokemonHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	category := model.Category(r.URL.Query().Get("category"))
	if category != "" && category != model.CategoryAll && !category.IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.svc.List(r.Context(), service.ListInput{
		OwnerID:  user.ID,
		Category: category,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.logger.Error("failed to list pokemon", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch Pokemon collection")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Get handles GET /pokemon/my-pokemon/{id}.
func (h *PokemonHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	entry, err := h.svc.Get(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "Pokemon not found")
		default:
			h.logger.Error("failed to get pokemon", "user_id", user.ID, "entry_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch Pokemon")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Update handles PUT /pokemon/my-pokemon/{id}.
func (h *PokemonHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdatePokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.svc.Update(r.Context(), user.ID, id, model.Category(req.Category), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Category is required")
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "Invalid category")
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "Pokemon not found")
		default:
			h.logger.Error("failed to update pokemon", "user_id", user.ID, "entry_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update Pokemon")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /pokemon/my-pokemon/{id}.
func (h *PokemonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "Pokemon not found")
		default:
			h.logger.Error("failed to delete pokemon", "user_id", user.ID, "entry_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete Pokemon")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Pokemon deleted successfully"})
}
