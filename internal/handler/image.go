package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pokelogger/pokelogger/internal/ai"
	"github.com/pokelogger/pokelogger/internal/auth"
	"github.com/pokelogger/pokelogger/internal/handler/dto"
	"github.com/pokelogger/pokelogger/internal/imagex"
	"github.com/pokelogger/pokelogger/internal/metrics"
	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
	"github.com/pokelogger/pokelogger/internal/service"
	"github.com/pokelogger/pokelogger/internal/storage"
)

// ImageStore is the slice of the object store the image handler needs.
type ImageStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// Analyzer is the slice of the AI client the image handler needs.
type Analyzer interface {
	Identify(ctx context.Context, imageJPEG []byte) (string, error)
	Pokemonize(ctx context.Context, imageJPEG []byte) (*ai.Analysis, error)
	GenerateImage(ctx context.Context, imagePrompt string) ([]byte, error)
}

// CustomSaver persists caller-described entries and resolves identified
// names against the upstream dataset.
type CustomSaver interface {
	Search(ctx context.Context, query string) (*pokeapi.Pokemon, error)
	AddCustom(ctx context.Context, input service.AddCustomInput) (*model.UserPokemon, error)
}

// ImageHandler handles photo upload, identification, and pokemonization.
type ImageHandler struct {
	store         ImageStore
	analyzer      Analyzer
	collection    CustomSaver
	logger        *slog.Logger
	metrics       metrics.Recorder
	maxUploadSize int64
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(store ImageStore, analyzer Analyzer, collection CustomSaver, logger *slog.Logger, recorder metrics.Recorder, maxUploadSize int64) *ImageHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ImageHandler{
		store:         store,
		analyzer:      analyzer,
		collection:    collection,
		logger:        logger,
		metrics:       recorder,
		maxUploadSize: maxUploadSize,
	}
}

// readUpload pulls the "image" part out of a multipart form, enforcing
// the size cap and an image/* content type, and normalizes it to JPEG.
func (h *ImageHandler) readUpload(w http.ResponseWriter, r *http.Request) (jpeg []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "Image too large")
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, "No image file provided")
		return nil, "", false
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return nil, "", false
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return nil, "", false
	}

	normalized, err := imagex.Normalize(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return nil, "", false
	}

	return normalized, header.Filename, true
}

// Identify handles POST /images/identify.
func (h *ImageHandler) Identify(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	ctx := r.Context()

	jpeg, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	key := storage.NewUploadKey(filename)
	if err := h.store.Upload(ctx, key, jpeg, "image/jpeg"); err != nil {
		h.logger.Error("image upload failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	uploadedURL, err := h.store.SignedURL(ctx, key)
	if err != nil {
		h.logger.Error("presign failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	name, err := h.analyzer.Identify(ctx, jpeg)
	if err != nil {
		h.logger.Error("identification failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to identify Pokemon")
		return
	}

	h.metrics.IncImageIdentified()

	if name == ai.Unknown {
		writeJSON(w, http.StatusOK, dto.IdentifyResponse{
			Success:          false,
			Message:          "Could not identify a Pokemon in this image",
			UploadedImageURL: uploadedURL,
		})
		return
	}

	result, err := h.collection.Search(ctx, name)
	if err != nil {
		if errors.Is(err, service.ErrUpstreamMiss) {
			writeJSON(w, http.StatusOK, dto.IdentifyResponse{
				Success:          false,
				Message:          "Identified as \"" + name + "\" but no matching Pokemon was found",
				IdentifiedAs:     name,
				UploadedImageURL: uploadedURL,
			})
			return
		}
		h.logger.Error("lookup after identify failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch Pokemon data")
		return
	}

	h.logger.Info("pokemon_identified", "user_id", user.ID, "name", name)

	writeJSON(w, http.StatusOK, dto.IdentifyResponse{
		Success:          true,
		Pokemon:          result,
		ImageURL:         result.Image,
		IdentifiedAs:     name,
		UploadedImageURL: uploadedURL,
	})
}

// Pokemonize handles POST /images/pokemonize. Art generation is best
// effort: a generation failure still returns the analysis.
func (h *ImageHandler) Pokemonize(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	ctx := r.Context()

	jpeg, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	key := storage.NewUploadKey(filename)
	if err := h.store.Upload(ctx, key, jpeg, "image/jpeg"); err != nil {
		h.logger.Error("image upload failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	uploadedURL, err := h.store.SignedURL(ctx, key)
	if err != nil {
		h.logger.Error("presign failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	analysis, err := h.analyzer.Pokemonize(ctx, jpeg)
	if err != nil {
		h.logger.Error("pokemonize analysis failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze image")
		return
	}

	h.metrics.IncImagePokemonized()

	resp := dto.PokemonizeResponse{
		Success:          true,
		Analysis:         analysis,
		UploadedImageURL: uploadedURL,
	}

	if png, err := h.analyzer.GenerateImage(ctx, analysis.ImagePrompt); err != nil {
		h.logger.Warn("art generation failed", "user_id", user.ID, "error", err)
	} else {
		genKey := storage.NewGeneratedKey()
		if err := h.store.Upload(ctx, genKey, png, "image/png"); err != nil {
			h.logger.Warn("generated art upload failed", "key", genKey, "error", err)
		} else if genURL, err := h.store.SignedURL(ctx, genKey); err != nil {
			h.logger.Warn("generated art presign failed", "key", genKey, "error", err)
		} else {
			resp.GeneratedPokemonImageURL = genURL
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveCustom handles POST /images/save-custom-pokemon.
func (h *ImageHandler) SaveCustom(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.SaveCustomPokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.collection.AddCustom(r.Context(), service.AddCustomInput{
		OwnerID:   user.ID,
		PokemonID: req.PokemonID,
		Name:      req.PokemonName,
		Image:     req.PokemonImage,
		Types:     req.PokemonTypes,
		Category:  model.Category(req.Category),
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Pokemon ID, name, and category are required")
		case errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "Invalid category")
		default:
			h.logger.Error("failed to save custom pokemon", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save Pokemon")
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// SignedURL handles GET /images/url/*. The wildcard keeps object keys
// with slashes intact.
func (h *ImageHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, http.StatusBadRequest, "File name is required")
		return
	}

	url, err := h.store.SignedURL(r.Context(), key)
	if err != nil {
		h.logger.Error("presign failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate URL")
		return
	}

	writeJSON(w, http.StatusOK, dto.SignedURLResponse{URL: url})
}
