package dto

import (
	"github.com/pokelogger/pokelogger/internal/ai"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
)

// IdentifyResponse is the body of POST /images/identify.
// On a miss Pokemon is nil and Message explains why; the uploaded image
// URL is returned either way.
type IdentifyResponse struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message,omitempty"`
	Pokemon          *pokeapi.Pokemon `json:"pokemon,omitempty"`
	UploadedImageURL string           `json:"uploadedImageUrl,omitempty"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	IdentifiedAs     string           `json:"identifiedAs,omitempty"`
}

// PokemonizeResponse is the body of POST /images/pokemonize.
type PokemonizeResponse struct {
	Success                  bool         `json:"success"`
	Analysis                 *ai.Analysis `json:"analysis"`
	UploadedImageURL         string       `json:"uploadedImageUrl"`
	GeneratedPokemonImageURL string       `json:"generatedPokemonImageUrl,omitempty"`
}

// SignedURLResponse is the body of GET /images/url/{fileName}.
type SignedURLResponse struct {
	URL string `json:"url"`
}
