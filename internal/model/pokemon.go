// Package model defines domain entities for the application.
package model

import "time"

// Category classifies an entry in a user's collection.
type Category string

const (
	CategoryCaught      Category = "caught"
	CategoryWantToCatch Category = "want-to-catch"
	CategoryFavorites   Category = "favorites"

	// CategoryAll is a list-filter sentinel meaning "no filter".
	// It is never stored.
	CategoryAll Category = "all"
)

// IsValid reports whether the category may be stored on an entry.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCaught, CategoryWantToCatch, CategoryFavorites:
		return true
	}
	return false
}

// UserPokemon is one user's saved reference to a creature.
// (OwnerID, ID) uniquely identifies an entry; every store operation is
// scoped to the owner. PokemonID is the upstream identifier, or an
// arbitrary value for custom entries.
type UserPokemon struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	PokemonID int       `json:"pokemonId"`
	Name      string    `json:"pokemonName"`
	Image     string    `json:"pokemonImage"`
	Types     []string  `json:"pokemonTypes"`
	Category  Category  `json:"category"`
	Notes     string    `json:"notes"`
	AddedAt   time.Time `json:"dateAdded"`
}
