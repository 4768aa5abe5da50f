package dto

// AddPokemonRequest is the body of POST /pokemon/my-pokemon.
type AddPokemonRequest struct {
	PokemonID   int    `json:"pokemonId"`
	PokemonName string `json:"pokemonName"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

// UpdatePokemonRequest is the body of PUT /pokemon/my-pokemon/{id}.
type UpdatePokemonRequest struct {
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// SaveCustomPokemonRequest is the body of POST /images/save-custom-pokemon.
// Image and types are optional; the entry is stored verbatim with no
// upstream lookup.
type SaveCustomPokemonRequest struct {
	PokemonID    int      `json:"pokemonId"`
	PokemonName  string   `json:"pokemonName"`
	PokemonImage string   `json:"pokemonImage"`
	PokemonTypes []string `json:"pokemonTypes"`
	Category     string   `json:"category"`
	Notes        string   `json:"notes"`
}
