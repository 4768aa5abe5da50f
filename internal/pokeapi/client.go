// Package pokeapi is a client for the external creature lookup service.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Lookup errors. Callers treat every call as fire-once, fail-hard.
var (
	// ErrNotFound means the upstream has no creature for the query.
	ErrNotFound = errors.New("pokemon not found upstream")
	// ErrUpstream covers every other transport or decode failure.
	ErrUpstream = errors.New("upstream lookup failed")
)

// Pokemon is the normalized upstream record.
type Pokemon struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Image  string   `json:"image"`
	Types  []string `json:"types"`
	Stats  []Stat   `json:"stats,omitempty"`
	Height int      `json:"height,omitempty"`
	Weight int      `json:"weight,omitempty"`
}

// Stat is one base stat of a creature.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"base_stat"`
}

// Client performs lookups against a PokeAPI-compatible endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a lookup client. The timeout bounds the whole request;
// there are no retries.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// wire structures mirroring the upstream response shape.
type apiPokemon struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Height int `json:"height"`
	Weight int `json:"weight"`
}

// Lookup fetches a creature by id or name. Queries are lowercased the way
// the upstream expects.
func (c *Client) Lookup(ctx context.Context, query string) (*Pokemon, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, ErrNotFound
	}

	endpoint := c.baseURL + "/pokemon/" + url.PathEscape(normalized)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var raw apiPokemon
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	return raw.normalize(), nil
}

func (p *apiPokemon) normalize() *Pokemon {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}

	stats := make([]Stat, 0, len(p.Stats))
	for _, s := range p.Stats {
		stats = append(stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}

	return &Pokemon{
		ID:     p.ID,
		Name:   p.Name,
		Image:  p.Sprites.Other.OfficialArtwork.FrontDefault,
		Types:  types,
		Stats:  stats,
		Height: p.Height,
		Weight: p.Weight,
	}
}
