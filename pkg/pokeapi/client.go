// Package pokeapi is a small client for the public PokeAPI REST service.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"tableflip.dev/livedex/pkg/names"
	"tableflip.dev/livedex/pkg/resolve"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	DefaultTimeout = 15 * time.Second
	DefaultRetries = 2
	DefaultRate    = "100-M"

	limiterKey = "pokeapi"
)

// ErrNotFound is returned for a 404 response. It is never retried.
var ErrNotFound = errors.New("pokeapi: not found")

// Options configures a Client. Zero values take the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	// Rate is a ulule limiter rate such as "100-M". "" disables pacing.
	Rate       string
	HTTPClient *http.Client
	// Backoff returns the wait before retry attempt n (n >= 1).
	Backoff func(n int) time.Duration
}

// Client fetches pokedex, pokemon and species resources.
type Client struct {
	baseURL    string
	retryCount int
	client     *http.Client
	limiter    *limiter.Limiter
	backoff    func(n int) time.Duration
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		retryCount: opts.Retries,
		client:     opts.HTTPClient,
		backoff:    opts.Backoff,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.retryCount < 0 {
		c.retryCount = 0
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.backoff == nil {
		c.backoff = exponential
	}
	if opts.Rate != "" {
		rate, err := limiter.NewRateFromFormatted(opts.Rate)
		if err != nil {
			return nil, fmt.Errorf("pokeapi: rate %q: %w", opts.Rate, err)
		}
		c.limiter = limiter.New(memory.NewStore(), rate)
	}
	return c, nil
}

// exponential backs off 100ms, 200ms, 400ms...
func exponential(n int) time.Duration {
	return time.Duration(100*(1<<uint(n-1))) * time.Millisecond
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// pace blocks until the limiter admits another request.
func (c *Client) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	for {
		lc, err := c.limiter.Get(ctx, limiterKey)
		if err != nil {
			// A failing limiter must not block the request.
			log.Debug().Err(err).Msg("pokeapi: limiter error")
			return nil
		}
		if !lc.Reached {
			return nil
		}
		wait := time.Until(time.Unix(lc.Reset, 0))
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		log.Debug().Dur("wait", wait).Msg("pokeapi: pacing requests")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// getJSON GETs path under the base URL and decodes the body into out,
// retrying transport failures and non-404 error statuses.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
		if err := c.pace(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("pokeapi: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Str("url", url).Msg("pokeapi: closing response body")
		}
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("pokeapi: decode %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("pokeapi: GET %s failed after %d attempts: %w", path, c.retryCount+1, lastErr)
}

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokedexResponse struct {
	PokemonEntries []struct {
		EntryNumber    int           `json:"entry_number"`
		PokemonSpecies namedResource `json:"pokemon_species"`
	} `json:"pokemon_entries"`
}

type pokemonResponse struct {
	Species namedResource `json:"species"`
}

type speciesResponse struct {
	Name  string `json:"name"`
	Names []struct {
		Name     string        `json:"name"`
		Language namedResource `json:"language"`
	} `json:"names"`
}

// PokedexEntries returns the raw rows of a pokedex in response order.
func (c *Client) PokedexEntries(ctx context.Context, pokedexID int) ([]resolve.RawEntry, error) {
	var payload pokedexResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/pokedex/%d/", pokedexID), &payload); err != nil {
		return nil, err
	}
	entries := make([]resolve.RawEntry, len(payload.PokemonEntries))
	for i, e := range payload.PokemonEntries {
		entries[i] = resolve.RawEntry{EntryNumber: e.EntryNumber, SpeciesURL: e.PokemonSpecies.URL}
	}
	return entries, nil
}

// SpeciesForPokemon resolves a pokemon (possibly form) id to its species.
func (c *Client) SpeciesForPokemon(ctx context.Context, pokemonID int) (int, error) {
	var payload pokemonResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/pokemon/%d", pokemonID), &payload); err != nil {
		return 0, err
	}
	id, ok := resolve.ParseSpeciesURL(payload.Species.URL)
	if !ok {
		return 0, fmt.Errorf("pokeapi: pokemon %d: malformed species url %q", pokemonID, payload.Species.URL)
	}
	return id, nil
}

// SpeciesName returns the English name of a species, else its normalized
// slug. An id with no species entry (404) is retried as a pokemon (form)
// id; other failures are returned as is.
func (c *Client) SpeciesName(ctx context.Context, id int) (string, error) {
	name, err := c.speciesName(ctx, id)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("pokeapi: name for %d: %w", id, err)
	}
	species, ferr := c.SpeciesForPokemon(ctx, id)
	if ferr != nil {
		return "", fmt.Errorf("pokeapi: name for %d: %w", id, err)
	}
	return c.speciesName(ctx, species)
}

func (c *Client) speciesName(ctx context.Context, id int) (string, error) {
	var payload speciesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/pokemon-species/%d", id), &payload); err != nil {
		return "", err
	}
	for _, n := range payload.Names {
		if n.Language.Name == "en" && n.Name != "" {
			return n.Name, nil
		}
	}
	return names.Normalize(payload.Name), nil
}
