// Package search drives a query through the card data provider, caching
// raw results per query and derived view models per card id.
package search

import (
	"context"
	"errors"
	stdlog "log"
	"strings"
	"sync"
	"time"

	"github.com/peterkuimelis/counterspell/internal/display"
	"github.com/peterkuimelis/counterspell/internal/log"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
)

// ProductPrefix brands every provider failure surfaced to the user.
const ProductPrefix = "Counter Spell: "

// ErrEmptyQuery is returned for a blank or whitespace-only query.
var ErrEmptyQuery = errors.New("search: empty query")

// Provider is the external card-data service. *scryfall.Client satisfies
// it; tests substitute a fake.
type Provider interface {
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
	ListSymbols(ctx context.Context) (scryfall.SymbolMap, error)
}

// Page is one rendered page of search results.
type Page struct {
	Query      string             `json:"query"`
	TotalCards int                `json:"total_cards"`
	Cards      []display.CardView `json:"cards"`
}

// Orchestrator owns the search flow: query cache, symbol map, view-model
// building and the render cache.
type Orchestrator struct {
	provider Provider
	latency  time.Duration
	logger   log.EventLogger
	noCache  bool

	mu      sync.Mutex
	queries map[string]*scryfall.SearchResult
	byID    map[string]scryfall.Card
	views   *display.Cache[display.CardView]

	symbolsOnce sync.Once
	symbols     scryfall.SymbolMap
}

// New returns an orchestrator over the given provider. latency, when
// positive, is an artificial delay inserted before each provider fetch.
// A nil logger disables event recording.
func New(provider Provider, latency time.Duration, logger log.EventLogger) *Orchestrator {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Orchestrator{
		provider: provider,
		latency:  latency,
		logger:   logger,
		queries:  make(map[string]*scryfall.SearchResult),
		byID:     make(map[string]scryfall.Card),
		views:    display.NewCache[display.CardView](),
	}
}

// DisableQueryCache turns off the per-query result cache; every search
// then reaches the provider. The view cache stays active.
func (o *Orchestrator) DisableQueryCache() {
	o.noCache = true
}

// Search resolves a query to a page of card views. Identical queries hit
// the request cache and never reach the provider twice. Overlapping
// in-flight searches are neither cancelled nor de-duplicated; the last
// writer wins the cache slot.
func (o *Orchestrator) Search(ctx context.Context, query string) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var result *scryfall.SearchResult
	var cached bool
	if !o.noCache {
		o.mu.Lock()
		result, cached = o.queries[query]
		o.mu.Unlock()
	}

	if !cached {
		if o.latency > 0 {
			t := time.NewTimer(o.latency)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		var err error
		result, err = o.provider.SearchCards(ctx, query)
		if err != nil {
			o.logger.Log(log.NewSearchFailedEvent(query, err))
			return nil, err
		}

		o.mu.Lock()
		if !o.noCache {
			o.queries[query] = result
		}
		for _, card := range result.Data {
			o.byID[card.ID] = card
		}
		o.mu.Unlock()
	}

	symbols := o.symbolMap(ctx)

	page := &Page{Query: query, TotalCards: result.TotalCards}
	for i := range result.Data {
		card := result.Data[i]
		if card.ID == "" {
			return nil, display.ErrNoCard
		}
		view := o.views.GetOrCompute(card.ID, func() display.CardView {
			v, _ := display.Build(&card, symbols)
			return v
		})
		page.Cards = append(page.Cards, view)
	}

	o.logger.Log(log.NewSearchEvent(query, page.TotalCards, cached))
	return page, nil
}

// CardByID returns a raw card seen in any earlier search result. Deck
// additions reference cards this way, mirroring the flow where every
// added card comes off a results list.
func (o *Orchestrator) CardByID(id string) (scryfall.Card, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	card, ok := o.byID[id]
	return card, ok
}

// CardByName returns a raw card from earlier results by exact display
// name. Convenience for the CLI and MCP surfaces.
func (o *Orchestrator) CardByName(name string) (scryfall.Card, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, card := range o.byID {
		if card.Name == name {
			return card, true
		}
	}
	return scryfall.Card{}, false
}

// symbolMap resolves the provider's symbol listing once per session. A
// provider failure degrades to an empty map: cost tokens then render as
// their literal text, which is the documented fallback rather than an
// error.
func (o *Orchestrator) symbolMap(ctx context.Context) scryfall.SymbolMap {
	o.symbolsOnce.Do(func() {
		symbols, err := o.provider.ListSymbols(ctx)
		if err != nil {
			stdlog.Printf("Warning: could not load symbol map: %v", err)
			symbols = scryfall.SymbolMap{}
		}
		o.symbols = symbols
	})
	return o.symbols
}

// UserMessage renders an error from Search as user-facing alert text.
// Provider failures carry the fixed product prefix and the literal
// provider reason; input validation reads as a plain instruction.
func UserMessage(err error) string {
	if errors.Is(err, ErrEmptyQuery) {
		return "Please enter a search query"
	}

	var apiErr *scryfall.APIError
	if errors.As(err, &apiErr) {
		return ProductPrefix + apiErr.Error()
	}
	return ProductPrefix + "Error fetching data"
}
