package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// QuoteRepository resolves the current price for a symbol. The static
// implementation serves a fixed table; a real market-data feed would slot in
// behind the same interface.
type QuoteRepository interface {
	GetQuote(ctx context.Context, symbol string) (float64, bool)
}

// defaultQuotes is the reference price table used when no override is
// configured for a symbol.
var defaultQuotes = map[string]float64{
	"AAPL":  175.50,
	"TSLA":  245.30,
	"GOOGL": 142.80,
	"MSFT":  378.90,
	"AMZN":  153.20,
	"NVDA":  485.60,
}

// NewStaticQuoteRepository creates a quote repository backed by the static
// table, with per-symbol results held in a TTL cache. Overrides take
// precedence over the built-in table.
func NewStaticQuoteRepository(overrides map[string]float64, cacheTTL time.Duration) QuoteRepository {
	quotes := make(map[string]float64, len(defaultQuotes)+len(overrides))
	for symbol, price := range defaultQuotes {
		quotes[symbol] = price
	}
	for symbol, price := range overrides {
		quotes[symbol] = price
	}

	return &staticQuoteRepository{
		quotes: quotes,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type staticQuoteRepository struct {
	quotes map[string]float64
	cache  *gocache.Cache
}

// GetQuote returns the current price for the symbol, or false when unknown.
func (r *staticQuoteRepository) GetQuote(_ context.Context, symbol string) (float64, bool) {
	if cached, ok := r.cache.Get(symbol); ok {
		return cached.(float64), true
	}

	price, ok := r.quotes[symbol]
	if !ok {
		return 0, false
	}
	r.cache.Set(symbol, price, gocache.DefaultExpiration)
	return price, true
}
