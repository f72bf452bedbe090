// Package resolver answers query-time questions about a symbol on a chain:
// which contract it maps to, what it is called and which charting ticker
// to show. Lookups never fail; anything unknown is simply absent.
package resolver

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/catalog"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{2,10}$`)

// IsPlausibleSymbol reports whether text looks like a token symbol:
// two to ten latin letters, ignoring case and surrounding spaces.
func IsPlausibleSymbol(text string) bool {
	return symbolPattern.MatchString(normalizeSymbol(text))
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Resolver is an immutable symbol index over a catalog. It is safe for
// concurrent use.
type Resolver struct {
	index map[int64]map[string]catalog.Descriptor
}

// New indexes every chain of c. On duplicate symbols within a chain the
// first catalog entry wins.
func New(c *catalog.Catalog) *Resolver {
	r := &Resolver{index: make(map[int64]map[string]catalog.Descriptor)}
	for _, chainID := range c.Chains() {
		bySymbol := make(map[string]catalog.Descriptor)
		for _, d := range c.ForChain(chainID) {
			sym := normalizeSymbol(d.Base)
			if _, dup := bySymbol[sym]; dup {
				continue
			}
			bySymbol[sym] = d
		}
		r.index[chainID] = bySymbol
	}
	return r
}

// Lookup returns the descriptor for symbol on chainID. A zero chainID
// means "no chain selected" and is always absent.
func (r *Resolver) Lookup(symbol string, chainID int64) (catalog.Descriptor, bool) {
	if r == nil || chainID == 0 {
		return catalog.Descriptor{}, false
	}
	d, ok := r.index[chainID][normalizeSymbol(symbol)]
	return d, ok
}

// Ticker returns the charting ticker, absent when the entry has none.
func (r *Resolver) Ticker(symbol string, chainID int64) (string, bool) {
	d, ok := r.Lookup(symbol, chainID)
	if !ok || d.TV == "" {
		return "", false
	}
	return d.TV, true
}

func (r *Resolver) Address(symbol string, chainID int64) (string, bool) {
	d, ok := r.Lookup(symbol, chainID)
	if !ok {
		return "", false
	}
	return d.Address, true
}

func (r *Resolver) Name(symbol string, chainID int64) (string, bool) {
	d, ok := r.Lookup(symbol, chainID)
	if !ok {
		return "", false
	}
	return d.BaseName, true
}
