// Package catalog holds the Feed Catalog: the human-curated, chain-indexed
// list of token descriptors that the registry is synchronized from and
// that symbol resolution reads. A Catalog is immutable once built.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/common"
)

//go:embed feeds.json
var embeddedFeeds []byte

// Descriptor is one catalog entry. Quote, Logo and TV are optional.
type Descriptor struct {
	Address  string `json:"address"`
	Base     string `json:"base"`
	BaseName string `json:"baseName"`
	Quote    string `json:"quote,omitempty"`
	Logo     string `json:"logo,omitempty"`
	TV       string `json:"tv,omitempty"`
	ChainID  int64  `json:"chainId,omitempty"`
}

type Catalog struct {
	chains map[int64][]Descriptor
}

// Parse reads a catalog document: a JSON object keyed by decimal chain id,
// each value being the ordered list of descriptors for that chain.
// A descriptor's chainId may be omitted; when present it must match its key.
func Parse(r io.Reader) (*Catalog, error) {
	var raw map[string][]Descriptor
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCatalog, err)
	}

	c := &Catalog{chains: make(map[int64][]Descriptor, len(raw))}
	for key, entries := range raw {
		chainID, err := strconv.ParseInt(key, 10, 64)
		if err != nil || chainID <= 0 {
			return nil, fmt.Errorf("%w: bad chain id %q", common.ErrInvalidCatalog, key)
		}

		list := make([]Descriptor, 0, len(entries))
		for i, d := range entries {
			if d.ChainID == 0 {
				d.ChainID = chainID
			}
			if err := d.validate(chainID); err != nil {
				return nil, fmt.Errorf("%w: chain %d entry %d: %v", common.ErrInvalidCatalog, chainID, i, err)
			}
			list = append(list, d)
		}
		c.chains[chainID] = list
	}
	return c, nil
}

func (d Descriptor) validate(chainID int64) error {
	if d.ChainID != chainID {
		return fmt.Errorf("chainId %d does not match key %d", d.ChainID, chainID)
	}
	if strings.TrimSpace(d.Address) == "" {
		return fmt.Errorf("address is empty")
	}
	if strings.TrimSpace(d.Base) == "" {
		return fmt.Errorf("base is empty")
	}
	if strings.TrimSpace(d.BaseName) == "" {
		return fmt.Errorf("baseName is empty")
	}
	return nil
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(embeddedFeeds))
	if err != nil {
		panic(fmt.Sprintf("embedded feeds.json: %v", err))
	}
	return c
}

// New builds a catalog from in-memory descriptors, grouped by their ChainID.
func New(entries ...Descriptor) *Catalog {
	c := &Catalog{chains: make(map[int64][]Descriptor)}
	for _, d := range entries {
		c.chains[d.ChainID] = append(c.chains[d.ChainID], d)
	}
	return c
}

// ForChain returns a copy of the ordered descriptors for chainID, or nil.
func (c *Catalog) ForChain(chainID int64) []Descriptor {
	if c == nil {
		return nil
	}
	entries := c.chains[chainID]
	if len(entries) == 0 {
		return nil
	}
	out := make([]Descriptor, len(entries))
	copy(out, entries)
	return out
}

// Chains lists the chain ids that have at least one descriptor, ascending.
func (c *Catalog) Chains() []int64 {
	if c == nil {
		return nil
	}
	ids := make([]int64, 0, len(c.chains))
	for id, entries := range c.chains {
		if len(entries) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
