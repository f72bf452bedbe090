package catalog

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Polygon(t *testing.T) {
	c := Default()

	entries := c.ForChain(137)
	require.NotEmpty(t, entries)

	first := entries[0]
	assert.Equal(t, "ETH", first.Base)
	assert.Equal(t, "BINANCE:ETHUSDT", first.TV)
	assert.Equal(t, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", first.Address)
	assert.Equal(t, int64(137), first.ChainID)

	for _, d := range entries {
		assert.Equal(t, int64(137), d.ChainID)
		assert.NotEmpty(t, d.Address)
		assert.NotEmpty(t, d.BaseName)
	}
}

func TestDefault_Chains(t *testing.T) {
	assert.Equal(t, []int64{1, 137}, Default().Chains())
}

func TestForChain_UnknownAndZero(t *testing.T) {
	c := Default()
	assert.Nil(t, c.ForChain(999999))
	assert.Nil(t, c.ForChain(0))

	var nilCat *Catalog
	assert.Nil(t, nilCat.ForChain(137))
	assert.Nil(t, nilCat.Chains())
}

func TestForChain_ReturnsCopy(t *testing.T) {
	c := Default()
	got := c.ForChain(137)
	got[0].Base = "XXX"

	assert.Equal(t, "ETH", c.ForChain(137)[0].Base)
}

func TestParse_FillsChainID(t *testing.T) {
	doc := `{"10": [{"address": "0xabc", "base": "OP", "baseName": "Optimism"}]}`

	c, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	entries := c.ForChain(10)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].ChainID)
	assert.Empty(t, entries[0].TV)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"137": [`},
		{"non numeric key", `{"polygon": []}`},
		{"zero key", `{"0": []}`},
		{"chain mismatch", `{"137": [{"address": "0x1", "base": "A", "baseName": "A", "chainId": 1}]}`},
		{"missing address", `{"137": [{"base": "A", "baseName": "A"}]}`},
		{"missing base", `{"137": [{"address": "0x1", "baseName": "A"}]}`},
		{"missing name", `{"137": [{"address": "0x1", "base": "A"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidCatalog)
		})
	}
}

func TestNew_GroupsByChain(t *testing.T) {
	c := New(
		Descriptor{ChainID: 1, Address: "0x1", Base: "A", BaseName: "A"},
		Descriptor{ChainID: 2, Address: "0x2", Base: "B", BaseName: "B"},
		Descriptor{ChainID: 1, Address: "0x3", Base: "C", BaseName: "C"},
	)

	assert.Equal(t, []int64{1, 2}, c.Chains())
	got := c.ForChain(1)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Base)
	assert.Equal(t, "C", got[1].Base)
}
