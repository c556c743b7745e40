package symbols

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()

	address, ok := table.Lookup("sol/usd")
	require.True(t, ok)
	assert.Equal(t, "H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG", address.String())

	_, ok = table.Lookup("XYZ/USD")
	assert.False(t, ok)

	assert.Len(t, table.Symbols(), 10)
	assert.Equal(t, "ADA/USD", table.Symbols()[0])
}

func TestNewTableOverrides(t *testing.T) {
	custom := solana.PublicKeyFromBytes(make([]byte, 32))
	table, err := NewTable(map[string]string{
		"xyz/usd": custom.String(),
		"SOL/USD": "JBu1AL4obBcCMqKBBxhpWCNUt136ijcuMZLFvTP7iWdB",
	})
	require.NoError(t, err)

	got, ok := table.Lookup("XYZ/USD")
	require.True(t, ok)
	assert.Equal(t, custom, got)

	sol, _ := table.Lookup("SOL/USD")
	assert.Equal(t, "JBu1AL4obBcCMqKBBxhpWCNUt136ijcuMZLFvTP7iWdB", sol.String())
	assert.Len(t, table.Entries(), 11)
}

func TestNewTableInvalidOverride(t *testing.T) {
	_, err := NewTable(map[string]string{"BAD/USD": "not-base58-0OIl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD/USD")
}

func TestResolve(t *testing.T) {
	table := Default()
	raw := solana.PublicKeyFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32})

	entries, err := table.Resolve([]string{
		"btc/usd",
		" ",
		"GVXRSBjFk6e6J3NbVPXohDJetcTjaeeuykUpbQF8UoMU",
		raw.String(),
		"ETH/USD",
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "BTC/USD", entries[0].Symbol)
	assert.Equal(t, "", entries[1].Symbol)
	assert.Equal(t, raw, entries[1].Address)
	assert.Equal(t, raw.String(), entries[1].Label())
	assert.Equal(t, "ETH/USD", entries[2].Label())
}

func TestResolveKnownAddressGetsSymbol(t *testing.T) {
	entries, err := Default().Resolve([]string{"FsSM3s38PX9K7Dn6eGzuE29S2Dsk1Sss1baytTQdCaQj"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "DOGE/USD", entries[0].Symbol)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Default().Resolve([]string{"NOPE/USD"})
	require.Error(t, err)
}

func TestResolveSharedAddressPicksFirstSymbol(t *testing.T) {
	shared := "11111111111111111111111111111111"
	table, err := NewTable(map[string]string{"ZZZ/USD": shared, "AAA/USD": shared, "MMM/USD": shared})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		entries, err := table.Resolve([]string{shared})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "AAA/USD", entries[0].Symbol)
	}
}
