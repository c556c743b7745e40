package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// builtin maps price symbols to their mainnet oracle price accounts.
var builtin = map[string]solana.PublicKey{
	"SOL/USD":  solana.MustPublicKeyFromBase58("H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG"),
	"ETH/USD":  solana.MustPublicKeyFromBase58("JBu1AL4obBcCMqKBBxhpWCNUt136ijcuMZLFvTP7iWdB"),
	"BTC/USD":  solana.MustPublicKeyFromBase58("GVXRSBjFk6e6J3NbVPXohDJetcTjaeeuykUpbQF8UoMU"),
	"BNB/USD":  solana.MustPublicKeyFromBase58("4CkQJBxhU8EZ2UjhigbtdaPbpTe6mqf811fipYBFbSYN"),
	"ADA/USD":  solana.MustPublicKeyFromBase58("3pyn4svBbxJ9Wnn3RVeafyLWfzie6yC5eTig2S62v9SC"),
	"DOT/USD":  solana.MustPublicKeyFromBase58("EcV1X1gY2yb4KXxjVQtTHTbioum2gvmPnFk4zYAt7zne"),
	"DOGE/USD": solana.MustPublicKeyFromBase58("FsSM3s38PX9K7Dn6eGzuE29S2Dsk1Sss1baytTQdCaQj"),
	"LUNA/USD": solana.MustPublicKeyFromBase58("5bmWuR1dgP4avtGYMNKLuxumZTVKGgoN2BCMXWDNL9nY"),
	"ATOM/USD": solana.MustPublicKeyFromBase58("CrCpTerNqtZvqLcKqz1k13oVeXV9WkMD2zA9hBKXrsbN"),
	"COPE/USD": solana.MustPublicKeyFromBase58("9xYBiDWYsh2fHzpsz3aaCnNHCKWBNtfEDLtU6kS4aFD9"),
}

// Entry pairs a symbol with its price account. Symbol is empty for raw addresses.
type Entry struct {
	Symbol  string
	Address solana.PublicKey
}

// Label returns the symbol, or the address when no symbol is known.
func (e Entry) Label() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	return e.Address.String()
}

// Table resolves symbols to price accounts.
type Table struct {
	entries map[string]solana.PublicKey
}

// Default returns the built-in table.
func Default() *Table {
	t, _ := NewTable(nil)
	return t
}

// NewTable builds a table from the built-ins plus symbol=base58 overrides.
func NewTable(overrides map[string]string) (*Table, error) {
	entries := make(map[string]solana.PublicKey, len(builtin)+len(overrides))
	for symbol, address := range builtin {
		entries[symbol] = address
	}

	for symbol, raw := range overrides {
		symbol = normalizeSymbol(symbol)
		if symbol == "" {
			continue
		}
		address, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid address for %s: %w", symbol, err)
		}
		entries[symbol] = address
	}

	return &Table{entries: entries}, nil
}

// Lookup returns the price account for symbol, ignoring case.
func (t *Table) Lookup(symbol string) (solana.PublicKey, bool) {
	address, ok := t.entries[normalizeSymbol(symbol)]
	return address, ok
}

// Symbols returns all known symbols in sorted order.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.entries))
	for symbol := range t.entries {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// Entries returns all entries sorted by symbol.
func (t *Table) Entries() []Entry {
	symbols := t.Symbols()
	out := make([]Entry, 0, len(symbols))
	for _, symbol := range symbols {
		out = append(out, Entry{Symbol: symbol, Address: t.entries[symbol]})
	}
	return out
}

// Resolve converts symbols and base58 addresses into entries, dropping duplicates.
// Inputs that are neither a known symbol nor a valid address are rejected.
func (t *Table) Resolve(inputs []string) ([]Entry, error) {
	out := make([]Entry, 0, len(inputs))
	seen := make(map[solana.PublicKey]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		entry, err := t.resolveOne(input)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[entry.Address]; ok {
			continue
		}
		seen[entry.Address] = struct{}{}
		out = append(out, entry)
	}
	return out, nil
}

func (t *Table) resolveOne(input string) (Entry, error) {
	if address, ok := t.Lookup(input); ok {
		return Entry{Symbol: normalizeSymbol(input), Address: address}, nil
	}

	address, err := solana.PublicKeyFromBase58(input)
	if err != nil {
		return Entry{}, fmt.Errorf("unknown symbol or invalid address: %s", input)
	}
	for _, symbol := range t.Symbols() {
		if t.entries[symbol] == address {
			return Entry{Symbol: symbol, Address: address}, nil
		}
	}
	return Entry{Address: address}, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
