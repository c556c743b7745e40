package oracle

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"pythscope/internal/codec"
)

// Packed record widths.
const (
	FractionSize       = 16
	EMASize            = 8 + FractionSize
	PriceInfoSize      = 8 + 8 + 4 + 4 + 8
	PriceComponentSize = codec.PublicKeySize + 2*PriceInfoSize
)

// StatusTrading marks a price observation as currently trading.
const StatusTrading uint32 = 1

// Fraction is the numerator/denominator pair carried by an EMA. It is never rescaled.
type Fraction struct {
	Numerator   uint64
	Denominator uint64
}

// EMA is a raw exponential moving average record (twap or twac).
type EMA struct {
	Value    uint64
	Fraction Fraction
}

// PriceInfo is one raw price observation.
type PriceInfo struct {
	Price           uint64
	Confidence      uint64
	Status          uint32
	CorporateAction uint32
	PublishSlot     uint64
}

// Trading reports whether the observation has trading status.
func (p PriceInfo) Trading() bool {
	return p.Status == StatusTrading
}

// PriceComponent is a single publisher contribution.
type PriceComponent struct {
	Publisher solana.PublicKey
	Aggregate PriceInfo
	Latest    PriceInfo
}

// DecodeFraction reads a Fraction from r.
func DecodeFraction(r *codec.Reader) (Fraction, error) {
	var f Fraction
	var err error
	if f.Numerator, err = r.Uint64(); err != nil {
		return Fraction{}, fmt.Errorf("fraction numerator: %w", err)
	}
	if f.Denominator, err = r.Uint64(); err != nil {
		return Fraction{}, fmt.Errorf("fraction denominator: %w", err)
	}
	return f, nil
}

// DecodeEMA reads an EMA from r.
func DecodeEMA(r *codec.Reader) (EMA, error) {
	var e EMA
	var err error
	if e.Value, err = r.Uint64(); err != nil {
		return EMA{}, fmt.Errorf("ema value: %w", err)
	}
	if e.Fraction, err = DecodeFraction(r); err != nil {
		return EMA{}, fmt.Errorf("ema: %w", err)
	}
	return e, nil
}

// DecodePriceInfo reads a PriceInfo from r.
func DecodePriceInfo(r *codec.Reader) (PriceInfo, error) {
	var p PriceInfo
	var err error
	if p.Price, err = r.Uint64(); err != nil {
		return PriceInfo{}, fmt.Errorf("price info price: %w", err)
	}
	if p.Confidence, err = r.Uint64(); err != nil {
		return PriceInfo{}, fmt.Errorf("price info confidence: %w", err)
	}
	if p.Status, err = r.Uint32(); err != nil {
		return PriceInfo{}, fmt.Errorf("price info status: %w", err)
	}
	if p.CorporateAction, err = r.Uint32(); err != nil {
		return PriceInfo{}, fmt.Errorf("price info corporate action: %w", err)
	}
	if p.PublishSlot, err = r.Uint64(); err != nil {
		return PriceInfo{}, fmt.Errorf("price info publish slot: %w", err)
	}
	return p, nil
}

// DecodePriceComponent reads a PriceComponent from r.
func DecodePriceComponent(r *codec.Reader) (PriceComponent, error) {
	var c PriceComponent
	var err error
	if c.Publisher, err = r.PublicKey(); err != nil {
		return PriceComponent{}, fmt.Errorf("price component publisher: %w", err)
	}
	if c.Aggregate, err = DecodePriceInfo(r); err != nil {
		return PriceComponent{}, fmt.Errorf("price component aggregate: %w", err)
	}
	if c.Latest, err = DecodePriceInfo(r); err != nil {
		return PriceComponent{}, fmt.Errorf("price component latest: %w", err)
	}
	return c, nil
}
