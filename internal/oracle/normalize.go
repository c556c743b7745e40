package oracle

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Exponents accepted by Parse. Rendering a decimal allocates roughly |exponent| digits.
const (
	MinExponent int32 = -64
	MaxExponent int32 = 64
)

// NormalizedEMA is an EMA with its value at display precision.
type NormalizedEMA struct {
	Value    decimal.Decimal
	Fraction Fraction
}

// NormalizedPriceInfo is a PriceInfo with price and confidence at display precision.
type NormalizedPriceInfo struct {
	Price           decimal.Decimal
	Confidence      decimal.Decimal
	Status          uint32
	CorporateAction uint32
	PublishSlot     uint64
}

// Trading reports whether the observation has trading status.
func (p NormalizedPriceInfo) Trading() bool {
	return p.Status == StatusTrading
}

// NormalizedPriceComponent is a PriceComponent with both observations at display precision.
type NormalizedPriceComponent struct {
	Publisher solana.PublicKey
	Aggregate NormalizedPriceInfo
	Latest    NormalizedPriceInfo
}

// NormalizedAccount is an Account with monetary fields scaled by 10^Exponent.
// Slots, statuses, header integers and fractions keep their raw values.
type NormalizedAccount struct {
	Magic              uint32
	Version            uint32
	OracleType         uint32
	Size               uint32
	PriceType          uint32
	Exponent           int32
	NumComponentPrices uint32
	NumQuoters         uint32
	LastSlot           uint64
	ValidSlot          uint64
	TWAP               NormalizedEMA
	TWAC               NormalizedEMA
	Drv1               decimal.Decimal
	Drv2               decimal.Decimal
	ProductAccountKey  solana.PublicKey
	NextPriceAccount   solana.PublicKey
	PreviousSlot       uint64
	PreviousPrice      decimal.Decimal
	PreviousConfidence decimal.Decimal
	Drv3               decimal.Decimal
	Aggregate          NormalizedPriceInfo
	PriceComponents    []NormalizedPriceInfo
}

// HasMagic reports whether the account carries the oracle magic marker.
func (a NormalizedAccount) HasMagic() bool {
	return a.Magic == Magic
}

// Price returns the normalized aggregate price.
func (a NormalizedAccount) Price() decimal.Decimal {
	return a.Aggregate.Price
}

// PriceFloat returns the aggregate price as a float64. The conversion may round.
func (a NormalizedAccount) PriceFloat() float64 {
	return a.Aggregate.Price.InexactFloat64()
}

// Scaler rescales raw integers by a fixed power of ten.
type Scaler struct {
	exp int32
}

// NewScaler returns a Scaler that divides by 10^(-exponent).
func NewScaler(exponent int32) Scaler {
	return Scaler{exp: exponent}
}

// Scale returns raw * 10^exponent exactly.
func (s Scaler) Scale(raw uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), s.exp)
}

// Factor returns 10^(-exponent), the value raw integers are divided by.
// The result is only meaningful for exponents in [MinExponent, MaxExponent].
func (s Scaler) Factor() decimal.Decimal {
	return decimal.New(1, -s.exp)
}

// EMA scales the EMA value and leaves the fraction untouched.
func (s Scaler) EMA(e EMA) NormalizedEMA {
	return NormalizedEMA{
		Value:    s.Scale(e.Value),
		Fraction: e.Fraction,
	}
}

// PriceInfo scales price and confidence.
func (s Scaler) PriceInfo(p PriceInfo) NormalizedPriceInfo {
	return NormalizedPriceInfo{
		Price:           s.Scale(p.Price),
		Confidence:      s.Scale(p.Confidence),
		Status:          p.Status,
		CorporateAction: p.CorporateAction,
		PublishSlot:     p.PublishSlot,
	}
}

// PriceComponent scales both observations of a publisher component.
func (s Scaler) PriceComponent(c PriceComponent) NormalizedPriceComponent {
	return NormalizedPriceComponent{
		Publisher: c.Publisher,
		Aggregate: s.PriceInfo(c.Aggregate),
		Latest:    s.PriceInfo(c.Latest),
	}
}

// Normalize builds the display-precision view of acct using its own exponent.
// acct is not modified.
func Normalize(acct Account) NormalizedAccount {
	s := NewScaler(acct.Exponent)

	components := make([]NormalizedPriceInfo, 0, len(acct.PriceComponents))
	for _, pc := range acct.PriceComponents {
		components = append(components, s.PriceInfo(pc))
	}

	return NormalizedAccount{
		Magic:              acct.Magic,
		Version:            acct.Version,
		OracleType:         acct.OracleType,
		Size:               acct.Size,
		PriceType:          acct.PriceType,
		Exponent:           acct.Exponent,
		NumComponentPrices: acct.NumComponentPrices,
		NumQuoters:         acct.NumQuoters,
		LastSlot:           acct.LastSlot,
		ValidSlot:          acct.ValidSlot,
		TWAP:               s.EMA(acct.TWAP),
		TWAC:               s.EMA(acct.TWAC),
		Drv1:               s.Scale(acct.Drv1),
		Drv2:               s.Scale(acct.Drv2),
		ProductAccountKey:  acct.ProductAccountKey,
		NextPriceAccount:   acct.NextPriceAccount,
		PreviousSlot:       acct.PreviousSlot,
		PreviousPrice:      s.Scale(acct.PreviousPrice),
		PreviousConfidence: s.Scale(acct.PreviousConfidence),
		Drv3:               s.Scale(acct.Drv3),
		Aggregate:          s.PriceInfo(acct.Aggregate),
		PriceComponents:    components,
	}
}

// Parse decodes data and normalizes the result. Accounts whose exponent lies outside
// [MinExponent, MaxExponent] are rejected with ExponentRangeError.
func Parse(data []byte) (NormalizedAccount, error) {
	acct, err := Decode(data)
	if err != nil {
		return NormalizedAccount{}, err
	}
	if acct.Exponent < MinExponent || acct.Exponent > MaxExponent {
		return NormalizedAccount{}, &ExponentRangeError{Exponent: acct.Exponent}
	}
	return Normalize(acct), nil
}
