package oracle

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"pythscope/internal/codec"
)

// Magic is the marker a Pyth oracle account carries in its first field.
const Magic uint32 = 0xa1b2c3d4

// FixedPrefixSize is the length of everything up to and including the aggregate PriceInfo.
const FixedPrefixSize = 5*codec.Uint32Size + // magic, version, oracle_type, size, price_type
	codec.Int32Size + // exponent
	2*codec.Uint32Size + // num_component_prices, num_quoters
	2*codec.Uint64Size + // last_slot, valid_slot
	2*EMASize + // twap, twac
	2*codec.Uint64Size + // drv1, drv2
	2*codec.PublicKeySize + // product_account_key, next_price_account_key
	4*codec.Uint64Size + // previous_slot, previous_price, previous_confidence, drv3
	PriceInfoSize // aggregate

// Account is a decoded oracle price account at raw integer precision.
type Account struct {
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
	TWAP               EMA
	TWAC               EMA
	Drv1               uint64
	Drv2               uint64
	ProductAccountKey  solana.PublicKey
	NextPriceAccount   solana.PublicKey
	PreviousSlot       uint64
	PreviousPrice      uint64
	PreviousConfidence uint64
	Drv3               uint64
	Aggregate          PriceInfo
	// PriceComponents holds only the trailing entries with trading status, in wire order.
	PriceComponents []PriceInfo
}

// HasMagic reports whether the account carries the oracle magic marker.
func (a Account) HasMagic() bool {
	return a.Magic == Magic
}

// Decode parses raw account bytes. The trailing PriceInfo sequence is read greedily
// until fewer than PriceInfoSize bytes remain; leftover bytes are ignored.
func Decode(data []byte) (Account, error) {
	if len(data) < FixedPrefixSize {
		return Account{}, &MalformedAccountError{Size: len(data), Need: FixedPrefixSize}
	}

	r := codec.NewReader(data)
	ar := accountReader{r: r}

	var acct Account
	acct.Magic = ar.uint32("magic")
	acct.Version = ar.uint32("version")
	acct.OracleType = ar.uint32("oracle_type")
	acct.Size = ar.uint32("size")
	acct.PriceType = ar.uint32("price_type")
	acct.Exponent = ar.int32("exponent")
	acct.NumComponentPrices = ar.uint32("num_component_prices")
	acct.NumQuoters = ar.uint32("num_quoters")
	acct.LastSlot = ar.uint64("last_slot")
	acct.ValidSlot = ar.uint64("valid_slot")
	acct.TWAP = ar.ema("twap")
	acct.TWAC = ar.ema("twac")
	acct.Drv1 = ar.uint64("drv1")
	acct.Drv2 = ar.uint64("drv2")
	acct.ProductAccountKey = ar.publicKey("product_account_key")
	acct.NextPriceAccount = ar.publicKey("next_price_account_key")
	acct.PreviousSlot = ar.uint64("previous_slot")
	acct.PreviousPrice = ar.uint64("previous_price")
	acct.PreviousConfidence = ar.uint64("previous_confidence")
	acct.Drv3 = ar.uint64("drv3")
	acct.Aggregate = ar.priceInfo("aggregate")
	if ar.err != nil {
		return Account{}, ar.err
	}

	components := make([]PriceInfo, 0, r.Remaining()/PriceInfoSize)
	for i := 0; r.Remaining() >= PriceInfoSize; i++ {
		info, err := DecodePriceInfo(r)
		if err != nil {
			return Account{}, fmt.Errorf("price component %d: %w", i, err)
		}
		if info.Trading() {
			components = append(components, info)
		}
	}
	acct.PriceComponents = components

	return acct, nil
}

// accountReader keeps the first error so the header can be read field by field.
type accountReader struct {
	r   *codec.Reader
	err error
}

func (a *accountReader) fail(field string, err error) {
	a.err = fmt.Errorf("oracle account %s: %w", field, err)
}

func (a *accountReader) uint32(field string) uint32 {
	if a.err != nil {
		return 0
	}
	v, err := a.r.Uint32()
	if err != nil {
		a.fail(field, err)
	}
	return v
}

func (a *accountReader) int32(field string) int32 {
	if a.err != nil {
		return 0
	}
	v, err := a.r.Int32()
	if err != nil {
		a.fail(field, err)
	}
	return v
}

func (a *accountReader) uint64(field string) uint64 {
	if a.err != nil {
		return 0
	}
	v, err := a.r.Uint64()
	if err != nil {
		a.fail(field, err)
	}
	return v
}

func (a *accountReader) publicKey(field string) solana.PublicKey {
	if a.err != nil {
		return solana.PublicKey{}
	}
	v, err := a.r.PublicKey()
	if err != nil {
		a.fail(field, err)
	}
	return v
}

func (a *accountReader) ema(field string) EMA {
	if a.err != nil {
		return EMA{}
	}
	v, err := DecodeEMA(a.r)
	if err != nil {
		a.fail(field, err)
	}
	return v
}

func (a *accountReader) priceInfo(field string) PriceInfo {
	if a.err != nil {
		return PriceInfo{}
	}
	v, err := DecodePriceInfo(a.r)
	if err != nil {
		a.fail(field, err)
	}
	return v
}
