package oracle

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAccountViewOrder(t *testing.T) {
	got, err := Parse(encodeAccount(sampleAccount(), []PriceInfo{{Price: 1, Status: 1}}))
	require.NoError(t, err)

	want := []string{
		"magic", "version", "oracle_type", "size", "price_type", "exponent",
		"num_component_prices", "num_quoters", "last_slot", "valid_slot",
		"twap", "twac", "drv1", "drv2", "product_account_key", "next_price_account_key",
		"previous_slot", "previous_price", "previous_confidence", "drv3",
		"aggregate", "price_components",
	}
	assert.Equal(t, want, got.View().Keys())

	agg, ok := got.View().Get("aggregate")
	require.True(t, ok)
	assert.Equal(t, []string{"price", "confidence", "status", "corporate_action", "publish_slot"}, agg.(View).Keys())

	twap, ok := got.View().Get("twap")
	require.True(t, ok)
	assert.Equal(t, []string{"value", "fraction"}, twap.(View).Keys())
}

func TestAccountViewPublicKeyStable(t *testing.T) {
	acct := sampleAccount()
	first, err := Parse(encodeAccount(acct, nil))
	require.NoError(t, err)
	second, err := Parse(encodeAccount(acct, nil))
	require.NoError(t, err)

	k1, _ := first.View().Get("product_account_key")
	k2, _ := second.View().Get("product_account_key")
	assert.Equal(t, k1, k2)
	assert.Equal(t, acct.ProductAccountKey.String(), k1)

	other, _ := first.View().Get("next_price_account_key")
	assert.NotEqual(t, k1, other)
}

func TestViewMarshalJSON(t *testing.T) {
	acct := sampleAccount()
	acct.Exponent = -6
	acct.Aggregate.Price = 5000000
	got, err := Parse(encodeAccount(acct, []PriceInfo{{Price: 4990000, Status: 1}}))
	require.NoError(t, err)

	data, err := json.Marshal(got.View())
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, `{"magic":2712847316,"version":2,`), text)
	assert.Contains(t, text, `"aggregate":{"price":5,"confidence":25,"status":1,`)
	assert.Contains(t, text, `"price_components":[{"price":4.99,"confidence":0,`)
	assert.Contains(t, text, `"fraction":{"numerator":7,"denominator":9}`)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, acct.ProductAccountKey.String(), generic["product_account_key"])
}

func TestViewMarshalJSONEmptyComponents(t *testing.T) {
	got, err := Parse(encodeAccount(sampleAccount(), nil))
	require.NoError(t, err)

	data, err := json.Marshal(got.View())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), `"price_components":[]}`), string(data))
}

func TestViewMarshalYAML(t *testing.T) {
	got, err := Parse(encodeAccount(sampleAccount(), []PriceInfo{{Price: 100000000, Status: 1}}))
	require.NoError(t, err)

	data, err := yaml.Marshal(got.View())
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "magic: 2712847316\nversion: 2\n"), text)
	assert.Contains(t, text, "price: 1234.56789\n")
	assert.Less(t, strings.Index(text, "twap:"), strings.Index(text, "twac:"))

	var decoded yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	mapping := decoded.Content[0]
	assert.Equal(t, "magic", mapping.Content[0].Value)
	assert.Equal(t, "price_components", mapping.Content[len(mapping.Content)-2].Value)
	assert.Len(t, mapping.Content[len(mapping.Content)-1].Content, 1)
}
