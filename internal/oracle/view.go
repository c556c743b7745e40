package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Field is one key/value entry of a View.
type Field struct {
	Key   string
	Value interface{}
}

// View is an ordered key/value projection of a record. Values are scalars,
// decimal.Decimal, nested Views or []View.
type View []Field

// Get returns the value stored under key.
func (v View) Get(key string) (interface{}, bool) {
	for _, f := range v {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field keys in order.
func (v View) Keys() []string {
	keys := make([]string, 0, len(v))
	for _, f := range v {
		keys = append(keys, f.Key)
	}
	return keys
}

// MarshalJSON encodes the View as a JSON object preserving field order.
// Decimals are written as bare JSON numbers.
func (v View) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalViewValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalViewValue(value interface{}) ([]byte, error) {
	switch typed := value.(type) {
	case decimal.Decimal:
		return []byte(typed.String()), nil
	default:
		return json.Marshal(typed)
	}
}

// MarshalYAML encodes the View as a YAML mapping preserving field order.
func (v View) MarshalYAML() (interface{}, error) {
	return v.yamlNode()
}

func (v View) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range v {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		val, err := yamlViewValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func yamlViewValue(value interface{}) (*yaml.Node, error) {
	switch typed := value.(type) {
	case decimal.Decimal:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: typed.String()}, nil
	case View:
		return typed.yamlNode()
	case []View:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range typed {
			child, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(typed); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// View projects the fraction.
func (f Fraction) View() View {
	return View{
		{"numerator", f.Numerator},
		{"denominator", f.Denominator},
	}
}

// View projects the normalized EMA.
func (e NormalizedEMA) View() View {
	return View{
		{"value", e.Value},
		{"fraction", e.Fraction.View()},
	}
}

// View projects the normalized price observation.
func (p NormalizedPriceInfo) View() View {
	return View{
		{"price", p.Price},
		{"confidence", p.Confidence},
		{"status", p.Status},
		{"corporate_action", p.CorporateAction},
		{"publish_slot", p.PublishSlot},
	}
}

// View projects the normalized publisher component.
func (c NormalizedPriceComponent) View() View {
	return View{
		{"publisher", c.Publisher.String()},
		{"aggregate", c.Aggregate.View()},
		{"latest", c.Latest.View()},
	}
}

// View projects the normalized account in wire field order.
func (a NormalizedAccount) View() View {
	components := make([]View, 0, len(a.PriceComponents))
	for _, pc := range a.PriceComponents {
		components = append(components, pc.View())
	}

	return View{
		{"magic", a.Magic},
		{"version", a.Version},
		{"oracle_type", a.OracleType},
		{"size", a.Size},
		{"price_type", a.PriceType},
		{"exponent", a.Exponent},
		{"num_component_prices", a.NumComponentPrices},
		{"num_quoters", a.NumQuoters},
		{"last_slot", a.LastSlot},
		{"valid_slot", a.ValidSlot},
		{"twap", a.TWAP.View()},
		{"twac", a.TWAC.View()},
		{"drv1", a.Drv1},
		{"drv2", a.Drv2},
		{"product_account_key", a.ProductAccountKey.String()},
		{"next_price_account_key", a.NextPriceAccount.String()},
		{"previous_slot", a.PreviousSlot},
		{"previous_price", a.PreviousPrice},
		{"previous_confidence", a.PreviousConfidence},
		{"drv3", a.Drv3},
		{"aggregate", a.Aggregate.View()},
		{"price_components", components},
	}
}
