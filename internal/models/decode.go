package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnmarshalJSON accepts the shapes older import runs wrote: fractional or
// quoted prices, numeric sizes and plain color names.
func (p *ProductRecord) UnmarshalJSON(data []byte) error {
	type plain ProductRecord
	var raw struct {
		plain
		Price    json.RawMessage `json:"price"`
		OldPrice json.RawMessage `json:"oldPrice"`
		Sizes    json.RawMessage `json:"sizes"`
		Colors   json.RawMessage `json:"colors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ProductRecord(raw.plain)

	price, err := decodePrice(raw.Price)
	if err != nil {
		return fmt.Errorf("product %s: price: %w", p.ID, err)
	}
	p.Price = price.OrElse(0)

	if p.OldPrice, err = decodePrice(raw.OldPrice); err != nil {
		return fmt.Errorf("product %s: oldPrice: %w", p.ID, err)
	}

	sizes, err := decodeAny(raw.Sizes)
	if err != nil {
		return fmt.Errorf("product %s: sizes: %w", p.ID, err)
	}
	p.Sizes = Sizes(sizes)

	colors, err := decodeAny(raw.Colors)
	if err != nil {
		return fmt.Errorf("product %s: colors: %w", p.ID, err)
	}
	p.Colors = Colors(colors)
	return nil
}

func decodeAny(data json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodePrice truncates a number or numeric string to whole units
func decodePrice(data json.RawMessage) (Optional[int64], error) {
	v, err := decodeAny(data)
	if err != nil || v == nil {
		return None[int64](), err
	}
	switch val := v.(type) {
	case float64:
		return Some(decimal.NewFromFloat(val).IntPart()), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", ".")
		if s == "" {
			return None[int64](), nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return None[int64](), fmt.Errorf("not a number: %q", val)
		}
		return Some(d.IntPart()), nil
	}
	return None[int64](), fmt.Errorf("unexpected value %v", v)
}

// Sizes converts a raw size list. Numbers become their decimal text.
// A list with nothing usable in it is absent.
func Sizes(v any) Optional[[]string] {
	switch val := v.(type) {
	case nil:
		return None[[]string]()
	case []any:
		if len(val) == 0 {
			return Some([]string{})
		}
	case []string:
		if len(val) == 0 {
			return Some([]string{})
		}
	}
	list := SourceRecord{"sizes": v}.Strings("sizes")
	if len(list) == 0 {
		return None[[]string]()
	}
	return Some(list)
}

// Colors converts a raw color list of names or per-locale objects.
// A list with nothing usable in it is absent.
func Colors(v any) Optional[[]Color] {
	list, ok := v.([]any)
	if !ok {
		return None[[]Color]()
	}
	if len(list) == 0 {
		return Some([]Color{})
	}
	out := make([]Color, 0, len(list))
	for _, item := range list {
		switch val := item.(type) {
		case string:
			if name := strings.TrimSpace(val); name != "" {
				out = append(out, Color{NameDE: name, NameFR: name, NameEN: name})
			}
		case map[string]any:
			c := SourceRecord(val)
			color := Color{
				NameDE: c.String("name_de", "name", "name_fr"),
				NameFR: c.String("name_fr", "name"),
				NameEN: c.String("name_en", "name", "name_fr"),
			}
			if color != (Color{}) {
				out = append(out, color)
			}
		}
	}
	if len(out) == 0 {
		return None[[]Color]()
	}
	return Some(out)
}
