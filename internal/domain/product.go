package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice"`
	Image           Image               `json:"image"`
	Rating          float64             `json:"rating"`
	Tags            []string            `json:"tags"`
	Reviews         []Review            `json:"reviews,omitempty"`
}

type Review struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// EffectivePrice is the discounted price when one is set and strictly lower
// than the list price, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid && p.DiscountedPrice.Decimal.LessThan(p.Price) {
		return p.DiscountedPrice.Decimal
	}
	return p.Price
}

// IsDiscounted reports whether EffectivePrice differs from Price.
func (p Product) IsDiscounted() bool {
	return !p.EffectivePrice().Equal(p.Price)
}

// Image is delivered upstream either as a bare URL string or as {url, alt}.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

func (i *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = Image{}
		return nil
	}

	if data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return fmt.Errorf("decode image url: %w", err)
		}
		*i = Image{URL: url}
		return nil
	}

	type plain Image
	var img plain
	if err := json.Unmarshal(data, &img); err != nil {
		return fmt.Errorf("decode image object: %w", err)
	}
	*i = Image(img)
	return nil
}
