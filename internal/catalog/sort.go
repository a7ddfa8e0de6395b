package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/slerbakk/storefront/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOption string

const (
	SortDefault       SortOption = "default"
	SortPriceLowHigh  SortOption = "price-low-high"
	SortPriceHighLow  SortOption = "price-high-low"
	SortNameAZ        SortOption = "name-a-z"
	SortNameZA        SortOption = "name-z-a"
	SortRatingHighLow SortOption = "rating-high-low"
)

var ErrUnknownSortOption = errors.New("unknown sort option")

// SortOptions lists every option with its display label, in menu order.
var SortOptions = []struct {
	Value SortOption
	Label string
}{
	{SortDefault, "Default"},
	{SortPriceLowHigh, "Price: Low to High"},
	{SortPriceHighLow, "Price: High to Low"},
	{SortNameAZ, "Name: A to Z"},
	{SortNameZA, "Name: Z to A"},
	{SortRatingHighLow, "Rating: High to Low"},
}

// ParseSortOption accepts any listed option. An empty string means default.
func ParseSortOption(s string) (SortOption, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortDefault, nil
	}
	for _, opt := range SortOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortOption, s)
}

// Sort returns a sorted copy of products. Prices compare by effective
// (discounted) price, names by English collation. Ties keep the upstream
// order, and unknown options leave it untouched.
func Sort(products []domain.Product, opt SortOption) []domain.Product {
	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []domain.Product{}
	}

	switch opt {
	case SortPriceLowHigh:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return a.EffectivePrice().Cmp(b.EffectivePrice())
		})
	case SortPriceHighLow:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return b.EffectivePrice().Cmp(a.EffectivePrice())
		})
	case SortNameAZ:
		c := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortNameZA:
		c := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return c.CompareString(b.Title, a.Title)
		})
	case SortRatingHighLow:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	}
	return sorted
}
