package catalog

import (
	"strings"

	"github.com/slerbakk/storefront/internal/domain"
)

// DropdownLimit is how many matches the search box shows.
const DropdownLimit = 5

// Search returns the products whose title, description or any tag contains
// term, ignoring case, in their original order. A blank term matches
// nothing. limit <= 0 returns every match.
func Search(products []domain.Product, term string, limit int) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []domain.Product{}
	}

	found := []domain.Product{}
	for _, p := range products {
		if !matchesTerm(p, needle) {
			continue
		}
		found = append(found, p)
		if limit > 0 && len(found) == limit {
			break
		}
	}
	return found
}

func matchesTerm(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
