// Package catalog serves the read-only product list of the storefront.
package catalog

import (
	"cmp"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"gopkg.in/yaml.v3"
)

const AllCategories = "All"

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

//go:embed products.yaml
var defaultProducts []byte

type file struct {
	Products []domain.Product `yaml:"products"`
}

type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// Query narrows and orders the product list. Zero MaxPrice means no upper bound.
type Query struct {
	Category string
	MinPrice int64
	MaxPrice int64
	Sort     string
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return parse(defaultProducts)
}

// Load reads a catalog file in the same YAML layout as the embedded one.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c := &Catalog{
		products: f.Products,
		byID:     make(map[string]int, len(f.Products)),
	}

	for i, p := range f.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product[%d] has empty id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product[%s] is duplicated", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product[%s] has negative price", p.ID)
		}
		c.byID[p.ID] = i
	}

	return c, nil
}

func (c *Catalog) Products() []domain.Product {
	return slices.Clone(c.products)
}

func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Categories lists "All" followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	categories := []string{AllCategories}
	for _, p := range c.products {
		if !slices.Contains(categories, p.Category) {
			categories = append(categories, p.Category)
		}
	}
	return categories
}

func (c *Catalog) MaxPrice() int64 {
	var highest int64
	for _, p := range c.products {
		highest = max(highest, p.Price)
	}
	return highest
}

func (c *Catalog) Filter(q Query) []domain.Product {
	out := slices.DeleteFunc(slices.Clone(c.products), func(p domain.Product) bool {
		if q.Category != "" && q.Category != AllCategories && p.Category != q.Category {
			return true
		}
		if p.Price < q.MinPrice {
			return true
		}
		return q.MaxPrice > 0 && p.Price > q.MaxPrice
	})

	slices.SortStableFunc(out, compareBy(q.Sort))

	return out
}

func compareBy(sort string) func(a, b domain.Product) int {
	switch sort {
	case SortPriceAsc:
		return func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		// newest first; numeric ids grow over time
		return func(a, b domain.Product) int { return cmp.Compare(numericID(b.ID), numericID(a.ID)) }
	}
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
