// Package catalog serves the read-only product, expert, and management-guide
// directory from data compiled into the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"modam/internal/models"
)

//go:embed data/catalog.yaml
var rawCatalog []byte

// Product categories.
const (
	ProductShampoo    = "shampoo"
	ProductTonic      = "tonic"
	ProductSupplement = "supplement"
	ProductOther      = "other"
)

// ValidProductCategory reports whether category names a known product group.
func ValidProductCategory(category string) bool {
	switch category {
	case ProductShampoo, ProductTonic, ProductSupplement, ProductOther:
		return true
	}
	return false
}

// Product is a care-product directory entry.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Description string  `json:"description" yaml:"description"`
	PriceRange  string  `json:"priceRange" yaml:"price_range"`
	Rating      float64 `json:"rating" yaml:"rating"`
	ReviewCount int     `json:"reviewCount" yaml:"review_count"`
}

// Expert is a consultable specialist directory entry.
type Expert struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Title      string  `json:"title" yaml:"title"`
	Hospital   string  `json:"hospital" yaml:"hospital"`
	Specialty  string  `json:"specialty" yaml:"specialty"`
	Rating     float64 `json:"rating" yaml:"rating"`
	ConsultFee string  `json:"consultFee,omitempty" yaml:"consult_fee"`
}

// Catalog is the loaded directory.
type Catalog struct {
	Products []Product                `yaml:"products"`
	Experts  []Expert                 `yaml:"experts"`
	Guides   []models.ManagementGuide `yaml:"guides"`
}

// Load parses the embedded catalog data. It fails only if the embedded
// data is malformed or incomplete, which is a build defect.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("parse catalog data: %w", err)
	}
	for _, p := range c.Products {
		if !ValidProductCategory(p.Category) {
			return nil, fmt.Errorf("catalog product %s has unknown category %q", p.ID, p.Category)
		}
	}
	for _, stage := range models.Stages {
		if _, ok := c.guideIndex()[stage]; !ok {
			return nil, fmt.Errorf("catalog is missing the %s management guide", stage)
		}
	}
	return &c, nil
}

func (c *Catalog) guideIndex() map[string]models.ManagementGuide {
	idx := make(map[string]models.ManagementGuide, len(c.Guides))
	for _, g := range c.Guides {
		idx[g.Stage] = g
	}
	return idx
}

// FilterProducts returns products matching the category and free-text query.
// Empty filters match everything.
func (c *Catalog) FilterProducts(category, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GuideForStage returns the management guide for a diagnosis stage.
func (c *Catalog) GuideForStage(stage string) (models.ManagementGuide, bool) {
	g, ok := c.guideIndex()[stage]
	return g, ok
}
