// Package catalog holds the read-only menu: items, deals and categories.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/example/buttg/pkg/models"
	"github.com/spf13/viper"
)

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "All"

type SortOrder string

const (
	SortByName    SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
)

// Filter narrows a menu listing. Zero values mean "no restriction".
type Filter struct {
	Category string
	Query    string
	MinPrice int64
	MaxPrice int64
	Sort     SortOrder
}

type Catalog struct {
	items []models.MenuItem
	deals []models.Deal
	byID  map[string]models.MenuItem
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := New(menuItems, deals)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// New validates items and deals and indexes them by id. Deal ids share the
// id space with menu items because both can be added to a cart.
func New(items []models.MenuItem, deals []models.Deal) (*Catalog, error) {
	c := &Catalog{
		items: slices.Clone(items),
		deals: slices.Clone(deals),
		byID:  make(map[string]models.MenuItem, len(items)+len(deals)),
	}

	for _, item := range items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %q", item.ID)
		}
		c.byID[item.ID] = item
	}
	for _, deal := range deals {
		if deal.ID == "" || deal.Price <= 0 {
			return nil, fmt.Errorf("deal %q needs an id and a positive price", deal.Name)
		}
		if _, dup := c.byID[deal.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %q", deal.ID)
		}
		c.byID[deal.ID] = deal.MenuItem()
	}
	return c, nil
}

func validateItem(item models.MenuItem) error {
	if item.ID == "" || item.Name == "" {
		return fmt.Errorf("menu item %q needs an id and a name", item.ID)
	}
	if item.Price <= 0 {
		return fmt.Errorf("menu item %q has non-positive price", item.ID)
	}
	if _, ok := models.ParseCategory(string(item.Category)); !ok {
		return fmt.Errorf("menu item %q has unknown category %q", item.ID, item.Category)
	}
	seen := make(map[string]bool, len(item.Sizes))
	for _, s := range item.Sizes {
		if s.Name == "" || s.Price <= 0 {
			return fmt.Errorf("menu item %q has an invalid size %+v", item.ID, s)
		}
		if seen[s.Name] {
			return fmt.Errorf("menu item %q repeats size %q", item.ID, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Load reads a catalog file with top-level "items" and "deals" keys. Any
// format viper understands (yaml, json, toml) works.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file struct {
		Items []models.MenuItem `mapstructure:"items"`
		Deals []models.Deal     `mapstructure:"deals"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return New(file.Items, file.Deals)
}

// Item looks up a purchasable item or deal by id.
func (c *Catalog) Item(id string) (models.MenuItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *Catalog) Deals() []models.Deal {
	return slices.Clone(c.deals)
}

// CategoryNames returns "All" followed by every category that has items.
func (c *Catalog) CategoryNames() []string {
	names := []string{AllCategories}
	for _, cat := range models.Categories {
		if cat == models.CategoryDeals {
			continue
		}
		if slices.ContainsFunc(c.items, func(m models.MenuItem) bool { return m.Category == cat }) {
			names = append(names, string(cat))
		}
	}
	return names
}

func (c *Catalog) Popular() []models.MenuItem {
	var out []models.MenuItem
	for _, item := range c.items {
		if item.IsPopular {
			out = append(out, item)
		}
	}
	return out
}

// Related returns up to limit other items from the same category.
func (c *Catalog) Related(item models.MenuItem, limit int) []models.MenuItem {
	var out []models.MenuItem
	for _, other := range c.items {
		if len(out) == limit {
			break
		}
		if other.Category == item.Category && other.ID != item.ID {
			out = append(out, other)
		}
	}
	return out
}

// List applies f to the menu items. Deals are listed separately.
func (c *Catalog) List(f Filter) []models.MenuItem {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if f.Category != "" && f.Category != AllCategories && !strings.EqualFold(string(item.Category), f.Category) {
			continue
		}
		if query != "" && !matches(item, query) {
			continue
		}
		if item.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && item.Price > f.MaxPrice {
			continue
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b models.MenuItem) int {
		switch f.Sort {
		case SortPriceLow:
			return cmp.Compare(a.Price, b.Price)
		case SortPriceHigh:
			return cmp.Compare(b.Price, a.Price)
		default:
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	})
	return out
}

func matches(item models.MenuItem, query string) bool {
	return strings.Contains(strings.ToLower(item.Name), query) ||
		strings.Contains(strings.ToLower(item.Description), query) ||
		strings.Contains(strings.ToLower(string(item.Category)), query)
}
