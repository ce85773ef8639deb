package models

import "strings"

// Category is one of the fixed menu sections.
type Category string

const (
	CategoryBurgers    Category = "Burgers"
	CategoryPizzas     Category = "Pizzas"
	CategoryShawarmas  Category = "Shawarmas"
	CategorySandwiches Category = "Sandwiches"
	CategoryWings      Category = "Wings"
	CategoryFries      Category = "Fries"
	CategoryDrinks     Category = "Drinks"
	CategoryDeals      Category = "Deals"
)

// Categories lists every menu section in display order.
var Categories = []Category{
	CategoryBurgers,
	CategoryPizzas,
	CategoryShawarmas,
	CategorySandwiches,
	CategoryWings,
	CategoryFries,
	CategoryDrinks,
	CategoryDeals,
}

// ParseCategory matches name against the known categories, ignoring case.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}

// Size is a priced variant of a menu item, e.g. a small or large pizza.
type Size struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// MenuItem prices are in whole rupees.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Sizes       []Size   `json:"sizes,omitempty"`
	IsPopular   bool     `json:"isPopular,omitempty"`
	IsNew       bool     `json:"isNew,omitempty"`
}

// SizeByName returns the variant called name.
func (m MenuItem) SizeByName(name string) (Size, bool) {
	for _, s := range m.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return Size{}, false
}

// StartingPrice is the cheapest way to order the item.
func (m MenuItem) StartingPrice() int64 {
	if len(m.Sizes) == 0 {
		return m.Price
	}
	return m.Sizes[0].Price
}

// Deal is a fixed-price combo shown on the deals page.
type Deal struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Price int64    `json:"price"`
	Image string   `json:"image,omitempty"`
	Tag   string   `json:"tag,omitempty"`
}

// MenuItem converts the deal into something a cart can hold.
func (d Deal) MenuItem() MenuItem {
	return MenuItem{
		ID:          d.ID,
		Name:        d.Name,
		Price:       d.Price,
		Category:    CategoryDeals,
		Description: strings.Join(d.Items, ", "),
		Image:       d.Image,
	}
}
