// Package cart implements the shopping cart: a pure transition function over
// Cart values and a Store that persists the result per session.
package cart

import (
	"slices"

	"github.com/example/buttg/pkg/models"
)

// noSize stands in for the size name of lines without a size variant.
const noSize = "none"

// MaxQuantity bounds the quantity of a single line. Adds that would exceed it
// saturate at it.
const MaxQuantity = 99

// Key identifies a cart line. Adding an item whose key is already present
// merges into that line.
type Key struct {
	ItemID string
	Size   string
}

// NewKey builds the key for itemID with an optional size name; an empty
// sizeName means the base price variant.
func NewKey(itemID, sizeName string) Key {
	if sizeName == "" {
		sizeName = noSize
	}
	return Key{ItemID: itemID, Size: sizeName}
}

func (k Key) String() string {
	return k.ItemID + "/" + k.Size
}

// Line is one row of the cart. Price is the unit price captured when the line
// was created and is never refreshed afterwards.
type Line struct {
	Item         models.MenuItem `json:"item"`
	Quantity     int             `json:"quantity"`
	SelectedSize *models.Size    `json:"selectedSize,omitempty"`
	Price        int64           `json:"price"`
}

func (l Line) Key() Key {
	if l.SelectedSize == nil {
		return NewKey(l.Item.ID, "")
	}
	return NewKey(l.Item.ID, l.SelectedSize.Name)
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is an ordered list of lines with unique keys and quantities >= 1.
type Cart []Line

// Total sums unit price times quantity over all lines.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c {
		total += l.Subtotal()
	}
	return total
}

// Count sums quantities over all lines.
func (c Cart) Count() int {
	count := 0
	for _, l := range c {
		count += l.Quantity
	}
	return count
}

// Find returns the index of the line with key k, or -1.
func (c Cart) Find(k Key) int {
	return slices.IndexFunc(c, func(l Line) bool { return l.Key() == k })
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	for i, l := range c {
		if l.SelectedSize != nil {
			size := *l.SelectedSize
			l.SelectedSize = &size
		}
		out[i] = l
	}
	return out
}

type Op int

const (
	OpAdd Op = iota + 1
	OpRemove
	OpUpdate
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpUpdate:
		return "update"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Command describes one cart mutation. Build it with Add, Remove, Update or
// Clear rather than by hand.
type Command struct {
	Op       Op
	Item     models.MenuItem
	Size     *models.Size
	Key      Key
	Quantity int
}

// Add merges quantity of item (optionally in size) into the cart.
func Add(item models.MenuItem, quantity int, size *models.Size) Command {
	cmd := Command{Op: OpAdd, Item: item, Quantity: quantity, Key: NewKey(item.ID, "")}
	if size != nil {
		s := *size
		cmd.Size = &s
		cmd.Key = NewKey(item.ID, s.Name)
	}
	return cmd
}

func Remove(itemID, sizeName string) Command {
	return Command{Op: OpRemove, Key: NewKey(itemID, sizeName)}
}

// Update sets the quantity of a line; quantity <= 0 removes it.
func Update(itemID string, quantity int, sizeName string) Command {
	return Command{Op: OpUpdate, Key: NewKey(itemID, sizeName), Quantity: quantity}
}

func Clear() Command {
	return Command{Op: OpClear}
}

// Apply returns the cart that results from running cmd against c. The input
// cart is not modified.
func Apply(c Cart, cmd Command) Cart {
	switch cmd.Op {
	case OpAdd:
		return add(c, cmd)
	case OpRemove:
		return remove(c, cmd.Key)
	case OpUpdate:
		if cmd.Quantity <= 0 {
			return remove(c, cmd.Key)
		}
		out := c.clone()
		if i := out.Find(cmd.Key); i >= 0 {
			out[i].Quantity = min(cmd.Quantity, MaxQuantity)
		}
		return out
	case OpClear:
		return Cart{}
	default:
		return c.clone()
	}
}

func add(c Cart, cmd Command) Cart {
	out := c.clone()
	if cmd.Quantity <= 0 {
		return out
	}
	if i := out.Find(cmd.Key); i >= 0 {
		out[i].Quantity = saturatingAdd(out[i].Quantity, cmd.Quantity)
		return out
	}

	price := cmd.Item.Price
	if cmd.Size != nil {
		price = cmd.Size.Price
	}
	return append(out, Line{
		Item:         cmd.Item,
		Quantity:     min(cmd.Quantity, MaxQuantity),
		SelectedSize: cmd.Size,
		Price:        price,
	})
}

// saturatingAdd adds two positive quantities without exceeding MaxQuantity.
func saturatingAdd(a, b int) int {
	if b >= MaxQuantity-a {
		return MaxQuantity
	}
	return a + b
}

func remove(c Cart, k Key) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c.clone() {
		if l.Key() != k {
			out = append(out, l)
		}
	}
	return out
}
